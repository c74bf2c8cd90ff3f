package router

import (
	"court-booking-service/internal/module/booking/handler"
	"court-booking-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func Initialize(app *fiber.App, handlerBooking *handler.BookingHandler, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	Api := app.Group("/api")

	// public routes
	v1 := Api.Group("/v1")
	v1.Get("/bookings", m.ValidateToken, handlerBooking.ShowBookings)
	v1.Post("/bookings", m.ValidateToken, handlerBooking.CreateBooking)
	v1.Get("/bookings/:id/status", m.ValidateToken, handlerBooking.CheckBookingStatus)
	v1.Post("/bookings/:id/cancel", m.ValidateToken, handlerBooking.CancelBooking)
	v1.Post("/bookings/:id/check-in", m.ValidateToken, handlerBooking.CheckInBooking)
	v1.Post("/bookings/:id/complete", m.ValidateToken, handlerBooking.CompleteBooking)

	// provider webhook authenticates through its signature, not a user token
	v1.Post("/payments/notification", handlerBooking.PaymentNotification)

	private := Api.Group("/private")
	private.Post("/sweep", handlerBooking.SweepStaleBookings)
	private.Get("/bookings/pending-count", handlerBooking.CountPendingPayment)

	return app

}
