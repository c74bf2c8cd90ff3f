package handler

import (
	"context"
	"fmt"
	"strconv"

	"court-booking-service/internal/module/booking/models/request"
	"court-booking-service/internal/module/booking/usecases"
	"court-booking-service/internal/pkg/errors"
	"court-booking-service/internal/pkg/helpers"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type BookingHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
	Publish   message.Publisher
}

func (h *BookingHandler) CreateBooking(ctx *fiber.Ctx) error {
	var req request.CreateBooking
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	profileID := ctx.Locals("profile_id").(int64)
	emailUser := ctx.Locals("email_user").(string)

	// call usecase to create booking
	resp, err := h.Usecase.CreateBooking(ctx.UserContext(), &req, profileID, emailUser)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success create booking, silakan selesaikan pembayaran")
}

func (h *BookingHandler) ShowBookings(ctx *fiber.Ctx) error {
	profileID := ctx.Locals("profile_id").(int64)

	// call usecase to show bookings
	resp, err := h.Usecase.ShowBookings(ctx.UserContext(), profileID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error show bookings: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success show bookings")
}

func (h *BookingHandler) CheckBookingStatus(ctx *fiber.Ctx) error {
	bookingID := ctx.Params("id")
	if bookingID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("booking id is required"))
	}

	// call usecase to check booking status against the provider
	resp, err := h.Usecase.CheckBookingStatus(ctx.UserContext(), bookingID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error check booking status: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success check booking status")
}

func (h *BookingHandler) CancelBooking(ctx *fiber.Ctx) error {
	bookingID := ctx.Params("id")
	if bookingID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("booking id is required"))
	}

	profileID := ctx.Locals("profile_id").(int64)

	// call usecase to cancel booking
	if err := h.Usecase.CancelBooking(ctx.UserContext(), bookingID, profileID); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error cancel booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success cancel booking")
}

func (h *BookingHandler) CheckInBooking(ctx *fiber.Ctx) error {
	bookingID := ctx.Params("id")
	if bookingID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("booking id is required"))
	}

	// call usecase to check in booking
	if err := h.Usecase.CheckInBooking(ctx.UserContext(), bookingID); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error check in booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success check in booking")
}

func (h *BookingHandler) CompleteBooking(ctx *fiber.Ctx) error {
	bookingID := ctx.Params("id")
	if bookingID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("booking id is required"))
	}

	// call usecase to complete booking
	if err := h.Usecase.CompleteBooking(ctx.UserContext(), bookingID); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error complete booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success complete booking")
}

// PaymentNotification receives the provider webhook. Malformed payloads get a
// 400 and a bad signature gets a 401; everything past that acknowledges with
// 200 so the provider stops retrying.
func (h *BookingHandler) PaymentNotification(ctx *fiber.Ctx) error {
	var req request.PaymentNotification
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse notification: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse notification"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate notification: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	// call usecase to handle payment notification
	if err := h.Usecase.HandlePaymentNotification(ctx.UserContext(), &req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error handle payment notification: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "ok")
}

func (h *BookingHandler) SweepStaleBookings(ctx *fiber.Ctx) error {
	// call usecase to sweep stale bookings
	resp, err := h.Usecase.SweepStaleBookings(ctx.UserContext())
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error sweep stale bookings: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success sweep stale bookings")
}

func (h *BookingHandler) CountPendingPayment(ctx *fiber.Ctx) error {
	courtID := ctx.Query("court_id")
	courtIDInt64, err := strconv.ParseInt(courtID, 10, 64)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse court id: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse court id"))
	}

	// call usecase to count pending payment
	resp, err := h.Usecase.CountPendingPayment(ctx.UserContext(), courtIDInt64)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error count pending payment: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success count pending payment")
}

// CheckPaymentExpired is the asynq task handler fired at a booking's payment
// deadline.
func (h *BookingHandler) CheckPaymentExpired(ctx context.Context, t *asynq.Task) error {
	var req request.PaymentExpiration
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error unmarshal payload: %v", err))
		return err
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error validate payload: %v", err))
		return err
	}

	// call usecase to check payment expired
	if err := h.Usecase.CheckPaymentExpired(ctx, &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error check payment expired: %v", err))
		return err
	}

	return nil
}

// SweepStaleBookingsTask is the asynq handler behind the periodic sweep entry.
func (h *BookingHandler) SweepStaleBookingsTask(ctx context.Context, t *asynq.Task) error {
	if _, err := h.Usecase.SweepStaleBookings(ctx); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error sweep stale bookings: %v", err))
		return err
	}
	return nil
}

func (h *BookingHandler) ConsumeBookingStatusQueue(msg *message.Message) error {
	msg.Ack() // acknowledge message
	var req request.BookingStatusEvent
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error unmarshal message: %v", err))

		// publish to poison queue
		reqPoisoned := request.PoisonedQueue{
			TopicTarget: "booking_status",
			ErrorMsg:    err.Error(),
			Payload:     msg.Payload,
		}

		jsonPayload, _ := json.Marshal(reqPoisoned)

		err = h.Publish.Publish("poisoned_queue", message.NewMessage(watermill.NewUUID(), jsonPayload))
		if err != nil {
			h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error publish to poison queue: %v", err))
		}

		return err
	}

	ctx := context.Background()

	// call usecase to consume booking status queue
	if err := h.Usecase.ConsumeBookingStatusQueue(ctx, &req); err != nil {
		// publish to poison queue
		reqPoisoned := request.PoisonedQueue{
			TopicTarget: "booking_status",
			ErrorMsg:    err.Error(),
			Payload:     msg.Payload,
		}

		jsonPayload, _ := json.Marshal(reqPoisoned)
		if err := h.Publish.Publish("poisoned_queue", message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
			h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error publish to poison queue: %v", err))
		}

		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error consume booking status queue: %v", err))

		return err
	}

	return nil
}
