package usecases_test

import (
	"context"
	"testing"
	"time"

	"court-booking-service/config"
	"court-booking-service/internal/module/booking/mocks"
	"court-booking-service/internal/module/booking/models/entity"
	"court-booking-service/internal/module/booking/models/request"
	"court-booking-service/internal/module/booking/usecases"
	"court-booking-service/internal/pkg/errors"
	"court-booking-service/internal/pkg/gateway"
	gatewaymocks "court-booking-service/internal/pkg/gateway/mocks"
	log_internal "court-booking-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	uc          usecases.Usecase
	repoMock    *mocks.Repositories
	gatewayMock *gatewaymocks.Client
	p           *mockPublisher
	dateTimeNow = time.Now()
)

type mockPublisher struct {
	published map[string]int
}

// Close implements message.Publisher.
func (m *mockPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	if m.published == nil {
		m.published = make(map[string]int)
	}
	m.published[topic] += len(messages)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Midtrans: config.MidtransConfig{
			ServerKey:   "server-key",
			ExpiryHours: 1,
		},
		Booking: config.BookingConfig{
			MaxHorizonMonths:  3,
			CancelLeadMinutes: 120,
			CheckinWindowMin:  30,
			StaleAfterMinutes: 30,
		},
	}
}

func setup() {
	repoMock = new(mocks.Repositories)
	gatewayMock = new(gatewaymocks.Client)
	p = &mockPublisher{}
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	uc = usecases.New(repoMock, gatewayMock, testConfig(), log_internal.GetLogger(), p)
}

func pendingBookingMock() entity.Booking {
	return entity.Booking{
		ID:               uuid.New(),
		CourtID:          1,
		ProfileID:        7,
		StartTime:        dateTimeNow.Add(24 * time.Hour),
		EndTime:          dateTimeNow.Add(26 * time.Hour),
		Status:           entity.BookingStatusPending,
		PaymentStatus:    entity.PaymentStatusPending,
		OrderID:          "COURT-" + uuid.New().String(),
		PaymentExpiredAt: dateTimeNow.Add(time.Hour),
		PriceTotal:       200000,
		CreatedAt:        dateTimeNow,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("success, price is hours times court rate", func(t *testing.T) {
		setup()
		ctx := context.Background()
		start := dateTimeNow.Add(48 * time.Hour).Truncate(time.Hour)
		payloadMock := &request.CreateBooking{
			CourtID:   1,
			StartTime: start.Format(time.RFC3339),
			EndTime:   start.Add(2 * time.Hour).Format(time.RFC3339),
		}
		courtMock := entity.Court{ID: 1, VenueID: 1, Name: "Lapangan A", PricePerHour: 100000}

		repoMock.On("FindCourtByID", ctx, int64(1)).Return(courtMock, nil).Once()
		repoMock.On("InsertBooking", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.PriceTotal == 200000 &&
				b.Status == entity.BookingStatusPending &&
				b.PaymentStatus == entity.PaymentStatusPending
		})).Return(nil).Once()
		gatewayMock.On("CreateTransaction", ctx, mock.MatchedBy(func(req *gateway.CreateTransactionRequest) bool {
			return req.GrossAmount == 200000
		})).Return(&gateway.CreateTransactionResponse{Token: "snap-token", RedirectURL: "https://pay.example/redirect"}, nil).Once()
		repoMock.On("SetTaskScheduler", ctx, mock.AnythingOfType("time.Duration"), mock.Anything).Return("task-1", nil).Once()
		repoMock.On("UpdateBookingPayment", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.PaymentToken == "snap-token" && b.ExpireTaskID == "task-1"
		})).Return(nil).Once()

		resp, err := uc.CreateBooking(ctx, payloadMock, 7, "test@test.com")

		assert.NoError(t, err)
		assert.Equal(t, int64(200000), resp.PriceTotal)
		assert.Equal(t, "snap-token", resp.PaymentToken)
		assert.NotEmpty(t, resp.OrderID)
		repoMock.AssertExpectations(t)
		gatewayMock.AssertExpectations(t)
	})

	t.Run("start time in the past is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payloadMock := &request.CreateBooking{
			CourtID:   1,
			StartTime: dateTimeNow.Add(-time.Hour).Format(time.RFC3339),
			EndTime:   dateTimeNow.Add(time.Hour).Format(time.RFC3339),
		}

		_, err := uc.CreateBooking(ctx, payloadMock, 7, "test@test.com")

		assert.EqualError(t, err, "waktu mulai harus di masa depan")
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		start := dateTimeNow.Add(48 * time.Hour)
		payloadMock := &request.CreateBooking{
			CourtID:   1,
			StartTime: start.Format(time.RFC3339),
			EndTime:   start.Add(-time.Hour).Format(time.RFC3339),
		}

		_, err := uc.CreateBooking(ctx, payloadMock, 7, "test@test.com")

		assert.EqualError(t, err, "waktu selesai harus setelah waktu mulai")
	})

	t.Run("beyond the booking horizon is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		start := dateTimeNow.AddDate(0, 4, 0)
		payloadMock := &request.CreateBooking{
			CourtID:   1,
			StartTime: start.Format(time.RFC3339),
			EndTime:   start.Add(2 * time.Hour).Format(time.RFC3339),
		}

		_, err := uc.CreateBooking(ctx, payloadMock, 7, "test@test.com")

		assert.EqualError(t, err, "pemesanan maksimal 3 bulan ke depan")
	})

	t.Run("gateway failure cancels the created booking", func(t *testing.T) {
		setup()
		ctx := context.Background()
		start := dateTimeNow.Add(48 * time.Hour)
		payloadMock := &request.CreateBooking{
			CourtID:   1,
			StartTime: start.Format(time.RFC3339),
			EndTime:   start.Add(time.Hour).Format(time.RFC3339),
		}
		courtMock := entity.Court{ID: 1, PricePerHour: 100000}

		repoMock.On("FindCourtByID", ctx, int64(1)).Return(courtMock, nil).Once()
		repoMock.On("InsertBooking", ctx, mock.Anything).Return(nil).Once()
		gatewayMock.On("CreateTransaction", ctx, mock.Anything).Return(nil, assert.AnError).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusCancelled &&
				b.PaymentStatus == entity.PaymentStatusCancelled
		}), entity.BookingStatusPending).Return(true, nil).Once()

		_, err := uc.CreateBooking(ctx, payloadMock, 7, "test@test.com")

		assert.Error(t, err)
		assert.Equal(t, 502, errors.HttpCode(err))
		repoMock.AssertExpectations(t)
	})
}

func TestHandlePaymentNotification(t *testing.T) {
	notificationMock := func(booking entity.Booking, trxStatus string) *request.PaymentNotification {
		return &request.PaymentNotification{
			OrderID:           booking.OrderID,
			StatusCode:        "200",
			GrossAmount:       "200000.00",
			TransactionStatus: trxStatus,
			PaymentType:       "qris",
			TransactionTime:   dateTimeNow.Format("2006-01-02 15:04:05"),
			SignatureKey:      "valid-signature",
		}
	}

	t.Run("settlement confirms a pending booking", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.ExpireTaskID = "task-1"
		payloadMock := notificationMock(bookingMock, "settlement")

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "valid-signature").Return(true).Once()
		repoMock.On("MarkNotificationProcessed", mock.Anything, mock.Anything).Return(true, nil).Once()
		repoMock.On("FindBookingByOrderID", mock.Anything, bookingMock.OrderID).Return(bookingMock, nil).Once()
		repoMock.On("UpdateBookingStatus", mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusConfirmed &&
				b.PaymentStatus == entity.PaymentStatusPaid &&
				b.PaymentCompletedAt.Valid
		}), entity.BookingStatusPending).Return(true, nil).Once()
		repoMock.On("DeleteTaskScheduler", mock.Anything, "task-1").Return(nil).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.NoError(t, err)
		assert.Equal(t, 1, p.published["booking_status"])
		repoMock.AssertExpectations(t)
		gatewayMock.AssertExpectations(t)
	})

	t.Run("invalid signature is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := notificationMock(bookingMock, "settlement")
		payloadMock.SignatureKey = "tampered"

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "tampered").Return(false).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.Error(t, err)
		assert.Equal(t, 401, errors.HttpCode(err))
		repoMock.AssertNotCalled(t, "FindBookingByOrderID", mock.Anything, mock.Anything)
	})

	t.Run("duplicate delivery is acknowledged without reconciling", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := notificationMock(bookingMock, "settlement")

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "valid-signature").Return(true).Once()
		repoMock.On("MarkNotificationProcessed", mock.Anything, mock.Anything).Return(false, nil).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "FindBookingByOrderID", mock.Anything, mock.Anything)
		repoMock.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown order is acknowledged", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := notificationMock(bookingMock, "settlement")

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "valid-signature").Return(true).Once()
		repoMock.On("MarkNotificationProcessed", mock.Anything, mock.Anything).Return(true, nil).Once()
		repoMock.On("FindBookingByOrderID", mock.Anything, bookingMock.OrderID).Return(entity.Booking{}, errors.NotFound("booking tidak ditemukan")).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.NoError(t, err)
	})

	t.Run("notification for a cancelled booking never resurrects it", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.Status = entity.BookingStatusCancelled
		bookingMock.PaymentStatus = entity.PaymentStatusCancelled
		payloadMock := notificationMock(bookingMock, "settlement")

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "valid-signature").Return(true).Once()
		repoMock.On("MarkNotificationProcessed", mock.Anything, mock.Anything).Return(true, nil).Once()
		repoMock.On("FindBookingByOrderID", mock.Anything, bookingMock.OrderID).Return(bookingMock, nil).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unrecognized status is acknowledged as a no-op", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := notificationMock(bookingMock, "some_future_status")

		gatewayMock.On("VerifyNotificationSignature", bookingMock.OrderID, "200", "200000.00", "valid-signature").Return(true).Once()
		repoMock.On("MarkNotificationProcessed", mock.Anything, mock.Anything).Return(true, nil).Once()
		repoMock.On("FindBookingByOrderID", mock.Anything, bookingMock.OrderID).Return(bookingMock, nil).Once()

		err := uc.HandlePaymentNotification(ctx, payloadMock)

		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckBookingStatus(t *testing.T) {
	t.Run("poll applies a settlement", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		gatewayMock.On("QueryTransactionStatus", ctx, bookingMock.OrderID).Return(&gateway.TransactionStatus{
			OrderID:           bookingMock.OrderID,
			TransactionStatus: "settlement",
			TransactionTime:   dateTimeNow.Format("2006-01-02 15:04:05"),
		}, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.Anything, entity.BookingStatusPending).Return(true, nil).Once()

		resp, err := uc.CheckBookingStatus(ctx, bookingMock.ID.String())

		assert.NoError(t, err)
		assert.True(t, resp.Changed)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
	})

	t.Run("no provider record reports unchanged", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		gatewayMock.On("QueryTransactionStatus", ctx, bookingMock.OrderID).Return(nil, nil).Once()

		resp, err := uc.CheckBookingStatus(ctx, bookingMock.ID.String())

		assert.NoError(t, err)
		assert.False(t, resp.Changed)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("terminal booking is not queried", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.Status = entity.BookingStatusCancelled
		bookingMock.PaymentStatus = entity.PaymentStatusCancelled

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()

		resp, err := uc.CheckBookingStatus(ctx, bookingMock.ID.String())

		assert.NoError(t, err)
		assert.False(t, resp.Changed)
		gatewayMock.AssertNotCalled(t, "QueryTransactionStatus", mock.Anything, mock.Anything)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("paid booking cancels into refunded", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.Status = entity.BookingStatusConfirmed
		bookingMock.PaymentStatus = entity.PaymentStatusPaid

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusCancelled &&
				b.PaymentStatus == entity.PaymentStatusRefunded
		}), entity.BookingStatusConfirmed).Return(true, nil).Once()

		err := uc.CancelBooking(ctx, bookingMock.ID.String(), bookingMock.ProfileID)

		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("someone else's booking is forbidden", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()

		err := uc.CancelBooking(ctx, bookingMock.ID.String(), bookingMock.ProfileID+1)

		assert.Error(t, err)
		assert.Equal(t, 403, errors.HttpCode(err))
	})

	t.Run("inside the lead time is rejected", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.StartTime = dateTimeNow.Add(90 * time.Minute)

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()

		err := uc.CancelBooking(ctx, bookingMock.ID.String(), bookingMock.ProfileID)

		assert.EqualError(t, err, "pembatalan hanya dapat dilakukan minimal 120 menit sebelum jadwal")
	})

	t.Run("lost update race returns conflict", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.Anything, entity.BookingStatusPending).Return(false, nil).Once()

		err := uc.CancelBooking(ctx, bookingMock.ID.String(), bookingMock.ProfileID)

		assert.Error(t, err)
		assert.Equal(t, 409, errors.HttpCode(err))
	})
}

func TestSweepStaleBookings(t *testing.T) {
	t.Run("lock held elsewhere skips the run", func(t *testing.T) {
		setup()
		ctx := context.Background()

		repoMock.On("AcquireSweepLock", mock.Anything).Return(false, nil).Once()

		result, err := uc.SweepStaleBookings(ctx)

		assert.NoError(t, err)
		assert.True(t, result.Skipped)
		repoMock.AssertNotCalled(t, "FindStalePendingBookings", mock.Anything, mock.Anything)
	})

	t.Run("unverifiable payment cancels, settled payment confirms", func(t *testing.T) {
		setup()
		ctx := context.Background()
		unverifiable := pendingBookingMock()
		settled := pendingBookingMock()

		repoMock.On("AcquireSweepLock", mock.Anything).Return(true, nil).Once()
		repoMock.On("ReleaseSweepLock", mock.Anything).Return(nil).Once()
		repoMock.On("FindStalePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]entity.Booking{unverifiable, settled}, nil).Once()

		gatewayMock.On("QueryTransactionStatus", mock.Anything, unverifiable.OrderID).Return(nil, nil).Once()
		gatewayMock.On("QueryTransactionStatus", mock.Anything, settled.OrderID).Return(&gateway.TransactionStatus{
			OrderID:           settled.OrderID,
			TransactionStatus: "settlement",
			TransactionTime:   dateTimeNow.Format("2006-01-02 15:04:05"),
		}, nil).Once()

		repoMock.On("UpdateBookingStatus", mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.ID == unverifiable.ID && b.Status == entity.BookingStatusCancelled
		}), entity.BookingStatusPending).Return(true, nil).Once()
		repoMock.On("UpdateBookingStatus", mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.ID == settled.ID && b.PaymentStatus == entity.PaymentStatusPaid
		}), entity.BookingStatusPending).Return(true, nil).Once()

		result, err := uc.SweepStaleBookings(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 2, result.Updated)
		assert.Equal(t, 0, result.Failed)
		repoMock.AssertExpectations(t)
		gatewayMock.AssertExpectations(t)
	})

	t.Run("one failing booking does not abort the batch", func(t *testing.T) {
		setup()
		ctx := context.Background()
		failing := pendingBookingMock()
		healthy := pendingBookingMock()

		repoMock.On("AcquireSweepLock", mock.Anything).Return(true, nil).Once()
		repoMock.On("ReleaseSweepLock", mock.Anything).Return(nil).Once()
		repoMock.On("FindStalePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]entity.Booking{failing, healthy}, nil).Once()

		gatewayMock.On("QueryTransactionStatus", mock.Anything, failing.OrderID).Return(nil, nil).Once()
		gatewayMock.On("QueryTransactionStatus", mock.Anything, healthy.OrderID).Return(nil, nil).Once()

		repoMock.On("UpdateBookingStatus", mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.ID == failing.ID
		}), entity.BookingStatusPending).Return(false, assert.AnError).Once()
		repoMock.On("UpdateBookingStatus", mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.ID == healthy.ID
		}), entity.BookingStatusPending).Return(true, nil).Once()

		result, err := uc.SweepStaleBookings(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Failed)
	})
}

func TestCheckPaymentExpired(t *testing.T) {
	t.Run("expired pending payment is cancelled", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := &request.PaymentExpiration{BookingID: bookingMock.ID.String()}

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		gatewayMock.On("QueryTransactionStatus", ctx, bookingMock.OrderID).Return(nil, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusCancelled &&
				b.PaymentStatus == entity.PaymentStatusCancelled
		}), entity.BookingStatusPending).Return(true, nil).Once()

		err := uc.CheckPaymentExpired(ctx, payloadMock)

		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("already paid booking is left alone", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.Status = entity.BookingStatusConfirmed
		bookingMock.PaymentStatus = entity.PaymentStatusPaid
		payloadMock := &request.PaymentExpiration{BookingID: bookingMock.ID.String()}

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()

		err := uc.CheckPaymentExpired(ctx, payloadMock)

		assert.NoError(t, err)
		gatewayMock.AssertNotCalled(t, "QueryTransactionStatus", mock.Anything, mock.Anything)
	})

	t.Run("pending payment that settled late is confirmed", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		payloadMock := &request.PaymentExpiration{BookingID: bookingMock.ID.String()}

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		gatewayMock.On("QueryTransactionStatus", ctx, bookingMock.OrderID).Return(&gateway.TransactionStatus{
			OrderID:           bookingMock.OrderID,
			TransactionStatus: "settlement",
		}, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusConfirmed &&
				b.PaymentStatus == entity.PaymentStatusPaid
		}), entity.BookingStatusPending).Return(true, nil).Once()

		err := uc.CheckPaymentExpired(ctx, payloadMock)

		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})
}

func TestCheckInBooking(t *testing.T) {
	t.Run("confirmed paid booking checks in", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.Status = entity.BookingStatusConfirmed
		bookingMock.PaymentStatus = entity.PaymentStatusPaid
		bookingMock.StartTime = dateTimeNow.Add(10 * time.Minute)
		bookingMock.EndTime = dateTimeNow.Add(2 * time.Hour)

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()
		repoMock.On("UpdateBookingStatus", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
			return b.Status == entity.BookingStatusCheckedIn && b.CheckedInAt.Valid
		}), entity.BookingStatusConfirmed).Return(true, nil).Once()

		err := uc.CheckInBooking(ctx, bookingMock.ID.String())

		assert.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("unpaid booking cannot check in", func(t *testing.T) {
		setup()
		ctx := context.Background()
		bookingMock := pendingBookingMock()
		bookingMock.StartTime = dateTimeNow.Add(10 * time.Minute)

		repoMock.On("FindBookingByID", ctx, bookingMock.ID.String()).Return(bookingMock, nil).Once()

		err := uc.CheckInBooking(ctx, bookingMock.ID.String())

		assert.EqualError(t, err, "booking belum terkonfirmasi")
	})
}

func TestConsumeBookingStatusQueue(t *testing.T) {
	t.Run("forwards a notification per event", func(t *testing.T) {
		setup()
		ctx := context.Background()
		payloadMock := &request.BookingStatusEvent{
			BookingID:     uuid.New().String(),
			OrderID:       "COURT-xyz",
			Status:        "confirmed",
			PaymentStatus: "paid",
			Trigger:       "webhook",
		}

		err := uc.ConsumeBookingStatusQueue(ctx, payloadMock)

		assert.NoError(t, err)
		assert.Equal(t, 1, p.published["notification"])
	})
}
