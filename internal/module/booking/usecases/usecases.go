package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"court-booking-service/config"
	"court-booking-service/internal/module/booking/models/entity"
	"court-booking-service/internal/module/booking/models/request"
	"court-booking-service/internal/module/booking/models/response"
	"court-booking-service/internal/module/booking/repositories"
	"court-booking-service/internal/pkg/errors"
	"court-booking-service/internal/pkg/gateway"
	"court-booking-service/internal/pkg/helpers"
	"court-booking-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.elastic.co/apm"
)

const (
	topicBookingStatus = "booking_status"
	topicNotification  = "notification"

	triggerWebhook       = "webhook"
	triggerPoll          = "poll"
	triggerSweep         = "sweep"
	triggerPaymentExpiry = "payment_expiry"
	triggerCancel        = "cancel"
	triggerOperator      = "operator"
)

const timeLayout = "2006-01-02 15:04:05"

type usecase struct {
	repo    repositories.Repositories
	gateway gateway.Client
	cfg     *config.Config
	log     log.Logger
	publish message.Publisher
}

type Usecase interface {
	// http
	CreateBooking(ctx context.Context, payload *request.CreateBooking, profileID int64, emailUser string) (response.CreatedBooking, error)
	ShowBookings(ctx context.Context, profileID int64) ([]response.BookingDetail, error)
	CheckBookingStatus(ctx context.Context, bookingID string) (response.BookingStatusCheck, error)
	CancelBooking(ctx context.Context, bookingID string, profileID int64) error
	CheckInBooking(ctx context.Context, bookingID string) error
	CompleteBooking(ctx context.Context, bookingID string) error
	HandlePaymentNotification(ctx context.Context, payload *request.PaymentNotification) error
	SweepStaleBookings(ctx context.Context) (response.SweepResult, error)
	CountPendingPayment(ctx context.Context, courtID int64) (response.PendingPaymentCount, error)
	// scheduler
	CheckPaymentExpired(ctx context.Context, payload *request.PaymentExpiration) error
	// message stream
	ConsumeBookingStatusQueue(ctx context.Context, payload *request.BookingStatusEvent) error
}

func New(repo repositories.Repositories, gw gateway.Client, cfg *config.Config, logger log.Logger, publish message.Publisher) Usecase {
	return &usecase{
		repo:    repo,
		gateway: gw,
		cfg:     cfg,
		log:     logger,
		publish: publish,
	}
}

// applyPair is the single writer of the status/payment_status pair. It runs
// the state machine, persists the result through one conditional update and
// publishes the transition. A losing writer's update affects zero rows and is
// reported as unchanged.
func (u *usecase) applyPair(ctx context.Context, booking entity.Booking, pair entity.StatusPair, at time.Time, trigger string) (entity.Booking, bool, error) {
	fromStatus := booking.Status
	if !booking.ApplyStatus(pair, at) {
		return booking, false, nil
	}

	ok, err := u.repo.UpdateBookingStatus(ctx, &booking, fromStatus)
	if err != nil {
		return booking, false, err
	}
	if !ok {
		// another trigger already moved the row; its result is authoritative
		return booking, false, nil
	}

	if booking.PaymentStatus != entity.PaymentStatusPending && booking.ExpireTaskID != "" {
		if err := u.repo.DeleteTaskScheduler(ctx, booking.ExpireTaskID); err != nil {
			u.log.Warn(ctx, "error delete expiry task", booking.ID.String(), err)
		}
	}

	u.publishStatusEvent(ctx, &booking, trigger)
	return booking, true, nil
}

// reconcile applies a provider-reported transaction status to a booking. A
// nil status or an unrecognized vocabulary entry is a no-op; the caller owns
// the fallback policy.
func (u *usecase) reconcile(ctx context.Context, booking entity.Booking, trx *gateway.TransactionStatus, trigger string) (entity.Booking, bool, error) {
	if trx == nil {
		return booking, false, nil
	}

	mapping, ok := gateway.MapTransactionStatus(trx.TransactionStatus, trx.FraudStatus)
	if !ok {
		u.log.Warn(ctx, "unresolved transaction status", booking.OrderID, trx.TransactionStatus, trx.FraudStatus)
		return booking, false, nil
	}

	at := time.Now()
	if t, found := trx.Time(); found {
		at = t
	}

	return u.applyPair(ctx, booking, mapping.Pair(), at, trigger)
}

func (u *usecase) publishStatusEvent(ctx context.Context, booking *entity.Booking, trigger string) {
	event := request.BookingStatusEvent{
		BookingID:     booking.ID.String(),
		OrderID:       booking.OrderID,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		Trigger:       trigger,
	}
	jsonPayload, _ := json.Marshal(event)
	if err := u.publish.Publish(topicBookingStatus, message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		u.log.Error(ctx, "error publish booking status event", booking.ID.String(), err)
	}
}

func (u *usecase) CreateBooking(ctx context.Context, payload *request.CreateBooking, profileID int64, emailUser string) (response.CreatedBooking, error) {
	startTime, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return response.CreatedBooking{}, errors.BadRequest("format waktu mulai tidak valid")
	}
	endTime, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return response.CreatedBooking{}, errors.BadRequest("format waktu selesai tidak valid")
	}

	now := time.Now()
	if !startTime.After(now) {
		return response.CreatedBooking{}, errors.BadRequest("waktu mulai harus di masa depan")
	}
	if !endTime.After(startTime) {
		return response.CreatedBooking{}, errors.BadRequest("waktu selesai harus setelah waktu mulai")
	}
	horizon := now.AddDate(0, u.cfg.Booking.MaxHorizonMonths, 0)
	if startTime.After(horizon) || endTime.After(horizon) {
		return response.CreatedBooking{}, errors.BadRequest(fmt.Sprintf("pemesanan maksimal %d bulan ke depan", u.cfg.Booking.MaxHorizonMonths))
	}

	court, err := u.repo.FindCourtByID(ctx, payload.CourtID)
	if err != nil {
		return response.CreatedBooking{}, err
	}

	booking := entity.Booking{
		ID:               uuid.New(),
		CourtID:          court.ID,
		ProfileID:        profileID,
		StartTime:        startTime,
		EndTime:          endTime,
		Status:           entity.BookingStatusPending,
		PaymentStatus:    entity.PaymentStatusPending,
		OrderID:          fmt.Sprintf("COURT-%s", uuid.New().String()),
		PaymentExpiredAt: now.Add(time.Duration(u.cfg.Midtrans.ExpiryHours) * time.Hour),
		CreatedAt:        now,
	}
	booking.PriceTotal = int64(math.Round(booking.Duration().Hours() * float64(court.PricePerHour)))

	if err := u.repo.InsertBooking(ctx, &booking); err != nil {
		return response.CreatedBooking{}, err
	}

	trx, err := u.gateway.CreateTransaction(ctx, &gateway.CreateTransactionRequest{
		OrderID:       booking.OrderID,
		GrossAmount:   booking.PriceTotal,
		CustomerName:  emailUser,
		CustomerEmail: emailUser,
	})
	if err != nil {
		// a booking without a payment path must not keep holding the slot
		u.log.Error(ctx, "error create transaction, rolling booking back", booking.ID.String(), err)
		if _, _, rbErr := u.applyPair(ctx, booking, entity.CancelledPair(), time.Now(), triggerCancel); rbErr != nil {
			u.log.Error(ctx, "error rollback booking after gateway failure", booking.ID.String(), rbErr)
		}
		return response.CreatedBooking{}, errors.BadGateway("pembayaran tidak dapat diproses, silakan coba beberapa saat lagi")
	}

	booking.PaymentToken = trx.Token
	booking.PaymentRedirectURL = trx.RedirectURL

	expirationPayload, _ := json.Marshal(request.PaymentExpiration{BookingID: booking.ID.String()})
	taskID, err := u.repo.SetTaskScheduler(ctx, helpers.DurationCalculation(booking.PaymentExpiredAt), expirationPayload)
	if err != nil {
		// the periodic sweep still covers this booking
		u.log.Warn(ctx, "error schedule payment expiry task", booking.ID.String(), err)
	}
	booking.ExpireTaskID = taskID

	if err := u.repo.UpdateBookingPayment(ctx, &booking); err != nil {
		return response.CreatedBooking{}, err
	}

	return response.CreatedBooking{
		BookingID:        booking.ID.String(),
		OrderID:          booking.OrderID,
		PriceTotal:       booking.PriceTotal,
		PaymentToken:     booking.PaymentToken,
		PaymentRedirect:  booking.PaymentRedirectURL,
		PaymentExpiredAt: booking.PaymentExpiredAt.Format(timeLayout),
	}, nil
}

func (u *usecase) ShowBookings(ctx context.Context, profileID int64) ([]response.BookingDetail, error) {
	bookings, err := u.repo.FindBookingsByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	details := make([]response.BookingDetail, 0, len(bookings))
	for _, booking := range bookings {
		details = append(details, response.BookingDetail{
			BookingID:        booking.ID.String(),
			CourtID:          booking.CourtID,
			StartTime:        booking.StartTime.Format(timeLayout),
			EndTime:          booking.EndTime.Format(timeLayout),
			Status:           string(booking.Status),
			PaymentStatus:    string(booking.PaymentStatus),
			PriceTotal:       booking.PriceTotal,
			PaymentExpiredAt: booking.PaymentExpiredAt.Format(timeLayout),
		})
	}
	return details, nil
}

// CheckBookingStatus is the client poll: query the provider synchronously and
// reconcile. Provider unreachable or no record is reported as unchanged.
func (u *usecase) CheckBookingStatus(ctx context.Context, bookingID string) (response.BookingStatusCheck, error) {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return response.BookingStatusCheck{}, err
	}

	changed := false
	if !booking.IsTerminal() {
		trx, err := u.gateway.QueryTransactionStatus(ctx, booking.OrderID)
		if err != nil {
			u.log.Warn(ctx, "error query transaction status on poll", booking.OrderID, err)
			trx = nil
		}
		booking, changed, err = u.reconcile(ctx, booking, trx, triggerPoll)
		if err != nil {
			return response.BookingStatusCheck{}, err
		}
	}

	return response.BookingStatusCheck{
		BookingID:     booking.ID.String(),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		Changed:       changed,
	}, nil
}

func (u *usecase) CancelBooking(ctx context.Context, bookingID string, profileID int64) error {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.ProfileID != profileID {
		return errors.ForbiddenError("booking ini bukan milik kamu")
	}

	lead := time.Duration(u.cfg.Booking.CancelLeadMinutes) * time.Minute
	if err := booking.CanCancel(time.Now(), lead); err != nil {
		switch err {
		case entity.ErrBookingCancelled:
			return errors.BadRequest("booking sudah dibatalkan")
		case entity.ErrCancelNotPermitted:
			return errors.BadRequest("booking tidak dapat dibatalkan lagi")
		case entity.ErrCancelLeadTime:
			return errors.BadRequest(fmt.Sprintf("pembatalan hanya dapat dilakukan minimal %d menit sebelum jadwal", u.cfg.Booking.CancelLeadMinutes))
		default:
			return errors.BadRequest(err.Error())
		}
	}

	pair := entity.CancelledPair()
	if booking.PaymentStatus == entity.PaymentStatusPaid {
		pair.PaymentStatus = entity.PaymentStatusRefunded
	}

	_, changed, err := u.applyPair(ctx, booking, pair, time.Now(), triggerCancel)
	if err != nil {
		return err
	}
	if !changed {
		return errors.Conflict("booking sedang diproses, silakan coba lagi")
	}
	return nil
}

func (u *usecase) CheckInBooking(ctx context.Context, bookingID string) error {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	fromStatus := booking.Status
	window := time.Duration(u.cfg.Booking.CheckinWindowMin) * time.Minute
	if err := booking.CheckIn(time.Now(), window); err != nil {
		switch err {
		case entity.ErrBookingCancelled:
			return errors.BadRequest("booking sudah dibatalkan")
		case entity.ErrAlreadyCheckedIn:
			return errors.BadRequest("booking sudah check-in")
		case entity.ErrAlreadyCompleted:
			return errors.BadRequest("booking sudah selesai")
		case entity.ErrNotConfirmed:
			return errors.BadRequest("booking belum terkonfirmasi")
		case entity.ErrBookingNotPaid:
			return errors.BadRequest("booking belum dibayar")
		case entity.ErrCheckinTooEarly:
			return errors.BadRequest(fmt.Sprintf("check-in baru dapat dilakukan %d menit sebelum jadwal", u.cfg.Booking.CheckinWindowMin))
		case entity.ErrCheckinTooLate:
			return errors.BadRequest("waktu booking telah berakhir")
		default:
			return errors.BadRequest(err.Error())
		}
	}

	ok, err := u.repo.UpdateBookingStatus(ctx, &booking, fromStatus)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Conflict("booking sedang diproses, silakan coba lagi")
	}

	u.publishStatusEvent(ctx, &booking, triggerOperator)
	return nil
}

func (u *usecase) CompleteBooking(ctx context.Context, bookingID string) error {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	fromStatus := booking.Status
	if err := booking.Complete(time.Now()); err != nil {
		switch err {
		case entity.ErrBookingCancelled:
			return errors.BadRequest("booking sudah dibatalkan")
		case entity.ErrAlreadyCompleted:
			return errors.BadRequest("booking sudah selesai")
		case entity.ErrNotCheckedIn:
			return errors.BadRequest("booking belum check-in")
		default:
			return errors.BadRequest(err.Error())
		}
	}

	ok, err := u.repo.UpdateBookingStatus(ctx, &booking, fromStatus)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Conflict("booking sedang diproses, silakan coba lagi")
	}

	u.publishStatusEvent(ctx, &booking, triggerOperator)
	return nil
}

// HandlePaymentNotification processes one provider webhook delivery. After
// the signature checks out, every outcome acknowledges the delivery: the
// provider retries on anything else and reconciliation is idempotent anyway.
func (u *usecase) HandlePaymentNotification(ctx context.Context, payload *request.PaymentNotification) error {
	tx := apm.DefaultTracer.StartTransaction("payment.notification", "webhook")
	defer tx.End()
	ctx = apm.ContextWithTransaction(ctx, tx)

	if !u.gateway.VerifyNotificationSignature(payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey) {
		u.log.Error(ctx, "webhook signature mismatch", payload.OrderID, payload.StatusCode, payload.SignatureKey)
		return errors.UnauthorizedError("invalid signature")
	}

	dedupKey := fmt.Sprintf("%s:%s:%s:%s", payload.OrderID, payload.StatusCode, payload.TransactionStatus, payload.FraudStatus)
	fresh, err := u.repo.MarkNotificationProcessed(ctx, dedupKey)
	if err != nil {
		// reconciliation is idempotent, so reprocessing is safe
		u.log.Warn(ctx, "error dedup notification", payload.OrderID, err)
		fresh = true
	}
	if !fresh {
		u.log.Info(ctx, "duplicate notification ignored", payload.OrderID, payload.TransactionStatus)
		return nil
	}

	booking, err := u.repo.FindBookingByOrderID(ctx, payload.OrderID)
	if err != nil {
		// still acknowledged: retrying a lookup miss only causes retry storms
		u.log.Warn(ctx, "notification for unknown order", payload.OrderID, err)
		return nil
	}

	trx := &gateway.TransactionStatus{
		OrderID:           payload.OrderID,
		TransactionStatus: payload.TransactionStatus,
		FraudStatus:       payload.FraudStatus,
		PaymentType:       payload.PaymentType,
		StatusCode:        payload.StatusCode,
		GrossAmount:       payload.GrossAmount,
		TransactionTime:   payload.TransactionTime,
	}

	if _, _, err := u.reconcile(ctx, booking, trx, triggerWebhook); err != nil {
		// swallowed into the acknowledgment; the next poll or sweep converges
		u.log.Error(ctx, "error reconcile from webhook", booking.ID.String(), err)
	}

	return nil
}

// settleUnverified re-queries the provider for a stale pending booking and
// either applies a resolved paid/terminal mapping or cancels. An unverifiable
// payment must not hold a slot indefinitely.
func (u *usecase) settleUnverified(ctx context.Context, booking entity.Booking, trigger string) (bool, error) {
	trx, err := u.gateway.QueryTransactionStatus(ctx, booking.OrderID)
	if err != nil {
		u.log.Warn(ctx, "error query transaction status, treating as unverifiable", booking.OrderID, err)
		trx = nil
	}

	pair := entity.CancelledPair()
	at := time.Now()
	if trx != nil {
		if mapping, ok := gateway.MapTransactionStatus(trx.TransactionStatus, trx.FraudStatus); ok {
			if mapping.PaymentStatus == entity.PaymentStatusPaid || mapping.Status == entity.BookingStatusCancelled {
				pair = mapping.Pair()
				if t, found := trx.Time(); found {
					at = t
				}
			}
		}
	}

	_, changed, err := u.applyPair(ctx, booking, pair, at, trigger)
	return changed, err
}

// SweepStaleBookings scans pending bookings older than the staleness
// threshold and settles each one independently; a single failure never aborts
// the batch.
func (u *usecase) SweepStaleBookings(ctx context.Context) (response.SweepResult, error) {
	tx := apm.DefaultTracer.StartTransaction("sweep_stale_bookings", "scheduler")
	defer tx.End()
	ctx = apm.ContextWithTransaction(ctx, tx)

	locked, err := u.repo.AcquireSweepLock(ctx)
	if err != nil {
		return response.SweepResult{}, err
	}
	if !locked {
		u.log.Info(ctx, "sweep already running, skipping")
		return response.SweepResult{Skipped: true}, nil
	}
	defer func() {
		if err := u.repo.ReleaseSweepLock(ctx); err != nil {
			u.log.Warn(ctx, "error release sweep lock", err)
		}
	}()

	cutoff := time.Now().Add(-time.Duration(u.cfg.Booking.StaleAfterMinutes) * time.Minute)
	bookings, err := u.repo.FindStalePendingBookings(ctx, cutoff)
	if err != nil {
		return response.SweepResult{}, err
	}

	var result response.SweepResult
	for _, booking := range bookings {
		result.Processed++
		changed, err := u.settleUnverified(ctx, booking, triggerSweep)
		if err != nil {
			result.Failed++
			u.log.Error(ctx, "error settle stale booking", booking.ID.String(), err)
			continue
		}
		if changed {
			result.Updated++
		}
	}

	u.log.Info(ctx, "sweep finished", result.Processed, result.Updated, result.Failed)
	return result, nil
}

// CheckPaymentExpired handles the per-booking expiry task scheduled at
// payment_expired_at. Same settle path as the sweep, keyed off the payment
// deadline instead of record age.
func (u *usecase) CheckPaymentExpired(ctx context.Context, payload *request.PaymentExpiration) error {
	booking, err := u.repo.FindBookingByID(ctx, payload.BookingID)
	if err != nil {
		return err
	}

	if booking.Status != entity.BookingStatusPending || booking.PaymentStatus != entity.PaymentStatusPending {
		return nil
	}

	_, err = u.settleUnverified(ctx, booking, triggerPaymentExpiry)
	return err
}

func (u *usecase) CountPendingPayment(ctx context.Context, courtID int64) (response.PendingPaymentCount, error) {
	count, err := u.repo.CountPendingPaymentByCourtID(ctx, courtID)
	if err != nil {
		return response.PendingPaymentCount{}, err
	}
	return response.PendingPaymentCount{CourtID: courtID, Count: count}, nil
}

// ConsumeBookingStatusQueue forwards applied transitions to the notification
// topic for the notification service.
func (u *usecase) ConsumeBookingStatusQueue(ctx context.Context, payload *request.BookingStatusEvent) error {
	var text string
	switch entity.PaymentStatus(payload.PaymentStatus) {
	case entity.PaymentStatusPaid:
		text = "pembayaran berhasil, booking kamu sudah terkonfirmasi"
	case entity.PaymentStatusWaitingConfirmation:
		text = "pembayaran sedang diverifikasi"
	case entity.PaymentStatusRefunded:
		text = "booking dibatalkan, dana akan dikembalikan"
	case entity.PaymentStatusCancelled:
		text = "booking dibatalkan"
	default:
		text = fmt.Sprintf("status booking kamu: %s", payload.Status)
	}

	notification := request.NotificationMessage{
		BookingID: payload.BookingID,
		Message:   text,
	}
	jsonPayload, _ := json.Marshal(notification)

	if err := u.publish.Publish(topicNotification, message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		u.log.Error(ctx, "error publish notification", payload.BookingID, err)
		return err
	}
	return nil
}
