package entity

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "pending"
	PaymentStatusWaitingConfirmation PaymentStatus = "waiting_confirmation"
	PaymentStatusPaid                PaymentStatus = "paid"
	PaymentStatusCancelled           PaymentStatus = "cancelled"
	PaymentStatusRefunded            PaymentStatus = "refunded"
)

// StatusPair is the jointly-governed booking/payment state written by the
// reconciliation path. The two fields always move together.
type StatusPair struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

var (
	ErrBookingCancelled   = errors.New("booking is cancelled")
	ErrBookingNotPaid     = errors.New("booking is not paid")
	ErrNotCheckedIn       = errors.New("booking is not checked in")
	ErrAlreadyCheckedIn   = errors.New("booking is already checked in")
	ErrAlreadyCompleted   = errors.New("booking is already completed")
	ErrNotConfirmed       = errors.New("booking is not confirmed")
	ErrCheckinTooEarly    = errors.New("check-in window has not opened")
	ErrCheckinTooLate     = errors.New("booking time window has passed")
	ErrCancelLeadTime     = errors.New("cancellation lead time not met")
	ErrCancelNotPermitted = errors.New("booking can no longer be cancelled")
	ErrInvalidTimeWindow  = errors.New("end time must be after start time")
)

type Court struct {
	ID           int64        `db:"id"`
	VenueID      int64        `db:"venue_id"`
	Name         string       `db:"name"`
	PricePerHour int64        `db:"price_per_hour"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
}

type Booking struct {
	ID                 uuid.UUID     `db:"id"`
	CourtID            int64         `db:"court_id"`
	ProfileID          int64         `db:"profile_id"`
	StartTime          time.Time     `db:"start_time"`
	EndTime            time.Time     `db:"end_time"`
	Status             BookingStatus `db:"status"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	OrderID            string        `db:"order_id"`
	PaymentToken       string        `db:"payment_token"`
	PaymentRedirectURL string        `db:"payment_redirect_url"`
	PaymentExpiredAt   time.Time     `db:"payment_expired_at"`
	ExpireTaskID       string        `db:"expire_task_id"`
	PriceTotal         int64         `db:"price_total"`
	CheckedInAt        sql.NullTime  `db:"checked_in_at"`
	CompletedAt        sql.NullTime  `db:"completed_at"`
	PaymentCompletedAt sql.NullTime  `db:"payment_completed_at"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          sql.NullTime  `db:"updated_at"`
}

// CancelledPair is the terminal pair applied when a booking is cancelled
// without a more specific provider status.
func CancelledPair() StatusPair {
	return StatusPair{Status: BookingStatusCancelled, PaymentStatus: PaymentStatusCancelled}
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled
}

func (b *Booking) isOperational() bool {
	return b.Status == BookingStatusCheckedIn || b.Status == BookingStatusCompleted
}

// ApplyStatus applies a reconciled status pair. It reports whether the
// booking actually changed; re-applying the current pair, or any attempt to
// move a cancelled booking, is a no-op. A settlement arriving after check-in
// updates the payment side only so operational progress is never regressed,
// and a settled payment can only move forward to refund, never back to
// pending or waiting confirmation. A payment flagged for fraud review does
// not fall back to pending either.
func (b *Booking) ApplyStatus(pair StatusPair, at time.Time) bool {
	if b.IsTerminal() {
		return false
	}
	if b.Status == pair.Status && b.PaymentStatus == pair.PaymentStatus {
		return false
	}

	if b.isOperational() {
		if pair.PaymentStatus == PaymentStatusPaid {
			if b.PaymentStatus == PaymentStatusPaid {
				return false
			}
			b.PaymentStatus = PaymentStatusPaid
			b.stampPaymentCompleted(at)
			return true
		}
		if pair.PaymentStatus != PaymentStatusRefunded {
			return false
		}
	}

	if b.PaymentStatus == PaymentStatusPaid &&
		pair.PaymentStatus != PaymentStatusPaid && pair.PaymentStatus != PaymentStatusRefunded {
		return false
	}

	// a payment under fraud review resolves to paid or a terminal state,
	// never back to awaiting payment
	if b.PaymentStatus == PaymentStatusWaitingConfirmation && pair.PaymentStatus == PaymentStatusPending {
		return false
	}

	if pair.PaymentStatus == PaymentStatusPaid {
		b.stampPaymentCompleted(at)
	}

	b.Status = pair.Status
	b.PaymentStatus = pair.PaymentStatus
	return true
}

func (b *Booking) stampPaymentCompleted(at time.Time) {
	if !b.PaymentCompletedAt.Valid {
		b.PaymentCompletedAt = sql.NullTime{Time: at, Valid: true}
	}
}

// CheckIn marks the booking checked in. Allowed only for a paid, confirmed
// booking, no earlier than window before start time and not after end time.
func (b *Booking) CheckIn(now time.Time, window time.Duration) error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrBookingCancelled
	case BookingStatusCheckedIn:
		return ErrAlreadyCheckedIn
	case BookingStatusCompleted:
		return ErrAlreadyCompleted
	case BookingStatusConfirmed:
	default:
		return ErrNotConfirmed
	}
	if b.PaymentStatus != PaymentStatusPaid {
		return ErrBookingNotPaid
	}
	if now.Before(b.StartTime.Add(-window)) {
		return ErrCheckinTooEarly
	}
	if now.After(b.EndTime) {
		return ErrCheckinTooLate
	}

	b.Status = BookingStatusCheckedIn
	b.CheckedInAt = sql.NullTime{Time: now, Valid: true}
	return nil
}

// Complete marks the booking completed. Requires a prior check-in.
func (b *Booking) Complete(now time.Time) error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrBookingCancelled
	case BookingStatusCompleted:
		return ErrAlreadyCompleted
	case BookingStatusCheckedIn:
	default:
		return ErrNotCheckedIn
	}

	b.Status = BookingStatusCompleted
	b.CompletedAt = sql.NullTime{Time: now, Valid: true}
	return nil
}

// CanCancel validates a user-initiated cancellation: the booking must not be
// checked in, completed or already cancelled, and start time must still be at
// least lead away.
func (b *Booking) CanCancel(now time.Time, lead time.Duration) error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrBookingCancelled
	case BookingStatusCheckedIn, BookingStatusCompleted:
		return ErrCancelNotPermitted
	}
	if b.StartTime.Sub(now) < lead {
		return ErrCancelLeadTime
	}
	return nil
}

func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
