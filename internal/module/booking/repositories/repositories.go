package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"court-booking-service/config"
	"court-booking-service/internal/module/booking/models/entity"
	"court-booking-service/internal/module/booking/models/response"
	"court-booking-service/internal/pkg/errors"
	"court-booking-service/internal/pkg/log"
	"court-booking-service/internal/pkg/scheduler"

	"github.com/go-redsync/redsync/v4"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
)

const (
	courtCacheTTL        = 10 * time.Minute
	notificationDedupTTL = 24 * time.Hour
	sweepLockName        = "booking:sweep:lock"
)

type repositories struct {
	db             *sqlx.DB
	log            log.Logger
	httpClient     *circuit.HTTPClient
	redisClient    *redis.Client
	cfgUserService *config.UserServiceConfig
	taskClient     *asynq.Client
	taskInspector  *asynq.Inspector
	rs             *redsync.Redsync
	sweepMutex     *redsync.Mutex
}

type Repositories interface {
	// http
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
	// redis
	FindCourtByID(ctx context.Context, courtID int64) (entity.Court, error)
	MarkNotificationProcessed(ctx context.Context, key string) (bool, error)
	AcquireSweepLock(ctx context.Context) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
	// db
	InsertBooking(ctx context.Context, booking *entity.Booking) error
	FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error)
	FindBookingByOrderID(ctx context.Context, orderID string) (entity.Booking, error)
	FindBookingsByProfileID(ctx context.Context, profileID int64) ([]entity.Booking, error)
	FindStalePendingBookings(ctx context.Context, olderThan time.Time) ([]entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, booking *entity.Booking, fromStatus entity.BookingStatus) (bool, error)
	UpdateBookingPayment(ctx context.Context, booking *entity.Booking) error
	CountPendingPaymentByCourtID(ctx context.Context, courtID int64) (int64, error)
	// scheduler
	SetTaskScheduler(ctx context.Context, processIn time.Duration, payload []byte) (string, error)
	DeleteTaskScheduler(ctx context.Context, taskID string) error
}

func New(db *sqlx.DB, logger log.Logger, httpClient *circuit.HTTPClient, redisClient *redis.Client, cfgUserService *config.UserServiceConfig, taskClient *asynq.Client, taskInspector *asynq.Inspector, rs *redsync.Redsync, sweepLockTTL time.Duration) Repositories {
	r := &repositories{
		db:             db,
		log:            logger,
		httpClient:     httpClient,
		redisClient:    redisClient,
		cfgUserService: cfgUserService,
		taskClient:     taskClient,
		taskInspector:  taskInspector,
		rs:             rs,
	}
	if rs != nil {
		r.sweepMutex = rs.NewMutex(sweepLockName,
			redsync.WithExpiry(sweepLockTTL),
			redsync.WithTries(1),
		)
	}
	return r
}

// FindCourtByID reads the court from the redis cache, falling back to the
// database and refreshing the cache on a miss.
func (r *repositories) FindCourtByID(ctx context.Context, courtID int64) (entity.Court, error) {
	cacheKey := fmt.Sprintf("court:%d", courtID)
	if cached, err := r.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var court entity.Court
		if err := json.Unmarshal([]byte(cached), &court); err == nil {
			return court, nil
		}
	}

	query := `SELECT * FROM courts WHERE id = $1`
	var court entity.Court
	err := r.db.GetContext(ctx, &court, query, courtID)
	if err == sql.ErrNoRows {
		return entity.Court{}, errors.NotFound("court tidak ditemukan")
	}
	if err != nil {
		return entity.Court{}, errors.InternalServerError("error find court by id")
	}

	if encoded, err := json.Marshal(court); err == nil {
		if err := r.redisClient.Set(ctx, cacheKey, encoded, courtCacheTTL).Err(); err != nil {
			r.log.Warn(ctx, "error cache court", courtID, err)
		}
	}

	return court, nil
}

// MarkNotificationProcessed records a webhook notification key so duplicate
// deliveries are detected. Returns false when the key was already present.
func (r *repositories) MarkNotificationProcessed(ctx context.Context, key string) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, "payment:notification:"+key, 1, notificationDedupTTL).Result()
	if err != nil {
		return false, errors.InternalServerError("error mark notification processed")
	}
	return ok, nil
}

func (r *repositories) AcquireSweepLock(ctx context.Context) (bool, error) {
	if r.sweepMutex == nil {
		return true, nil
	}
	if err := r.sweepMutex.LockContext(ctx); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *repositories) ReleaseSweepLock(ctx context.Context) error {
	if r.sweepMutex == nil {
		return nil
	}
	if _, err := r.sweepMutex.UnlockContext(ctx); err != nil {
		r.log.Warn(ctx, "error release sweep lock", err)
		return err
	}
	return nil
}

// InsertBooking implements Repositories.
func (r *repositories) InsertBooking(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, court_id, profile_id, start_time, end_time, status, payment_status,
			order_id, payment_token, payment_redirect_url, payment_expired_at,
			expire_task_id, price_total, created_at
		) VALUES (
			:id, :court_id, :profile_id, :start_time, :end_time, :status, :payment_status,
			:order_id, :payment_token, :payment_redirect_url, :payment_expired_at,
			:expire_task_id, :price_total, :created_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		r.log.Error(ctx, "error insert booking", booking.ID.String(), err)
		return errors.InternalServerError("error insert booking")
	}
	return nil
}

// FindBookingByID implements Repositories.
func (r *repositories) FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, bookingID)
	if err == sql.ErrNoRows {
		return entity.Booking{}, errors.NotFound("booking tidak ditemukan")
	}
	if err != nil {
		return entity.Booking{}, errors.InternalServerError("error find booking by id")
	}
	return booking, nil
}

// FindBookingByOrderID implements Repositories.
func (r *repositories) FindBookingByOrderID(ctx context.Context, orderID string) (entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE order_id = $1`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, orderID)
	if err == sql.ErrNoRows {
		return entity.Booking{}, errors.NotFound("booking tidak ditemukan")
	}
	if err != nil {
		return entity.Booking{}, errors.InternalServerError("error find booking by order id")
	}
	return booking, nil
}

// FindBookingsByProfileID implements Repositories.
func (r *repositories) FindBookingsByProfileID(ctx context.Context, profileID int64) ([]entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE profile_id = $1 ORDER BY start_time DESC`
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, query, profileID)
	if err != nil {
		return nil, errors.InternalServerError("error find bookings by profile id")
	}
	return bookings, nil
}

// FindStalePendingBookings returns bookings still awaiting payment whose
// creation predates olderThan.
func (r *repositories) FindStalePendingBookings(ctx context.Context, olderThan time.Time) ([]entity.Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE status = $1 AND payment_status = $2 AND created_at < $3
		ORDER BY created_at ASC`
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, query, entity.BookingStatusPending, entity.PaymentStatusPending, olderThan)
	if err != nil {
		return nil, errors.InternalServerError("error find stale pending bookings")
	}
	return bookings, nil
}

// UpdateBookingStatus writes the booking's lifecycle columns in a single
// conditional update keyed by id and the status the caller loaded. A
// concurrent writer that already moved the row simply makes this a no-op
// (zero rows affected), never a conflicting write.
func (r *repositories) UpdateBookingStatus(ctx context.Context, booking *entity.Booking, fromStatus entity.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1,
			payment_status = $2,
			checked_in_at = $3,
			completed_at = $4,
			payment_completed_at = $5,
			updated_at = NOW()
		WHERE id = $6 AND status = $7 AND status <> $8`
	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.PaymentStatus,
		booking.CheckedInAt,
		booking.CompletedAt,
		booking.PaymentCompletedAt,
		booking.ID,
		fromStatus,
		entity.BookingStatusCancelled,
	)
	if err != nil {
		r.log.Error(ctx, "error update booking status", booking.ID.String(), string(booking.Status), string(booking.PaymentStatus), err)
		return false, errors.InternalServerError("error update booking status")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.InternalServerError("error update booking status")
	}
	return affected > 0, nil
}

// UpdateBookingPayment persists the provider payment linkage set after the
// transaction is created.
func (r *repositories) UpdateBookingPayment(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET payment_token = $1,
			payment_redirect_url = $2,
			payment_expired_at = $3,
			expire_task_id = $4,
			updated_at = NOW()
		WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query,
		booking.PaymentToken,
		booking.PaymentRedirectURL,
		booking.PaymentExpiredAt,
		booking.ExpireTaskID,
		booking.ID,
	)
	if err != nil {
		r.log.Error(ctx, "error update booking payment", booking.ID.String(), err)
		return errors.InternalServerError("error update booking payment")
	}
	return nil
}

// CountPendingPaymentByCourtID implements Repositories.
func (r *repositories) CountPendingPaymentByCourtID(ctx context.Context, courtID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE court_id = $1 AND payment_status = $2`
	var count int64
	err := r.db.GetContext(ctx, &count, query, courtID, entity.PaymentStatusPending)
	if err != nil {
		return 0, errors.InternalServerError("error count pending payment")
	}
	return count, nil
}

// SetTaskScheduler enqueues the payment-expiry check for one booking.
func (r *repositories) SetTaskScheduler(ctx context.Context, processIn time.Duration, payload []byte) (string, error) {
	task := asynq.NewTask(scheduler.TypeCheckPaymentExpired, payload)
	info, err := r.taskClient.EnqueueContext(ctx, task, asynq.ProcessIn(processIn))
	if err != nil {
		return "", errors.InternalServerError("error set task scheduler")
	}
	return info.ID, nil
}

// DeleteTaskScheduler removes a scheduled expiry task once the booking has
// settled ahead of its deadline.
func (r *repositories) DeleteTaskScheduler(ctx context.Context, taskID string) error {
	if taskID == "" {
		return nil
	}
	if err := r.taskInspector.DeleteTask("default", taskID); err != nil {
		r.log.Warn(ctx, "error delete task scheduler", taskID, err)
		return errors.InternalServerError("error delete task scheduler")
	}
	return nil
}

func (r *repositories) ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error) {
	url := fmt.Sprintf("http://%s:%s/api/private/token/validate?token=%s", r.cfgUserService.Host, r.cfgUserService.Port, token)
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return response.UserServiceValidate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		r.log.Error(ctx, "invalid token", resp.StatusCode)
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	var respData response.UserServiceValidate
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&respData); err != nil {
		return response.UserServiceValidate{}, err
	}

	if !respData.IsValid {
		r.log.Error(ctx, "invalid token", resp.StatusCode)
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	return respData, nil
}
