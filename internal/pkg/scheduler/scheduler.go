package scheduler

import (
	"context"
	"fmt"
	"net/http"

	"court-booking-service/config"
	"court-booking-service/internal/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
)

const (
	TypeCheckPaymentExpired = "check_payment_expired"
	TypeSweepStaleBookings  = "sweep_stale_bookings"
)

type Scheduler struct {
	Log log.Logger
}

func redisClientOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (s *Scheduler) InitClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisClientOpt(cfg))
}

func (s *Scheduler) InitInspector(cfg *config.RedisConfig) *asynq.Inspector {
	return asynq.NewInspector(redisClientOpt(cfg))
}

func (s *Scheduler) StartMonitoring(cfg *config.RedisConfig) {
	ctx := context.Background()
	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/monitoring",
		RedisConnOpt: redisClientOpt(cfg),
	})

	http.Handle(h.RootPath()+"/", h)

	err := http.ListenAndServe(":8080", nil)
	s.Log.Error(ctx, "error start monitoring scheduler", err)
}

func (s *Scheduler) StartHandler(cfg *config.RedisConfig, taskTypes []string, handlerFunc []func(ctx context.Context, t *asynq.Task) error) {
	ctx := context.Background()
	srv := asynq.NewServer(
		redisClientOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
		},
	)
	mux := asynq.NewServeMux()

	for i, taskType := range taskTypes {
		mux = s.registerHandlers(mux, taskType, handlerFunc[i])
	}

	if err := srv.Run(mux); err != nil {
		s.Log.Error(ctx, "error start handler scheduler", err)
	}
}

// StartPeriodicSweep registers the recurring stale-booking sweep.
func (s *Scheduler) StartPeriodicSweep(cfg *config.RedisConfig, intervalMinutes int) {
	ctx := context.Background()
	periodic := asynq.NewScheduler(redisClientOpt(cfg), nil)

	cronspec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := periodic.Register(cronspec, asynq.NewTask(TypeSweepStaleBookings, nil)); err != nil {
		s.Log.Error(ctx, "error register periodic sweep", err)
		return
	}

	if err := periodic.Run(); err != nil {
		s.Log.Error(ctx, "error start periodic sweep scheduler", err)
	}
}

func (s *Scheduler) registerHandlers(mux *asynq.ServeMux, typeTask string, handlerFunc func(ctx context.Context, t *asynq.Task) error) *asynq.ServeMux {
	// mux maps a type to a handler
	mux.HandleFunc(typeTask, handlerFunc)
	return mux
}
