package main

import (
	"context"
	"log"
	"time"

	"court-booking-service/config"
	"court-booking-service/internal/module/booking/handler"
	"court-booking-service/internal/module/booking/repositories"
	"court-booking-service/internal/module/booking/usecases"
	"court-booking-service/internal/pkg/database"
	"court-booking-service/internal/pkg/gateway"
	"court-booking-service/internal/pkg/http"
	"court-booking-service/internal/pkg/httpclient"
	log_internal "court-booking-service/internal/pkg/log"
	"court-booking-service/internal/pkg/messagestream"
	"court-booking-service/internal/pkg/middleware"
	"court-booking-service/internal/pkg/redis"
	"court-booking-service/internal/pkg/scheduler"
	router "court-booking-service/internal/route"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.InitConfig()

	app, messageRouters, sched := initService(cfg)

	for _, router := range messageRouters {
		ctx := context.Background()
		go func(router *message.Router) {
			err := router.Run(ctx)
			if err != nil {
				log.Fatal(err)
			}
		}(router)
	}

	// scheduler workers: per-booking payment expiry and the periodic sweep
	go sched.Run()

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

type schedulerRunner struct {
	start []func()
}

func (s *schedulerRunner) Run() {
	for _, fn := range s.start {
		go fn()
	}
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router, *schedulerRunner) {

	// init database
	db := database.GetConnection(&cfg.Database)
	// init redis
	redisClient := redis.SetupClient(&cfg.Redis)
	// init logger
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logger := log_internal.GetLogger()
	// init http client
	cb := httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type)
	httpClient := httpclient.InitHttpClient(&cfg.HttpClient, cb)

	ctx := context.Background()
	// init message stream
	amqp := messagestream.NewAmpq(&cfg.MessageStream)

	// Init Subscriber
	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		logger.Error(ctx, "Failed to create subscriber", err)
	}

	// Init Publisher
	publisher, err := amqp.NewPublisher()
	if err != nil {
		logger.Error(ctx, "Failed to create publisher", err)
	}

	// init scheduler
	sched := scheduler.Scheduler{Log: logger}
	taskClient := sched.InitClient(&cfg.Redis)
	taskInspector := sched.InitInspector(&cfg.Redis)

	// init distributed lock for the sweep
	rs := redsync.New(goredis.NewPool(redisClient))

	// init payment gateway client
	gatewayClient := gateway.New(&cfg.Midtrans, httpClient, logger)

	bookingRepo := repositories.New(db, logger, httpClient, redisClient, &cfg.UserService, taskClient, taskInspector, rs, time.Duration(cfg.Booking.SweepLockTTLSeconds)*time.Second)
	bookingUsecase := usecases.New(bookingRepo, gatewayClient, cfg, logger, publisher)
	middleware := middleware.Middleware{
		Log:  logZap,
		Repo: bookingRepo,
	}

	validator := validator.New()
	bookingHandler := handler.BookingHandler{
		Log:       logZap,
		Validator: validator,
		Usecase:   bookingUsecase,
		Publish:   publisher,
	}

	var messageRouters []*message.Router

	consumeBookingStatusRouter, err := messagestream.NewRouter(publisher, "booking_status_poisoned", "booking_status_handler", "booking_status", subscriber, bookingHandler.ConsumeBookingStatusQueue)
	if err != nil {
		logger.Error(ctx, "Failed to create consume_booking_status router", err)
	}

	messageRouters = append(messageRouters, consumeBookingStatusRouter)

	runner := &schedulerRunner{
		start: []func(){
			func() {
				sched.StartHandler(&cfg.Redis,
					[]string{scheduler.TypeCheckPaymentExpired, scheduler.TypeSweepStaleBookings},
					[]func(ctx context.Context, t *asynq.Task) error{
						bookingHandler.CheckPaymentExpired,
						bookingHandler.SweepStaleBookingsTask,
					})
			},
			func() { sched.StartPeriodicSweep(&cfg.Redis, cfg.Booking.SweepIntervalMin) },
			func() { sched.StartMonitoring(&cfg.Redis) },
		},
	}

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, &bookingHandler, &middleware)

	return r, messageRouters, runner
}
