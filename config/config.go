package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpServer    HttpServerConfig    `envconfig:"HTTP_SERVER"`
	Database      DatabaseConfig      `envconfig:"DATABASE"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	HttpClient    HttpClientConfig    `envconfig:"HTTP_CLIENT"`
	MessageStream MessageStreamConfig `envconfig:"MESSAGE_STREAM"`
	UserService   UserServiceConfig   `envconfig:"USER_SERVICE"`
	Midtrans      MidtransConfig      `envconfig:"MIDTRANS"`
	Booking       BookingConfig       `envconfig:"BOOKING"`
}

type HttpServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"3000"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USERNAME" default:"postgres"`
	Password string `envconfig:"PASSWORD" default:"postgres"`
	DBName   string `envconfig:"DB_NAME" default:"court_booking"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

type HttpClientConfig struct {
	Type                string `envconfig:"TYPE" default:"consecutive"`
	Timeout             int    `envconfig:"TIMEOUT" default:"10"`
	ConsecutiveFailures int    `envconfig:"CONSECUTIVE_FAILURES" default:"5"`
	ErrorRate           int    `envconfig:"ERROR_RATE" default:"70"`
	Threshold           int    `envconfig:"THRESHOLD" default:"10"`
}

type MessageStreamConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5672"`
	Username string `envconfig:"USERNAME" default:"guest"`
	Password string `envconfig:"PASSWORD" default:"guest"`
}

type UserServiceConfig struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port string `envconfig:"PORT" default:"8081"`
}

type MidtransConfig struct {
	ServerKey   string `envconfig:"SERVER_KEY" default:""`
	BaseURL     string `envconfig:"BASE_URL" default:"https://api.sandbox.midtrans.com"`
	SnapURL     string `envconfig:"SNAP_URL" default:"https://app.sandbox.midtrans.com/snap/v1"`
	FinishURL   string `envconfig:"FINISH_URL" default:"http://localhost:3000/payment/finish"`
	ExpiryHours int    `envconfig:"EXPIRY_HOURS" default:"1"`
}

type BookingConfig struct {
	MaxHorizonMonths    int `envconfig:"MAX_HORIZON_MONTHS" default:"3"`
	CancelLeadMinutes   int `envconfig:"CANCEL_LEAD_MINUTES" default:"120"`
	CheckinWindowMin    int `envconfig:"CHECKIN_WINDOW_MINUTES" default:"30"`
	StaleAfterMinutes   int `envconfig:"STALE_AFTER_MINUTES" default:"30"`
	SweepIntervalMin    int `envconfig:"SWEEP_INTERVAL_MINUTES" default:"30"`
	SweepLockTTLSeconds int `envconfig:"SWEEP_LOCK_TTL_SECONDS" default:"300"`
}

func InitConfig() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to process env config: %v", err)
	}
	return &cfg
}
