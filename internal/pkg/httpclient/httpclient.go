package httpclient

import (
	"time"

	"court-booking-service/config"

	circuit "github.com/rubyist/circuitbreaker"
)

// InitCircuitBreaker builds a breaker for outbound calls. The type selects the
// tripping strategy; consecutive failures is the default.
func InitCircuitBreaker(cfg *config.HttpClientConfig, breakerType string) *circuit.Breaker {
	switch breakerType {
	case "rate":
		return circuit.NewRateBreaker(float64(cfg.ErrorRate)/100, int64(cfg.Threshold))
	case "threshold":
		return circuit.NewThresholdBreaker(int64(cfg.Threshold))
	default:
		return circuit.NewConsecutiveBreaker(int64(cfg.ConsecutiveFailures))
	}
}

func InitHttpClient(cfg *config.HttpClientConfig, cb *circuit.Breaker) *circuit.HTTPClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	return circuit.NewHTTPClientWithBreaker(cb, timeout, nil)
}
