package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"court-booking-service/config"
	"court-booking-service/internal/module/booking/models/entity"
	"court-booking-service/internal/pkg/log"

	"github.com/goccy/go-json"
	circuit "github.com/rubyist/circuitbreaker"
)

const transactionTimeLayout = "2006-01-02 15:04:05"

// Client talks to the payment provider. It never writes domain state; callers
// decide what to do with the answers.
type Client interface {
	CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error)
	QueryTransactionStatus(ctx context.Context, orderID string) (*TransactionStatus, error)
	VerifyNotificationSignature(orderID, statusCode, grossAmount, signature string) bool
}

type CreateTransactionRequest struct {
	OrderID       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
}

type CreateTransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionStatus is the provider's view of one transaction.
type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionTime   string `json:"transaction_time"`
}

// Time parses the provider transaction time. The second return is false when
// the provider sent nothing usable.
func (t *TransactionStatus) Time() (time.Time, bool) {
	if t.TransactionTime == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(transactionTimeLayout, t.TransactionTime)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// GatewayError carries the provider's HTTP status and error messages.
type GatewayError struct {
	StatusCode int
	Messages   []string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

type client struct {
	cfg        *config.MidtransConfig
	httpClient *circuit.HTTPClient
	log        log.Logger
}

func New(cfg *config.MidtransConfig, httpClient *circuit.HTTPClient, logger log.Logger) Client {
	return &client{
		cfg:        cfg,
		httpClient: httpClient,
		log:        logger,
	}
}

type snapTransactionRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
	Expiry struct {
		Unit     string `json:"unit"`
		Duration int    `json:"duration"`
	} `json:"expiry"`
	Callbacks struct {
		Finish string `json:"finish"`
	} `json:"callbacks"`
}

type snapErrorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}

// CreateTransaction opens a pending transaction on the provider side and
// returns the payment token and redirect URL.
func (c *client) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error) {
	if req.GrossAmount <= 0 {
		return nil, &GatewayError{StatusCode: http.StatusBadRequest, Messages: []string{"gross amount must be positive"}}
	}

	var body snapTransactionRequest
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	body.CustomerDetails.FirstName = req.CustomerName
	body.CustomerDetails.Email = req.CustomerEmail
	body.Expiry.Unit = "hour"
	body.Expiry.Duration = c.cfg.ExpiryHours
	body.Callbacks.Finish = c.cfg.FinishURL

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/transactions", c.cfg.SnapURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.cfg.ServerKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error(ctx, "error create transaction", err)
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var snapErr snapErrorResponse
		_ = json.Unmarshal(raw, &snapErr)
		c.log.Error(ctx, "provider rejected transaction", req.OrderID, resp.StatusCode, snapErr.ErrorMessages)
		return nil, &GatewayError{StatusCode: resp.StatusCode, Messages: snapErr.ErrorMessages}
	}

	var created CreateTransactionResponse
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}

	return &created, nil
}

// QueryTransactionStatus looks up a transaction by order id. A provider 404
// returns (nil, nil): no record is a valid answer, not a failure.
func (c *client) QueryTransactionStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	url := fmt.Sprintf("%s/v2/%s/status", c.cfg.BaseURL, orderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.cfg.ServerKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error(ctx, "error query transaction status", orderID, err)
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}

	if resp.StatusCode != http.StatusOK {
		var snapErr snapErrorResponse
		_ = json.Unmarshal(raw, &snapErr)
		return nil, &GatewayError{StatusCode: resp.StatusCode, Messages: snapErr.ErrorMessages}
	}

	var status TransactionStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, &GatewayError{StatusCode: http.StatusBadGateway, Messages: []string{err.Error()}}
	}

	// the status endpoint reports 404 inside a 200 envelope on some provider
	// versions
	if status.StatusCode == "404" {
		return nil, nil
	}

	return &status, nil
}

func (c *client) VerifyNotificationSignature(orderID, statusCode, grossAmount, signature string) bool {
	return VerifySignature(orderID, statusCode, grossAmount, c.cfg.ServerKey, signature)
}

// StatusMapping is the domain pair a provider status resolves to.
type StatusMapping struct {
	Status        entity.BookingStatus
	PaymentStatus entity.PaymentStatus
}

func (m StatusMapping) Pair() entity.StatusPair {
	return entity.StatusPair{Status: m.Status, PaymentStatus: m.PaymentStatus}
}

const fraudStatusChallenge = "challenge"

// MapTransactionStatus translates the provider status vocabulary to the
// domain pair. The second return is false for unrecognized input; callers
// must treat that as no information, never as a cancellation.
func MapTransactionStatus(transactionStatus, fraudStatus string) (StatusMapping, bool) {
	status := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))

	switch status {
	case "settlement":
		return StatusMapping{Status: entity.BookingStatusConfirmed, PaymentStatus: entity.PaymentStatusPaid}, true
	case "capture":
		if fraud == fraudStatusChallenge {
			return StatusMapping{Status: entity.BookingStatusPending, PaymentStatus: entity.PaymentStatusWaitingConfirmation}, true
		}
		return StatusMapping{Status: entity.BookingStatusConfirmed, PaymentStatus: entity.PaymentStatusPaid}, true
	case "authorize":
		return StatusMapping{Status: entity.BookingStatusPending, PaymentStatus: entity.PaymentStatusWaitingConfirmation}, true
	case "pending":
		return StatusMapping{Status: entity.BookingStatusPending, PaymentStatus: entity.PaymentStatusPending}, true
	case "expire", "expired":
		return StatusMapping{Status: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusCancelled}, true
	case "deny", "cancel", "failure":
		return StatusMapping{Status: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusCancelled}, true
	case "refund", "partial_refund", "chargeback", "partial_chargeback":
		return StatusMapping{Status: entity.BookingStatusCancelled, PaymentStatus: entity.PaymentStatusRefunded}, true
	default:
		return StatusMapping{}, false
	}
}
