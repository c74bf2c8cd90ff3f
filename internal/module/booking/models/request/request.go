package request

type CreateBooking struct {
	CourtID   int64  `json:"court_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// PaymentNotification is the webhook payload pushed by the payment provider.
type PaymentNotification struct {
	OrderID           string `json:"order_id" validate:"required"`
	StatusCode        string `json:"status_code" validate:"required"`
	GrossAmount       string `json:"gross_amount" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
	SignatureKey      string `json:"signature_key" validate:"required"`
}

type PaymentExpiration struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// BookingStatusEvent is published to the booking_status topic after every
// applied transition and consumed by the notification forwarder.
type BookingStatusEvent struct {
	BookingID     string `json:"booking_id" validate:"required"`
	OrderID       string `json:"order_id" validate:"required"`
	Status        string `json:"status" validate:"required"`
	PaymentStatus string `json:"payment_status" validate:"required"`
	Trigger       string `json:"trigger" validate:"required"`
}

type NotificationMessage struct {
	BookingID string `json:"booking_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type PoisonedQueue struct {
	TopicTarget string      `json:"topic_target" validate:"required"`
	ErrorMsg    string      `json:"error_msg" validate:"required"`
	Payload     interface{} `json:"payload" validate:"required"`
}
