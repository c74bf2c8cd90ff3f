package response

type UserServiceValidate struct {
	IsValid   bool   `json:"is_valid"`
	ProfileID int64  `json:"profile_id"`
	EmailUser string `json:"email_user"`
	FullName  string `json:"full_name"`
}

type CreatedBooking struct {
	BookingID        string `json:"booking_id"`
	OrderID          string `json:"order_id"`
	PriceTotal       int64  `json:"price_total"`
	PaymentToken     string `json:"payment_token"`
	PaymentRedirect  string `json:"payment_redirect_url"`
	PaymentExpiredAt string `json:"payment_expired_at"`
}

type BookingDetail struct {
	BookingID        string `json:"booking_id"`
	CourtID          int64  `json:"court_id"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	PriceTotal       int64  `json:"price_total"`
	PaymentExpiredAt string `json:"payment_expired_at"`
}

type BookingStatusCheck struct {
	BookingID     string `json:"booking_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Changed       bool   `json:"changed"`
}

type SweepResult struct {
	Processed int  `json:"processed"`
	Updated   int  `json:"updated"`
	Failed    int  `json:"failed"`
	Skipped   bool `json:"skipped"`
}

type PendingPaymentCount struct {
	CourtID int64 `json:"court_id"`
	Count   int64 `json:"count"`
}
