package models

type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentCompleted PaymentState = "completed"
	PaymentFailed    PaymentState = "failed"
	PaymentCancelled PaymentState = "cancelled"
)

// PaymentRequest amounts are in major currency units.
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	OrderID       string  `json:"orderId"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	ReturnURL     string  `json:"returnUrl"`
	CancelURL     string  `json:"cancelUrl"`
}

type PaymentResult struct {
	Success    bool         `json:"success"`
	PaymentID  string       `json:"paymentId"`
	PaymentURL string       `json:"paymentUrl"`
	Status     PaymentState `json:"status"`
	Message    string       `json:"message,omitempty"`
}

type PaymentStatus struct {
	PaymentID string       `json:"paymentId"`
	Status    PaymentState `json:"status"`
	Amount    float64      `json:"amount"`
	Currency  string       `json:"currency"`
	OrderID   string       `json:"orderId"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

// FailedPayment builds the canonical failure result.
func FailedPayment(message string) PaymentResult {
	return PaymentResult{Success: false, Status: PaymentFailed, Message: message}
}
