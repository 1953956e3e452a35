package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingGatewayKey    = errors.New("payment gateway key is not configured")
	ErrMissingToken         = errors.New("authentication required: no session token")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrAmountBelowMinorUnit = errors.New("amount is smaller than one minor currency unit")
	ErrAmountTooLarge       = errors.New("amount exceeds the largest chargeable value")
	ErrMissingCurrency      = errors.New("currency is required")
	ErrMissingPaymentID     = errors.New("payment id is required")
	ErrUnknownPath          = errors.New("unknown payment path")
)

// messageFromBody pulls a human readable cause out of an error response. It
// understands {"message"}, {"error":"..."} and {"error":{"message"}} shapes.
func messageFromBody(body []byte, status int) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Error) > 0 {
			var text string
			if err := json.Unmarshal(payload.Error, &text); err == nil && text != "" {
				return text
			}
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("payment request failed with status %d", status)
}
