package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"booking/portal/internal/models"
)

// gateway talks to the payment provider directly with a client-held key.
type gateway struct {
	baseURL  string
	client   *http.Client
	keys     KeySource
	testMode bool
}

type intentRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	Message      string `json:"message,omitempty"`
	SuccessURL   string `json:"success_url"`
	CancelURL    string `json:"cancel_url"`
	FailureURL   string `json:"failure_url,omitempty"`
	Test         bool   `json:"test"`
	OrderID      string `json:"order_id,omitempty"`
}

type intentResponse struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	RedirectURL string `json:"redirect_url"`
	PaymentURL  string `json:"payment_url"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

type intentStatusResponse struct {
	ID           string     `json:"id"`
	PaymentID    string     `json:"payment_id"`
	Status       string     `json:"status"`
	Amount       float64    `json:"amount"`
	Currency     string     `json:"currency"`
	CurrencyCode string     `json:"currency_code"`
	OrderID      string     `json:"order_id"`
	CreatedAt    flexString `json:"created_at"`
	UpdatedAt    flexString `json:"updated_at"`
}

// flexString accepts a JSON string or number; gateways disagree on timestamps.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*f = flexString(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexString(number.String())
	return nil
}

func (g *gateway) create(ctx context.Context, req models.PaymentRequest) models.PaymentResult {
	key, ok := g.keys.GatewayKey(ctx)
	if !ok || key == "" {
		return models.FailedPayment(ErrMissingGatewayKey.Error())
	}

	minor, err := toMinorUnits(req.Amount)
	if err != nil {
		return models.FailedPayment(err.Error())
	}
	body, err := json.Marshal(intentRequest{
		Amount:       minor,
		OrderID:      req.OrderID,
		CurrencyCode: req.Currency,
		Message:      req.Description,
		SuccessURL:   req.ReturnURL,
		CancelURL:    req.CancelURL,
		FailureURL:   req.CancelURL,
		Test:         g.testMode,
	})
	if err != nil {
		return models.FailedPayment(err.Error())
	}

	status, raw, err := send(ctx, g.client, http.MethodPost, g.baseURL+"/payment_intent", key, body)
	if err != nil {
		return models.FailedPayment(err.Error())
	}
	if status < 200 || status >= 300 {
		return models.FailedPayment(messageFromBody(raw, status))
	}

	var payload intentResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.FailedPayment(fmt.Sprintf("decode gateway response: %v", err))
	}
	paymentID := firstNonEmpty(payload.ID, payload.PaymentID)
	if paymentID == "" {
		return models.FailedPayment("gateway response did not include a payment id")
	}
	return models.PaymentResult{
		Success:    true,
		PaymentID:  paymentID,
		PaymentURL: firstNonEmpty(payload.RedirectURL, payload.PaymentURL),
		Status:     normalizeStatus(payload.Status),
		Message:    payload.Message,
	}
}

func (g *gateway) status(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	key, ok := g.keys.GatewayKey(ctx)
	if !ok || key == "" {
		return models.PaymentStatus{}, ErrMissingGatewayKey
	}

	status, raw, err := send(ctx, g.client, http.MethodGet, g.baseURL+"/payment_intent/"+url.PathEscape(paymentID), key, nil)
	if err != nil {
		return models.PaymentStatus{}, err
	}
	if status < 200 || status >= 300 {
		return models.PaymentStatus{}, fmt.Errorf("gateway status: %s", messageFromBody(raw, status))
	}

	var payload intentStatusResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.PaymentStatus{}, fmt.Errorf("decode gateway status: %w", err)
	}
	return models.PaymentStatus{
		PaymentID: firstNonEmpty(payload.PaymentID, payload.ID, paymentID),
		Status:    normalizeStatus(payload.Status),
		Amount:    fromMinorUnits(payload.Amount),
		Currency:  firstNonEmpty(payload.Currency, payload.CurrencyCode),
		OrderID:   payload.OrderID,
		CreatedAt: string(payload.CreatedAt),
		UpdatedAt: string(payload.UpdatedAt),
	}, nil
}

func send(ctx context.Context, client *http.Client, method, endpoint, bearer string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
