package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"booking/portal/internal/models"
)

// backend proxies payments through the platform's own API using the
// visitor's session token. Responses are already canonical.
type backend struct {
	baseURL  string
	provider string
	client   *http.Client
	tokens   TokenSource
}

func (b *backend) endpoint(suffix string) string {
	return b.baseURL + "/api/payments/" + url.PathEscape(b.provider) + suffix
}

func (b *backend) create(ctx context.Context, req models.PaymentRequest) models.PaymentResult {
	token := b.tokens(ctx)
	if token == "" {
		return models.FailedPayment(ErrMissingToken.Error())
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.FailedPayment(err.Error())
	}
	status, raw, err := send(ctx, b.client, http.MethodPost, b.endpoint("/create"), token, body)
	if err != nil {
		return models.FailedPayment(err.Error())
	}
	if status < 200 || status >= 300 {
		return models.FailedPayment(messageFromBody(raw, status))
	}

	var result models.PaymentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return models.FailedPayment(fmt.Sprintf("decode backend response: %v", err))
	}
	return result
}

func (b *backend) status(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	token := b.tokens(ctx)
	if token == "" {
		return models.PaymentStatus{}, ErrMissingToken
	}

	status, raw, err := send(ctx, b.client, http.MethodGet, b.endpoint("/status/"+url.PathEscape(paymentID)), token, nil)
	if err != nil {
		return models.PaymentStatus{}, err
	}
	if status < 200 || status >= 300 {
		return models.PaymentStatus{}, fmt.Errorf("backend status: %s", messageFromBody(raw, status))
	}

	var result models.PaymentStatus
	if err := json.Unmarshal(raw, &result); err != nil {
		return models.PaymentStatus{}, fmt.Errorf("decode backend status: %w", err)
	}
	return result, nil
}
