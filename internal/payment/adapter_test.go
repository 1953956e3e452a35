package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"booking/portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway stores intents in minor units, like the real gateway.
type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	intents  map[string]map[string]any
	lastBody map[string]any
	auth     string
	failWith int
	failBody string
	variant  bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]map[string]any)}
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.auth = r.Header.Get("Authorization")
	if g.failWith != 0 {
		w.WriteHeader(g.failWith)
		_, _ = w.Write([]byte(g.failBody))
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/payment_intent":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.lastBody = body
		id := fmt.Sprintf("pi_%d", len(g.intents)+1)
		g.intents[id] = map[string]any{
			"payment_id": id,
			"status":     "requires_payment_instrument",
			"amount":     body["amount"],
			"currency":   body["currency_code"],
			"order_id":   body["order_id"],
			"created_at": 1767225600000,
			"updated_at": "2026-01-01T00:00:00Z",
		}
		resp := map[string]any{"id": id, "redirect_url": "https://pay.example/" + id, "status": "requires_payment_instrument"}
		if g.variant {
			resp = map[string]any{"payment_id": id, "payment_url": "https://pay.example/" + id, "status": "pending"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payment_intent/"):
		intent, ok := g.intents[strings.TrimPrefix(r.URL.Path, "/payment_intent/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"intent not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(intent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func sampleRequest(amount float64) models.PaymentRequest {
	return models.PaymentRequest{
		Amount:      amount,
		Currency:    "AED",
		Description: "Deep cleaning, 3 hours",
		OrderID:     "ord-1",
		ReturnURL:   "https://portal.example/payments/success",
		CancelURL:   "https://portal.example/payments/cancel",
	}
}

func newDirectAdapter(t *testing.T, gw *fakeGateway, key string) *Adapter {
	t.Helper()
	server := httptest.NewServer(gw)
	t.Cleanup(server.Close)
	return New(Config{GatewayBaseURL: server.URL, Keys: StaticKey(key), TestMode: true, Client: server.Client()})
}

func TestDirectRoundTripAmount(t *testing.T) {
	gw := newFakeGateway()
	adapter := newDirectAdapter(t, gw, "sk_test")
	ctx := context.Background()

	result := adapter.CreatePayment(ctx, sampleRequest(100), PathDirect)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "https://pay.example/"+result.PaymentID, result.PaymentURL)
	assert.Equal(t, models.PaymentPending, result.Status)
	assert.Equal(t, float64(10000), gw.lastBody["amount"])
	assert.Equal(t, true, gw.lastBody["test"])
	assert.Equal(t, "Bearer sk_test", gw.auth)

	status, ok := adapter.GetPaymentStatus(ctx, result.PaymentID, PathDirect)
	require.True(t, ok)
	assert.Equal(t, float64(100), status.Amount)
	assert.Equal(t, "AED", status.Currency)
	assert.Equal(t, "ord-1", status.OrderID)
	assert.Equal(t, "1767225600000", status.CreatedAt)
}

func TestDirectSendsCallerOrderID(t *testing.T) {
	gw := newFakeGateway()
	adapter := newDirectAdapter(t, gw, "sk_test")
	ctx := context.Background()

	req := sampleRequest(40)
	req.OrderID = "booking-7731"
	result := adapter.CreatePayment(ctx, req, PathDirect)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "booking-7731", gw.lastBody["order_id"])

	status, ok := adapter.GetPaymentStatus(ctx, result.PaymentID, PathDirect)
	require.True(t, ok)
	assert.Equal(t, "booking-7731", status.OrderID)
}

func TestAmountsOutsideMinorUnitRangeAreRejected(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   error
	}{
		{"below half a minor unit", 0.004, ErrAmountBelowMinorUnit},
		{"tiny positive", 1e-9, ErrAmountBelowMinorUnit},
		{"overflows minor units", 1e17, ErrAmountTooLarge},
		{"exceeds exact float range", 1e14, ErrAmountTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, path := range []Path{PathDirect, PathBackend} {
				gw := newFakeGateway()
				server := httptest.NewServer(gw)
				adapter := New(Config{
					GatewayBaseURL: server.URL,
					BackendBaseURL: server.URL,
					Provider:       "ziina",
					Keys:           StaticKey("sk_test"),
					Tokens:         func(context.Context) string { return "sess-1" },
					Client:         server.Client(),
				})

				result := adapter.CreatePayment(context.Background(), sampleRequest(tc.amount), path)
				server.Close()
				assert.False(t, result.Success)
				assert.Equal(t, models.PaymentFailed, result.Status)
				assert.Equal(t, tc.want.Error(), result.Message)
				assert.Equal(t, 0, gw.calls, "path %s reached the network", path)
			}
		})
	}
}

func TestToMinorUnitsEdges(t *testing.T) {
	minor, err := toMinorUnits(0.005)
	require.NoError(t, err)
	assert.Equal(t, int64(1), minor)

	minor, err = toMinorUnits(19.99)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), minor)

	minor, err = toMinorUnits(90071992547409)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740900), minor)

	_, err = toMinorUnits(90071992547410)
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}

func TestDirectRoundTripIntegerAmounts(t *testing.T) {
	gw := newFakeGateway()
	adapter := newDirectAdapter(t, gw, "sk_test")
	ctx := context.Background()

	for _, amount := range []float64{1, 7, 99, 250, 123456} {
		result := adapter.CreatePayment(ctx, sampleRequest(amount), PathDirect)
		require.True(t, result.Success, result.Message)
		status, ok := adapter.GetPaymentStatus(ctx, result.PaymentID, PathDirect)
		require.True(t, ok)
		assert.Equal(t, amount, status.Amount)
	}
}

func TestDirectAcceptsFieldVariants(t *testing.T) {
	gw := newFakeGateway()
	gw.variant = true
	adapter := newDirectAdapter(t, gw, "sk_test")

	result := adapter.CreatePayment(context.Background(), sampleRequest(12.5), PathDirect)
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "pi_1", result.PaymentID)
	assert.Equal(t, "https://pay.example/pi_1", result.PaymentURL)
	assert.Equal(t, float64(1250), gw.lastBody["amount"])
}

func TestDirectMissingKeySkipsNetwork(t *testing.T) {
	gw := newFakeGateway()
	adapter := newDirectAdapter(t, gw, "")
	ctx := context.Background()

	result := adapter.CreatePayment(ctx, sampleRequest(100), PathDirect)
	assert.False(t, result.Success)
	assert.Empty(t, result.PaymentID)
	assert.Empty(t, result.PaymentURL)
	assert.Equal(t, ErrMissingGatewayKey.Error(), result.Message)

	_, ok := adapter.GetPaymentStatus(ctx, "pi_1", PathDirect)
	assert.False(t, ok)
	assert.Equal(t, 0, gw.calls)
}

func TestNonSuccessResponsesBecomeFailedResults(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, `{"message":"amount too small"}`, "amount too small"},
		{http.StatusUnauthorized, `{"error":"invalid api key"}`, "invalid api key"},
		{http.StatusConflict, `{"error":{"code":"dup","message":"duplicate order"}}`, "duplicate order"},
		{http.StatusBadGateway, `<html>bad gateway</html>`, "payment request failed with status 502"},
		{http.StatusInternalServerError, ``, "payment request failed with status 500"},
	}
	for _, tc := range cases {
		gw := newFakeGateway()
		gw.failWith = tc.status
		gw.failBody = tc.body
		adapter := newDirectAdapter(t, gw, "sk_test")

		result := adapter.CreatePayment(context.Background(), sampleRequest(100), PathDirect)
		assert.False(t, result.Success)
		assert.Empty(t, result.PaymentID)
		assert.Equal(t, tc.want, result.Message)

		_, ok := adapter.GetPaymentStatus(context.Background(), "pi_1", PathDirect)
		assert.False(t, ok)
	}
}

func TestTransportErrorBecomesFailedResult(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	adapter := New(Config{GatewayBaseURL: base, BackendBaseURL: base, Keys: StaticKey("k"), Tokens: func(context.Context) string { return "t" }})
	for _, path := range []Path{PathDirect, PathBackend} {
		result := adapter.CreatePayment(context.Background(), sampleRequest(10), path)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Message)
		_, ok := adapter.GetPaymentStatus(context.Background(), "pi_1", path)
		assert.False(t, ok)
	}
}

func TestBackendMissingTokenSkipsNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	adapter := New(Config{BackendBaseURL: server.URL, Provider: "ziina", Client: server.Client()})
	result := adapter.CreatePayment(context.Background(), sampleRequest(100), PathBackend)
	assert.False(t, result.Success)
	assert.Equal(t, ErrMissingToken.Error(), result.Message)

	_, ok := adapter.GetPaymentStatus(context.Background(), "pay-1", PathBackend)
	assert.False(t, ok)
	assert.Equal(t, 0, calls)
}

func TestBackendPassesThrough(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody models.PaymentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/api/payments/ziina/create":
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"success":true,"paymentId":"pay-9","paymentUrl":"https://pay.example/9","status":"pending","message":"created"}`))
		case "/api/payments/ziina/status/pay-9":
			_, _ = w.Write([]byte(`{"paymentId":"pay-9","status":"completed","amount":100,"currency":"AED","orderId":"ord-1","createdAt":"a","updatedAt":"b"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := New(Config{
		BackendBaseURL: server.URL,
		Provider:       "ziina",
		Tokens:         func(context.Context) string { return "sess-1" },
		Client:         server.Client(),
	})

	result := adapter.CreatePayment(context.Background(), sampleRequest(100), PathBackend)
	assert.Equal(t, models.PaymentResult{Success: true, PaymentID: "pay-9", PaymentURL: "https://pay.example/9", Status: models.PaymentPending, Message: "created"}, result)
	assert.Equal(t, "Bearer sess-1", gotAuth)
	assert.Equal(t, float64(100), gotBody.Amount)
	assert.Equal(t, "ord-1", gotBody.OrderID)

	status, ok := adapter.GetPaymentStatus(context.Background(), "pay-9", PathBackend)
	require.True(t, ok)
	assert.Equal(t, "/api/payments/ziina/status/pay-9", gotPath)
	assert.Equal(t, models.PaymentCompleted, status.Status)
	assert.Equal(t, float64(100), status.Amount)
}

func TestBackendErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"invalid session"}}`))
	}))
	defer server.Close()

	adapter := New(Config{BackendBaseURL: server.URL, Provider: "ziina", Tokens: func(context.Context) string { return "old" }, Client: server.Client()})
	result := adapter.CreatePayment(context.Background(), sampleRequest(100), PathBackend)
	assert.False(t, result.Success)
	assert.Equal(t, "invalid session", result.Message)
}

func TestValidationAndUnknownPath(t *testing.T) {
	adapter := New(Config{Keys: StaticKey("k")})
	ctx := context.Background()

	assert.Equal(t, ErrInvalidAmount.Error(), adapter.CreatePayment(ctx, sampleRequest(0), PathDirect).Message)
	assert.Equal(t, ErrInvalidAmount.Error(), adapter.CreatePayment(ctx, sampleRequest(-5), PathDirect).Message)

	req := sampleRequest(10)
	req.Currency = " "
	assert.Equal(t, ErrMissingCurrency.Error(), adapter.CreatePayment(ctx, req, PathDirect).Message)

	assert.Equal(t, ErrUnknownPath.Error(), adapter.CreatePayment(ctx, sampleRequest(10), Path("carrier-pigeon")).Message)
	_, ok := adapter.GetPaymentStatus(ctx, "", PathDirect)
	assert.False(t, ok)
}

func TestFirstKey(t *testing.T) {
	calls := 0
	lookup := KeyFunc(func(context.Context) (string, bool) {
		calls++
		return "from-config", true
	})

	key, ok := FirstKey(StaticKey("static"), lookup).GatewayKey(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "static", key)
	assert.Equal(t, 0, calls)

	key, ok = FirstKey(StaticKey(""), lookup).GatewayKey(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "from-config", key)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, models.PaymentCompleted, normalizeStatus("completed"))
	assert.Equal(t, models.PaymentCancelled, normalizeStatus("canceled"))
	assert.Equal(t, models.PaymentFailed, normalizeStatus("FAILED"))
	assert.Equal(t, models.PaymentPending, normalizeStatus("requires_user_action"))
}

func TestParsePath(t *testing.T) {
	path, ok := ParsePath(" Direct ")
	assert.True(t, ok)
	assert.Equal(t, PathDirect, path)
	_, ok = ParsePath("other")
	assert.False(t, ok)
}
