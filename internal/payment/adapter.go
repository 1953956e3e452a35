// Package payment normalizes the external payment gateway behind two
// operations, each reachable directly or through the owned backend. Callers
// always get a value back: failures are reported inside the result.
package payment

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"

	"booking/portal/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Path string

const (
	PathDirect  Path = "direct"
	PathBackend Path = "backend"
)

func ParsePath(raw string) (Path, bool) {
	switch Path(strings.ToLower(strings.TrimSpace(raw))) {
	case PathDirect:
		return PathDirect, true
	case PathBackend:
		return PathBackend, true
	default:
		return "", false
	}
}

// KeySource yields the gateway key for the direct path.
type KeySource interface {
	GatewayKey(ctx context.Context) (string, bool)
}

type KeyFunc func(ctx context.Context) (string, bool)

func (f KeyFunc) GatewayKey(ctx context.Context) (string, bool) {
	return f(ctx)
}

type StaticKey string

func (k StaticKey) GatewayKey(ctx context.Context) (string, bool) {
	return string(k), k != ""
}

// FirstKey tries each source in order.
func FirstKey(sources ...KeySource) KeySource {
	return KeyFunc(func(ctx context.Context) (string, bool) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			if key, ok := source.GatewayKey(ctx); ok && key != "" {
				return key, true
			}
		}
		return "", false
	})
}

// TokenSource yields the session bearer token for the backend path.
type TokenSource func(ctx context.Context) string

type Config struct {
	GatewayBaseURL string
	BackendBaseURL string
	Provider       string
	TestMode       bool
	Keys           KeySource
	Tokens         TokenSource
	Client         *http.Client
}

type Adapter struct {
	gateway *gateway
	backend *backend
	tracer  trace.Tracer
}

func New(cfg Config) *Adapter {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	keys := cfg.Keys
	if keys == nil {
		keys = StaticKey("")
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = func(context.Context) string { return "" }
	}
	return &Adapter{
		gateway: &gateway{
			baseURL:  strings.TrimRight(cfg.GatewayBaseURL, "/"),
			client:   client,
			keys:     keys,
			testMode: cfg.TestMode,
		},
		backend: &backend{
			baseURL:  strings.TrimRight(cfg.BackendBaseURL, "/"),
			provider: cfg.Provider,
			client:   client,
			tokens:   tokens,
		},
		tracer: otel.Tracer("booking/portal/payment"),
	}
}

// CreatePayment starts a payment. It never fails outright: problems come back
// as a result with Success false and a message.
func (a *Adapter) CreatePayment(ctx context.Context, req models.PaymentRequest, path Path) models.PaymentResult {
	ctx, span := a.tracer.Start(ctx, "payment.create", trace.WithAttributes(
		attribute.String("payment.path", string(path)),
		attribute.String("payment.order_id", req.OrderID),
		attribute.String("payment.currency", req.Currency),
	))
	defer span.End()

	var result models.PaymentResult
	if err := validate(req); err != nil {
		result = models.FailedPayment(err.Error())
	} else {
		switch path {
		case PathDirect:
			result = a.gateway.create(ctx, req)
		case PathBackend:
			result = a.backend.create(ctx, req)
		default:
			result = models.FailedPayment(ErrUnknownPath.Error())
		}
	}

	if !result.Success {
		span.SetStatus(codes.Error, result.Message)
		log.Printf("payment create failed path=%s order=%s amount=%s %s: %s", path, req.OrderID, formatAmount(req.Amount), req.Currency, result.Message)
		return result
	}
	span.SetAttributes(attribute.String("payment.id", result.PaymentID))
	log.Printf("payment created path=%s order=%s payment=%s status=%s", path, req.OrderID, result.PaymentID, result.Status)
	return result
}

// GetPaymentStatus fetches a status snapshot. The boolean is false on any
// failure; status checks are advisory and carry no error detail.
func (a *Adapter) GetPaymentStatus(ctx context.Context, paymentID string, path Path) (models.PaymentStatus, bool) {
	ctx, span := a.tracer.Start(ctx, "payment.status", trace.WithAttributes(
		attribute.String("payment.path", string(path)),
		attribute.String("payment.id", paymentID),
	))
	defer span.End()

	if strings.TrimSpace(paymentID) == "" {
		span.SetStatus(codes.Error, ErrMissingPaymentID.Error())
		return models.PaymentStatus{}, false
	}

	var (
		status models.PaymentStatus
		err    error
	)
	switch path {
	case PathDirect:
		status, err = a.gateway.status(ctx, paymentID)
	case PathBackend:
		status, err = a.backend.status(ctx, paymentID)
	default:
		err = ErrUnknownPath
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("payment status failed path=%s payment=%s: %v", path, paymentID, err)
		return models.PaymentStatus{}, false
	}
	return status, true
}

func validate(req models.PaymentRequest) error {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := toMinorUnits(req.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(req.Currency) == "" {
		return ErrMissingCurrency
	}
	return nil
}
