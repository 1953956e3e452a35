package httpapi

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"strings"

	"booking/portal/internal/guard"
	"booking/portal/internal/models"
	"booking/portal/internal/payment"
	"booking/portal/internal/session"

	"github.com/go-chi/chi/v5"
)

type Payments interface {
	CreatePayment(ctx context.Context, req models.PaymentRequest, path payment.Path) models.PaymentResult
	GetPaymentStatus(ctx context.Context, paymentID string, path payment.Path) (models.PaymentStatus, bool)
}

type ConfigCache interface {
	Cached(ctx context.Context, serviceKey string) bool
	Clear(ctx context.Context) error
	Len(ctx context.Context) int
}

type Options struct {
	LoginPath           string
	AdminHomePath       string
	DefaultFallbackPath string
	PaymentPath         payment.Path
}

type Handler struct {
	guard    *guard.Guard
	payments Payments
	config   ConfigCache
	opts     Options
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(g *guard.Guard, payments Payments, config ConfigCache, opts Options) *Handler {
	if opts.PaymentPath == "" {
		opts.PaymentPath = payment.PathBackend
	}
	return &Handler{guard: g, payments: payments, config: config, opts: opts}
}

func (h *Handler) fallback() func(string) string {
	return guard.RoleFallback(map[string]string{
		models.RoleSuperAdmin: "/super-admin",
		models.RoleAdmin:      h.opts.AdminHomePath,
	}, h.opts.DefaultFallbackPath)
}

func (h *Handler) adminPolicy() guard.Policy {
	return guard.Policy{
		AllowedRoles: guard.AdminTier,
		LoginPath:    h.opts.LoginPath,
		Fallback:     guard.RoleFallback(nil, h.opts.DefaultFallbackPath),
	}
}

func (h *Handler) superAdminPolicy() guard.Policy {
	return guard.Policy{
		AllowedRoles: guard.SuperAdminOnly,
		LoginPath:    h.opts.LoginPath,
		Fallback:     h.fallback(),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", expvar.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(h.adminPolicy()))
		r.Get("/admin", h.handleAdminDashboard)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(h.superAdminPolicy()))
		r.Get("/super-admin", h.handleSuperAdminDashboard)
		r.Get("/super-admin/config/{service}", h.handleConfigStatus)
		r.Post("/super-admin/config/clear", h.handleConfigClear)
	})

	r.Route("/api/checkout/payments", func(r chi.Router) {
		r.Use(session.TokenMiddleware)
		r.Post("/", h.handleCreatePayment)
		r.Get("/{paymentID}", h.handlePaymentStatus)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type dashboardResponse struct {
	User     *models.User      `json:"user"`
	Role     string            `json:"role"`
	Sections []string          `json:"sections"`
	Cache    *cacheSummary     `json:"config_cache,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
}

type cacheSummary struct {
	Entries int `json:"entries"`
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	current, _ := guard.SessionFromContext(r.Context())
	resp := dashboardResponse{
		User:     current.User,
		Role:     current.Role(),
		Sections: []string{"bookings", "services", "providers", "payments"},
	}
	if current.Role() == models.RoleSuperAdmin {
		resp.Links = map[string]string{"super_admin": "/super-admin"}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSuperAdminDashboard(w http.ResponseWriter, r *http.Request) {
	current, _ := guard.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, dashboardResponse{
		User:     current.User,
		Role:     current.Role(),
		Sections: []string{"tenants", "admins", "settings", "integrations"},
		Cache:    &cacheSummary{Entries: h.config.Len(r.Context())},
		Links:    map[string]string{"admin": h.opts.AdminHomePath},
	})
}

func (h *Handler) handleConfigStatus(w http.ResponseWriter, r *http.Request) {
	service := strings.TrimSpace(chi.URLParam(r, "service"))
	if service == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "service is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": service,
		"cached":  h.config.Cached(r.Context(), service),
	})
}

func (h *Handler) handleConfigClear(w http.ResponseWriter, r *http.Request) {
	if err := h.config.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "config cache clear failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	path, ok := h.pathFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "path must be direct or backend")
		return
	}
	var req models.PaymentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	result := h.payments.CreatePayment(r.Context(), req, path)
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	path, ok := h.pathFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "path must be direct or backend")
		return
	}
	paymentID := strings.TrimSpace(chi.URLParam(r, "paymentID"))
	status, found := h.payments.GetPaymentStatus(r.Context(), paymentID, path)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "payment status unavailable")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) pathFromRequest(r *http.Request) (payment.Path, bool) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		return h.opts.PaymentPath, true
	}
	return payment.ParsePath(raw)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
