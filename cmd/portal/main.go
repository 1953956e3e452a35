package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking/portal/internal/config"
	"booking/portal/internal/configcache"
	"booking/portal/internal/guard"
	"booking/portal/internal/httpapi"
	"booking/portal/internal/payment"
	"booking/portal/internal/session"
	"booking/portal/internal/session/postgres"
	"booking/portal/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var Version = "dev"

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("booking-portal", Version)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	client := telemetry.HTTPClient(cfg.HTTPTimeout)

	provider, closeProvider := newSessionProvider(cfg, client)
	defer closeProvider()

	var store configcache.Store = configcache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisStore := configcache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	}
	lookup := configcache.NewLookup(
		configcache.New(store, configcache.WithTTL(cfg.ConfigCacheTTL)),
		configcache.NewHTTPFetcher(cfg.BackendBaseURL, client),
	)

	payments := payment.New(payment.Config{
		GatewayBaseURL: cfg.GatewayBaseURL,
		BackendBaseURL: cfg.BackendBaseURL,
		Provider:       cfg.PaymentProvider,
		TestMode:       cfg.GatewayTestMode,
		Keys: payment.FirstKey(
			payment.StaticKey(cfg.GatewayKey),
			payment.KeyFunc(func(ctx context.Context) (string, bool) {
				return lookup.GetValue(ctx, cfg.GatewayKeyService)
			}),
		),
		Tokens: session.TokenFromContext,
		Client: client,
	})

	defaultPath, ok := payment.ParsePath(cfg.PaymentPath)
	if !ok {
		log.Fatalf("invalid PORTAL_PAYMENT_PATH %q", cfg.PaymentPath)
	}
	handler := httpapi.NewHandler(guard.New(provider), payments, lookup, httpapi.Options{
		LoginPath:           cfg.LoginPath,
		AdminHomePath:       cfg.AdminFallbackPath,
		DefaultFallbackPath: cfg.DefaultFallbackPath,
		PaymentPath:         defaultPath,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:     cfg.RateLimitPerMinute,
		IPBurst:         cfg.RateLimitBurst,
		TenantPerMinute: cfg.TenantRateLimitPerMinute,
		TenantBurst:     cfg.TenantRateLimitBurst,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(handler.Routes())), "booking-portal")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("booking-portal listening on %s session_source=%s payment_path=%s", server.Addr, cfg.SessionSource, defaultPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newSessionProvider(cfg config.Config, client *http.Client) (session.Provider, func()) {
	switch cfg.SessionSource {
	case "jwt":
		if cfg.JWTSecret == "" {
			log.Fatalf("PORTAL_JWT_SECRET is required for jwt sessions")
		}
		return session.NewJWTProvider(cfg.JWTSecret), func() {}
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		return postgres.NewStore(pool), pool.Close
	case "remote", "":
		return session.NewRemoteProvider(cfg.BackendBaseURL, client), func() {}
	default:
		log.Fatalf("unknown PORTAL_SESSION_SOURCE %q", cfg.SessionSource)
		return nil, func() {}
	}
}
