package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	BackendBaseURL string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	SessionSource string
	JWTSecret     string

	LoginPath           string
	AdminFallbackPath   string
	DefaultFallbackPath string

	GatewayBaseURL    string
	GatewayKey        string
	GatewayKeyService string
	GatewayTestMode   bool
	PaymentProvider   string
	PaymentPath       string

	ConfigCacheTTL time.Duration
	HTTPTimeout    time.Duration

	RateLimitPerMinute       int
	RateLimitBurst           int
	TenantRateLimitPerMinute int
	TenantRateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORTAL_PORT")
	if port == "" {
		port = "8090"
	}

	return Config{
		Port:           port,
		BackendBaseURL: readString("PORTAL_BACKEND_URL", "http://localhost:8080"),
		DatabaseURL:    os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("PORTAL_REDIS_ADDR"),
		RedisPassword:  os.Getenv("PORTAL_REDIS_PASSWORD"),
		RedisDB:        readInt("PORTAL_REDIS_DB", 0),

		SessionSource: strings.ToLower(readString("PORTAL_SESSION_SOURCE", "remote")),
		JWTSecret:     os.Getenv("PORTAL_JWT_SECRET"),

		LoginPath:           readString("PORTAL_LOGIN_PATH", "/login"),
		AdminFallbackPath:   readString("PORTAL_ADMIN_FALLBACK_PATH", "/admin"),
		DefaultFallbackPath: readString("PORTAL_FALLBACK_PATH", "/"),

		GatewayBaseURL:    readString("PORTAL_GATEWAY_URL", "https://api-v2.ziina.com/api"),
		GatewayKey:        os.Getenv("PORTAL_GATEWAY_KEY"),
		GatewayKeyService: readString("PORTAL_GATEWAY_KEY_SERVICE", "ziina"),
		GatewayTestMode:   readBool("PORTAL_GATEWAY_TEST_MODE", true),
		PaymentProvider:   readString("PORTAL_PAYMENT_PROVIDER", "ziina"),
		PaymentPath:       readString("PORTAL_PAYMENT_PATH", "backend"),

		ConfigCacheTTL: readDuration("PORTAL_CONFIG_CACHE_TTL", 5*time.Minute),
		HTTPTimeout:    readDuration("PORTAL_HTTP_TIMEOUT", 0),

		RateLimitPerMinute:       readInt("PORTAL_RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:           readInt("PORTAL_RATE_LIMIT_BURST", 30),
		TenantRateLimitPerMinute: readInt("PORTAL_TENANT_RATE_LIMIT_PER_MIN", 300),
		TenantRateLimitBurst:     readInt("PORTAL_TENANT_RATE_LIMIT_BURST", 60),
	}
}

func readString(key, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return raw
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

// readDuration accepts Go durations ("90s") or a bare number of seconds.
func readDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if value, err := time.ParseDuration(raw); err == nil {
		return value
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
