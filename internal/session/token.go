package session

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the key the browser persists the session token under.
const CookieName = "token"

type tokenContextKey struct{}

// TokenFromRequest reads the session token from the token cookie, falling back
// to an Authorization bearer header for API clients.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	value, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok {
		return ""
	}
	return value
}

// TokenMiddleware stores the request token in the context so downstream
// calls to the owned backend can forward it.
func TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
