package session

import (
	"context"
	"errors"
	"log"

	"booking/portal/internal/models"
)

// Provider resolves a session token into the visitor's session.
// Implementations return ErrSessionNotFound for unknown or expired tokens.
type Provider interface {
	Session(ctx context.Context, token string) (models.Session, error)
}

// Resolve never fails: an empty token, an unknown token and a lookup error all
// yield an anonymous session.
func Resolve(ctx context.Context, provider Provider, token string) models.Session {
	if token == "" || provider == nil {
		return models.Anonymous()
	}
	current, err := provider.Session(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrInvalidToken) {
			log.Printf("session lookup error: %v", err)
		}
		return models.Anonymous()
	}
	return current
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, token string) (models.Session, error)

func (f ProviderFunc) Session(ctx context.Context, token string) (models.Session, error) {
	return f(ctx, token)
}
