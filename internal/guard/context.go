package guard

import (
	"context"

	"booking/portal/internal/models"
)

type sessionContextKey struct{}

func withSession(ctx context.Context, current models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, current)
}

// SessionFromContext returns the session the guard admitted.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	value := ctx.Value(sessionContextKey{})
	if value == nil {
		return models.Session{}, false
	}
	current, ok := value.(models.Session)
	if !ok {
		return models.Session{}, false
	}
	return current, true
}
