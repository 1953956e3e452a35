package postgres

import (
	"context"
	"errors"

	"booking/portal/internal/models"
	"booking/portal/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store resolves session tokens against the auth service's tables.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Session(ctx context.Context, token string) (models.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return models.Session{}, session.ErrInvalidToken
	}

	current := models.Session{Authenticated: true}
	var userID, tenantID, role, email *string
	row := s.pool.QueryRow(ctx, `
		SELECT s.expires_at, u.user_id, u.tenant_id, r.name, u.email
		FROM sessions s
		LEFT JOIN users u ON u.user_id = s.user_id AND u.active = TRUE
		LEFT JOIN roles r ON r.role_id = u.role_id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`, token)
	if err := row.Scan(&current.ExpiresAt, &userID, &tenantID, &role, &email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, session.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	if userID != nil {
		current.User = &models.User{
			UserID:   *userID,
			TenantID: deref(tenantID),
			Role:     deref(role),
			Email:    deref(email),
		}
	}
	return current, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
