package session

import (
	"context"
	"errors"
	"fmt"

	"booking/portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by portal session tokens.
type Claims struct {
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider validates HMAC-signed session tokens locally.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Session(ctx context.Context, token string) (models.Session, error) {
	if len(p.secret) == 0 {
		return models.Session{}, errors.New("jwt secret not configured")
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, ErrInvalidToken
	}

	current := models.Session{Authenticated: true}
	if claims.Subject != "" {
		current.User = &models.User{
			UserID:   claims.Subject,
			TenantID: claims.TenantID,
			Role:     claims.Role,
			Email:    claims.Email,
		}
	}
	if claims.ExpiresAt != nil {
		current.ExpiresAt = claims.ExpiresAt.Time
	}
	return current, nil
}

// Sign issues a token for the given claims. Used by tooling and tests; the
// portal itself never mints session tokens.
func (p *JWTProvider) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
