package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"booking/portal/internal/models"
)

// RemoteProvider asks the auth backend who owns a token.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
}

type meResponse struct {
	SessionID string      `json:"session_id"`
	ExpiresAt string      `json:"expires_at"`
	User      models.User `json:"user"`
}

func NewRemoteProvider(baseURL string, client *http.Client) *RemoteProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *RemoteProvider) Session(ctx context.Context, token string) (models.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/auth/me", nil)
	if err != nil {
		return models.Session{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.Session{}, fmt.Errorf("auth me: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.Session{}, ErrSessionNotFound
	case resp.StatusCode >= 300:
		return models.Session{}, fmt.Errorf("auth me: unexpected status %d", resp.StatusCode)
	}

	var payload meResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Session{}, fmt.Errorf("auth me decode: %w", err)
	}

	current := models.Session{Authenticated: true}
	if payload.User.UserID != "" {
		user := payload.User
		current.User = &user
	}
	if expires, err := time.Parse(time.RFC3339, payload.ExpiresAt); err == nil {
		current.ExpiresAt = expires
	}
	return current, nil
}
