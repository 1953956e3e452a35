package configcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrMissingAPIKey = errors.New("config response has no api_key")

type Fetcher interface {
	Fetch(ctx context.Context, service string) (string, error)
}

// HTTPFetcher reads GET <base>/api/config/{service}.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, service string) (string, error) {
	endpoint := f.baseURL + "/api/config/" + url.PathEscape(service)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("config fetch %s: %w", service, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("config fetch %s: status %d", service, resp.StatusCode)
	}

	var payload struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("config fetch %s decode: %w", service, err)
	}
	if payload.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	return payload.APIKey, nil
}
