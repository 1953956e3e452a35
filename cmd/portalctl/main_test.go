package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booking/portal/internal/config"
	"booking/portal/internal/configcache"

	"github.com/spf13/cobra"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"sk_live_1234", "********1234"},
	}
	for _, tc := range tests {
		if got := mask(tc.in); got != tc.want {
			t.Fatalf("mask(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPathFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("path", "backend", "")
	if path, err := pathFlag(cmd); err != nil || path != "backend" {
		t.Fatalf("expected backend, got %s %v", path, err)
	}
	_ = cmd.Flags().Set("path", "teleport")
	if _, err := pathFlag(cmd); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestConfigGetMasksKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"api_key":"maps-key-9876"}`))
	}))
	defer server.Close()

	a := &app{cfg: config.Config{BackendBaseURL: server.URL}}
	root := &cobra.Command{Use: "portalctl"}
	root.AddCommand(configCmd(a))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "get", "maps"})

	a.lookup = configcache.NewLookup(configcache.New(nil), configcache.NewHTTPFetcher(server.URL, server.Client()))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), ": *********9876") {
		t.Fatalf("expected masked key, got %q", out.String())
	}
}
