package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("INTENTGUARD_BACKEND_BASE_URL", "")
	dir := writeConfig(t, `
backend:
  base_url: "http://backend.local:8001/"
auth:
  signing_key: "k"
views:
  summary:
    interval: 30s
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend.local:8001" {
		t.Errorf("base url: got %q", cfg.Backend.BaseURL)
	}
	if cfg.Views.Dashboard.Interval != 3*time.Second {
		t.Errorf("dashboard interval: got %v", cfg.Views.Dashboard.Interval)
	}
	if cfg.Views.DigitalTwin.Interval != 5*time.Second {
		t.Errorf("digital twin interval: got %v", cfg.Views.DigitalTwin.Interval)
	}
	if cfg.Views.Summary.Interval != 30*time.Second {
		t.Errorf("summary interval: got %v", cfg.Views.Summary.Interval)
	}
	if cfg.Views.Dashboard.AlertStatus != "active" || cfg.Views.Dashboard.AlertLimit != 10 {
		t.Errorf("dashboard alert filter: got %+v", cfg.Views.Dashboard)
	}
	if cfg.Views.Summary.AlertLimit != 5 {
		t.Errorf("summary alert limit: got %d", cfg.Views.Summary.AlertLimit)
	}
	if cfg.History.Capacity != 20 {
		t.Errorf("history capacity: got %d", cfg.History.Capacity)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("port: got %q", cfg.HTTP.Port)
	}
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	dir := writeConfig(t, "auth:\n  signing_key: k\n")
	t.Setenv("BACKEND_URL", "https://rail.example.com")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://rail.example.com" {
		t.Fatalf("base url: got %q", cfg.Backend.BaseURL)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	dir := writeConfig(t, "auth:\n  signing_key: k\n")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("INTENTGUARD_BACKEND_BASE_URL", "")

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for missing base url")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Backend: BackendConfig{BaseURL: "http://b"},
		Auth:    AuthConfig{SigningKey: "k"},
		Views: ViewsConfig{
			Dashboard:   ViewConfig{Interval: time.Second},
			DigitalTwin: ViewConfig{Interval: time.Second},
			Summary:     ViewConfig{Interval: time.Second},
		},
		History: HistoryConfig{Capacity: 20},
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative url", func(c *Config) { c.Backend.BaseURL = "backend" }, true},
		{"zero interval", func(c *Config) { c.Views.Summary.Interval = 0 }, true},
		{"zero capacity", func(c *Config) { c.History.Capacity = 0 }, true},
		{"no signing key", func(c *Config) { c.Auth.SigningKey = "" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			err := c.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
