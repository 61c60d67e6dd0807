package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
stats:
  url: http://localhost:8100/stats
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.PollOnMountEnabled() {
		t.Error("PollOnMountEnabled() = false, want true by default")
	}
	if cfg.PanelCount() != 1 {
		t.Errorf("PanelCount() = %d, want 1", cfg.PanelCount())
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Front Desk
port: 9090
poll_on_mount: false

stats:
  url: https://stats.example.com/stats
  interval: 5s
  timeout: 2s
  headers:
    Authorization: Bearer token123

event_stats:
  name: events
  url: https://events.example.com/event_stats

audit:
  base_url: https://audit.example.com
  interval: 10s
  endpoints: [hotel_room, hotel_activity]
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Front Desk" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.PollOnMountEnabled() {
		t.Error("PollOnMountEnabled() = true, want false")
	}
	if cfg.Stats.Interval.Duration() != 5*time.Second || cfg.Stats.Timeout.Duration() != 2*time.Second {
		t.Errorf("Stats interval/timeout = %v/%v", cfg.Stats.Interval.Duration(), cfg.Stats.Timeout.Duration())
	}
	if cfg.Stats.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("Stats.Headers = %v", cfg.Stats.Headers)
	}
	if cfg.EventStats.Name != "events" {
		t.Errorf("EventStats.Name = %q", cfg.EventStats.Name)
	}
	if len(cfg.Audit.Endpoints) != 2 || cfg.Audit.Interval.Duration() != 10*time.Second {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
	if cfg.PanelCount() != 4 {
		t.Errorf("PanelCount() = %d, want 4", cfg.PanelCount())
	}
}

func TestParse_EnvVarExpansion(t *testing.T) {
	t.Setenv("HOTELDASH_STATS_HOST", "stats.internal:8100")
	t.Setenv("HOTELDASH_TOKEN", "secret")

	yaml := `
stats:
  url: http://${HOTELDASH_STATS_HOST}/stats
  headers:
    Authorization: Bearer ${HOTELDASH_TOKEN}
audit:
  base_url: ${HOTELDASH_AUDIT_URL:-http://localhost:8110}
  endpoints: [hotel_room]
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Stats.URL != "http://stats.internal:8100/stats" {
		t.Errorf("Stats.URL = %q", cfg.Stats.URL)
	}
	if cfg.Stats.Headers["Authorization"] != "Bearer secret" {
		t.Errorf("Authorization = %q", cfg.Stats.Headers["Authorization"])
	}
	if cfg.Audit.BaseURL != "http://localhost:8110" {
		t.Errorf("Audit.BaseURL = %q, want default", cfg.Audit.BaseURL)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
stats:
  url: http://${HOTELDASH_DEFINITELY_UNSET_VAR}/stats
`
	_, err := Parse([]byte(yaml))
	if err == nil || !strings.Contains(err.Error(), "HOTELDASH_DEFINITELY_UNSET_VAR") {
		t.Errorf("Parse() error = %v, want unset variable error", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HD_SET", "value")
	t.Setenv("HD_EMPTY", "")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "plain", false},
		{"${HD_SET}", "value", false},
		{"a-${HD_SET}-b", "a-value-b", false},
		{"${HD_EMPTY:-fallback}", "", false},
		{"${HD_UNSET_X:-fallback}", "fallback", false},
		{"${HD_UNSET_X:-}", "", false},
		{"${HD_UNSET_X}", "", true},
	}

	for _, tt := range tests {
		got, err := expandEnvVars(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("expandEnvVars(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty",
			yaml:    ``,
			wantErr: "at least one of stats",
		},
		{
			name:    "unknown key",
			yaml:    "stats:\n  url: http://a/stats\npoll_interval: 10s\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing url",
			yaml:    "stats:\n  interval: 2s\n",
			wantErr: "stats: url is required",
		},
		{
			name:    "bad scheme",
			yaml:    "stats:\n  url: ftp://a/stats\n",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "no scheme",
			yaml:    "event_stats:\n  url: /event_stats\n",
			wantErr: "must have a scheme",
		},
		{
			name:    "interval too short",
			yaml:    "stats:\n  url: http://a/stats\n  interval: 500ms\n",
			wantErr: "interval must be at least 1s",
		},
		{
			name:    "interval too long",
			yaml:    "stats:\n  url: http://a/stats\n  interval: 2h\n",
			wantErr: "interval must not exceed 1h",
		},
		{
			name:    "timeout too short",
			yaml:    "stats:\n  url: http://a/stats\n  timeout: 100ms\n",
			wantErr: "timeout must be at least 1s",
		},
		{
			name:    "timeout above default interval",
			yaml:    "stats:\n  url: http://a/stats\n  timeout: 3s\n",
			wantErr: "must not exceed interval",
		},
		{
			name:    "invalid duration",
			yaml:    "stats:\n  url: http://a/stats\n  interval: soon\n",
			wantErr: "invalid duration",
		},
		{
			name:    "audit missing base_url",
			yaml:    "audit:\n  endpoints: [a]\n",
			wantErr: "base_url is required",
		},
		{
			name:    "audit no endpoints",
			yaml:    "audit:\n  base_url: http://a\n",
			wantErr: "at least one endpoint",
		},
		{
			name:    "audit empty endpoint",
			yaml:    "audit:\n  base_url: http://a\n  endpoints: [\"\"]\n",
			wantErr: "name is required",
		},
		{
			name:    "audit endpoint with slash",
			yaml:    "audit:\n  base_url: http://a\n  endpoints: [a/b]\n",
			wantErr: "single path segment",
		},
		{
			name:    "audit duplicate endpoint",
			yaml:    "audit:\n  base_url: http://a\n  endpoints: [a, a]\n",
			wantErr: "duplicate endpoint",
		},
		{
			name:    "audit base url with query",
			yaml:    "audit:\n  base_url: http://a?x=1\n  endpoints: [a]\n",
			wantErr: "must not have a query",
		},
		{
			name:    "port out of range",
			yaml:    "port: 70000\nstats:\n  url: http://a/stats\n",
			wantErr: "port must be between",
		},
		{
			name:    "duplicate panel names",
			yaml:    "stats:\n  url: http://a/stats\nevent_stats:\n  name: stats\n  url: http://a/event_stats\n",
			wantErr: "already used",
		},
		{
			name:    "name with whitespace",
			yaml:    "stats:\n  name: my stats\n  url: http://a/stats\n",
			wantErr: "whitespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoteldash.yaml")
	content := "event_stats:\n  url: http://localhost:8120/event_stats\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EventStats == nil || cfg.EventStats.URL != "http://localhost:8120/event_stats" {
		t.Errorf("EventStats = %+v", cfg.EventStats)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error = %v, want read failure", err)
	}
}
