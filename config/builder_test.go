package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/jpalmerr/hoteldash"
)

func TestBuildPanels_Order(t *testing.T) {
	cfg := &Config{
		Port:       8080,
		Stats:      &PanelConfig{URL: "http://localhost:8100/stats"},
		EventStats: &PanelConfig{URL: "http://localhost:8120/event_stats"},
		Audit: &AuditConfig{
			BaseURL:   "http://localhost:8110",
			Endpoints: []string{"hotel_room", "hotel_activity"},
		},
	}

	panels, err := BuildPanels(cfg)
	if err != nil {
		t.Fatalf("BuildPanels() error = %v", err)
	}

	want := []struct {
		name string
		kind hoteldash.PanelKind
	}{
		{"stats", hoteldash.KindStats},
		{"event_stats", hoteldash.KindEventStats},
		{"audit-hotel_room", hoteldash.KindAudit},
		{"audit-hotel_activity", hoteldash.KindAudit},
	}
	if len(panels) != len(want) {
		t.Fatalf("len(panels) = %d, want %d", len(panels), len(want))
	}
	for i, w := range want {
		if panels[i].Name() != w.name || panels[i].Kind() != w.kind {
			t.Errorf("panels[%d] = %s/%s, want %s/%s", i, panels[i].Name(), panels[i].Kind(), w.name, w.kind)
		}
	}
}

func TestBuildPanels_Defaults(t *testing.T) {
	cfg := &Config{
		Stats: &PanelConfig{URL: "http://localhost:8100/stats"},
		Audit: &AuditConfig{BaseURL: "http://localhost:8110", Endpoints: []string{"hotel_room"}},
	}

	panels, err := BuildPanels(cfg)
	if err != nil {
		t.Fatalf("BuildPanels() error = %v", err)
	}

	if panels[0].Interval() != hoteldash.DefaultStatsInterval {
		t.Errorf("stats Interval() = %v, want %v", panels[0].Interval(), hoteldash.DefaultStatsInterval)
	}
	if panels[1].Interval() != hoteldash.DefaultAuditInterval {
		t.Errorf("audit Interval() = %v, want %v", panels[1].Interval(), hoteldash.DefaultAuditInterval)
	}
	if panels[0].Timeout() != 0 {
		t.Errorf("stats Timeout() = %v, want 0", panels[0].Timeout())
	}
}

func TestBuildPanels_AllOptions(t *testing.T) {
	cfg := &Config{
		EventStats: &PanelConfig{
			Name:     "events",
			URL:      "https://events.example.com/event_stats",
			Interval: Duration(10 * time.Second),
			Timeout:  Duration(3 * time.Second),
			Headers: map[string]string{
				"Authorization": "Bearer token",
				"X-Custom":      "value",
			},
		},
		Audit: &AuditConfig{
			BaseURL:   "https://audit.example.com/",
			Endpoints: []string{"hotel_room"},
			Interval:  Duration(8 * time.Second),
			Timeout:   Duration(2 * time.Second),
			Headers:   map[string]string{"X-Audit": "yes"},
		},
	}

	panels, err := BuildPanels(cfg)
	if err != nil {
		t.Fatalf("BuildPanels() error = %v", err)
	}

	ev := panels[0]
	if ev.Name() != "events" {
		t.Errorf("Name() = %q, want %q", ev.Name(), "events")
	}
	if ev.Interval() != 10*time.Second || ev.Timeout() != 3*time.Second {
		t.Errorf("Interval()/Timeout() = %v/%v", ev.Interval(), ev.Timeout())
	}
	wantHeaders := map[string]string{"Authorization": "Bearer token", "X-Custom": "value"}
	if !reflect.DeepEqual(ev.Headers(), wantHeaders) {
		t.Errorf("Headers() = %v, want %v", ev.Headers(), wantHeaders)
	}

	audit := panels[1]
	if audit.URL() != "https://audit.example.com" {
		t.Errorf("audit URL() = %q, want trailing slash trimmed", audit.URL())
	}
	if audit.Endpoint() != "hotel_room" {
		t.Errorf("audit Endpoint() = %q", audit.Endpoint())
	}
	if audit.Interval() != 8*time.Second || audit.Timeout() != 2*time.Second {
		t.Errorf("audit Interval()/Timeout() = %v/%v", audit.Interval(), audit.Timeout())
	}
	if audit.Headers()["X-Audit"] != "yes" {
		t.Errorf("audit Headers() = %v", audit.Headers())
	}
}

func TestBuildPanels_FromParsedYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Night Shift
port: 9191
poll_on_mount: false
stats:
  url: http://localhost:8100/stats
audit:
  base_url: http://localhost:8110
  endpoints: [hotel_room]
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatalf("BuildOptions() error = %v", err)
	}

	d, err := hoteldash.New(opts...)
	if err != nil {
		t.Fatalf("hoteldash.New() error = %v", err)
	}
	if d.Port() != 9191 {
		t.Errorf("Port() = %d, want 9191", d.Port())
	}
	if len(d.Panels()) != 2 {
		t.Errorf("len(Panels()) = %d, want 2", len(d.Panels()))
	}
}

func TestMapToKeyValuePairs(t *testing.T) {
	got := mapToKeyValuePairs(map[string]string{"b": "2", "a": "1", "c": "3"})
	want := []string{"a", "1", "b", "2", "c", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mapToKeyValuePairs() = %v, want %v", got, want)
	}

	if got := mapToKeyValuePairs(nil); len(got) != 0 {
		t.Errorf("mapToKeyValuePairs(nil) = %v, want empty", got)
	}
}
