package hoteldash

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jpalmerr/hoteldash/internal/poller"
)

const (
	// DefaultStatsInterval is the poll period of the stats panels.
	DefaultStatsInterval = 2 * time.Second

	// DefaultAuditInterval is the poll period of audit panels.
	DefaultAuditInterval = 4 * time.Second

	minInterval = time.Second
	maxInterval = time.Hour
)

// PanelKind selects how a panel's payload is rendered.
type PanelKind string

const (
	// KindStats renders the aggregate reservation statistics table.
	KindStats PanelKind = "stats"

	// KindEventStats renders one counter row per event-type code.
	KindEventStats PanelKind = "event_stats"

	// KindAudit renders a single sampled audit record.
	KindAudit PanelKind = "audit"
)

// String returns the string representation of the kind.
func (k PanelKind) String() string {
	return string(k)
}

// Panel is one dashboard tile: a URL polled on a fixed interval and a
// template that renders the response.
//
// Panel is immutable after creation via [NewStatsPanel],
// [NewEventTypeStatsPanel] or [NewAuditPanel]. Getters return copies of
// mutable data.
//
// A Panel is a description only. Each [Dashboard] that runs it creates a
// fresh view, so no state is carried between runs.
type Panel struct {
	name        string
	kind        PanelKind
	url         string
	endpoint    string
	interval    time.Duration
	timeout     time.Duration
	headers     map[string]string
	indexSource IndexSource
}

// Name returns the panel's name, unique within a dashboard.
func (p Panel) Name() string {
	return p.name
}

// Kind returns the panel's kind.
func (p Panel) Kind() PanelKind {
	return p.kind
}

// URL returns the polled URL. For audit panels this is the base URL; the
// endpoint path and the sampled index are appended per request.
func (p Panel) URL() string {
	return p.url
}

// Endpoint returns the audited endpoint name, or "" for other kinds.
func (p Panel) Endpoint() string {
	return p.endpoint
}

// Interval returns the poll period.
func (p Panel) Interval() time.Duration {
	return p.interval
}

// Timeout returns the per-request timeout. Zero means no timeout beyond the
// transport's own.
func (p Panel) Timeout() time.Duration {
	return p.timeout
}

// Headers returns a copy of the headers sent with every request.
// Returns nil if no headers are set.
func (p Panel) Headers() map[string]string {
	return copyMap(p.headers)
}

// NewStatsPanel creates a panel polling the aggregate stats endpoint.
//
// rawURL is the full endpoint URL, e.g. "http://stats:8100/stats". The panel
// is named "stats" and polls every 2 seconds unless overridden.
//
// Example:
//
//	stats, err := hoteldash.NewStatsPanel("http://localhost:8100/stats")
func NewStatsPanel(rawURL string, opts ...PanelOption) (Panel, error) {
	return newPanel(KindStats, "stats", rawURL, "", DefaultStatsInterval, opts)
}

// NewEventTypeStatsPanel creates a panel polling the event counts endpoint.
//
// rawURL is the full endpoint URL, e.g. "http://events:8120/event_stats".
// The panel is named "event_stats" and polls every 2 seconds unless
// overridden.
func NewEventTypeStatsPanel(rawURL string, opts ...PanelOption) (Panel, error) {
	return newPanel(KindEventStats, "event_stats", rawURL, "", DefaultStatsInterval, opts)
}

// NewAuditPanel creates a panel sampling one record of an audit endpoint.
//
// Every poll draws a fresh index in [0, 100) and requests
// "{baseURL}/{endpoint}?index={n}". The panel is named "audit-{endpoint}"
// and polls every 4 seconds unless overridden.
//
// Example:
//
//	rooms, err := hoteldash.NewAuditPanel("http://audit:8110", "hotel_room")
//
// Returns an error if endpoint is empty or is not a single path segment.
func NewAuditPanel(baseURL, endpoint string, opts ...PanelOption) (Panel, error) {
	if err := validateEndpointName(endpoint); err != nil {
		return Panel{}, err
	}
	if strings.ContainsAny(baseURL, "?#") {
		return Panel{}, errors.New("audit base URL must not have a query or fragment")
	}
	p, err := newPanel(KindAudit, "audit-"+endpoint, baseURL, endpoint, DefaultAuditInterval, opts)
	if err != nil {
		return Panel{}, err
	}
	p.url = strings.TrimRight(p.url, "/")
	return p, nil
}

// NewAuditPanels creates one audit panel per endpoint, all sharing baseURL
// and opts.
//
// [WithName] is rejected here since every panel would share the name.
//
// Example:
//
//	panels, err := hoteldash.NewAuditPanels("http://audit:8110",
//	    []string{"hotel_room", "hotel_activity"},
//	)
//	// usable with WithPanels(panels...)
func NewAuditPanels(baseURL string, endpoints []string, opts ...PanelOption) ([]Panel, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("at least one audit endpoint required")
	}

	probe := &panelConfig{headers: make(map[string]string)}
	for _, opt := range opts {
		if err := opt(probe); err != nil {
			return nil, err
		}
	}
	if probe.name != "" {
		return nil, errors.New("WithName cannot be used with NewAuditPanels")
	}

	seen := make(map[string]bool, len(endpoints))
	panels := make([]Panel, 0, len(endpoints))
	for _, ep := range endpoints {
		if seen[ep] {
			return nil, fmt.Errorf("duplicate audit endpoint: %q", ep)
		}
		seen[ep] = true

		p, err := NewAuditPanel(baseURL, ep, opts...)
		if err != nil {
			return nil, fmt.Errorf("audit endpoint %q: %w", ep, err)
		}
		panels = append(panels, p)
	}
	return panels, nil
}

func newPanel(kind PanelKind, name, rawURL, endpoint string, interval time.Duration, opts []PanelOption) (Panel, error) {
	if err := validateURL(rawURL); err != nil {
		return Panel{}, err
	}

	cfg := &panelConfig{
		headers:  make(map[string]string),
		interval: interval,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Panel{}, err
		}
	}
	if cfg.name != "" {
		name = cfg.name
	}
	if cfg.timeout > cfg.interval {
		return Panel{}, fmt.Errorf("timeout %s must not exceed interval %s", cfg.timeout, cfg.interval)
	}

	return Panel{
		name:        name,
		kind:        kind,
		url:         rawURL,
		endpoint:    endpoint,
		interval:    cfg.interval,
		timeout:     cfg.timeout,
		headers:     cfg.headers,
		indexSource: cfg.indexSource,
	}, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL: " + err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must have a scheme (http:// or https://)")
	}
	if u.Host == "" {
		return errors.New("URL must have a host")
	}
	return nil
}

func validateEndpointName(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return errors.New("audit endpoint cannot be empty")
	}
	if strings.ContainsAny(endpoint, "/?#") {
		return fmt.Errorf("audit endpoint %q must be a single path segment", endpoint)
	}
	return nil
}

// pollerConfig converts the panel to the poller's view description.
//
// Audit panels get their own index source here when none was supplied, so
// two dashboards running the same Panel never share one.
func (p Panel) pollerConfig(pollOnMount bool) poller.Config {
	cfg := poller.Config{
		Name:        p.name,
		Interval:    p.interval,
		Timeout:     p.timeout,
		Headers:     copyMap(p.headers),
		PollOnMount: pollOnMount,
	}

	if p.kind != KindAudit {
		target := p.url
		cfg.Request = func() poller.Request {
			return poller.Request{URL: target}
		}
		return cfg
	}

	src := p.indexSource
	if src == nil {
		src = newIndexSource()
	}
	prefix := p.url + "/" + url.PathEscape(p.endpoint) + "?index="
	cfg.Request = func() poller.Request {
		idx := drawIndex(src)
		return poller.Request{URL: prefix + idx, Token: idx}
	}
	return cfg
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
