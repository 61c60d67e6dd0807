package hoteldash

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// panelConfig holds mutable state during panel construction.
type panelConfig struct {
	name        string
	interval    time.Duration
	timeout     time.Duration
	headers     map[string]string
	indexSource IndexSource
}

// PanelOption is a function that configures a [Panel] during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithName], [WithInterval], [WithTimeout],
// [WithHeaders], [WithIndexSource].
type PanelOption func(*panelConfig) error

// WithName overrides the panel's default name.
//
// Names identify panels in the dashboard, the JSON API, logs and metrics,
// and must be unique within a [Dashboard]. Use it to run two panels of the
// same kind side by side.
//
// Returns an error if the name is empty or contains whitespace.
func WithName(name string) PanelOption {
	return func(cfg *panelConfig) error {
		if name == "" {
			return errors.New("panel name cannot be empty")
		}
		if strings.ContainsAny(name, " \t\r\n") {
			return fmt.Errorf("panel name %q must not contain whitespace", name)
		}
		cfg.name = name
		return nil
	}
}

// WithInterval sets the panel's poll period.
//
// Defaults to 2 seconds for stats panels and 4 seconds for audit panels.
// The interval is measured between request starts: a slow response does
// not delay the next poll.
//
// The interval must be at least 1 second and at most 1 hour.
func WithInterval(d time.Duration) PanelOption {
	return func(cfg *panelConfig) error {
		if d < minInterval {
			return errors.New("interval must be at least 1 second")
		}
		if d > maxInterval {
			return errors.New("interval must not exceed 1 hour")
		}
		cfg.interval = d
		return nil
	}
}

// WithTimeout sets a per-request timeout.
//
// A request that does not complete within d fails and the panel shows its
// error view. By default no timeout is set and a hung request leaves the
// panel's state unchanged until it resolves. The timeout must not exceed
// the panel's interval.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) PanelOption {
	return func(cfg *panelConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds HTTP headers to every request the panel issues.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	stats, err := hoteldash.NewStatsPanel(url,
//	    hoteldash.WithHeaders("Authorization", "Bearer token123"),
//	)
func WithHeaders(keyValues ...string) PanelOption {
	return func(cfg *panelConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithIndexSource sets the random source used to sample audit indexes.
//
// By default each running audit panel gets its own seeded source. Supply a
// deterministic source in tests. A source passed to [NewAuditPanels] is
// shared by every panel it creates and must then be safe for concurrent
// use. Ignored by non-audit panels.
func WithIndexSource(src IndexSource) PanelOption {
	return func(cfg *panelConfig) error {
		if src == nil {
			return errors.New("index source cannot be nil")
		}
		cfg.indexSource = src
		return nil
	}
}
