package hoteldash

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/hoteldash/internal/poller"
)

// dashConfig holds mutable state during Dashboard construction.
type dashConfig struct {
	title             string
	panels            []Panel
	port              int
	pollOnMount       bool
	logger            *slog.Logger
	registry          *prometheus.Registry
	snapshotCallbacks []func(Snapshot)

	// test seams
	ticker  poller.TickerFunc
	fetcher poller.Fetcher
}

// Option is a function that configures a [Dashboard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*dashConfig) error

// WithPanel adds a single [Panel] to the dashboard.
//
// Panels appear on the page in the order they are added. At least one
// panel must be configured for [New] to succeed.
//
// Example:
//
//	d, err := hoteldash.New(
//	    hoteldash.WithPanel(stats),
//	    hoteldash.WithPanel(events),
//	)
func WithPanel(p Panel) Option {
	return func(cfg *dashConfig) error {
		cfg.panels = append(cfg.panels, p)
		return nil
	}
}

// WithPanels adds multiple [Panel] values to the dashboard.
//
// Equivalent to calling [WithPanel] for each. Pairs with [NewAuditPanels]:
//
//	audits, _ := hoteldash.NewAuditPanels(base, []string{"hotel_room", "hotel_activity"})
//	d, err := hoteldash.New(hoteldash.WithPanels(audits...))
func WithPanels(panels ...Panel) Option {
	return func(cfg *dashConfig) error {
		cfg.panels = append(cfg.panels, panels...)
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *dashConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithPollOnMount controls whether each panel polls as soon as it starts.
//
// Enabled by default: a panel fetches immediately, then once per interval.
// When disabled the first request waits for the first interval to elapse,
// and the panel shows its loading view until then.
func WithPollOnMount(enabled bool) Option {
	return func(cfg *dashConfig) error {
		cfg.pollOnMount = enabled
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Dashboard instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dashConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Hotel Dashboard".
func WithTitle(title string) Option {
	return func(cfg *dashConfig) error {
		cfg.title = title
		return nil
	}
}

// WithMetricsRegistry registers the dashboard's Prometheus collectors with
// reg and serves reg at /metrics.
//
// Use it to expose dashboard metrics next to an application's own. By
// default each dashboard uses a private registry.
//
// Returns an error if reg is nil.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(cfg *dashConfig) error {
		if reg == nil {
			return errors.New("metrics registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithSnapshotCallback registers a function to be called after every
// committed poll.
//
// The callback receives the panel's [Snapshot] after the commit, once the
// panel's rendered fragment has been stored. Stale results discarded by a
// panel never reach callbacks.
//
// Multiple callbacks may be registered; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They are invoked synchronously
// from a single goroutine, in commit order, and a blocking callback delays
// every panel's updates.
//
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	d, err := hoteldash.New(
//	    hoteldash.WithPanel(stats),
//	    hoteldash.WithSnapshotCallback(func(s hoteldash.Snapshot) {
//	        if s.State == hoteldash.StateFailed {
//	            log.Printf("ALERT: %s failed: %v", s.Panel, s.Err)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithSnapshotCallback(cb func(Snapshot)) Option {
	return func(cfg *dashConfig) error {
		if cb == nil {
			return nil
		}
		cfg.snapshotCallbacks = append(cfg.snapshotCallbacks, cb)
		return nil
	}
}

// withTicker replaces the panels' ticker factory.
func withTicker(f poller.TickerFunc) Option {
	return func(cfg *dashConfig) error {
		cfg.ticker = f
		return nil
	}
}

// withFetcher replaces the HTTP client used by every panel.
func withFetcher(f poller.Fetcher) Option {
	return func(cfg *dashConfig) error {
		cfg.fetcher = f
		return nil
	}
}
