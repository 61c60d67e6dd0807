package hoteldash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jpalmerr/hoteldash/dashboard"
	"github.com/jpalmerr/hoteldash/internal/poller"
	"github.com/jpalmerr/hoteldash/internal/server"
	"github.com/jpalmerr/hoteldash/internal/store"
)

const defaultPort = 8080

// Dashboard runs a set of independent polling panels and serves them as a
// live page.
//
// Each panel owns its own timer and state: a slow or failing endpoint only
// affects its own panel. A Dashboard is created using [New] with functional
// options and started with [Dashboard.Start].
//
// The typical lifecycle is:
//
//	stats, _ := hoteldash.NewStatsPanel("http://localhost:8100/stats")
//	d, err := hoteldash.New(hoteldash.WithPanel(stats))
//	if err != nil {
//	    slog.Error("failed to create dashboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	d.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// stop every panel and shut the server down.
type Dashboard struct {
	title             string
	panels            []Panel
	port              int
	pollOnMount       bool
	logger            *slog.Logger
	metrics           *metrics
	renderer          *renderer
	snapshotCallbacks []func(Snapshot)

	ticker  poller.TickerFunc
	fetcher poller.Fetcher
}

// New creates a new [Dashboard] with the given options.
//
// At least one panel must be configured via [WithPanel] or [WithPanels],
// and panel names must be unique. Other options have sensible defaults:
//   - Port: 8080
//   - Poll on mount: enabled
//   - Logger: slog.Default()
//
// Example:
//
//	d, err := hoteldash.New(
//	    hoteldash.WithPanels(stats, events),
//	    hoteldash.WithPanels(audits...),
//	    hoteldash.WithPort(9090),
//	)
func New(opts ...Option) (*Dashboard, error) {
	cfg := &dashConfig{
		port:        defaultPort,
		pollOnMount: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.panels) == 0 {
		return nil, errors.New("at least one panel is required")
	}

	seen := make(map[string]bool, len(cfg.panels))
	for _, p := range cfg.panels {
		if p.name == "" {
			return nil, errors.New("panel must be created with a panel constructor")
		}
		if seen[p.name] {
			return nil, fmt.Errorf("duplicate panel name: %q", p.name)
		}
		seen[p.name] = true
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	m, err := newMetrics(cfg.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &Dashboard{
		title:             cfg.title,
		panels:            cfg.panels,
		port:              cfg.port,
		pollOnMount:       cfg.pollOnMount,
		logger:            logger,
		metrics:           m,
		renderer:          newRenderer(logger),
		snapshotCallbacks: cfg.snapshotCallbacks,
		ticker:            cfg.ticker,
		fetcher:           cfg.fetcher,
	}, nil
}

// Start starts every panel and serves the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - Every panel shows its loading view until its first poll resolves
//   - Each panel polls its own endpoint on its own interval
//   - The HTTP server serves the page, the JSON API, SSE updates and metrics
//
// On cancellation every panel is stopped, in-flight requests are aborted
// and their results discarded, and the server shuts down.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start.
func (d *Dashboard) Start(ctx context.Context) error {
	d.logger.Info("hoteldash starting", "panel_count", len(d.panels))
	for _, p := range d.panels {
		d.logger.Info("panel configured",
			"panel", p.name,
			"kind", p.kind.String(),
			"url", p.url,
			"interval", p.interval.String(),
		)
	}
	d.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", d.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	panelStore := store.NewMemoryStore()
	byName := make(map[string]Panel, len(d.panels))
	configs := make([]poller.Config, len(d.panels))
	for i, p := range d.panels {
		byName[p.name] = p
		configs[i] = p.pollerConfig(d.pollOnMount)

		loading := Snapshot{Panel: p.name, Kind: p.kind, State: StateLoading}
		panelStore.Update(d.panelView(i, p, loading))
		d.metrics.setState(p.name, StateLoading)
	}

	var viewOpts []poller.ViewOption
	if d.ticker != nil {
		viewOpts = append(viewOpts, poller.WithTicker(d.ticker))
	}
	scheduler, err := poller.NewScheduler(configs, d.fetcher, d.logger, viewOpts...)
	if err != nil {
		return fmt.Errorf("failed to create panels: %w", err)
	}

	order := make(map[string]int, len(d.panels))
	for i, p := range d.panels {
		order[p.name] = i
	}

	// start the HTTP server before mounting so a bind error leaves nothing running
	httpServer := server.NewServer(panelStore, d.port, dashboard.Assets, d.title, d.metrics.handler(), d.logger)
	if err := httpServer.Start(ctx); err != nil {
		scheduler.Stop()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	scheduler.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range scheduler.Updates() {
			p := byName[u.Result.View]
			if !u.Committed {
				d.metrics.observeDrop(p.name)
				d.logger.Debug("poll result discarded",
					"panel", p.name,
					"url", u.Result.URL,
					"token", u.Result.Token,
					"seq", u.Result.Seq,
				)
				continue
			}

			snap := toSnapshot(p, u.Snapshot, u.Result)

			// store update first (callbacks fire after the render is visible)
			panelStore.Update(d.panelView(order[p.name], p, snap))
			d.metrics.observeCommit(snap)

			for _, cb := range d.snapshotCallbacks {
				invokeCallbackSafe(cb, snap, d.logger)
			}

			logAttrs := []any{
				"panel", p.name,
				"state", snap.State.String(),
				"url", snap.URL,
				"latency_ms", snap.Latency.Milliseconds(),
			}
			if snap.Token != "" {
				logAttrs = append(logAttrs, "token", snap.Token)
			}
			if snap.Err != nil {
				d.logger.Warn("poll failed", append(logAttrs, "error", snap.Err.Error())...)
			} else {
				d.logger.Debug("poll completed", logAttrs...)
			}
		}
	}()

	<-ctx.Done()
	scheduler.Stop() // unmounts every panel and closes updates
	wg.Wait()
	d.logger.Info("hoteldash stopped")
	return nil
}

// Panels returns a copy of the configured panels, in page order.
func (d *Dashboard) Panels() []Panel {
	cp := make([]Panel, len(d.panels))
	copy(cp, d.panels)
	return cp
}

// Port returns the configured HTTP port for the dashboard server.
func (d *Dashboard) Port() int {
	return d.port
}

// panelView renders snap into the form held by the store.
func (d *Dashboard) panelView(order int, p Panel, snap Snapshot) store.PanelView {
	var errStr *string
	if snap.Err != nil {
		s := snap.Err.Error()
		errStr = &s
	}

	view := store.PanelView{
		Name:      p.name,
		Kind:      p.kind.String(),
		Order:     order,
		State:     snap.State.String(),
		HTML:      d.renderer.Render(p, snap),
		UpdatedAt: snap.UpdatedAt,
		Error:     errStr,
	}
	if snap.State == StateLoaded {
		view.Token = snap.Token
	}
	return view
}

// toSnapshot converts the poller's view state to the public type.
// Fields is a fresh map, so callbacks may keep or modify it.
func toSnapshot(p Panel, ps poller.Snapshot, r poller.Result) Snapshot {
	return Snapshot{
		Panel:      p.name,
		Kind:       p.kind,
		State:      toLoadState(ps.State),
		Fields:     payloadFields(ps.Payload),
		Raw:        ps.Payload.Raw(),
		Token:      ps.Token,
		URL:        r.URL,
		Err:        ps.Err,
		UpdatedAt:  ps.UpdatedAt,
		Latency:    r.Latency,
		StatusCode: r.StatusCode,
	}
}

func toLoadState(s poller.LoadState) LoadState {
	switch s {
	case poller.Loaded:
		return StateLoaded
	case poller.Failed:
		return StateFailed
	default:
		return StateLoading
	}
}

// payloadFields formats the payload's top-level fields for rendering.
// Returns nil for an empty or non-object payload.
func payloadFields(p poller.Payload) map[string]string {
	raw := p.Fields()
	if len(raw) == 0 {
		return nil
	}
	fields := make(map[string]string, len(raw))
	for k := range raw {
		fields[k] = p.Field(k)
	}
	return fields
}

// invokeCallbackSafe calls a snapshot callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Snapshot), snap Snapshot, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("snapshot callback panicked",
				"panic", r,
				"panel", snap.Panel,
			)
		}
	}()
	cb(snap)
}
