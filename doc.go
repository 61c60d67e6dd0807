// Package hoteldash provides a live dashboard over a hotel reservation
// system's statistics and audit services.
//
// A dashboard is a set of independent panels. Each panel polls one HTTP
// endpoint on its own timer, keeps the last committed response, and renders
// it as an HTML fragment that is pushed to connected browsers as it changes.
// A failing or slow endpoint only affects its own panel.
//
// # Quick Start
//
//	stats, _ := hoteldash.NewStatsPanel("http://localhost:8100/stats")
//	events, _ := hoteldash.NewEventTypeStatsPanel("http://localhost:8120/event_stats")
//	audits, _ := hoteldash.NewAuditPanels("http://localhost:8110",
//	    []string{"hotel_room", "hotel_activity"})
//
//	d, _ := hoteldash.New(
//	    hoteldash.WithPanels(stats, events),
//	    hoteldash.WithPanels(audits...),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	d.Start(ctx) // blocks until context is cancelled
//
// # Panels
//
// Three kinds of panel are provided:
//
//   - [NewStatsPanel]: reservation counts and capacity maxima, polled every 2s
//   - [NewEventTypeStatsPanel]: one counter per event-type code, polled every 2s
//   - [NewAuditPanel]: one randomly sampled audit record, polled every 4s
//
// Every panel starts in [StateLoading] and moves to [StateLoaded] or
// [StateFailed] as polls resolve. A failed poll shows the error view until
// the next successful one; there is no retry beyond the next tick.
//
// Requests are not serialised: if a response is slower than the interval,
// several requests may be in flight at once. Each carries a sequence number
// and only a result newer than the last committed one is applied, so a late
// response never replaces a newer one. Stopping a panel discards every
// result still in flight.
//
// # Architecture
//
// The internal packages are:
//
//   - internal/poller: per-panel poll loops, the HTTP client and JSON decoding
//   - internal/store: the rendered fragments, with pub/sub for live updates
//   - internal/server: the page, the JSON API, SSE and metrics
//
// The config package loads dashboards from YAML, and cmd/hoteldash wraps it
// in a CLI.
package hoteldash
