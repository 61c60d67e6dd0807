package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/hoteldash"
	"github.com/jpalmerr/hoteldash/example/mockhotel"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// start mock services (see example/mockhotel)
	svc := mockhotel.New(logger, "hotel_room", "hotel_activity")
	go func() {
		if err := svc.ListenAndServe(":9999"); err != nil {
			logger.Error("mock server error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	stats, err := hoteldash.NewStatsPanel("http://localhost:9999/stats")
	if err != nil {
		logger.Error("failed to create stats panel", "error", err)
		os.Exit(1)
	}

	events, err := hoteldash.NewEventTypeStatsPanel("http://localhost:9999/event_stats",
		hoteldash.WithInterval(3*time.Second),
	)
	if err != nil {
		logger.Error("failed to create event stats panel", "error", err)
		os.Exit(1)
	}

	// one audit panel per endpoint, each drawing a fresh random index per poll
	audits, err := hoteldash.NewAuditPanels("http://localhost:9999",
		[]string{"hotel_room", "hotel_activity"},
		hoteldash.WithTimeout(2*time.Second),
	)
	if err != nil {
		logger.Error("failed to create audit panels", "error", err)
		os.Exit(1)
	}

	dash, err := hoteldash.New(
		hoteldash.WithPanels(stats, events),
		hoteldash.WithPanels(audits...),
		hoteldash.WithPort(8080),
		hoteldash.WithLogger(logger),
		hoteldash.WithSnapshotCallback(func(s hoteldash.Snapshot) {
			if s.State == hoteldash.StateFailed {
				logger.Warn("panel failed", "panel", s.Panel, "error", s.Err)
			}
		}),
	)
	if err != nil {
		logger.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  Hotel Dashboard Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Metrics at http://localhost:8080/metrics")
	fmt.Println()
	fmt.Println("  Panels: stats, event_stats, audit-hotel_room, audit-hotel_activity")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dash.Start(ctx); err != nil {
		logger.Error("dashboard error", "error", err)
		os.Exit(1)
	}
}
