// Standalone mock hotel services for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/hoteldash serve -c example/config.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpalmerr/hoteldash/example/mockhotel"
)

func main() {
	fmt.Println("Mock hotel services starting on :9999")
	fmt.Println("Routes: /stats, /event_stats, /hotel_room?index=N, /hotel_activity?index=N")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := mockhotel.New(logger, "hotel_room", "hotel_activity")
	if err := svc.ListenAndServe(":9999"); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
