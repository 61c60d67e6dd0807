// Package mockhotel serves fake stats, event stats and audit endpoints for
// running the dashboard locally.
package mockhotel

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Service holds the counters behind the mock endpoints. Counters grow on
// every request so the dashboard has something to show changing.
type Service struct {
	mu        sync.Mutex
	rooms     int
	activity  int
	events    map[string]int
	audited   []string
	latency   func() time.Duration
	logger    *slog.Logger
	startedAt time.Time
}

// New creates a Service auditing the given endpoint names.
func New(logger *slog.Logger, endpoints ...string) *Service {
	return &Service{
		events:  map[string]int{"0001": 0, "0002": 0, "0003": 0, "0004": 0},
		audited: endpoints,
		latency: func() time.Duration {
			return time.Duration(50+rand.IntN(150)) * time.Millisecond
		},
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Handler returns the mock routes:
//
//	GET /stats
//	GET /event_stats
//	GET /{endpoint}?index=N
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /event_stats", s.handleEventStats)
	for _, ep := range s.audited {
		mux.HandleFunc("GET /"+ep, s.handleAudit(ep))
	}
	return mux
}

// ListenAndServe serves Handler on addr until the server fails.
func (s *Service) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sleep()

	s.mu.Lock()
	s.rooms += rand.IntN(3)
	s.activity += rand.IntN(2)
	resp := map[string]any{
		"num_hotel_room_reservations":     s.rooms,
		"num_hotel_activity_reservations": s.activity,
		"max_hotel_room_ppl":              2 + s.rooms%5,
		"max_hotel_activity_ppl":          4 + s.activity%9,
		"last_updated":                    time.Now().UTC().Format("2006-01-02T15:04:05"),
	}
	s.mu.Unlock()

	s.writeJSON(w, resp)
}

func (s *Service) handleEventStats(w http.ResponseWriter, r *http.Request) {
	s.sleep()

	s.mu.Lock()
	resp := make(map[string]int, len(s.events))
	for code, n := range s.events {
		n += rand.IntN(2)
		s.events[code] = n
		resp[code] = n
	}
	s.mu.Unlock()

	s.writeJSON(w, resp)
}

func (s *Service) handleAudit(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sleep()

		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil || index < 0 {
			http.Error(w, "index must be a non-negative integer", http.StatusBadRequest)
			return
		}

		// every tenth index is missing, as on a real audit log with gaps
		if index%10 == 9 {
			s.writeJSON(w, map[string]string{"message": "Not Found"})
			return
		}

		s.writeJSON(w, map[string]any{
			"type":     endpoint,
			"trace_id": fmt.Sprintf("%s-%04d", endpoint, index),
			"payload": map[string]any{
				"guest_id": 1000 + index,
				"num_ppl":  1 + index%4,
			},
		})
	}
}

func (s *Service) sleep() {
	if s.latency != nil {
		time.Sleep(s.latency())
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
