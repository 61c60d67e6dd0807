package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Update is emitted by the [Scheduler] for every resolved poll.
//
// Committed is false when the view discarded the result as stale or
// because it resolved after unmount; Snapshot is then zero.
type Update struct {
	Snapshot  Snapshot
	Result    Result
	Committed bool
}

// Scheduler mounts a fixed set of independent views and fans their
// results into a single channel.
//
// Each view keeps its own timer and state; the scheduler shares nothing
// between them except the HTTP client and the output channel. All lifecycle
// methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	views   []*View
	client  *Client
	updates chan Update
	logger  *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	stopParent func() bool

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a [Scheduler] with one [View] per config.
//
// fetcher may be nil, in which case a pooled [Client] is created and closed
// on [Scheduler.Stop]. opts are applied to every view.
func NewScheduler(configs []Config, fetcher Fetcher, logger *slog.Logger, opts ...ViewOption) (*Scheduler, error) {
	if len(configs) == 0 {
		return nil, errors.New("poller: at least one view is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		updates: make(chan Update, len(configs)*4),
		logger:  logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if fetcher == nil {
		s.client = NewClient()
		fetcher = s.client
	}

	seen := make(map[string]struct{}, len(configs))
	for _, cfg := range configs {
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("poller: duplicate view name %q", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}

		viewOpts := append([]ViewOption{
			WithCommitHook(func(snap Snapshot, r Result) {
				s.publish(Update{Snapshot: snap, Result: r, Committed: true})
			}),
			WithDropHook(func(r Result) {
				s.publish(Update{Result: r})
			}),
		}, opts...)

		v, err := NewView(cfg, fetcher, logger, viewOpts...)
		if err != nil {
			return nil, err
		}
		s.views = append(s.views, v)
	}

	return s, nil
}

// Views returns the scheduler's views in configuration order.
func (s *Scheduler) Views() []*View {
	cp := make([]*View, len(s.views))
	copy(cp, s.views)
	return cp
}

// Updates returns a receive-only channel of [Update] values.
//
// The channel is closed by [Scheduler.Stop]. Consumers should read until it
// is closed.
func (s *Scheduler) Updates() <-chan Update {
	return s.updates
}

// Start mounts every view. Start is non-blocking and idempotent; it is a
// no-op after Stop. Cancelling ctx stops all timers, but Stop must still be
// called to wait for in-flight polls and close the updates channel.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}

	s.stopParent = context.AfterFunc(ctx, s.cancel)

	for _, v := range s.views {
		v.Mount(s.ctx)
	}
}

// Stop unmounts every view, waits for in-flight polls, and closes the
// updates channel. Stop is idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		s.cancel()
		if s.stopParent != nil {
			s.stopParent()
		}
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, v := range s.views {
		wg.Add(1)
		go func(v *View) {
			defer wg.Done()
			v.Unmount()
		}(v)
	}
	wg.Wait()

	if s.client != nil {
		s.client.Close()
	}

	s.closeOnce.Do(func() { close(s.updates) })
}

// publish forwards an update unless the scheduler is shutting down.
func (s *Scheduler) publish(u Update) {
	select {
	case s.updates <- u:
	case <-s.ctx.Done():
		s.logger.Debug("update discarded during shutdown",
			"view", u.Result.View,
			"seq", u.Result.Seq,
		)
	}
}
