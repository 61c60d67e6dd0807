package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnexpectedStatus wraps non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// LoadState gates what a view renders.
type LoadState int

const (
	// Loading is the initial state, held until the first result is committed.
	Loading LoadState = iota

	// Loaded means the most recent committed poll succeeded.
	Loaded

	// Failed means the most recent committed poll failed.
	Failed
)

// String returns the lower-case state name.
func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Request describes one poll: the URL to GET and the token that identifies
// it (for audit panels, the drawn sample index). Token is empty for panels
// that poll a fixed URL.
type Request struct {
	URL   string
	Token string
}

// RequestFunc builds the request for a single poll. It is called exactly
// once per poll, from the view's timer goroutine.
type RequestFunc func() Request

// Result is the outcome of one poll.
type Result struct {
	// View is the name of the view that issued the request.
	View string

	// Seq is the per-view sequence number assigned when the poll was issued.
	Seq uint64

	// URL is the URL that was requested.
	URL string

	// Token is the request token from [Request].
	Token string

	// Payload is the decoded body. Zero when Err is set.
	Payload Payload

	// StatusCode is the HTTP status code, zero on transport failure.
	StatusCode int

	// Latency is the time taken by the request.
	Latency time.Duration

	// CheckedAt is when the request resolved.
	CheckedAt time.Time

	// Err is non-nil for any failure: transport error, non-2xx, or a body
	// that is not JSON. The three are not distinguished by the view.
	Err error
}

// Snapshot is a consistent copy of a view's observable state.
//
// Payload and Token always belong to the same committed request.
type Snapshot struct {
	View      string
	MountID   string
	State     LoadState
	Payload   Payload
	Token     string
	Err       error
	Seq       uint64
	UpdatedAt time.Time
}

// Config describes one polling view.
type Config struct {
	// Name identifies the view in logs and results.
	Name string

	// Interval is the poll period.
	Interval time.Duration

	// Timeout is the per-request timeout. Zero means none.
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string

	// PollOnMount issues the first poll immediately at mount instead of
	// waiting for the first tick.
	PollOnMount bool

	// Request builds each poll's request.
	Request RequestFunc
}

// Ticker is the subset of [time.Ticker] a view needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a [Ticker] firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the default [TickerFunc], backed by [time.NewTicker].
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// ViewOption configures optional [View] behaviour.
type ViewOption func(*View)

// WithTicker replaces the ticker factory.
func WithTicker(f TickerFunc) ViewOption {
	return func(v *View) {
		if f != nil {
			v.newTicker = f
		}
	}
}

// WithCommitHook registers fn to run after every committed result.
//
// Hooks run in commit order, one at a time, and never after [View.Unmount]
// has returned. fn may call [View.Snapshot].
func WithCommitHook(fn func(Snapshot, Result)) ViewOption {
	return func(v *View) {
		if fn != nil {
			v.onCommit = append(v.onCommit, fn)
		}
	}
}

// WithDropHook registers fn to run for every result discarded because it was
// stale or arrived after unmount.
func WithDropHook(fn func(Result)) ViewOption {
	return func(v *View) {
		if fn != nil {
			v.onDrop = append(v.onDrop, fn)
		}
	}
}

// View is a self-contained polling unit: it owns one timer, issues one
// request per tick, and holds the last committed result.
//
// Requests are fire-and-forget: a slow request does not delay the next tick,
// so several may be in flight at once. Each request is stamped with a
// sequence number and only a result newer than the last committed one is
// applied, so a late response can never overwrite a more recent one.
//
// A View is mounted once. After [View.Unmount] no further state change
// occurs; remounting requires a new View.
type View struct {
	cfg       Config
	fetcher   Fetcher
	logger    *slog.Logger
	newTicker TickerFunc
	onCommit  []func(Snapshot, Result)
	onDrop    []func(Result)

	// notifyMu serialises commit decisions with their hooks so hooks observe
	// commits in order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	mounted   bool
	unmounted bool
	issued    uint64
	snap      Snapshot
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewView creates an unmounted [View] in the Loading state.
func NewView(cfg Config, fetcher Fetcher, logger *slog.Logger, opts ...ViewOption) (*View, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: view name required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poller: view %q: interval must be positive", cfg.Name)
	}
	if cfg.Request == nil {
		return nil, fmt.Errorf("poller: view %q: request func required", cfg.Name)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("poller: view %q: fetcher required", cfg.Name)
	}
	if logger == nil {
		logger = slog.Default()
	}

	v := &View{
		cfg:       cfg,
		fetcher:   fetcher,
		logger:    logger,
		newTicker: NewTimeTicker,
		snap: Snapshot{
			View:  cfg.Name,
			State: Loading,
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Name returns the view's name.
func (v *View) Name() string {
	return v.cfg.Name
}

// Interval returns the view's poll period.
func (v *View) Interval() time.Duration {
	return v.cfg.Interval
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Mount starts the view's timer in a background goroutine.
//
// Mount is non-blocking. It is a no-op if the view is already mounted or
// has been unmounted. Cancelling ctx stops the timer the same way
// [View.Unmount] does, except that Unmount also waits for in-flight polls.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.unmounted {
		v.mu.Unlock()
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	v.mounted = true
	v.snap.MountID = uuid.NewString()
	ctx, v.cancel = context.WithCancel(ctx)
	v.wg.Add(1)
	mountID := v.snap.MountID
	v.mu.Unlock()

	v.logger.Debug("view mounted",
		"view", v.cfg.Name,
		"mount_id", mountID,
		"interval", v.cfg.Interval.String(),
	)

	go func() {
		defer v.wg.Done()

		// created before the first poll so tick timing is independent of it
		ticker := v.newTicker(v.cfg.Interval)
		defer ticker.Stop()

		if v.cfg.PollOnMount {
			v.poll(ctx)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				v.poll(ctx)
			}
		}
	}()
}

// Unmount clears the timer, aborts in-flight requests, and waits for every
// poll goroutine to exit. Results that resolve after Unmount begins are
// discarded. Safe to call multiple times and before Mount.
func (v *View) Unmount() {
	v.mu.Lock()
	if !v.unmounted {
		v.unmounted = true
		if v.cancel != nil {
			v.cancel()
		}
	}
	v.mu.Unlock()

	v.wg.Wait()
}

// poll issues one request without waiting for it.
func (v *View) poll(ctx context.Context) {
	v.mu.Lock()
	if v.unmounted || ctx.Err() != nil {
		v.mu.Unlock()
		return
	}
	v.issued++
	seq := v.issued
	v.wg.Add(1)
	v.mu.Unlock()

	req := v.cfg.Request()

	go func() {
		defer v.wg.Done()
		resp := v.fetcher.Fetch(ctx, req.URL, v.cfg.Headers, v.cfg.Timeout)
		v.commit(ctx, v.classify(seq, req, resp))
	}()
}

// classify turns a raw response into a success or failure result.
func (v *View) classify(seq uint64, req Request, resp Response) Result {
	result := Result{
		View:       v.cfg.Name,
		Seq:        seq,
		URL:        req.URL,
		Token:      req.Token,
		StatusCode: resp.StatusCode,
		Latency:    resp.Latency,
		CheckedAt:  time.Now(),
	}

	switch {
	case resp.Error != nil:
		result.Err = resp.Error
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		result.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	default:
		payload, err := DecodePayload(resp.Body)
		if err != nil {
			result.Err = err
		} else {
			result.Payload = payload
		}
	}
	return result
}

// commit applies result if it is the newest result seen and the view is
// still mounted. A cancelled mount context counts as unmounted.
func (v *View) commit(ctx context.Context, result Result) {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	if v.unmounted || ctx.Err() != nil || result.Seq <= v.snap.Seq {
		v.mu.Unlock()
		for _, fn := range v.onDrop {
			fn(result)
		}
		return
	}

	v.snap.Seq = result.Seq
	v.snap.UpdatedAt = result.CheckedAt
	if result.Err != nil {
		// payload and token are kept but not rendered while Failed
		v.snap.State = Failed
		v.snap.Err = result.Err
	} else {
		v.snap.State = Loaded
		v.snap.Err = nil
		v.snap.Payload = result.Payload
		v.snap.Token = result.Token
	}
	snap := v.snap
	v.mu.Unlock()

	for _, fn := range v.onCommit {
		fn(snap, result)
	}
}
