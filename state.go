package hoteldash

import "time"

// LoadState is the three-valued status that gates what a panel renders.
//
// LoadState is a string type so it reads well in logs and JSON. Only a
// panel's first load passes through [StateLoading]; once a result has been
// committed the panel alternates between [StateLoaded] and [StateFailed].
type LoadState string

const (
	// StateLoading is held from mount until the first result is committed.
	StateLoading LoadState = "loading"

	// StateLoaded means the most recent committed poll succeeded.
	StateLoaded LoadState = "loaded"

	// StateFailed means the most recent committed poll failed. The panel
	// renders its error view and ignores any earlier data.
	StateFailed LoadState = "failed"
)

// String returns the string representation of the state.
func (s LoadState) String() string {
	return string(s)
}

// Snapshot is the state of one panel immediately after a committed poll.
//
// Snapshot is passed to callbacks registered with [WithSnapshotCallback].
// Fields and Raw always describe the same response as Token, so an audit
// index is never paired with a record fetched for a different index.
type Snapshot struct {
	// Panel is the panel's name.
	Panel string

	// Kind is the panel's kind.
	Kind PanelKind

	// State is the panel's load state after this commit.
	State LoadState

	// Fields holds the top-level fields of the last successful payload,
	// formatted as they are rendered. Missing keys are absent, not empty.
	// While State is [StateFailed] this is the stale payload from the last
	// success, or nil if there never was one.
	Fields map[string]string

	// Raw is the compact JSON text of the last successful payload.
	Raw string

	// Token identifies the request behind Fields. For audit panels it is
	// the sampled index; empty for other kinds.
	Token string

	// URL is the URL of the committed request.
	URL string

	// Err is the failure that put the panel in [StateFailed], nil otherwise.
	Err error

	// UpdatedAt is when the committed request resolved.
	UpdatedAt time.Time

	// Latency is the time taken by the committed request.
	Latency time.Duration

	// StatusCode is the HTTP status code of the committed request. Zero if
	// the request failed before a response was received.
	StatusCode int
}
