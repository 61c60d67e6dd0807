package store

import "time"

// PanelView is the rendered state of one dashboard panel.
//
// PanelView is the storage representation of a panel, optimized for JSON
// serialization (used by the REST API and SSE). It is decoupled from the
// poller's internal types to allow independent evolution.
type PanelView struct {
	// Name is the panel's unique name; it is also the DOM id on the page.
	Name string `json:"name"`

	// Kind is the panel type (e.g., "stats", "event_stats", "audit").
	Kind string `json:"kind"`

	// Order is the panel's position on the page.
	Order int `json:"order"`

	// State is the load state: "loading", "loaded", or "failed".
	State string `json:"state"`

	// HTML is the panel's rendered fragment.
	HTML string `json:"html"`

	// Token is the request token of the data on screen (audit index).
	Token string `json:"token,omitempty"`

	// UpdatedAt is when the panel last changed.
	UpdatedAt time.Time `json:"updated_at"`

	// Error contains the last failure message while State is "failed".
	Error *string `json:"error"`
}

// Store defines the interface for storing and subscribing to panel renders.
//
// Store implementations must be safe for concurrent access. The pub/sub
// mechanism allows re-renders to be pushed to connected browsers
// (e.g., via Server-Sent Events).
type Store interface {
	// Update stores a panel render and notifies all subscribers.
	// Views are keyed by Name, so subsequent updates replace previous values.
	Update(view PanelView)

	// Get returns the current render of a single panel.
	Get(name string) (PanelView, bool)

	// GetAll returns all current renders ordered by Order, then Name.
	// The returned slice is a snapshot; modifications do not affect the store.
	GetAll() []PanelView

	// Subscribe returns a channel that receives panel updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan PanelView

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan PanelView)
}
