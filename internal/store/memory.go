package store

import (
	"sort"
	"sync"
)

const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Panel views are keyed by name, with new renders replacing previous
// values. Subscribers receive updates via buffered channels (buffer size
// 100); if a subscriber's buffer is full the update is dropped for that
// subscriber.
type MemoryStore struct {
	mu          sync.RWMutex
	views       map[string]PanelView
	subscribers map[chan PanelView]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		views:       make(map[string]PanelView),
		subscribers: make(map[chan PanelView]struct{}),
	}
}

// Update stores a [PanelView] and notifies all subscribers.
func (m *MemoryStore) Update(view PanelView) {
	m.mu.Lock()
	m.views[view.Name] = view
	m.mu.Unlock()

	m.notifySubscribers(view)
}

// Get returns the current render of the named panel.
func (m *MemoryStore) Get(name string) (PanelView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[name]
	return v, ok
}

// GetAll returns a snapshot of every stored panel in page order.
func (m *MemoryStore) GetAll() []PanelView {
	m.mu.RLock()
	views := make([]PanelView, 0, len(m.views))
	for _, v := range m.views {
		views = append(views, v)
	}
	m.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].Order != views[j].Order {
			return views[i].Order < views[j].Order
		}
		return views[i].Name < views[j].Name
	})
	return views
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan PanelView {
	ch := make(chan PanelView, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan PanelView) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the view to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(view PanelView) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- view:
		default:
			// subscriber is slow, drop the message
		}
	}
}
