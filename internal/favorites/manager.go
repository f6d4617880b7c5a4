package favorites

import (
	"log/slog"
	"sort"
	"sync"
)

// StorageKey is the durable-storage key the favorite set lives under.
const StorageKey = "favorites"

// Storage is the durable key/value surface favorites are persisted to.
// GetItem reports ok=false for a key that was never written.
// Implemented by storage.Store.
type Storage interface {
	GetItem(key string) (val string, ok bool, err error)
	SetItem(key, value string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithKnownIDs makes Initialize drop persisted IDs for which known returns false.
func WithKnownIDs(known func(id int) bool) Option {
	return func(m *Manager) { m.known = known }
}

// WithLogger sets the logger used to report persistence problems.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Updater is implemented by storage that can read-modify-write one key
// atomically, such as storage.Store.
type Updater interface {
	UpdateItem(key string, fn func(val string, ok bool) (string, error)) error
}

// Manager owns the in-memory favorite set and writes it back to Storage
// after every change. Before each write the set is refreshed from storage,
// so a change made by another process sharing the database (the CLI next to
// a running server) is merged rather than overwritten. When a write fails
// the in-memory set stays authoritative until a later write succeeds.
type Manager struct {
	store  Storage
	known  func(int) bool
	logger *slog.Logger

	mu      sync.RWMutex
	ids     map[int]struct{}
	unsaved bool
}

// NewManager creates a Manager with an empty set. Call Initialize to load
// persisted favorites.
func NewManager(store Storage, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: slog.Default(),
		ids:    make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize replaces the in-memory set with the persisted one and returns
// it. Missing, unreadable or malformed data yields an empty set.
func (m *Manager) Initialize() []int {
	var loaded []int
	payload, ok, err := m.store.GetItem(StorageKey)
	switch {
	case err != nil:
		m.logger.Warn("reading favorites failed, starting empty", "error", err)
	case ok:
		if loaded, err = m.decodeStored(payload); err != nil {
			m.logger.Warn("discarding malformed favorites payload", "error", err)
			loaded = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = setOf(loaded)
	m.unsaved = false
	return m.listLocked()
}

// decodeStored parses payload and drops IDs the catalog no longer has.
func (m *Manager) decodeStored(payload string) ([]int, error) {
	ids, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if m.known == nil {
		return ids, nil
	}
	kept := ids[:0]
	for _, id := range ids {
		if m.known(id) {
			kept = append(kept, id)
			continue
		}
		m.logger.Debug("dropping stale favorite", "id", id)
	}
	return kept, nil
}

// Toggle adds id when absent and removes it when present, then persists
// the whole set. It returns the updated set in ascending order.
func (m *Manager) Toggle(id int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commitLocked(func() {
		if _, ok := m.ids[id]; ok {
			delete(m.ids, id)
		} else {
			m.ids[id] = struct{}{}
		}
	})
	return m.listLocked()
}

// Clear empties the set and persists the result.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commitLocked(func() {
		m.ids = make(map[int]struct{})
	})
}

// commitLocked refreshes the set from storage, applies change and writes the
// result back. Write failures are logged and swallowed.
func (m *Manager) commitLocked(change func()) {
	var err error
	if u, ok := m.store.(Updater); ok {
		applied := false
		err = u.UpdateItem(StorageKey, func(val string, found bool) (string, error) {
			m.refreshLocked(val, found)
			change()
			applied = true
			return Encode(m.listLocked()), nil
		})
		if !applied {
			change()
		}
	} else {
		val, found, getErr := m.store.GetItem(StorageKey)
		if getErr != nil {
			m.logger.Debug("refreshing favorites failed, using memory", "error", getErr)
		} else {
			m.refreshLocked(val, found)
		}
		change()
		err = m.store.SetItem(StorageKey, Encode(m.listLocked()))
	}

	m.unsaved = err != nil
	if err != nil {
		m.logger.Warn("persisting favorites failed", "error", err, "count", len(m.ids))
	}
}

// refreshLocked replaces the in-memory set with a stored payload, unless
// memory holds changes that never reached storage or the payload is unusable.
func (m *Manager) refreshLocked(payload string, found bool) {
	if m.unsaved || !found {
		return
	}
	ids, err := m.decodeStored(payload)
	if err != nil {
		m.logger.Debug("ignoring malformed favorites payload", "error", err)
		return
	}
	m.ids = setOf(ids)
}

// IsFavorite reports whether id is in the set.
func (m *Manager) IsFavorite(id int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[id]
	return ok
}

// List returns the favorite IDs in ascending order.
func (m *Manager) List() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

func (m *Manager) listLocked() []int {
	out := make([]int, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func setOf(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
