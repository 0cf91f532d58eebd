package world

import (
	"sort"
	"sync"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/node"
)

// Sentinel errors. Returned errors carry detail and match these with errors.Is.
var (
	// ErrNotFound is returned when an id has no entry.
	ErrNotFound = errors.New(errors.CodeComponentNotFound)

	// ErrDuplicate is returned by a non-replacing Insert of an existing id.
	ErrDuplicate = errors.New(errors.CodeDuplicateComponentID)
)

// Entry is one live component instance.
type Entry struct {
	// Kind is the registered component kind.
	Kind string

	// Properties are the instance's declared inputs. The store treats them as opaque.
	Properties any

	// PropsDigest is a hash of Properties; zero when they could not be hashed.
	PropsDigest uint64

	// Children is the slot content passed at construction.
	Children []*node.Node

	// ChildrenDigest is node.Fingerprint of Children.
	ChildrenDigest uint64

	// Subtree is the cached output of the component's render.
	Subtree *node.Node

	// Instance is the constructed component value.
	Instance any

	// Stale marks Subtree as invalidated; the next build recomputes it.
	Stale bool
}

// clone copies the slice so the store never shares backing arrays with callers.
func (e Entry) clone() Entry {
	if e.Children != nil {
		children := make([]*node.Node, len(e.Children))
		copy(children, e.Children)
		e.Children = children
	}
	return e
}

// Stats counts store operations.
type Stats struct {
	Inserts   int64
	Updates   int64
	Removes   int64
	Conflicts int64
}

// Store maps component ids to live entries. It is safe for concurrent use;
// one lock covers the whole map, so a Get never sees an entry mid-write and
// concurrent inserts of one id have exactly one winner.
type Store struct {
	mu      sync.RWMutex
	entries map[node.ComponentID]Entry
	stats   Stats
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[node.ComponentID]Entry),
	}
}

// InsertOption configures Insert.
type InsertOption func(*insertConfig)

type insertConfig struct {
	replace bool
}

// Replace lets Insert overwrite an existing entry.
func Replace() InsertOption {
	return func(c *insertConfig) {
		c.replace = true
	}
}

// Insert adds an entry. It fails with ErrDuplicate if id exists, unless the
// Replace option is given.
func (s *Store) Insert(id node.ComponentID, entry Entry, opts ...InsertOption) error {
	var cfg insertConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists && !cfg.replace {
		s.stats.Conflicts++
		return errors.New(errors.CodeDuplicateComponentID).
			WithDetailf("%s (%s) already exists", id, entry.Kind).
			WithSuggestion("Use Update or Insert with world.Replace() to overwrite it")
	}
	s.entries[id] = entry.clone()
	s.stats.Inserts++
	return nil
}

// Get returns a copy of the entry for id.
func (s *Store) Get(id node.ComponentID) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, errors.New(errors.CodeComponentNotFound).WithDetail(id.String())
	}
	return e.clone(), nil
}

// Has reports whether id has an entry.
func (s *Store) Has(id node.ComponentID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Update replaces an existing entry. It fails with ErrNotFound if id is absent.
func (s *Store) Update(id node.ComponentID, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return errors.New(errors.CodeComponentNotFound).WithDetail(id.String())
	}
	s.entries[id] = entry.clone()
	s.stats.Updates++
	return nil
}

// Remove deletes the entry for id. Removing an absent id is not an error.
func (s *Store) Remove(id node.ComponentID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.stats.Removes++
	}
}

// Invalidate marks the cached subtree of id stale. It fails with ErrNotFound
// if id is absent.
func (s *Store) Invalidate(id node.ComponentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.New(errors.CodeComponentNotFound).WithDetail(id.String())
	}
	e.Stale = true
	s.entries[id] = e
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IDs returns all ids in ascending order.
func (s *Store) IDs() []node.ComponentID {
	s.mu.RLock()
	ids := make([]node.ComponentID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset removes every entry. Call it when the render pass that owns the
// store is torn down.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Removes += int64(len(s.entries))
	s.entries = make(map[node.ComponentID]Entry)
}

// Stats returns a snapshot of the operation counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
