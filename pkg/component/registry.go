package component

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/elementary-go/elementary/internal/errors"
)

// Registry maps component kinds to factories. Kinds are case-insensitive,
// so a markup tag <greeter> finds the kind registered as "Greeter".
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NormalizeKind returns the canonical form of a kind name.
func NormalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// Register adds a factory. Registering the same kind twice is an error.
func (r *Registry) Register(kind string, f Factory) error {
	k := NormalizeKind(kind)
	if k == "" {
		return errors.New(errors.CodeMalformedTemplate).WithDetail("empty component kind")
	}
	if f == nil {
		return errors.New(errors.CodeMalformedTemplate).WithDetailf("nil factory for kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[k]; exists {
		return fmt.Errorf("component: kind %q already registered", k)
	}
	r.factories[k] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, f Factory) {
	if err := r.Register(kind, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[NormalizeKind(kind)]
	return f, ok
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.Lookup(kind)
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()

	sort.Strings(kinds)
	return kinds
}
