package component

import (
	"fmt"
	"log/slog"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/identity"
	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

// DefaultMaxDepth bounds component nesting. A template that nests deeper is
// reported as an error instead of exhausting the stack.
const DefaultMaxDepth = 256

// Builder instantiates components into a store and hands back references.
type Builder struct {
	registry *Registry
	store    *world.Store
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a builder that resolves kinds through registry and keeps
// instances in store.
func NewBuilder(registry *Registry, store *world.Store, opts ...Option) *Builder {
	b := &Builder{
		registry: registry,
		store:    store,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default().With("component", "builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the builder's registry.
func (b *Builder) Registry() *Registry { return b.registry }

// Store returns the builder's store.
func (b *Builder) Store() *world.Store { return b.store }

// Root returns the top-level scope for the template or page called name.
// Components built through it get context ids prefixed by name.
func (b *Builder) Root(name string) *Scope {
	return &Scope{builder: b, context: name, root: true}
}

// Build instantiates kind at contextID and returns a reference to it.
//
// The id is derived from kind and contextID. When the store already holds an
// up-to-date entry with equal props and slot content, the cached subtree is
// reused; otherwise the component is constructed from props, rendered with
// children as its slot content, and stored.
func (b *Builder) Build(kind string, props Props, children []*node.Node, contextID string) (*node.Node, error) {
	return b.build(nil, kind, props, children, contextID)
}

func (b *Builder) build(parent *Scope, kind string, props Props, children []*node.Node, contextID string) (*node.Node, error) {
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	if depth > b.maxDepth {
		return nil, errors.New(errors.CodeRecursionLimit).
			WithDetailf("%s at depth %d exceeds the limit of %d", kind, depth, b.maxDepth).
			WithSuggestion("Check the template for a component that includes itself")
	}

	k := NormalizeKind(kind)
	factory, ok := b.registry.Lookup(k)
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponentKind).WithDetailf("%q", kind)
	}

	id := identity.ComponentID(k, contextID)
	for s := parent; s != nil; s = s.parent {
		if !s.root && s.id == id {
			return nil, errors.New(errors.CodeComponentCycle).
				WithDetailf("%s (%s) is already being built on this path", id, k)
		}
	}

	for _, c := range children {
		if err := node.Validate(c); err != nil {
			return nil, err
		}
	}

	propsDigest, digestErr := props.Digest()
	childrenDigest := node.Fingerprint(children...)
	// A fingerprint does not cover compute functions, so slot content with
	// expressions never matches a cached entry.
	dynamic := hasExpressions(children)

	existing, err := b.store.Get(id)
	found := err == nil
	if err != nil && errors.CodeOf(err) != errors.CodeComponentNotFound {
		return nil, err
	}
	if found && !existing.Stale && digestErr == nil && !dynamic && existing.Kind == k &&
		existing.PropsDigest == propsDigest && existing.ChildrenDigest == childrenDigest {
		b.logger.Debug("component reused", "kind", k, "id", id)
		return node.Ref(id), nil
	}

	entry, err := b.instantiate(parent, id, k, factory, props, children, depth)
	if err != nil {
		return nil, err
	}
	if digestErr == nil {
		entry.PropsDigest = propsDigest
	}
	entry.ChildrenDigest = childrenDigest

	if found {
		if err := b.store.Update(id, entry); err != nil {
			return nil, err
		}
		b.logger.Debug("component updated", "kind", k, "id", id)
	} else {
		if err := b.store.Insert(id, entry); err != nil {
			return nil, err
		}
		b.logger.Debug("component created", "kind", k, "id", id, "depth", depth)
	}
	return node.Ref(id), nil
}

// Refresh recomputes the subtree of an existing entry from its stored props
// and slot content, clearing its stale mark.
func (b *Builder) Refresh(id node.ComponentID) error {
	entry, err := b.store.Get(id)
	if err != nil {
		return err
	}
	factory, ok := b.registry.Lookup(entry.Kind)
	if !ok {
		return errors.New(errors.CodeUnknownComponentKind).WithDetailf("%q", entry.Kind)
	}
	props, ok := entry.Properties.(Props)
	if !ok && entry.Properties != nil {
		return errors.New(errors.CodeMalformedTemplate).
			WithDetailf("%s (%s) has properties of type %T, want component.Props", id, entry.Kind, entry.Properties)
	}

	fresh, err := b.instantiate(nil, id, entry.Kind, factory, props, entry.Children, 1)
	if err != nil {
		return err
	}
	fresh.PropsDigest = entry.PropsDigest
	fresh.ChildrenDigest = entry.ChildrenDigest

	if err := b.store.Update(id, fresh); err != nil {
		return err
	}
	b.logger.Debug("component refreshed", "kind", entry.Kind, "id", id)
	return nil
}

func (b *Builder) instantiate(parent *Scope, id node.ComponentID, kind string, factory Factory, props Props, children []*node.Node, depth int) (world.Entry, error) {
	props = props.Clone()

	comp, err := factory(props.Clone())
	if err != nil {
		return world.Entry{}, errors.FromError(err, errors.CodeMalformedTemplate)
	}
	if comp == nil {
		return world.Entry{}, errors.New(errors.CodeMalformedTemplate).
			WithDetailf("factory for %q returned no component", kind)
	}

	slot := make([]*node.Node, len(children))
	copy(slot, children)

	scope := &Scope{
		builder:  b,
		parent:   parent,
		id:       id,
		kind:     kind,
		props:    props,
		children: slot,
		depth:    depth,
		context:  id.String(),
	}
	subtree, err := invoke(comp, scope, slot)
	if err != nil {
		return world.Entry{}, err
	}
	if err := node.Validate(subtree); err != nil {
		return world.Entry{}, errors.FromError(err, errors.CodeMalformedTemplate).
			WithSuggestion(fmt.Sprintf("Check the output of component %q", kind))
	}

	return world.Entry{
		Kind:       kind,
		Properties: props,
		Children:   slot,
		Subtree:    subtree,
		Instance:   comp,
	}, nil
}

// invoke calls the component's render, turning a panic into an error.
func invoke(c Component, s *Scope, children []*node.Node) (n *node.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			n = nil
			err = errors.New(errors.CodeMalformedTemplate).
				WithDetailf("component %q panicked: %v", s.kind, r)
		}
	}()
	return c.Node(s, children)
}

func hasExpressions(nodes []*node.Node) bool {
	found := false
	for _, n := range nodes {
		node.Walk(n, func(c *node.Node) bool {
			if c.Kind() == node.KindExpression {
				found = true
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}
