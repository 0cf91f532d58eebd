package component

import (
	"github.com/elementary-go/elementary/pkg/identity"
	"github.com/elementary-go/elementary/pkg/node"
)

// Scope is handed to a component while it renders. It carries the
// instance's identity so that nested components and expressions get ids
// that are stable across renders and distinct across instances.
type Scope struct {
	builder  *Builder
	parent   *Scope
	id       node.ComponentID
	kind     string
	props    Props
	children []*node.Node
	depth    int
	context  string
	root     bool
}

// Builder returns the builder that created the scope.
func (s *Scope) Builder() *Builder { return s.builder }

// ID returns the id of the component being rendered. It is zero for a root scope.
func (s *Scope) ID() node.ComponentID { return s.id }

// Kind returns the normalized kind of the component being rendered.
func (s *Scope) Kind() string { return s.kind }

// Props returns a copy of the instance's props.
func (s *Scope) Props() Props { return s.props.Clone() }

// Children returns a copy of the slot content.
func (s *Scope) Children() []*node.Node {
	out := make([]*node.Node, len(s.children))
	copy(out, s.children)
	return out
}

// Depth returns the nesting depth; root scopes are at 0.
func (s *Scope) Depth() int { return s.depth }

// Context returns the string that prefixes every id derived in this scope.
func (s *Scope) Context() string { return s.context }

// Position returns the position of key inside this scope.
func (s *Scope) Position(key string) identity.Position {
	return identity.In(s.context).Key(key)
}

// Component builds a nested component. key must be stable for the position
// the component occupies, such as a template path or a list item key.
func (s *Scope) Component(kind string, props Props, children []*node.Node, key string) (*node.Node, error) {
	return s.builder.build(s, kind, props, children, s.Position(key).String())
}

// Expr creates an expression node whose id is derived from source at key.
func (s *Scope) Expr(key, source string, compute node.ComputeFunc) *node.Node {
	return node.Expr(identity.DeriveAt(s.Position(key), source), source, compute)
}

// ExprString is Expr for an infallible function.
func (s *Scope) ExprString(key, source string, fn func() string) *node.Node {
	return node.ExprString(identity.DeriveAt(s.Position(key), source), source, fn)
}
