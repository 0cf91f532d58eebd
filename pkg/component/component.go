package component

import (
	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/node"
)

// Component is anything that can produce a node tree from its slot content.
// Properties are bound when the component is constructed by its Factory.
type Component interface {
	Node(s *Scope, children []*node.Node) (*node.Node, error)
}

// Func adapts a render function to Component.
type Func func(s *Scope, children []*node.Node) (*node.Node, error)

// Node implements Component.
func (f Func) Node(s *Scope, children []*node.Node) (*node.Node, error) {
	return f(s, children)
}

// Factory constructs a component instance from its properties.
type Factory func(props Props) (Component, error)

// Define returns a factory that decodes Props into P before calling fn.
//
//	component.Define(func(p GreeterProps) component.Component {
//	    return component.Func(func(s *component.Scope, _ []*node.Node) (*node.Node, error) {
//	        return node.H1(node.Text("Hello, "), s.ExprString("name", "p.Name", func() string {
//	            return p.Name
//	        })), nil
//	    })
//	})
func Define[P any](fn func(props P) Component) Factory {
	return func(props Props) (Component, error) {
		var p P
		if err := props.Decode(&p); err != nil {
			return nil, errors.New(errors.CodeMalformedTemplate).
				WithDetailf("cannot decode props into %T", p).
				Wrap(err)
		}
		return fn(p), nil
	}
}

// Static returns a factory that ignores props and always yields c.
func Static(c Component) Factory {
	return func(Props) (Component, error) {
		return c, nil
	}
}
