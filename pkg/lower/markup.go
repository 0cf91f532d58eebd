package lower

import (
	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/node"
)

// Component returns a factory for a component written in markup. The
// instance's props become the template's bindings and its slot content
// replaces <slot>. The template must lower to exactly one root node.
func Component(t *Template) component.Factory {
	return func(props component.Props) (component.Component, error) {
		return &markup{t: t, bindings: Bindings(props)}, nil
	}
}

type markup struct {
	t        *Template
	bindings Bindings
}

func (m *markup) Node(s *component.Scope, children []*node.Node) (*node.Node, error) {
	nodes, err := m.t.Lower(s, m.bindings, children)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, errors.New(errors.CodeMalformedTemplate).
			WithLocation(m.t.name, 0, 0).
			WithDetailf("component template has %d root nodes, want 1", len(nodes)).
			WithSuggestion("Wrap the component's markup in a single element")
	}
	return nodes[0], nil
}
