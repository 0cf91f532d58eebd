package lower

import (
	"strings"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/node"
)

// Template is parsed markup ready to be lowered into nodes. A Template is
// immutable and may be lowered concurrently.
type Template struct {
	name  string
	roots []*tnode
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string { return t.name }

// Tags returns the distinct element tags used in the template, in order of
// first appearance.
func (t *Template) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	var walk func([]*tnode)
	walk = func(nodes []*tnode) {
		for _, n := range nodes {
			if n.kind == tElement && !seen[n.tag] {
				seen[n.tag] = true
				tags = append(tags, n.tag)
			}
			walk(n.children)
		}
	}
	walk(t.roots)
	return tags
}

// LowerRoot lowers the template at the top level of b, using the template
// name as the context of every component it builds.
func (t *Template) LowerRoot(b *component.Builder, bindings Bindings) ([]*node.Node, error) {
	nodes, err := t.Lower(b.Root(t.name), bindings, nil)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if err := node.Validate(n); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// Lower turns the template into nodes inside scope s.
//
// Elements whose tag is a registered component kind are built through s,
// with attributes as props and lowered children as slot content. A <slot>
// element is replaced by slot, or by its own children when slot is empty.
// Text slots become expression nodes that look up bindings at render time;
// attribute slots are interpolated now.
func (t *Template) Lower(s *component.Scope, bindings Bindings, slot []*node.Node) ([]*node.Node, error) {
	l := &lowerer{t: t, scope: s, bindings: bindings, slot: slot}
	return l.nodes(t.roots)
}

type lowerer struct {
	t        *Template
	scope    *component.Scope
	bindings Bindings
	slot     []*node.Node
}

func (l *lowerer) nodes(ts []*tnode) ([]*node.Node, error) {
	var out []*node.Node
	for _, tn := range ts {
		switch tn.kind {
		case tText:
			if tn.children == nil {
				out = append(out, node.Text(tn.text))
				continue
			}
			for _, seg := range tn.children {
				if seg.kind == tExpr {
					out = append(out, l.expr(seg))
				} else {
					out = append(out, node.Text(seg.text))
				}
			}
		case tExpr:
			out = append(out, l.expr(tn))
		case tElement:
			lowered, err := l.element(tn)
			if err != nil {
				return nil, err
			}
			out = append(out, lowered...)
		}
	}
	return out, nil
}

func (l *lowerer) key(tn *tnode) string {
	return l.t.name + tn.pos.String()
}

func (l *lowerer) expr(tn *tnode) *node.Node {
	path, bindings := tn.text, l.bindings
	return l.scope.Expr(l.key(tn), tn.source, func() (string, error) {
		v, ok := bindings.Lookup(path)
		if !ok {
			return "", errors.New(errors.CodeExpressionFailure).
				WithDetailf("%q is not bound", path)
		}
		return Stringify(v), nil
	})
}

func (l *lowerer) element(tn *tnode) ([]*node.Node, error) {
	if tn.tag == "slot" {
		if len(l.slot) > 0 {
			out := make([]*node.Node, len(l.slot))
			copy(out, l.slot)
			return out, nil
		}
		return l.nodes(tn.children)
	}

	children, err := l.nodes(tn.children)
	if err != nil {
		return nil, err
	}

	if l.scope.Builder().Registry().Has(tn.tag) {
		props, err := l.props(tn)
		if err != nil {
			return nil, err
		}
		ref, err := l.scope.Component(tn.tag, props, children, l.key(tn))
		if err != nil {
			return nil, err
		}
		return []*node.Node{ref}, nil
	}

	attrs := make([]node.Attr, 0, len(tn.attrs))
	for _, a := range tn.attrs {
		v, err := l.interpolate(a)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, node.Attr{Name: a.name, Value: v})
	}
	return []*node.Node{node.Element(tn.tag, attrs, children...)}, nil
}

// props converts attributes to component props. An attribute that is a
// single slot passes the bound value through unchanged.
func (l *lowerer) props(tn *tnode) (component.Props, error) {
	props := make(component.Props, len(tn.attrs))
	for _, a := range tn.attrs {
		if path, ok := a.single(); ok {
			v, found := l.bindings.Lookup(path)
			if !found {
				return nil, unbound(l.t.name, tn.tag, a.name, path)
			}
			props[a.name] = v
			continue
		}
		v, err := l.interpolate(a)
		if err != nil {
			return nil, err
		}
		props[a.name] = v
	}
	return props, nil
}

func (l *lowerer) interpolate(a tattr) (string, error) {
	if a.static() {
		if len(a.parts) == 0 {
			return "", nil
		}
		return a.parts[0].text, nil
	}
	var b strings.Builder
	for _, p := range a.parts {
		if !p.expr {
			b.WriteString(p.text)
			continue
		}
		v, ok := l.bindings.Lookup(p.text)
		if !ok {
			return "", unbound(l.t.name, "", a.name, p.text)
		}
		b.WriteString(Stringify(v))
	}
	return b.String(), nil
}

func unbound(name, tag, attr, path string) error {
	e := errors.New(errors.CodeExpressionFailure).WithLocation(name, 0, 0)
	if tag != "" {
		return e.WithDetailf("<%s %s>: %q is not bound", tag, attr, path)
	}
	return e.WithDetailf("attribute %s: %q is not bound", attr, path)
}
