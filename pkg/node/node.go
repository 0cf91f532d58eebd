package node

import "fmt"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText       Kind = iota // Static text
	KindElement                // <div>, <h1>, etc.
	KindComponent              // Reference into the component store
	KindExpression             // Deferred computed value
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	case KindExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// ExpressionID identifies a computed slot. It is derived from the
// expression's source text and position, never from its value.
type ExpressionID uint64

// String returns the id as "e" followed by 16 hex digits.
func (id ExpressionID) String() string {
	return fmt.Sprintf("e%016x", uint64(id))
}

// ComponentID identifies a component instance in the store.
type ComponentID uint64

// String returns the id as "c" followed by 16 hex digits.
func (id ComponentID) String() string {
	return fmt.Sprintf("c%016x", uint64(id))
}

// ComputeFunc produces the value of an expression slot at render time.
type ComputeFunc func() (string, error)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one position in the tree: text, element, component reference or
// expression. A Node is immutable once constructed; accessors return copies.
type Node struct {
	kind     Kind
	text     string // Text content, or expression source
	tag      string
	attrs    []Attr
	children []*Node
	comp     ComponentID
	expr     ExpressionID
	compute  ComputeFunc
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{kind: KindText, text: content}
}

// Element creates an element node. Attributes keep the given order and nil
// children are skipped.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{kind: KindElement, tag: tag}
	if len(attrs) > 0 {
		n.attrs = make([]Attr, len(attrs))
		copy(n.attrs, attrs)
	}
	n.children = appendChildren(nil, children)
	return n
}

// Ref creates a component reference node. The subtree it stands for lives in
// the component store under id.
func Ref(id ComponentID) *Node {
	return &Node{kind: KindComponent, comp: id}
}

// Expr creates an expression node. source is the un-evaluated form the id was
// derived from; compute is not called until render.
func Expr(id ExpressionID, source string, compute ComputeFunc) *Node {
	return &Node{kind: KindExpression, expr: id, text: source, compute: compute}
}

// ExprString creates an expression node from an infallible function.
func ExprString(id ExpressionID, source string, fn func() string) *Node {
	var compute ComputeFunc
	if fn != nil {
		compute = func() (string, error) { return fn(), nil }
	}
	return Expr(id, source, compute)
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Text returns the content of a text node.
func (n *Node) Text() string {
	if n.kind != KindText {
		return ""
	}
	return n.text
}

// Tag returns the tag name of an element.
func (n *Node) Tag() string { return n.tag }

// Attrs returns a copy of the element's attributes in source order.
func (n *Node) Attrs() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attr returns the value of the first attribute with the given name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns a copy of the element's children in source order.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// ComponentID returns the id a component reference points at.
func (n *Node) ComponentID() ComponentID { return n.comp }

// ExpressionID returns the id of an expression node.
func (n *Node) ExpressionID() ExpressionID { return n.expr }

// Source returns the source text of an expression node.
func (n *Node) Source() string {
	if n.kind != KindExpression {
		return ""
	}
	return n.text
}

// Eval runs the expression's compute function.
func (n *Node) Eval() (string, error) {
	if n.kind != KindExpression {
		return "", fmt.Errorf("node: Eval on %s node", n.kind)
	}
	if n.compute == nil {
		return "", fmt.Errorf("node: expression %s has no compute function", n.expr)
	}
	return n.compute()
}

// String returns a short description for debugging.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.kind {
	case KindText:
		return fmt.Sprintf("Text(%q)", n.text)
	case KindElement:
		return fmt.Sprintf("Element(%s, %d attrs, %d children)", n.tag, len(n.attrs), len(n.children))
	case KindComponent:
		return fmt.Sprintf("Ref(%s)", n.comp)
	case KindExpression:
		return fmt.Sprintf("Expr(%s, %q)", n.expr, n.text)
	default:
		return "Unknown"
	}
}

func appendChildren(dst []*Node, children []*Node) []*Node {
	for _, c := range children {
		if c != nil {
			dst = append(dst, c)
		}
	}
	return dst
}
