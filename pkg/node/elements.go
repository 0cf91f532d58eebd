package node

// El creates an element from a mixed argument list.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node or string (text).
// Other values are ignored.
func El(tag string, args ...any) *Node {
	n := &Node{kind: KindElement, tag: tag}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Allows conditional attributes and children
			continue
		case Attr:
			if v.Name != "" {
				n.attrs = append(n.attrs, v)
			}
		case []Attr:
			for _, a := range v {
				if a.Name != "" {
					n.attrs = append(n.attrs, a)
				}
			}
		case *Node:
			if v != nil {
				n.children = append(n.children, v)
			}
		case []*Node:
			n.children = appendChildren(n.children, v)
		case string:
			n.children = append(n.children, Text(v))
		}
	}

	return n
}

// Document structure

func Html(args ...any) *Node  { return El("html", args...) }
func Head(args ...any) *Node  { return El("head", args...) }
func Body(args ...any) *Node  { return El("body", args...) }
func Title(args ...any) *Node { return El("title", args...) }
func Meta(args ...any) *Node  { return El("meta", args...) }
func Link(args ...any) *Node  { return El("link", args...) }

// Sections

func Div(args ...any) *Node     { return El("div", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Article(args ...any) *Node { return El("article", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Footer(args ...any) *Node  { return El("footer", args...) }
func Nav(args ...any) *Node     { return El("nav", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func H3(args ...any) *Node      { return El("h3", args...) }

// Text content

func P(args ...any) *Node      { return El("p", args...) }
func Span(args ...any) *Node   { return El("span", args...) }
func A(args ...any) *Node      { return El("a", args...) }
func Strong(args ...any) *Node { return El("strong", args...) }
func Em(args ...any) *Node     { return El("em", args...) }
func Code(args ...any) *Node   { return El("code", args...) }
func Pre(args ...any) *Node    { return El("pre", args...) }
func Ul(args ...any) *Node     { return El("ul", args...) }
func Ol(args ...any) *Node     { return El("ol", args...) }
func Li(args ...any) *Node     { return El("li", args...) }

// Forms and embedded content

func Form(args ...any) *Node   { return El("form", args...) }
func Label(args ...any) *Node  { return El("label", args...) }
func Input(args ...any) *Node  { return El("input", args...) }
func Button(args ...any) *Node { return El("button", args...) }
func Img(args ...any) *Node    { return El("img", args...) }
func Br(args ...any) *Node     { return El("br", args...) }
func Hr(args ...any) *Node     { return El("hr", args...) }

// Tables

func Table(args ...any) *Node { return El("table", args...) }
func Tr(args ...any) *Node    { return El("tr", args...) }
func Th(args ...any) *Node    { return El("th", args...) }
func Td(args ...any) *Node    { return El("td", args...) }
