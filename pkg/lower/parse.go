package lower

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/identity"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

type tkind uint8

const (
	tText tkind = iota
	tExpr
	tElement
)

// tnode is one parsed template position.
type tnode struct {
	kind     tkind
	text     string // literal text, or the path of an expression
	source   string // expression as written, delimiters included
	tag      string
	attrs    []tattr
	children []*tnode
	pos      identity.Position
}

type tattr struct {
	name  string
	parts []segment
}

// segment is a literal run or a {{ path }} slot inside text or an attribute.
type segment struct {
	expr   bool
	text   string // literal text, or the path
	source string
}

// static reports whether the attribute has no slots.
func (a tattr) static() bool {
	for _, p := range a.parts {
		if p.expr {
			return false
		}
	}
	return true
}

// single returns the path of an attribute whose whole value is one slot.
func (a tattr) single() (string, bool) {
	if len(a.parts) == 1 && a.parts[0].expr {
		return a.parts[0].text, true
	}
	return "", false
}

// Parse parses markup into a Template. The source is parsed as the content
// of a <body> element, so document-level tags (html, head, body) are dropped.
// Text and attribute values may contain {{ path }} slots.
func Parse(name, src string) (*Template, error) {
	if err := scan(name, src); err != nil {
		return nil, err
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, errors.New(errors.CodeMalformedTemplate).
			WithLocation(name, 0, 0).
			Wrap(err)
	}

	roots, err := convert(name, nodes, identity.Root)
	if err != nil {
		return nil, err
	}
	return &Template{name: name, roots: roots}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(name, src string) *Template {
	t, err := Parse(name, src)
	if err != nil {
		panic(err)
	}
	return t
}

// scan checks every {{ }} pair in src before parsing, so that errors can
// point at the offending line and column.
func scan(name, src string) error {
	line, col := 1, 1
	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], openDelim) {
			end := strings.Index(src[i+len(openDelim):], closeDelim)
			if end < 0 {
				return errors.New(errors.CodeMalformedTemplate).
					WithDetail("unterminated {{").
					WithSource(name, src, line, col).
					WithSuggestion("Close the expression with }}")
			}
			inner := src[i+len(openDelim) : i+len(openDelim)+end]
			if err := checkPath(strings.TrimSpace(inner)); err != nil {
				return errors.New(errors.CodeMalformedTemplate).
					WithDetail(err.Error()).
					WithSource(name, src, line, col)
			}
			consumed := src[i : i+len(openDelim)+end+len(closeDelim)]
			line, col = advance(consumed, line, col)
			i += len(consumed)
			continue
		}
		line, col = advance(src[i:i+1], line, col)
		i++
	}
	return nil
}

func advance(s string, line, col int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// checkPath validates a dotted binding path such as user.name or items.0.
func checkPath(path string) error {
	if path == "" {
		return errors.Newf(errors.CategoryTemplate, "empty expression")
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return errors.Newf(errors.CategoryTemplate, "invalid path %q", path)
		}
		for _, r := range part {
			if !isPathRune(r) {
				return errors.Newf(errors.CategoryTemplate, "invalid character %q in path %q", r, path)
			}
		}
	}
	return nil
}

func isPathRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// split breaks s into literal and slot segments.
func split(s string) ([]segment, error) {
	var out []segment
	for {
		start := strings.Index(s, openDelim)
		if start < 0 {
			if s != "" {
				out = append(out, segment{text: s})
			}
			return out, nil
		}
		end := strings.Index(s[start+len(openDelim):], closeDelim)
		if end < 0 {
			return nil, errors.New(errors.CodeMalformedTemplate).WithDetail("unterminated {{")
		}
		if start > 0 {
			out = append(out, segment{text: s[:start]})
		}
		stop := start + len(openDelim) + end + len(closeDelim)
		source := s[start:stop]
		path := strings.TrimSpace(source[len(openDelim) : len(source)-len(closeDelim)])
		if err := checkPath(path); err != nil {
			return nil, errors.New(errors.CodeMalformedTemplate).WithDetail(err.Error())
		}
		out = append(out, segment{expr: true, text: path, source: source})
		s = s[stop:]
	}
}

// convert turns parsed HTML siblings into template nodes positioned under parent.
// Comments, doctypes and whitespace-only text containing a line break are dropped.
func convert(name string, nodes []*html.Node, parent identity.Position) ([]*tnode, error) {
	var out []*tnode
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" && strings.Contains(n.Data, "\n") {
				continue
			}
			pos := parent.Child(len(out))
			segs, err := split(n.Data)
			if err != nil {
				return nil, located(err, name)
			}
			if len(segs) == 1 && !segs[0].expr {
				out = append(out, &tnode{kind: tText, text: segs[0].text, pos: pos})
				continue
			}
			// A split text node keeps one position; its parts are segments of it.
			group := &tnode{kind: tText, pos: pos}
			for j, s := range segs {
				kind := tText
				if s.expr {
					kind = tExpr
				}
				group.children = append(group.children, &tnode{
					kind:   kind,
					text:   s.text,
					source: s.source,
					pos:    pos.Segment(j),
				})
			}
			out = append(out, group)

		case html.ElementNode:
			pos := parent.Child(len(out))
			el := &tnode{kind: tElement, tag: n.Data, pos: pos}
			for _, a := range n.Attr {
				key := a.Key
				if a.Namespace != "" {
					key = a.Namespace + ":" + a.Key
				}
				parts, err := split(a.Val)
				if err != nil {
					return nil, located(err, name)
				}
				el.attrs = append(el.attrs, tattr{name: key, parts: parts})
			}
			var kids []*html.Node
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				kids = append(kids, c)
			}
			children, err := convert(name, kids, pos)
			if err != nil {
				return nil, err
			}
			el.children = children
			out = append(out, el)

		case html.CommentNode, html.DoctypeNode:
			continue
		}
	}
	return out, nil
}

func located(err error, name string) error {
	if e, ok := err.(*errors.Error); ok && e.Location == nil {
		return e.WithLocation(name, 0, 0)
	}
	return err
}
