package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	elerrors "github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/identity"
	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

func expr(source string, fn node.ComputeFunc) *node.Node {
	return node.Expr(identity.Derive(source), source, fn)
}

func constant(source, value string) *node.Node {
	return node.ExprString(identity.Derive(source), source, func() string { return value })
}

func TestRenderNodes(t *testing.T) {
	tests := []struct {
		name string
		node *node.Node
		want string
	}{
		{"nil", nil, ""},
		{"text", node.Text("Hello, World!"), "Hello, World!"},
		{"text escaping", node.Text("<script>alert('x')</script>"), "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;"},
		{"children in order", node.Element("tag", nil, node.Text("a"), node.Text("b")), "<tag>ab</tag>"},
		{"empty element", node.Div(), "<div></div>"},
		{
			"attributes keep order",
			node.Input(node.Type("text"), node.NameAttr("email")),
			`<input type="text" name="email">`,
		},
		{"void element", node.Br(), "<br>"},
		{"boolean attribute", node.Input(node.Disabled()), "<input disabled>"},
		{"empty attribute", node.Div(node.Data("x", "")), `<div data-x=""></div>`},
		{
			"attribute escaping",
			node.Div(node.TitleAttr("a \"quoted\" <b>\n")),
			`<div title="a &quot;quoted&quot; &lt;b&gt;&#10;"></div>`,
		},
		{
			"nested",
			node.Div(node.Class("container"), node.H1("Title"), node.P("Content")),
			`<div class="container"><h1>Title</h1><p>Content</p></div>`,
		},
		{"expression", node.P(constant("x", "1 < 2")), "<p>1 &lt; 2</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.node, world.New())
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type greeterProps struct {
	Name string `msgpack:"name"`
}

func TestRenderGreeter(t *testing.T) {
	reg := component.NewRegistry()
	reg.MustRegister("Greeter", component.Define(func(p greeterProps) component.Component {
		return component.Func(func(s *component.Scope, _ []*node.Node) (*node.Node, error) {
			return node.H1(
				node.Text("Hello, "),
				s.ExprString("name", "name", func() string { return p.Name }),
			), nil
		})
	}))

	store := world.New()
	b := component.NewBuilder(reg, store)
	ref, err := b.Build("Greeter", component.Props{"name": "World"}, nil, "root")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := Render(ref, store)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "<h1>Hello, World</h1>" {
		t.Errorf("got %q, want %q", got, "<h1>Hello, World</h1>")
	}

	again, err := Render(ref, store)
	if err != nil || again != got {
		t.Errorf("second render = %q, %v; want identical output", again, err)
	}
	if store.Len() != 1 {
		t.Errorf("render changed the store: Len = %d", store.Len())
	}
}

func TestRenderComponentNotFound(t *testing.T) {
	tests := []struct {
		name  string
		store *world.Store
	}{
		{"empty store", world.New()},
		{"nil store", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := node.Div(node.Text("before"), node.Ref(node.ComponentID(99)))
			got, err := Render(root, tt.store)
			if !errors.Is(err, world.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
			if got != "" {
				t.Errorf("output = %q, want empty", got)
			}
		})
	}
}

func TestRenderComponentCycle(t *testing.T) {
	store := world.New()
	a, b := node.ComponentID(1), node.ComponentID(2)
	if err := store.Insert(a, world.Entry{Kind: "a", Subtree: node.Div(node.Ref(b))}); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(b, world.Entry{Kind: "b", Subtree: node.Span(node.Ref(a))}); err != nil {
		t.Fatal(err)
	}

	_, err := Render(node.Ref(a), store)
	if elerrors.CodeOf(err) != elerrors.CodeComponentCycle {
		t.Fatalf("err = %v, want component cycle", err)
	}
}

func TestRenderSameComponentTwice(t *testing.T) {
	store := world.New()
	id := node.ComponentID(7)
	if err := store.Insert(id, world.Entry{Kind: "x", Subtree: node.Text("x")}); err != nil {
		t.Fatal(err)
	}
	got, err := Render(node.Div(node.Ref(id), node.Ref(id)), store)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "<div>xx</div>" {
		t.Errorf("got %q", got)
	}
}

func TestRenderStaleEntryUsesCachedSubtree(t *testing.T) {
	store := world.New()
	id := node.ComponentID(3)
	if err := store.Insert(id, world.Entry{Kind: "x", Subtree: node.Text("cached")}); err != nil {
		t.Fatal(err)
	}
	if err := store.Invalidate(id); err != nil {
		t.Fatal(err)
	}
	got, err := Render(node.Ref(id), store)
	if err != nil || got != "cached" {
		t.Errorf("got %q, %v; want cached", got, err)
	}
	entry, _ := store.Get(id)
	if !entry.Stale {
		t.Error("render cleared the stale mark")
	}
}

func TestRenderExpressionFailure(t *testing.T) {
	failing := expr("user.name", func() (string, error) { return "", fmt.Errorf("no user") })
	panicking := expr("boom", func() (string, error) { panic("kaboom") })
	noCompute := node.Expr(identity.Derive("nil"), "nil", nil)

	for name, n := range map[string]*node.Node{
		"error":      failing,
		"panic":      panicking,
		"no compute": noCompute,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Render(node.P(node.Text("a"), n), world.New())
			if !errors.Is(err, ErrExpression) {
				t.Fatalf("err = %v, want ErrExpression", err)
			}
			if got != "" {
				t.Errorf("output = %q, want empty", got)
			}
		})
	}

	t.Run("placeholder", func(t *testing.T) {
		r := NewRenderer(Config{OnExpressionError: Placeholder("<?>")})
		got, err := r.RenderToString(node.P(failing, panicking), world.New())
		if err != nil {
			t.Fatalf("RenderToString: %v", err)
		}
		if got != "<p>&lt;?&gt;&lt;?&gt;</p>" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("handler aborts", func(t *testing.T) {
		var seen []string
		r := NewRenderer(Config{OnExpressionError: func(id node.ExpressionID, source string, err error) (string, error) {
			seen = append(seen, source)
			return "", err
		}})
		_, err := r.RenderToString(node.P(failing), world.New())
		if !errors.Is(err, ErrExpression) {
			t.Fatalf("err = %v, want ErrExpression", err)
		}
		if len(seen) != 1 || seen[0] != "user.name" {
			t.Errorf("handler saw %v", seen)
		}
	})
}

func TestRenderAnnotateExpressions(t *testing.T) {
	n := constant("name", "World")
	r := NewRenderer(Config{AnnotateExpressions: true})

	got, err := r.RenderToString(node.H1(node.Text("Hello, "), n), world.New())
	if err != nil {
		t.Fatal(err)
	}
	want := "<h1>Hello, <!--e:" + n.ExpressionID().String() + "-->World<!--/e--></h1>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderCustomVoidElements(t *testing.T) {
	r := NewRenderer(Config{VoidElements: VoidSet("x-icon")})
	got, err := r.RenderAll([]*node.Node{node.El("x-icon"), node.Br()}, world.New())
	if err != nil {
		t.Fatal(err)
	}
	if got != "<x-icon><br></br>" {
		t.Errorf("got %q", got)
	}
}

func TestRenderVoidElementWithChildren(t *testing.T) {
	tests := []struct {
		name string
		void []string
		node *node.Node
	}{
		{"default set", nil, node.El("img", node.Src("a.png"), "lost")},
		{"custom set", []string{"x-icon"}, node.El("x-icon", node.Span())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			if tt.void != nil {
				cfg.VoidElements = VoidSet(tt.void...)
			}
			got, err := NewRenderer(cfg).RenderAll([]*node.Node{tt.node}, world.New())
			if elerrors.CodeOf(err) != elerrors.CodeMalformedTemplate {
				t.Fatalf("err = %v, want malformed template", err)
			}
			if got != "" {
				t.Errorf("output = %q, want none", got)
			}
		})
	}
}

func TestRenderToWriter(t *testing.T) {
	r := NewRenderer(Config{})

	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node.P("ok"), world.New()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<p>ok</p>" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	err := r.RenderToWriter(&buf, node.Div(node.Text("partial"), node.Ref(1)), world.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q on failure", buf.String())
	}
}

func TestRenderContext(t *testing.T) {
	store := world.New()
	if err := store.Insert(1, world.Entry{Kind: "x", Subtree: node.P(constant("v", "1"))}); err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(Config{})

	res, err := r.RenderContext(context.Background(), store, node.Ref(1), node.Text("!"))
	if err != nil {
		t.Fatalf("RenderContext: %v", err)
	}
	if res.HTML != "<p>1</p>!" || res.Components != 1 || res.Expressions != 1 {
		t.Errorf("result = %+v", res)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err = r.RenderContext(ctx, store, node.Ref(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if res.HTML != "" {
		t.Errorf("canceled render returned %q", res.HTML)
	}
}

func TestEscapeString(t *testing.T) {
	if got := EscapeString(`<a href="x">&'`); got != "&lt;a href=&quot;x&quot;&gt;&amp;&#39;" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(escapeAttr("a\tb"), "\t") {
		t.Error("escapeAttr kept a tab")
	}
}
