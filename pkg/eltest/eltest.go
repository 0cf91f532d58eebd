package eltest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/lower"
	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/render"
	"github.com/elementary-go/elementary/pkg/world"
)

// Harness holds a registry, store and builder for one test. Every helper
// fails the test on error.
type Harness struct {
	t        testing.TB
	Registry *component.Registry
	Store    *world.Store
	Builder  *component.Builder
	Renderer *render.Renderer
}

// New creates a harness with an empty registry and store. Builder and
// renderer logs are discarded.
func New(t testing.TB, opts ...component.Option) *Harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := component.NewRegistry()
	store := world.New()
	opts = append([]component.Option{component.WithLogger(logger)}, opts...)
	return &Harness{
		t:        t,
		Registry: reg,
		Store:    store,
		Builder:  component.NewBuilder(reg, store, opts...),
		Renderer: render.NewRenderer(render.Config{Logger: logger}),
	}
}

// Register adds a Go component.
//
// Example:
//
//	h := eltest.New(t).Register("badge", component.Static(Badge{}))
func (h *Harness) Register(kind string, f component.Factory) *Harness {
	h.t.Helper()
	if err := h.Registry.Register(kind, f); err != nil {
		h.t.Fatalf("register %q: %v", kind, err)
	}
	return h
}

// Markup adds a markup component parsed from src.
//
// Example:
//
//	h := eltest.New(t).Markup("card", `<div class="card"><slot></slot></div>`)
func (h *Harness) Markup(kind, src string) *Harness {
	h.t.Helper()
	t, err := lower.Parse("components/"+kind+".html", src)
	if err != nil {
		h.t.Fatalf("parse %q: %v", kind, err)
	}
	return h.Register(kind, lower.Component(t))
}

// Build builds one component at the top level, keyed by the test name.
func (h *Harness) Build(kind string, props component.Props, children ...*node.Node) *node.Node {
	h.t.Helper()
	ref, err := h.Builder.Build(kind, props, children, h.t.Name())
	if err != nil {
		h.t.Fatalf("build %q: %v", kind, err)
	}
	return ref
}

// Page lowers src as a page against the registered components.
func (h *Harness) Page(src string, bindings lower.Bindings) []*node.Node {
	h.t.Helper()
	t, err := lower.Parse("pages/"+h.t.Name()+".html", src)
	if err != nil {
		h.t.Fatalf("parse page: %v", err)
	}
	nodes, err := t.LowerRoot(h.Builder, bindings)
	if err != nil {
		h.t.Fatalf("lower page: %v", err)
	}
	return nodes
}

// Render renders nodes against the harness store.
func (h *Harness) Render(nodes ...*node.Node) string {
	h.t.Helper()
	html, err := h.Renderer.RenderAll(nodes, h.Store)
	if err != nil {
		h.t.Fatalf("render: %v", err)
	}
	return html
}

// RenderPage lowers and renders src in one step.
//
// Example:
//
//	html := h.RenderPage(`<card>{{ title }}</card>`, lower.Bindings{"title": "Hi"})
func (h *Harness) RenderPage(src string, bindings lower.Bindings) string {
	h.t.Helper()
	return h.Render(h.Page(src, bindings)...)
}

// RenderToString renders root with the default renderer and returns "" on
// error. Useful when the failure itself is asserted elsewhere.
func RenderToString(root *node.Node, store *world.Store) string {
	html, err := render.Render(root, store)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that html contains expected.
func ExpectContains(t testing.TB, html, expected string) {
	t.Helper()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that html does not contain unexpected.
func ExpectNotContains(t testing.TB, html, unexpected string) {
	t.Helper()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that html contains an opening tag.
func ExpectElement(t testing.TB, html, tag string) {
	t.Helper()
	if !strings.Contains(html, "<"+tag+">") && !strings.Contains(html, "<"+tag+" ") {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that html contains attr="value", with value
// escaped as the renderer escapes it.
func ExpectAttribute(t testing.TB, html, attr, value string) {
	t.Helper()
	needle := attr + `="` + render.EscapeString(value) + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
