// Package eltest provides testing helpers for elementary components.
//
// A Harness bundles the registry, store, builder and renderer a component
// test needs, and fails the test on any error, so tests read as setup
// followed by assertions.
//
// # Quick Start
//
//	func TestCard(t *testing.T) {
//	    h := eltest.New(t).Markup("card", `<div class="card"><h2>{{ title }}</h2><slot></slot></div>`)
//	    html := h.RenderPage(`<card title="{{ post.title }}">body</card>`, lower.Bindings{
//	        "post": map[string]any{"title": "Hello"},
//	    })
//	    eltest.ExpectContains(t, html, "<h2>Hello</h2>")
//	    eltest.ExpectAttribute(t, html, "class", "card")
//	}
//
// # Go Components
//
//	h := eltest.New(t).Register("badge", component.Static(Badge{}))
//	ref := h.Build("badge", component.Props{"label": "new"})
//	eltest.ExpectElement(t, h.Render(ref), "span")
package eltest
