// Package render turns node trees into HTML.
//
// Component references are resolved through a world.Store: the renderer
// emits the cached subtree of each referenced entry and never builds or
// mutates entries itself. Expression nodes are computed during the walk.
//
//	html, err := render.Render(root, store)
//
// A Renderer carries configuration:
//
//	r := render.NewRenderer(render.Config{
//	    OnExpressionError:   render.Placeholder("?"),
//	    AnnotateExpressions: true,
//	})
//	err := r.RenderToWriter(w, root, store)
//
// # Output
//
// Text and expression values are HTML-escaped and attribute values are
// escaped for double-quoted attributes. Attributes keep their order. Void
// elements (br, img, input, ...) get no closing tag; the set can be replaced
// through Config.VoidElements.
//
// With AnnotateExpressions each expression is wrapped in comments carrying
// its id, so the slot can be located in the output:
//
//	<h1>Hello, <!--e:e5a684e774c38c08c-->World<!--/e--></h1>
//
// # Failures
//
// A missing component (world.ErrNotFound), a component that references
// itself while rendering, or a failed expression (ErrExpression) aborts
// the render. No partial output is returned or written.
//
// # Pages and templ
//
// RenderPage wraps rendered content in a full document, and Templ exposes a
// tree as a templ.Component.
package render
