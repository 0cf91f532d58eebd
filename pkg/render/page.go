package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

// Page is a complete HTML document around rendered body content.
type Page struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Default: "en"
	Lang string

	// Meta contains meta tags for the head.
	Meta []MetaTag

	// Links contains link tags (favicon, preload, etc.).
	Links []LinkTag

	// StyleSheets contains hrefs of external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS.
	Styles []string

	// Scripts are emitted at the end of the body, or in the head when
	// deferred or async.
	Scripts []ScriptTag

	// Body is the page content.
	Body []*node.Node
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string // OpenGraph
	HTTPEquiv string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel   string
	Href  string
	Type  string
	Sizes string
	Media string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Type   string
	Defer  bool
	Async  bool
	Module bool   // type="module"
	Inline string // trusted; written without escaping
}

// RenderPage renders a complete document. The body is rendered first, so
// nothing is written to w if it fails.
func (r *Renderer) RenderPage(w io.Writer, page Page, store *world.Store) error {
	_, err := r.RenderPageContext(context.Background(), w, page, store)
	return err
}

// RenderPageContext is RenderPage with the body rendered by RenderContext.
// The returned Result describes the body only.
func (r *Renderer) RenderPageContext(ctx context.Context, w io.Writer, page Page, store *world.Store) (Result, error) {
	res, err := r.RenderContext(ctx, store, page.Body...)
	if err != nil {
		return Result{}, err
	}
	body := res.HTML

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&buf, "<html lang=\"%s\">\n", escapeAttr(lang))
	writeHead(&buf, page)
	buf.WriteString("<body>\n")
	buf.WriteString(body)
	buf.WriteByte('\n')
	for _, script := range page.Scripts {
		if !script.Defer && !script.Async {
			writeScriptTag(&buf, script)
		}
	}
	buf.WriteString("</body>\n</html>\n")

	_, err = buf.WriteTo(w)
	return res, err
}

// RenderPage renders page with the default configuration.
func RenderPage(w io.Writer, page Page, store *world.Store) error {
	return defaultRenderer.RenderPage(w, page, store)
}

func writeHead(buf *bytes.Buffer, page Page) {
	buf.WriteString("<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")

	if page.Title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", escapeHTML(page.Title))
	}

	for _, meta := range page.Meta {
		buf.WriteString("  <meta")
		writeAttr(buf, "name", meta.Name)
		writeAttr(buf, "property", meta.Property)
		writeAttr(buf, "http-equiv", meta.HTTPEquiv)
		writeAttr(buf, "content", meta.Content)
		buf.WriteString(">\n")
	}

	for _, link := range page.Links {
		buf.WriteString("  <link")
		writeAttr(buf, "rel", link.Rel)
		writeAttr(buf, "href", link.Href)
		writeAttr(buf, "type", link.Type)
		writeAttr(buf, "sizes", link.Sizes)
		writeAttr(buf, "media", link.Media)
		buf.WriteString(">\n")
	}

	for _, href := range page.StyleSheets {
		fmt.Fprintf(buf, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href))
	}

	for _, style := range page.Styles {
		fmt.Fprintf(buf, "  <style>%s</style>\n", style)
	}

	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			writeScriptTag(buf, script)
		}
	}

	buf.WriteString("</head>\n")
}

// writeAttr writes name="value", skipping empty values.
func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, " %s=\"%s\"", name, escapeAttr(value))
}

func writeScriptTag(buf *bytes.Buffer, script ScriptTag) {
	buf.WriteString("  <script")
	writeAttr(buf, "src", script.Src)
	if script.Module {
		buf.WriteString(` type="module"`)
	} else {
		writeAttr(buf, "type", script.Type)
	}
	if script.Defer {
		buf.WriteString(" defer")
	}
	if script.Async {
		buf.WriteString(" async")
	}
	buf.WriteByte('>')
	buf.WriteString(script.Inline)
	buf.WriteString("</script>\n")
}
