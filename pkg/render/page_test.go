package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

func TestRenderPage(t *testing.T) {
	page := Page{
		Title:       "Tom & Jerry",
		Meta:        []MetaTag{{Name: "description", Content: "A \"page\""}},
		Links:       []LinkTag{{Rel: "icon", Href: "/favicon.ico"}},
		StyleSheets: []string{"/app.css"},
		Styles:      []string{"body{margin:0}"},
		Scripts: []ScriptTag{
			{Src: "/head.js", Defer: true},
			{Src: "/app.js", Module: true},
		},
		Body: []*node.Node{node.H1("Hello"), node.P("World")},
	}

	var buf bytes.Buffer
	if err := RenderPage(&buf, page, world.New()); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	html := buf.String()

	checks := []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Tom &amp; Jerry</title>",
		`<meta name="description" content="A &quot;page&quot;">`,
		`<link rel="icon" href="/favicon.ico">`,
		`<link rel="stylesheet" href="/app.css">`,
		"<style>body{margin:0}</style>",
		"<body>\n<h1>Hello</h1><p>World</p>\n",
		"</body>\n</html>\n",
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}

	head := html[:strings.Index(html, "</head>")]
	if !strings.Contains(head, `<script src="/head.js" defer></script>`) {
		t.Error("deferred script not in head")
	}
	if strings.Contains(head, "/app.js") {
		t.Error("module script rendered in head")
	}
	if !strings.Contains(html, `<script src="/app.js" type="module"></script>`) {
		t.Error("module script missing from body")
	}
}

func TestRenderPageLang(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, Page{Lang: "fr"}, world.New()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<html lang="fr">`) {
		t.Errorf("lang not applied: %s", buf.String())
	}
}

func TestRenderPageFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(&buf, Page{Title: "x", Body: []*node.Node{node.Ref(5)}}, world.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on failure", buf.Len())
	}
}

func TestTempl(t *testing.T) {
	store := world.New()
	if err := store.Insert(1, world.Entry{Kind: "x", Subtree: node.Span("templ")}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Templ(nil, node.Div(node.Ref(1)), store).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "<div><span>templ</span></div>" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	if err := Templ(nil, node.Ref(2), store).Render(context.Background(), &buf); err == nil {
		t.Error("expected error for missing component")
	}
}
