package lower

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	elerrors "github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/render"
	"github.com/elementary-go/elementary/pkg/world"
)

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/index.html":        {Data: []byte("<main>\n  <greeter name=\"{{ who }}\"></greeter>\n</main>\n")},
		"pages/about.html":        {Data: []byte("<p>About</p>")},
		"components/greeter.html": {Data: []byte("<h1>Hello, {{ name }}</h1>")},
		"components/readme.txt":   {Data: []byte("ignored")},
	}

	set, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := set.Pages(); len(got) != 2 || got[0] != "about" || got[1] != "index" {
		t.Errorf("Pages = %v", got)
	}
	if got := set.Components(); len(got) != 1 || got[0] != "greeter" {
		t.Errorf("Components = %v", got)
	}

	reg := component.NewRegistry()
	if err := set.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Has("greeter") {
		t.Fatal("greeter not registered")
	}

	page, ok := set.Page("index")
	if !ok {
		t.Fatal("index page missing")
	}
	if page.Name() != "pages/index.html" {
		t.Errorf("Name = %q", page.Name())
	}

	store := world.New()
	nodes, err := page.LowerRoot(component.NewBuilder(reg, store), Bindings{"who": "World"})
	if err != nil {
		t.Fatalf("LowerRoot: %v", err)
	}
	html, err := render.NewRenderer(render.Config{}).RenderAll(nodes, store)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<main><h1>Hello, World</h1></main>" {
		t.Errorf("got %q", html)
	}
}

func TestLoadFSParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/broken.html": {Data: []byte("<p>{{ oops</p>")},
	}
	_, err := LoadFS(fsys)
	if elerrors.CodeOf(err) != elerrors.CodeMalformedTemplate {
		t.Fatalf("err = %v, want malformed template", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pages", "index.html"), []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if _, ok := set.Page("index"); !ok {
		t.Error("index page missing")
	}

	_, err = LoadDir(filepath.Join(dir, "nope"))
	if elerrors.CodeOf(err) != elerrors.CodeTemplateNotFound {
		t.Errorf("missing dir: err = %v", err)
	}
}

func TestSetRegisterConflict(t *testing.T) {
	set := NewSet()
	set.AddComponent("Card", MustParse("components/card.html", "<div></div>"))

	reg := component.NewRegistry()
	reg.MustRegister("card", Component(MustParse("other.html", "<span></span>")))
	if err := set.Register(reg); err == nil {
		t.Error("Register over an existing kind succeeded")
	}
}
