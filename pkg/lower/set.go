package lower

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
)

const (
	pagesDir      = "pages"
	componentsDir = "components"
	templateExt   = ".html"
)

// Set holds the pages and markup components of a template directory:
//
//	templates/
//	    pages/index.html        page "index"
//	    components/card.html    component kind "card"
type Set struct {
	mu         sync.RWMutex
	pages      map[string]*Template
	components map[string]*Template
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		pages:      make(map[string]*Template),
		components: make(map[string]*Template),
	}
}

// LoadDir loads the templates under dir.
func LoadDir(dir string) (*Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.New(errors.CodeTemplateNotFound).WithDetail(dir).Wrap(err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.CodeTemplateNotFound).WithDetailf("%s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads pages/*.html and components/*.html from fsys. Template names
// are the slash-separated paths inside fsys.
func LoadFS(fsys fs.FS) (*Set, error) {
	s := NewSet()

	pages, err := fs.Glob(fsys, pagesDir+"/*"+templateExt)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		t, err := parseFile(fsys, p)
		if err != nil {
			return nil, err
		}
		s.AddPage(baseName(p), t)
	}

	comps, err := fs.Glob(fsys, componentsDir+"/*"+templateExt)
	if err != nil {
		return nil, err
	}
	for _, p := range comps {
		t, err := parseFile(fsys, p)
		if err != nil {
			return nil, err
		}
		s.AddComponent(baseName(p), t)
	}

	return s, nil
}

func parseFile(fsys fs.FS, name string) (*Template, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.New(errors.CodeTemplateNotFound).WithDetail(name).Wrap(err)
	}
	return Parse(name, string(data))
}

func baseName(p string) string {
	return strings.TrimSuffix(path.Base(p), templateExt)
}

// AddPage adds or replaces a page.
func (s *Set) AddPage(name string, t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[name] = t
}

// AddComponent adds or replaces a markup component.
func (s *Set) AddComponent(kind string, t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[component.NormalizeKind(kind)] = t
}

// Page returns the page called name.
func (s *Set) Page(name string) (*Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.pages[name]
	return t, ok
}

// Pages returns the page names in sorted order.
func (s *Set) Pages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.pages)
}

// Components returns the markup component kinds in sorted order.
func (s *Set) Components() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.components)
}

// Register registers every markup component of the set with reg.
func (s *Set) Register(reg *component.Registry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, kind := range sortedKeys(s.components) {
		if err := reg.Register(kind, Component(s.components[kind])); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*Template) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
