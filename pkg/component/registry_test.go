package component

import (
	"testing"

	elerrors "github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/node"
)

func TestRegistry(t *testing.T) {
	noop := Static(Func(func(*Scope, []*node.Node) (*node.Node, error) { return nil, nil }))

	t.Run("register and lookup", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register("Greeter", noop); err != nil {
			t.Fatalf("Register: %v", err)
		}
		for _, kind := range []string{"Greeter", "greeter", " GREETER "} {
			if !r.Has(kind) {
				t.Errorf("Has(%q) = false", kind)
			}
		}
		if _, ok := r.Lookup("card"); ok {
			t.Error("Lookup(card) found a factory")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("a", noop)
		if err := r.Register("A", noop); err == nil {
			t.Error("duplicate Register succeeded")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register("  ", noop); elerrors.CodeOf(err) != elerrors.CodeMalformedTemplate {
			t.Errorf("empty kind: %v", err)
		}
		if err := r.Register("x", nil); elerrors.CodeOf(err) != elerrors.CodeMalformedTemplate {
			t.Errorf("nil factory: %v", err)
		}
	})

	t.Run("kinds sorted", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister("zeta", noop)
		r.MustRegister("Alpha", noop)
		got := r.Kinds()
		if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
			t.Errorf("Kinds = %v", got)
		}
	})

	t.Run("must register panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustRegister did not panic")
			}
		}()
		r := NewRegistry()
		r.MustRegister("a", noop)
		r.MustRegister("a", noop)
	})
}

func TestPropsDigest(t *testing.T) {
	a := Props{"name": "World", "count": 3, "tags": []string{"x", "y"}}
	b := Props{"tags": []string{"x", "y"}, "count": 3, "name": "World"}

	da, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	db, _ := b.Digest()
	if da != db {
		t.Error("equal props have different digests")
	}

	c := Props{"name": "Go", "count": 3, "tags": []string{"x", "y"}}
	if dc, _ := c.Digest(); dc == da {
		t.Error("different props have equal digests")
	}

	var nilProps Props
	dn, _ := nilProps.Digest()
	de, _ := Props{}.Digest()
	if dn != de {
		t.Error("nil and empty props digest differently")
	}

	if _, err := (Props{"fn": func() {}}).Digest(); err == nil {
		t.Error("Digest of a func value succeeded")
	}
}

func TestPropsDecode(t *testing.T) {
	type cardProps struct {
		Title string   `msgpack:"title"`
		Count int      `msgpack:"count"`
		Tags  []string `msgpack:"tags"`
	}

	var got cardProps
	err := Props{"title": "Hi", "count": 2, "tags": []string{"a"}, "extra": true}.Decode(&got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Title != "Hi" || got.Count != 2 || len(got.Tags) != 1 || got.Tags[0] != "a" {
		t.Errorf("Decode = %+v", got)
	}
}

func TestPropsClone(t *testing.T) {
	p := Props{"a": 1}
	c := p.Clone()
	c["a"] = 2
	if p["a"] != 1 {
		t.Error("Clone shares the map")
	}
	var nilProps Props
	if nilProps.Clone() == nil {
		t.Error("Clone(nil) returned nil")
	}
}
