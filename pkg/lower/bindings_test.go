package lower

import (
	"errors"
	"testing"
	"time"
)

func TestBindingsLookup(t *testing.T) {
	type address struct{ City string }
	type person struct {
		Name    string
		Address *address
		secret  string
	}

	b := Bindings{
		"name":   "Ada",
		"count":  3,
		"nested": map[string]any{"inner": map[string]any{"value": "deep"}},
		"labels": map[string]string{"env": "prod"},
		"person": person{Name: "Grace", Address: &address{City: "NYC"}, secret: "x"},
		"ptr":    &person{Name: "Linus"},
		"nilptr": (*person)(nil),
		"list":   []string{"a", "b"},
		"nil":    nil,
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"name", "Ada", true},
		{"count", 3, true},
		{"nested.inner.value", "deep", true},
		{"labels.env", "prod", true},
		{"person.name", "Grace", true},
		{"person.Address.city", "NYC", true},
		{"ptr.name", "Linus", true},
		{"list.1", "b", true},
		{"nil", nil, true},
		{"missing", nil, false},
		{"name.length", nil, false},
		{"nested.nope", nil, false},
		{"person.secret", nil, false},
		{"nilptr.name", nil, false},
		{"list.5", nil, false},
		{"list.x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := b.Lookup(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestBindingsWith(t *testing.T) {
	b := Bindings{"a": 1}
	c := b.With("b", 2)
	if _, ok := b["b"]; ok {
		t.Error("With modified the receiver")
	}
	if c["a"] != 1 || c["b"] != 2 {
		t.Errorf("With = %v", c)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "s", "s"},
		{"bytes", []byte("b"), "b"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"stringer", 2 * time.Second, "2s"},
		{"error", errors.New("bad"), "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
