package lower

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Bindings are the values templates read through {{ path }} slots.
type Bindings map[string]any

// Lookup resolves a dotted path such as user.name. Each step may index a
// map with string keys, an exported struct field (matched by name, case
// insensitively), or a slice element by number. Pointers and interfaces are
// followed.
func (b Bindings) Lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	v, ok := b[parts[0]]
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		v, ok = step(v, part)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// With returns a copy of b with name bound to value.
func (b Bindings) With(name string, value any) Bindings {
	out := make(Bindings, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[name] = value
	return out
}

func step(v any, part string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		r, found := m[part]
		return r, found
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		r := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
		if !r.IsValid() {
			return nil, false
		}
		return r.Interface(), true
	case reflect.Struct:
		f := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, part)
		})
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// Stringify formats a bound value for output. nil becomes the empty string.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(v)
	}
}
