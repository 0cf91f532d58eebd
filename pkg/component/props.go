package component

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Props are the declared inputs of a component instance.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Digest hashes the msgpack encoding of p with map keys sorted, so equal
// props give equal digests. It fails for values msgpack cannot encode,
// such as functions and channels.
func (p Props) Digest() (uint64, error) {
	if p == nil {
		p = Props{}
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(map[string]any(p)); err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf.Bytes()), nil
}

// Decode copies p into dst, which is usually a pointer to a props struct.
// Struct fields are matched by their msgpack tag, or by name without one.
//
//	type CardProps struct {
//	    Title string `msgpack:"title"`
//	}
func (p Props) Decode(dst any) error {
	data, err := msgpack.Marshal(map[string]any(p))
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, dst)
}
