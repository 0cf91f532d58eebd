package identity

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/elementary-go/elementary/pkg/node"
)

// Width is the width in bits of every derived id. Collisions are accepted at
// the 2^-64 level and are not detected.
const Width = 64

// Domain tags keep expression and component ids apart even for equal inputs.
const (
	expressionDomain = "elementary/expression/v1"
	componentDomain  = "elementary/component/v1"
)

// Derive returns the id for an expression from its source text alone.
// Use DeriveAt when the same source may appear at several positions.
func Derive(source string) node.ExpressionID {
	return node.ExpressionID(sum(expressionDomain, "", source))
}

// DeriveAt returns the id for an expression whose source appears at pos.
// Equal sources at different positions get different ids.
func DeriveAt(pos Position, source string) node.ExpressionID {
	return node.ExpressionID(sum(expressionDomain, string(pos), source))
}

// ComponentID returns the id of the instance of kind declared at contextID.
func ComponentID(kind, contextID string) node.ComponentID {
	return node.ComponentID(sum(componentDomain, kind, contextID))
}

// sum hashes length-prefixed fields with xxhash64 (seed 0). The encoding is
// fixed, so ids are equal across processes and platforms.
func sum(domain string, fields ...string) uint64 {
	d := xxhash.New()
	writeField(d, domain)
	for _, f := range fields {
		writeField(d, f)
	}
	return d.Sum64()
}

func writeField(d *xxhash.Digest, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	d.Write(n[:])
	d.WriteString(s)
}

// Position encodes where a node sits in its template: a scope name followed
// by child indices ("/0/2"), text segments ("#1") and keys ("@item").
// Positions are plain strings so that they are stable across re-lowerings.
type Position string

// Root is the empty position.
const Root Position = ""

// In returns the position of the root of scope.
func In(scope string) Position {
	return Position(scope)
}

// Child returns the position of the i-th child of p.
func (p Position) Child(i int) Position {
	return p + "/" + Position(strconv.Itoa(i))
}

// Segment returns the position of the i-th segment of a split text node at p.
func (p Position) Segment(i int) Position {
	return p + "#" + Position(strconv.Itoa(i))
}

// Key returns the position of an explicitly keyed item under p.
func (p Position) Key(key string) Position {
	return p + "@" + Position(key)
}

// String returns the encoded position.
func (p Position) String() string {
	return string(p)
}
