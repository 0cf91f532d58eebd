package node

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a structural 64-bit hash of the subtree rooted at n.
// It covers kinds, tags, attributes, text, expression ids and sources, and
// component ids. Compute functions are not part of it, so two trees with the
// same fingerprint render identically only if their expressions do.
func Fingerprint(nodes ...*Node) uint64 {
	d := xxhash.New()
	for _, n := range nodes {
		writeNode(d, n)
	}
	return d.Sum64()
}

func writeNode(d *xxhash.Digest, n *Node) {
	if n == nil {
		writeUint(d, 0xff)
		return
	}
	writeUint(d, uint64(n.kind))
	switch n.kind {
	case KindText:
		writeString(d, n.text)
	case KindElement:
		writeString(d, n.tag)
		writeUint(d, uint64(len(n.attrs)))
		for _, a := range n.attrs {
			writeString(d, a.Name)
			writeString(d, a.Value)
		}
		writeUint(d, uint64(len(n.children)))
		for _, c := range n.children {
			writeNode(d, c)
		}
	case KindComponent:
		writeUint(d, uint64(n.comp))
	case KindExpression:
		writeUint(d, uint64(n.expr))
		writeString(d, n.text)
	}
}

func writeUint(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	d.Write(buf[:])
}

func writeString(d *xxhash.Digest, s string) {
	writeUint(d, uint64(len(s)))
	d.WriteString(s)
}
