package node

import "fmt"

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, n *Node) *Node {
	if condition {
		return n
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Node) *Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	result := make([]*Node, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			result = append(result, n)
		}
	}
	return result
}

// Walk visits n and its descendants depth-first in pre-order. Returning false
// from fn skips the children of the visited node. Component references are
// not followed; their subtrees live in the store.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes of each kind under n.
func Count(n *Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(n, func(c *Node) bool {
		counts[c.kind]++
		return true
	})
	return counts
}
