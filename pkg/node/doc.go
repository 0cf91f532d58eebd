// Package node provides the immutable tree that templates lower into and the
// renderer walks.
//
// A Node is one of four kinds:
//   - Text: static text, escaped on output
//   - Element: a tag with ordered attributes and ordered children
//   - Component: a reference (by ComponentID) to a subtree owned by the
//     component store
//   - Expression: a deferred value with a content-derived ExpressionID;
//     its compute function runs only at render time
//
// Nodes have no parent pointers and no setters. Composition is structural:
//
//	Div(Class("card"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// Fingerprint hashes a subtree's structure, which the component builder uses
// to notice that slot content did not change between renders.
package node
