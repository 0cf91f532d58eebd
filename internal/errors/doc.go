// Package errors provides the structured, coded errors used across elementary.
//
// Every failure the renderer core can report has a stable code:
//   - E001: malformed template (bad interpolation, invalid node shape)
//   - E002: component not found in the store
//   - E003: duplicate component id on a non-replacing insert
//   - E004: expression evaluation failed during render
//   - E005-E007: unknown component kind, nesting too deep, component cycle
//   - E120-E139: configuration
//   - E140-E159: command line
//
// Errors compare by code with errors.Is, so public packages expose sentinels
// built with New and callers match them without importing this package:
//
//	var ErrNotFound = errors.New(errors.CodeComponentNotFound)
//
//	err := errors.New(errors.CodeMalformedTemplate).
//	    WithSource("page.html", src, 3, 12).
//	    WithDetail("unterminated {{").
//	    WithSuggestion("Close the expression with }}")
//
//	fmt.Println(err.Format())
package errors
