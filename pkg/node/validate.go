package node

import "github.com/elementary-go/elementary/internal/errors"

// Validate checks the shape of the tree rooted at n: element tags and
// attribute names must be non-empty and expressions need a compute function.
// It reports the first problem as a malformed template error.
func Validate(n *Node) error {
	var err error
	Walk(n, func(c *Node) bool {
		if err != nil {
			return false
		}
		switch c.kind {
		case KindElement:
			if c.tag == "" {
				err = errors.New(errors.CodeMalformedTemplate).WithDetail("element with empty tag name")
				return false
			}
			for _, a := range c.attrs {
				if a.Name == "" {
					err = errors.New(errors.CodeMalformedTemplate).
						WithDetailf("element <%s> has an attribute with an empty name", c.tag)
					return false
				}
			}
		case KindExpression:
			if c.compute == nil {
				err = errors.New(errors.CodeMalformedTemplate).
					WithDetailf("expression %s (%q) has no compute function", c.expr, c.text)
			}
		case KindText, KindComponent:
		default:
			err = errors.New(errors.CodeMalformedTemplate).WithDetailf("unknown node kind %d", c.kind)
		}
		return err == nil
	})
	return err
}
