package render

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

// Templ adapts a node tree to templ.Component so it can be embedded in templ
// layouts. The tree is rendered when the component is rendered, using r and
// store; a nil r uses the default configuration.
//
//	@render.Templ(nil, ref, store)
func Templ(r *Renderer, root *node.Node, store *world.Store) templ.Component {
	if r == nil {
		r = defaultRenderer
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res, err := r.RenderContext(ctx, store, root)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, res.HTML)
		return err
	})
}
