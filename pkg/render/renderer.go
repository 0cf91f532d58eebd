package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/node"
	"github.com/elementary-go/elementary/pkg/world"
)

// ErrExpression matches errors raised while computing an expression slot.
var ErrExpression = errors.New(errors.CodeExpressionFailure)

// DefaultTracerName is the tracer used by RenderContext.
const DefaultTracerName = "github.com/elementary-go/elementary/pkg/render"

// ExpressionErrorFunc decides what to emit for an expression that failed.
// Returning an error aborts the render.
type ExpressionErrorFunc func(id node.ExpressionID, source string, err error) (string, error)

// Placeholder returns an ExpressionErrorFunc that substitutes text for every
// failed expression.
func Placeholder(text string) ExpressionErrorFunc {
	return func(node.ExpressionID, string, error) (string, error) {
		return text, nil
	}
}

// Config configures a Renderer.
type Config struct {
	// VoidElements lists tags that get no closing tag.
	// Default: DefaultVoidElements
	VoidElements map[string]bool

	// OnExpressionError handles failed expressions. When nil, a failed
	// expression fails the whole render.
	OnExpressionError ExpressionErrorFunc

	// AnnotateExpressions wraps every expression's output in
	// <!--e:ID--> ... <!--/e--> comments.
	AnnotateExpressions bool

	// Logger receives render failures at Debug level.
	Logger *slog.Logger

	// TracerName names the OpenTelemetry tracer used by RenderContext.
	// Default: DefaultTracerName
	TracerName string
}

// Result is the output of a render pass.
type Result struct {
	HTML        string
	Components  int
	Expressions int
}

// Renderer turns node trees into HTML. A Renderer holds no per-render state
// and is safe for concurrent use.
type Renderer struct {
	config Config
	tracer trace.Tracer
	logger *slog.Logger
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.VoidElements == nil {
		config.VoidElements = DefaultVoidElements
	}
	if config.TracerName == "" {
		config.TracerName = DefaultTracerName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "render")
	}
	return &Renderer{
		config: config,
		tracer: otel.Tracer(config.TracerName),
		logger: logger,
	}
}

var defaultRenderer = NewRenderer(Config{})

// Render renders root with the default configuration, resolving component
// references through store. On error the returned string is empty.
func Render(root *node.Node, store *world.Store) (string, error) {
	return defaultRenderer.RenderToString(root, store)
}

// RenderToString renders root to a string. On error the returned string is empty.
func (r *Renderer) RenderToString(root *node.Node, store *world.Store) (string, error) {
	res, err := r.run(store, root)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderAll renders roots one after another into a single string.
func (r *Renderer) RenderAll(roots []*node.Node, store *world.Store) (string, error) {
	res, err := r.run(store, roots...)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderToWriter renders root and writes the result to w. Nothing is written
// when rendering fails.
func (r *Renderer) RenderToWriter(w io.Writer, root *node.Node, store *world.Store) error {
	res, err := r.run(store, root)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, res.HTML)
	return err
}

// RenderContext renders roots inside a span. It returns ctx.Err() if ctx is
// done before or after the walk, discarding any output.
func (r *Renderer) RenderContext(ctx context.Context, store *world.Store, roots ...*node.Node) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	_, span := r.tracer.Start(ctx, "render",
		trace.WithAttributes(attribute.Int("elementary.roots", len(roots))),
	)
	defer span.End()

	res, err := r.run(store, roots...)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int("elementary.components", res.Components),
		attribute.Int("elementary.expressions", res.Expressions),
		attribute.Int("elementary.bytes", len(res.HTML)),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (r *Renderer) run(store *world.Store, roots ...*node.Node) (Result, error) {
	w := &walker{
		r:      r,
		store:  store,
		active: make(map[node.ComponentID]bool),
	}
	for _, root := range roots {
		if err := w.node(root); err != nil {
			r.logger.Debug("render failed", "error", err)
			return Result{}, err
		}
	}
	return Result{
		HTML:        w.buf.String(),
		Components:  w.components,
		Expressions: w.expressions,
	}, nil
}

// walker holds the state of one render pass.
type walker struct {
	r           *Renderer
	store       *world.Store
	buf         bytes.Buffer
	active      map[node.ComponentID]bool
	components  int
	expressions int
}

func (w *walker) node(n *node.Node) error {
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case node.KindText:
		w.buf.WriteString(escapeHTML(n.Text()))
		return nil
	case node.KindElement:
		return w.element(n)
	case node.KindComponent:
		return w.component(n.ComponentID())
	case node.KindExpression:
		return w.expression(n)
	default:
		return errors.New(errors.CodeMalformedTemplate).WithDetailf("unknown node kind %d", n.Kind())
	}
}

func (w *walker) element(n *node.Node) error {
	tag := n.Tag()

	void := w.r.config.VoidElements[tag]
	if void && n.NumChildren() > 0 {
		return errors.New(errors.CodeMalformedTemplate).
			WithDetailf("void element <%s> has %d children", tag, n.NumChildren())
	}

	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	for _, a := range n.Attrs() {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.Name)
		if a.Value == "" && isBooleanAttr(a.Name) {
			continue
		}
		w.buf.WriteString(`="`)
		w.buf.WriteString(escapeAttr(a.Value))
		w.buf.WriteByte('"')
	}
	w.buf.WriteByte('>')

	if void {
		return nil
	}

	for i := 0; i < n.NumChildren(); i++ {
		if err := w.node(n.Child(i)); err != nil {
			return err
		}
	}

	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
	return nil
}

func (w *walker) component(id node.ComponentID) error {
	if w.active[id] {
		return errors.New(errors.CodeComponentCycle).
			WithDetailf("%s references itself while rendering", id)
	}
	if w.store == nil {
		return errors.New(errors.CodeComponentNotFound).
			WithDetailf("%s (no store)", id)
	}

	entry, err := w.store.Get(id)
	if err != nil {
		return err
	}

	w.components++
	w.active[id] = true
	defer delete(w.active, id)

	return w.node(entry.Subtree)
}

func (w *walker) expression(n *node.Node) error {
	w.expressions++
	id := n.ExpressionID()

	value, err := eval(n)
	if err != nil {
		handler := w.r.config.OnExpressionError
		if handler == nil {
			return err
		}
		value, err = handler(id, n.Source(), err)
		if err != nil {
			return err
		}
	}

	if w.r.config.AnnotateExpressions {
		fmt.Fprintf(&w.buf, "<!--e:%s-->", id)
		w.buf.WriteString(escapeHTML(value))
		w.buf.WriteString("<!--/e-->")
		return nil
	}
	w.buf.WriteString(escapeHTML(value))
	return nil
}

// eval computes an expression, reporting failures and panics as
// expression errors.
func eval(n *node.Node) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = ""
			err = errors.New(errors.CodeExpressionFailure).
				WithDetailf("%s %q panicked: %v", n.ExpressionID(), n.Source(), r)
		}
	}()

	value, err = n.Eval()
	if err == nil {
		return value, nil
	}
	if errors.CodeOf(err) == errors.CodeExpressionFailure {
		return "", err
	}
	return "", errors.New(errors.CodeExpressionFailure).
		WithDetailf("%s %q", n.ExpressionID(), n.Source()).
		Wrap(err)
}
