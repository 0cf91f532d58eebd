package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/component"
	"github.com/elementary-go/elementary/pkg/lower"
	"github.com/elementary-go/elementary/pkg/render"
	"github.com/elementary-go/elementary/pkg/world"
)

type renderOptions struct {
	data     string
	dir      string
	out      string
	title    string
	fragment bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <page | file.html>",
		Short: "Render a page to HTML",
		Long: `Render a page from the template directory, or a standalone .html file,
using the markup components in templates/components.

Bindings come from a JSON or YAML data file.

Examples:
  elementary render index
  elementary render index --data data/home.yaml --out dist/index.html
  elementary render card.html --fragment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON or YAML file with template bindings")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Template directory (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Document title (default page name)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Render the page body without the document shell")

	return cmd
}

func runRender(cmd *cobra.Command, target string, opts renderOptions) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	dir := opts.dir
	if dir == "" {
		dir = cfg.TemplatesPath()
	}

	set, page, err := resolvePage(dir, target)
	if err != nil {
		return err
	}

	bindings, err := loadData(opts.data)
	if err != nil {
		return err
	}

	reg := component.NewRegistry()
	if err := set.Register(reg); err != nil {
		return err
	}
	store := world.New()
	builder := component.NewBuilder(reg, store,
		component.WithMaxDepth(cfg.Render.MaxDepth),
		component.WithLogger(logger),
	)

	body, err := page.LowerRoot(builder, bindings)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(rendererConfig(cfg, logger))
	var buf bytes.Buffer
	var res render.Result
	if opts.fragment {
		res, err = renderer.RenderContext(cmd.Context(), store, body...)
		buf.WriteString(res.HTML)
	} else {
		title := opts.title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(target), ".html")
		}
		res, err = renderer.RenderPageContext(cmd.Context(), &buf, render.Page{Title: title, Body: body}, store)
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	success("Rendered %s to %s (%d components, %d expressions)", target, opts.out, res.Components, res.Expressions)
	return nil
}

// resolvePage finds target as a standalone .html file or as a page in dir.
// The template directory is optional for standalone files.
func resolvePage(dir, target string) (*lower.Set, *lower.Template, error) {
	standalone := strings.HasSuffix(target, ".html") && fileExists(target)

	set := lower.NewSet()
	if dirExists(dir) {
		loaded, err := lower.LoadDir(dir)
		if err != nil {
			return nil, nil, err
		}
		set = loaded
	} else if !standalone {
		return nil, nil, errors.New(errors.CodeTemplateNotFound).
			WithDetailf("template directory %s does not exist", dir).
			WithSuggestion("Pass --dir or set templates.dir in elementary.yaml")
	}

	if standalone {
		src, err := os.ReadFile(target)
		if err != nil {
			return nil, nil, errors.New(errors.CodeTemplateNotFound).WithDetail(target).Wrap(err)
		}
		page, err := lower.Parse(target, string(src))
		if err != nil {
			return nil, nil, err
		}
		return set, page, nil
	}

	page, ok := set.Page(target)
	if !ok {
		return nil, nil, errors.New(errors.CodeTemplateNotFound).
			WithDetailf("no page named %q in %s", target, dir).
			WithSuggestion("Available pages: " + strings.Join(set.Pages(), ", "))
	}
	return set, page, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
