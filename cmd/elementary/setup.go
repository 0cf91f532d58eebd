package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/elementary-go/elementary/internal/config"
	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/pkg/lower"
	"github.com/elementary-go/elementary/pkg/render"
)

// loadConfig reads the project config from dir or its parents, falling
// back to defaults rooted at dir when there is none.
func loadConfig(dir string) (*config.Config, error) {
	root, err := config.FindProjectRoot(dir)
	if err != nil {
		if errors.CodeOf(err) == errors.CodeConfigNotFound {
			cfg := config.New()
			if !filepath.IsAbs(cfg.Templates.Dir) {
				cfg.Templates.Dir = filepath.Join(dir, cfg.Templates.Dir)
			}
			return cfg, nil
		}
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// rendererConfig maps the render section onto a renderer configuration.
func rendererConfig(cfg *config.Config, logger *slog.Logger) render.Config {
	rc := render.Config{
		AnnotateExpressions: cfg.Render.AnnotateExpressions,
		Logger:              logger,
	}
	if len(cfg.Render.VoidElements) > 0 {
		rc.VoidElements = render.VoidSet(cfg.Render.VoidElements...)
	}
	if cfg.Render.ExpressionPlaceholder != nil {
		rc.OnExpressionError = render.Placeholder(*cfg.Render.ExpressionPlaceholder)
	}
	if cfg.Tracing.Enabled {
		rc.TracerName = cfg.Tracing.TracerName
	}
	return rc
}

// loadData reads template bindings from a .json, .yaml or .yml file.
func loadData(path string) (lower.Bindings, error) {
	if path == "" {
		return lower.Bindings{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeDataFile).WithDetail(path).Wrap(err)
	}

	var out map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		return nil, errors.New(errors.CodeDataFile).
			WithDetailf("%s: unsupported extension", path).
			WithSuggestion("Use a .json, .yaml or .yml file")
	}
	if err != nil {
		return nil, errors.New(errors.CodeDataFile).WithLocation(path, 0, 0).Wrap(err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return lower.Bindings(out), nil
}
