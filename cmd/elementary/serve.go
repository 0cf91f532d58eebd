package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elementary-go/elementary/internal/config"
	"github.com/elementary-go/elementary/internal/errors"
	"github.com/elementary-go/elementary/internal/watch"
	"github.com/elementary-go/elementary/pkg/lower"
	"github.com/elementary-go/elementary/pkg/middleware"
	"github.com/elementary-go/elementary/pkg/render"
	"github.com/elementary-go/elementary/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port    int
		host    string
		dir     string
		watchOn bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every page over HTTP",
		Long: `Serve the pages of the template directory.

GET /name renders templates/pages/name.html; GET / renders index.html.
Query parameters are available to templates as {{ query.name }}.

Examples:
  elementary serve
  elementary serve --port=8080 --watch
  elementary serve --dir=site/templates --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if dir != "" {
				cfg.Templates.Dir, _ = filepath.Abs(dir)
			}
			if cmd.Flags().Changed("watch") {
				cfg.Templates.Watch = watchOn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, debug)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Template directory (default from config)")
	cmd.Flags().BoolVarP(&watchOn, "watch", "w", false, "Reload templates when files change")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show error details in responses")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, debug bool) error {
	logger := newLogger(cfg, os.Stderr)
	dir := cfg.TemplatesPath()

	set, err := lower.LoadDir(dir)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithRenderer(render.NewRenderer(rendererConfig(cfg, logger))),
		server.WithMaxDepth(cfg.Render.MaxDepth),
		server.WithTimeouts(cfg.ReadTimeout(), cfg.ShutdownTimeout()),
		server.WithDebug(debug),
	}
	if cfg.Metrics.Enabled {
		m := middleware.NewMetrics(middleware.WithNamespace(cfg.Metrics.Namespace))
		opts = append(opts, server.WithMetrics(m, cfg.Metrics.Path, nil))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, server.WithTracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	srv, err := server.New(set, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	info("Templates:  %s (%d pages)", dir, len(set.Pages()))
	info("Listening:  %s", cfg.URL())
	if cfg.Metrics.Enabled {
		info("Metrics:    %s%s", cfg.URL(), cfg.Metrics.Path)
	}
	fmt.Println()

	if cfg.Templates.Watch {
		w, err := watch.New(watch.Config{Paths: []string{dir}, Logger: logger})
		if err != nil {
			warn("File watching disabled: %v", err)
		} else {
			defer w.Close()
			go w.Run(ctx, func(changes []watch.Change) {
				reload(srv, dir, changes)
			})
			success("Watching %s", dir)
		}
	}

	return srv.ListenAndServe(ctx, cfg.Address())
}

// reload rebuilds the template set after a batch of changes. A broken
// template keeps the previous set serving.
func reload(srv *server.Server, dir string, changes []watch.Change) {
	set, err := lower.LoadDir(dir)
	if err == nil {
		err = srv.Reload(set)
	}
	if err != nil {
		errorMsg("Reload failed, keeping previous templates")
		errors.PrintError(os.Stderr, err)
		return
	}
	success("Reloaded after %d change(s)", len(changes))
}
