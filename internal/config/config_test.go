package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elementary-go/elementary/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Templates.Dir != DefaultTemplatesDir {
		t.Errorf("Templates.Dir = %q, want %q", cfg.Templates.Dir, DefaultTemplatesDir)
	}
	if cfg.Render.MaxDepth != DefaultMaxDepth {
		t.Errorf("Render.MaxDepth = %d, want %d", cfg.Render.MaxDepth, DefaultMaxDepth)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elementary.json"), `{
  "name": "site",
  "server": {"port": 8080},
  "templates": {"dir": "views", "watch": true},
  "render": {"annotateExpressions": true, "expressionPlaceholder": "?"}
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "site" {
		t.Errorf("Name = %q, want site", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if !cfg.Templates.Watch {
		t.Error("Templates.Watch = false, want true")
	}
	if !cfg.Render.AnnotateExpressions {
		t.Error("Render.AnnotateExpressions = false, want true")
	}
	if cfg.Render.ExpressionPlaceholder == nil || *cfg.Render.ExpressionPlaceholder != "?" {
		t.Errorf("Render.ExpressionPlaceholder = %v, want ?", cfg.Render.ExpressionPlaceholder)
	}
	if got, want := cfg.TemplatesPath(), filepath.Join(dir, "views"); got != want {
		t.Errorf("TemplatesPath() = %q, want %q", got, want)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elementary.yaml"), `
server:
  host: 0.0.0.0
  port: 9000
  shutdownTimeout: 2s
render:
  maxDepth: 32
  voidElements: [br, img, x-icon]
metrics:
  enabled: true
  namespace: site
log:
  level: debug
  format: json
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.URL() != "http://0.0.0.0:9000" {
		t.Errorf("URL() = %q", cfg.URL())
	}
	if cfg.Render.MaxDepth != 32 {
		t.Errorf("Render.MaxDepth = %d, want 32", cfg.Render.MaxDepth)
	}
	if len(cfg.Render.VoidElements) != 3 || cfg.Render.VoidElements[2] != "x-icon" {
		t.Errorf("Render.VoidElements = %v", cfg.Render.VoidElements)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "site" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
	if cfg.ShutdownTimeout() != 2*time.Second {
		t.Errorf("ShutdownTimeout() = %v, want 2s", cfg.ShutdownTimeout())
	}
	if cfg.ReadTimeout() != 10*time.Second {
		t.Errorf("ReadTimeout() = %v, want default 10s", cfg.ReadTimeout())
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elementary.json"), `{"server": {"port": 1111}}`)
	writeFile(t, filepath.Join(dir, "elementary.yml"), "server:\n  port: 2222\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("Server.Port = %d, want 1111", cfg.Server.Port)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{"missing", "", "", errors.CodeConfigNotFound},
		{"bad json", "elementary.json", `{"server": `, errors.CodeConfigInvalid},
		{"bad yaml", "elementary.yaml", "server: [unclosed", errors.CodeConfigInvalid},
		{"wrong type", "elementary.json", `{"server": {"port": "http"}}`, errors.CodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, tt.file), tt.content)
			}
			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Errorf("CodeOf(err) = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !stderrors.Is(err, errors.New(errors.CodeConfigNotFound)) {
		t.Errorf("LoadFile() error = %v, want E121", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, errors.CodeConfigPort},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, errors.CodeConfigPort},
		{"zero depth", func(c *Config) { c.Render.MaxDepth = -3 }, errors.CodeConfigValue},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, errors.CodeConfigValue},
		{"warning alias", func(c *Config) { c.Log.Level = "warning" }, ""},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, errors.CodeConfigValue},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, errors.CodeConfigValue},
		{"bad timeout", func(c *Config) { c.Server.ShutdownTimeout = "soon" }, errors.CodeConfigValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Errorf("Validate() = %v, want code %q", err, tt.wantCode)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"elementary.json", "elementary.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := New()
			cfg.Name = "roundtrip"
			cfg.Server.Port = 4321
			cfg.Tracing.Enabled = true

			path := filepath.Join(dir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo() error = %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.Name != "roundtrip" || loaded.Server.Port != 4321 || !loaded.Tracing.Enabled {
				t.Errorf("loaded = %+v", loaded)
			}

			loaded.Server.Port = 5555
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			again, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if again.Server.Port != 5555 {
				t.Errorf("Server.Port = %d, want 5555", again.Server.Port)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without path should fail")
	}
}

func TestTemplatesPathAbsolute(t *testing.T) {
	cfg := New()
	abs := filepath.Join(t.TempDir(), "tpl")
	cfg.Templates.Dir = abs
	if cfg.TemplatesPath() != abs {
		t.Errorf("TemplatesPath() = %q, want %q", cfg.TemplatesPath(), abs)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "elementary.yml"), "log:\n  level: warn\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}

	if !Exists(root) {
		t.Error("Exists(root) = false")
	}
	if Exists(nested) {
		t.Error("Exists(nested) = true")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
