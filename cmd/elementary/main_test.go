package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elementary-go/elementary/internal/config"
	"github.com/elementary-go/elementary/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d.json"), `{"user": {"name": "Ada"}}`)
	writeFile(t, filepath.Join(dir, "d.yaml"), "user:\n  name: Grace\n")
	writeFile(t, filepath.Join(dir, "d.toml"), "user = 1")
	writeFile(t, filepath.Join(dir, "bad.json"), "{")

	tests := []struct {
		file     string
		wantName string
		wantCode string
	}{
		{"d.json", "Ada", ""},
		{"d.yaml", "Grace", ""},
		{"d.toml", "", errors.CodeDataFile},
		{"bad.json", "", errors.CodeDataFile},
		{"missing.json", "", errors.CodeDataFile},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			b, err := loadData(filepath.Join(dir, tt.file))
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Fatalf("loadData() error = %v, want code %q", err, tt.wantCode)
			}
			if tt.wantCode != "" {
				return
			}
			if v, _ := b.Lookup("user.name"); v != tt.wantName {
				t.Errorf("user.name = %v, want %s", v, tt.wantName)
			}
		})
	}
}

func TestLoadDataEmptyPath(t *testing.T) {
	b, err := loadData("")
	if err != nil || b == nil || len(b) != 0 {
		t.Errorf("loadData(\"\") = %v, %v", b, err)
	}
}

func TestRendererConfig(t *testing.T) {
	cfg := config.New()
	placeholder := "-"
	cfg.Render.ExpressionPlaceholder = &placeholder
	cfg.Render.VoidElements = []string{"x-icon"}
	cfg.Render.AnnotateExpressions = true

	rc := rendererConfig(cfg, nil)
	if !rc.AnnotateExpressions {
		t.Error("AnnotateExpressions not carried over")
	}
	if !rc.VoidElements["x-icon"] || rc.VoidElements["br"] {
		t.Errorf("VoidElements = %v", rc.VoidElements)
	}
	if rc.OnExpressionError == nil {
		t.Fatal("OnExpressionError not set")
	}
	if got, err := rc.OnExpressionError(0, "x", nil); got != "-" || err != nil {
		t.Errorf("placeholder = %q, %v", got, err)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elementary.yaml"), "log:\n  level: error\n")
	writeFile(t, filepath.Join(dir, "templates", "pages", "index.html"),
		`<main><card title="{{ site.name }}">Welcome</card></main>`)
	writeFile(t, filepath.Join(dir, "templates", "components", "card.html"),
		`<section><h2>{{ title }}</h2><slot></slot></section>`)
	writeFile(t, filepath.Join(dir, "data.yaml"), "site:\n  name: Docs\n")
	return dir
}

func TestRenderCommand(t *testing.T) {
	dir := project(t)
	chdir(t, dir)

	out, err := runCLI(t, "render", "index", "--data", "data.yaml", "--fragment")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<main><section><h2>Docs</h2>Welcome</section></main>"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenderCommandPage(t *testing.T) {
	dir := project(t)
	chdir(t, dir)

	out, err := runCLI(t, "render", "index", "--data", "data.yaml", "--title", "Home")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>Home</title>", "<h2>Docs</h2>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderCommandStandaloneFile(t *testing.T) {
	dir := project(t)
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "one.html"), `<card title="x"><b>y</b></card>`)

	out, err := runCLI(t, "render", "one.html", "--fragment")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<section><h2>x</h2><b>y</b></section>" {
		t.Errorf("got %q", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := project(t)
	chdir(t, dir)

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"unknown page", []string{"render", "nope"}, errors.CodeTemplateNotFound},
		{"unbound binding", []string{"render", "index"}, errors.CodeExpressionFailure},
		{"bad data file", []string{"render", "index", "--data", "elementary.yaml.txt"}, errors.CodeDataFile},
		{"missing dir", []string{"render", "index", "--dir", "nowhere"}, errors.CodeTemplateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Errorf("error = %v, want code %q", err, tt.wantCode)
			}
		})
	}
}

func TestVersionShort(t *testing.T) {
	out, err := runCLI(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}
