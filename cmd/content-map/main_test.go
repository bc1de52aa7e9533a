package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cms "github.com/goliatone/go-cms-content"
)

const articleStructure = `
structures:
  - resource: articles
    key: default
    properties:
      - name: title
        type: text_line
      - name: url
        type: route
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	metadataDir := filepath.Join(dir, "metadata")
	if err := os.MkdirAll(metadataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(metadataDir, "articles.yaml"), []byte(articleStructure), 0o600); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	config := `
default_locale: en
webspaces:
  - key: blog
    base_url: https://blog.example
    locales: [en]
content_types:
  - resource_key: articles
    capabilities: [template, seo, webspace, routable]
    default_template: default
metadata:
  dir: ` + metadataDir + `
`
	path := filepath.Join(dir, "cms.yaml")
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	if _, err := parseFlags([]string{"-resource", "articles"}); err == nil {
		t.Fatal("expected missing id error")
	}
	if _, err := parseFlags([]string{"-resource", "articles", "-id", "1", "-stage", "archived"}); err == nil {
		t.Fatal("expected unknown stage error")
	}

	opts, err := parseFlags([]string{"-resource", "articles", "-id", "1", "-publish"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.stage != "live" {
		t.Fatalf("expected publish to resolve live, got %q", opts.stage)
	}
}

func TestRunMapsPublishesAndPrints(t *testing.T) {
	config := writeConfig(t)
	stdin := strings.NewReader(`{"title": "Hello", "url": "/hello", "seoTitle": "Hello SEO"}`)
	var stdout bytes.Buffer

	err := run(context.Background(), []string{
		"-config", config,
		"-resource", "articles",
		"-id", "1",
		"-data", "-",
		"-publish",
	}, stdin, &stdout)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var out resolvedOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout.String())
	}
	if out.Stage != "live" || out.Locale != "en" {
		t.Fatalf("unexpected output header: %+v", out)
	}
	if got := out.Views["template"].Content["title"]; got != "Hello" {
		t.Fatalf("expected title, got %v", got)
	}
	if got := out.Views["seo"].Content["seoTitle"]; got != "Hello SEO" {
		t.Fatalf("expected seo title, got %v", got)
	}
	if got := out.Views["settings"].Content["mainWebspace"]; got != "blog" {
		t.Fatalf("expected main webspace blog, got %v", got)
	}
}

func TestRunReportsMappingErrors(t *testing.T) {
	config := writeConfig(t)
	data := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(data, []byte(`{"title": "Hello", "url": "/"}`), 0o600); err != nil {
		t.Fatalf("write data: %v", err)
	}

	err := run(context.Background(), []string{
		"-config", config,
		"-resource", "articles",
		"-id", "1",
		"-data", data,
	}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "map content") {
		t.Fatalf("expected map content error, got %v", err)
	}
}

func TestRunUsesModuleBuilder(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	built := false
	moduleBuilder = func(cfg cms.Config, opts ...cms.Option) (*cms.Module, error) {
		built = true
		return original(cfg, opts...)
	}

	err := run(context.Background(), []string{"-config", writeConfig(t), "-resource", "articles", "-id", "404"}, strings.NewReader(""), &bytes.Buffer{})
	if !built {
		t.Fatal("expected module builder to run")
	}
	if err == nil || !strings.Contains(err.Error(), "resolve content") {
		t.Fatalf("expected resolve error for missing content, got %v", err)
	}
}
