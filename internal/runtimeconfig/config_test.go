package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-cms-content/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageDriver() != runtimeconfig.StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageDriver())
	}
}

func TestConfigValidate_RequiresDefaultLocale(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLocale = " "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrDefaultLocaleRequired) {
		t.Fatalf("expected ErrDefaultLocaleRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsWebspaceWithoutLocales(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Webspaces = []runtimeconfig.WebspaceConfig{{Key: "blog"}}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWebspaceInvalid) {
		t.Fatalf("expected ErrWebspaceInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsForeignWebspaceDefaultLocale(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Webspaces[0].DefaultLocale = "fr"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWebspaceInvalid) {
		t.Fatalf("expected ErrWebspaceInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsDuplicateWebspaces(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Webspaces = append(cfg.Webspaces, cfg.Webspaces[0])

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrWebspaceInvalid) {
		t.Fatalf("expected ErrWebspaceInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownCapability(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentTypes = []runtimeconfig.ContentTypeConfig{{
		ResourceKey:  "articles",
		Capabilities: []string{"template", "comments"},
	}}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrContentTypeInvalid) {
		t.Fatalf("expected ErrContentTypeInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresDSNForSQLStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "SQLite"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
	cfg.Storage.DSN = "file::memory:?cache=shared"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageDriver() != runtimeconfig.StorageSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.StorageDriver())
	}
}

func TestConfigValidate_RejectsUnknownStorageDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "mongo"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevelAndFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestDefaultTemplates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentTypes = []runtimeconfig.ContentTypeConfig{
		{ResourceKey: "articles", DefaultTemplate: "default"},
		{ResourceKey: "snippets"},
	}

	templates := cfg.DefaultTemplates()
	if len(templates) != 1 || templates["articles"] != "default" {
		t.Fatalf("unexpected default templates: %v", templates)
	}
}

func TestLoad_ReadsYAMLAndEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cms.yaml")
	document := `
default_locale: de
webspaces:
  - key: main
    name: Sulu
    base_url: https://main.example
    locale_prefix: true
    locales: [en, de]
content_types:
  - resource_key: articles
    capabilities: [template, excerpt, seo, routable]
    default_template: default
routes:
  prefix: /blog
cache:
  enabled: true
  default_ttl: 30s
`
	if err := os.WriteFile(path, []byte(document), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CMS_ROUTES_PREFIX", "/news")

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DefaultLocale != "de" {
		t.Fatalf("expected default locale de, got %q", cfg.DefaultLocale)
	}
	if len(cfg.Webspaces) != 1 || cfg.Webspaces[0].Key != "main" || !cfg.Webspaces[0].LocalePrefix {
		t.Fatalf("unexpected webspaces: %+v", cfg.Webspaces)
	}
	if cfg.Routes.Prefix != "/news" {
		t.Fatalf("expected env override /news, got %q", cfg.Routes.Prefix)
	}
	if !cfg.Cache.Enabled || cfg.Cache.DefaultTTL != 30*time.Second {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Storage.Driver != runtimeconfig.StorageMemory {
		t.Fatalf("expected default storage driver to survive, got %q", cfg.Storage.Driver)
	}
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv("CMS_DEFAULT_LOCALE", "fr")
	t.Setenv("CMS_STORAGE_DRIVER", "postgres")

	_, err := runtimeconfig.Load("")
	if !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}
