package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-cms-content/internal/commands"
	"github.com/goliatone/go-cms-content/internal/di"
	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/persister"
	"github.com/goliatone/go-cms-content/internal/resolvers"
	"github.com/goliatone/go-cms-content/internal/runtimeconfig"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	"github.com/goliatone/go-cms-content/pkg/testsupport"
)

func articleConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentTypes = []runtimeconfig.ContentTypeConfig{{
		ResourceKey:     "articles",
		Capabilities:    []string{"template", "excerpt", "seo", "webspace", "routable"},
		DefaultTemplate: "default",
	}}
	return cfg
}

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func persistAndPublish(t *testing.T, service *persister.Service) {
	t.Helper()
	ctx := context.Background()
	_, err := service.Persist(ctx, persister.PersistRequest{
		ResourceKey: "articles", ResourceID: "1", Locale: "en",
		Data: dimension.Data{"title": "Hello", "url": "/hello", "excerptTitle": "Teaser"},
	})
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if _, err := service.Publish(ctx, persister.PublishRequest{ResourceKey: "articles", ResourceID: "1", Locale: "en"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLocale = ""

	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrDefaultLocaleRequired) {
		t.Fatalf("expected ErrDefaultLocaleRequired, got %v", err)
	}
}

func TestContainer_MemoryLifecycle(t *testing.T) {
	container := newContainer(t, articleConfig(), di.WithStructures(testsupport.ArticleStructures(t)))
	if container.BunDB() != nil {
		t.Fatal("expected memory storage")
	}
	if got := container.Webspaces().DefaultKey(); got != "website" {
		t.Fatalf("expected default webspace website, got %q", got)
	}
	if names := container.Resolvers().Names(); len(names) != 4 {
		t.Fatalf("expected four resolvers, got %v", names)
	}

	persistAndPublish(t, container.ContentService())

	resolved, err := container.ContentService().Resolve(context.Background(), persister.ResolveRequest{
		ResourceKey: "articles", ResourceID: "1", Locale: "en", Stage: dimension.StageLive,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := resolved.Views["template"].Content["title"]; got != "Hello" {
		t.Fatalf("expected resolved title, got %v", got)
	}
	if got := resolved.Views["excerpt"].Content["excerptTitle"]; got != "Teaser" {
		t.Fatalf("expected excerpt title, got %v", got)
	}
	settings := resolved.Views["settings"]
	if settings.Content["mainWebspace"] != "website" {
		t.Fatalf("expected default main webspace, got %v", settings.Content["mainWebspace"])
	}
	localizations, ok := settings.Content["localizations"].(map[string]resolvers.Localization)
	if !ok {
		t.Fatalf("unexpected localizations %T", settings.Content["localizations"])
	}
	if en := localizations["en"]; en.URL != "http://localhost/hello" || !en.Alternate {
		t.Fatalf("unexpected en localization: %+v", en)
	}
}

func TestContainer_GeneratesRoutesWithConfiguredPrefix(t *testing.T) {
	cfg := articleConfig()
	cfg.Routes.Prefix = "/blog"
	container := newContainer(t, cfg, di.WithStructures(testsupport.ArticleStructures(t)))

	_, err := container.ContentService().Persist(context.Background(), persister.PersistRequest{
		ResourceKey: "articles", ResourceID: "9", Locale: "en",
		Data: dimension.Data{"title": "Generated Path"},
	})
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	route, err := container.RouteManager().FindByResource(context.Background(), "articles", "9", "en")
	if err != nil || route == nil {
		t.Fatalf("FindByResource() = %v, %v", route, err)
	}
	if route.Path != "/blog/generated-path" {
		t.Fatalf("expected generated path, got %q", route.Path)
	}
}

func TestContainer_SQLiteStorageWithCache(t *testing.T) {
	cfg := articleConfig()
	cfg.Storage.Driver = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared"
	cfg.Cache.Enabled = true

	container := newContainer(t, cfg, di.WithStructures(testsupport.ArticleStructures(t)))
	if container.BunDB() == nil {
		t.Fatal("expected bun database")
	}

	persistAndPublish(t, container.ContentService())

	route, err := container.RouteManager().Resolve(context.Background(), "/hello", "en")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if route.ResourceID != "1" {
		t.Fatalf("unexpected route: %+v", route)
	}

	resolved, err := container.ContentService().Resolve(context.Background(), persister.ResolveRequest{
		ResourceKey: "articles", ResourceID: "1", Locale: "en", Stage: dimension.StageLive,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Content.Template == nil || resolved.Content.Template.Data["title"] != "Hello" {
		t.Fatalf("unexpected live content: %+v", resolved.Content)
	}
}

func TestContainer_CachedRoutesStayPerEntity(t *testing.T) {
	cfg := articleConfig()
	cfg.Storage.Driver = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = "file:di_container_cached_routes?mode=memory&cache=shared"
	cfg.Cache.Enabled = true

	container := newContainer(t, cfg, di.WithStructures(testsupport.ArticleStructures(t)))
	ctx := context.Background()

	for _, article := range []struct{ id, path string }{{"1", "/one"}, {"2", "/two"}} {
		_, err := container.ContentService().Persist(ctx, persister.PersistRequest{
			ResourceKey: "articles", ResourceID: article.id, Locale: "en",
			Data: dimension.Data{"title": "Article " + article.id, "url": article.path},
		})
		if err != nil {
			t.Fatalf("Persist(%s) error = %v", article.id, err)
		}
	}

	for _, article := range []struct{ id, path string }{{"1", "/one"}, {"2", "/two"}} {
		route, err := container.RouteManager().FindByResource(ctx, "articles", article.id, "en")
		if err != nil || route == nil {
			t.Fatalf("FindByResource(%s) = %+v, %v", article.id, route, err)
		}
		if route.ResourceID != article.id || route.Path != article.path {
			t.Fatalf("FindByResource(%s) returned %+v", article.id, route)
		}
	}
}

func TestContainer_LoadsMetadataDirectory(t *testing.T) {
	dir := t.TempDir()
	document := `
structures:
  - resource: articles
    key: default
    properties:
      - name: title
        type: text_line
`
	if err := os.WriteFile(filepath.Join(dir, "articles.yaml"), []byte(document), 0o600); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	cfg := articleConfig()
	cfg.Metadata.Dir = dir

	container := newContainer(t, cfg)
	if _, err := container.Structures().GetStructure(context.Background(), "articles", "default"); err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
}

func TestContainer_MetadataPatternErrorFails(t *testing.T) {
	cfg := articleConfig()
	cfg.Metadata.Dir = t.TempDir()
	cfg.Metadata.Pattern = "["

	if _, err := di.NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected metadata load error")
	}
}

type namedProvider struct {
	names []string
}

func (p *namedProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return nil
}

func TestContainer_UsesInjectedLoggerProvider(t *testing.T) {
	provider := &namedProvider{}
	container := newContainer(t, articleConfig(), di.WithLoggerProvider(provider))
	if container.LoggerProvider() != provider {
		t.Fatal("expected injected provider")
	}
	if len(provider.names) == 0 {
		t.Fatal("expected module loggers to be requested")
	}
	if container.Logger() == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestContainer_BuildsGoLoggerProvider(t *testing.T) {
	cfg := articleConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = runtimeconfig.LoggingGoLogger
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container := newContainer(t, cfg)
	if container.LoggerProvider() == nil {
		t.Fatal("expected go-logger provider")
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestContainer_RegisterCommands(t *testing.T) {
	container := newContainer(t, articleConfig())
	registry := &recordingRegistry{}

	result, err := container.RegisterCommands(commands.RegistrationOptions{Registry: registry})
	if err != nil {
		t.Fatalf("RegisterCommands() error = %v", err)
	}
	if len(result.Handlers) != 2 || len(registry.handlers) != 2 {
		t.Fatalf("expected map and publish handlers, got %v", registry.handlers)
	}
	if registry.handlers[0] != any(container.MapContentHandler()) {
		t.Fatalf("expected map handler first, got %T", registry.handlers[0])
	}
}
