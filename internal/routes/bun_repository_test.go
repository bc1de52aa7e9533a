package routes_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

func TestBunRepository_ManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := routes.NewBunRepository(testsupport.NewSQLiteDB(t, "routes_lifecycle"))
	manager := newManager(repo)

	attrs := routes.Attributes{ResourceKey: "articles", ResourceID: "1", Locale: "en", Path: "/first"}
	created, err := manager.CreateOrUpdate(ctx, attrs)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	attrs.Path = "/second"
	if _, err := manager.CreateOrUpdate(ctx, attrs); err != nil {
		t.Fatalf("update error = %v", err)
	}

	current, err := manager.FindByResource(ctx, "articles", "1", "en")
	if err != nil || current == nil {
		t.Fatalf("FindByResource() = %+v, %v", current, err)
	}
	if current.ID != created.ID || current.Path != "/second" {
		t.Fatalf("unexpected current route: %+v", current)
	}

	history, err := manager.History(ctx, "articles", "1", "en")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].Path != "/first" {
		t.Fatalf("unexpected history: %+v", history)
	}

	conflict, err := manager.CreateOrUpdate(ctx, routes.Attributes{
		ResourceKey: "articles", ResourceID: "2", Locale: "en", Path: "/first",
	})
	if err != nil {
		t.Fatalf("conflict create error = %v", err)
	}
	if conflict.Path != "/first-1" {
		t.Fatalf("expected history path to stay reserved, got %q", conflict.Path)
	}

	all, err := repo.ListByResource(ctx, "articles", "1")
	if err != nil {
		t.Fatalf("ListByResource() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one current route, got %d", len(all))
	}
}

func TestBunRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := routes.NewBunRepository(testsupport.NewSQLiteDB(t, "routes_not_found"))

	if _, err := repo.GetByPath(ctx, "/missing", "en"); !routes.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByResource(ctx, "articles", "1", "en"); !routes.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newCachedRepository(t *testing.T, name string) *routes.BunRepository {
	t.Helper()
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	return routes.NewBunRepositoryWithCache(testsupport.NewSQLiteDB(t, name), cacheService, repocache.NewDefaultKeySerializer())
}

func TestBunRepositoryWithCache_LookupsDependOnArguments(t *testing.T) {
	ctx := context.Background()
	repo := newCachedRepository(t, "routes_cached_arguments")
	manager := newManager(repo)

	for _, attrs := range []routes.Attributes{
		{ResourceKey: "articles", ResourceID: "1", Locale: "en", Path: "/one"},
		{ResourceKey: "articles", ResourceID: "2", Locale: "en", Path: "/two"},
	} {
		if _, err := manager.CreateOrUpdate(ctx, attrs); err != nil {
			t.Fatalf("CreateOrUpdate(%s) error = %v", attrs.ResourceID, err)
		}
	}

	for _, tc := range []struct {
		id   string
		path string
	}{{"1", "/one"}, {"2", "/two"}, {"1", "/one"}} {
		byResource, err := repo.GetByResource(ctx, "articles", tc.id, "en")
		if err != nil {
			t.Fatalf("GetByResource(%s) error = %v", tc.id, err)
		}
		if byResource.ResourceID != tc.id || byResource.Path != tc.path {
			t.Fatalf("GetByResource(%s) = %+v", tc.id, byResource)
		}
		byPath, err := repo.GetByPath(ctx, tc.path, "en")
		if err != nil {
			t.Fatalf("GetByPath(%s) error = %v", tc.path, err)
		}
		if byPath.ResourceID != tc.id {
			t.Fatalf("GetByPath(%s) = %+v", tc.path, byPath)
		}
	}

	updated, err := manager.CreateOrUpdate(ctx, routes.Attributes{
		ResourceKey: "articles", ResourceID: "2", Locale: "en", Path: "/two-renamed",
	})
	if err != nil {
		t.Fatalf("rename error = %v", err)
	}
	if updated.Path != "/two-renamed" {
		t.Fatalf("unexpected rename result: %+v", updated)
	}
	first, err := manager.FindByResource(ctx, "articles", "1", "en")
	if err != nil || first == nil || first.Path != "/one" {
		t.Fatalf("expected article 1 untouched, got %+v, %v", first, err)
	}
	resolved, err := manager.Resolve(ctx, "/two", "en")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.ResourceID != "2" || resolved.Path != "/two-renamed" {
		t.Fatalf("expected history to resolve to renamed route, got %+v", resolved)
	}
}

func TestBunRepositoryWithCache_DeleteDropsCachedRead(t *testing.T) {
	ctx := context.Background()
	repo := newCachedRepository(t, "routes_cached_delete")

	created, err := repo.Create(ctx, &routes.Route{
		ID: uuid.New(), ResourceKey: "articles", ResourceID: "1", Locale: "en", Path: "/gone",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !routes.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !routes.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestBunRepositoryWithCache_ServesReads(t *testing.T) {
	ctx := context.Background()
	repo := newCachedRepository(t, "routes_cached")

	created, err := repo.Create(ctx, &routes.Route{
		ID:          uuid.New(),
		ResourceKey: "articles",
		ResourceID:  "1",
		Locale:      "en",
		Path:        "/cached",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		route, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() pass %d error = %v", i+1, err)
		}
		if route.ID != created.ID || route.Path != "/cached" {
			t.Fatalf("unexpected route: %+v", route)
		}
	}

	created.Path = "/cached-renamed"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	route, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if route.Path != "/cached-renamed" {
		t.Fatalf("expected update to refresh cached read, got %q", route.Path)
	}
}
