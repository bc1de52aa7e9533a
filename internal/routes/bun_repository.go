package routes

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRouteRepository builds the generic bun repository for routes.
func NewRouteRepository(db *bun.DB) repository.Repository[*Route] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Route]{
		NewRecord: func() *Route { return &Route{} },
		GetID: func(r *Route) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Route, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(r *Route) string {
			return r.Path
		},
	})
}

type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Route]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a route Repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:   db,
		repo: wrapWithCache(NewRouteRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Route) (*Route, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("route repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Route) (*Route, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"path",
			"history",
			"target_id",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

// Delete removes the route through the cached repository so cached reads of
// it are dropped.
func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, existing); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return nil
}

// GetByID loads a route by primary key. Reads are served from the cache when
// one is configured.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Route, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

// Parameterised lookups query bun directly. The cache decorator keys select
// criteria by function pointer, so closures capturing different arguments
// would share one entry.

func (r *BunRepository) GetByResource(ctx context.Context, key, id, locale string) (*Route, error) {
	records, err := r.selectRoutes(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.resource_key = ?", key).
			Where("?TableAlias.resource_id = ?", id).
			Where("?TableAlias.locale = ?", locale).
			Where("?TableAlias.history = ?", false).
			Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: resourceKey(key, id, locale)}
	}
	return records[0], nil
}

func (r *BunRepository) GetByPath(ctx context.Context, path, locale string) (*Route, error) {
	records, err := r.selectRoutes(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.path = ?", path).
			Where("?TableAlias.locale = ?", locale).
			OrderExpr("?TableAlias.history ASC").
			Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: pathKey(path, locale)}
	}
	return records[0], nil
}

func (r *BunRepository) ListHistory(ctx context.Context, targetID uuid.UUID) ([]*Route, error) {
	return r.selectRoutes(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.target_id = ?", targetID).
			Where("?TableAlias.history = ?", true).
			OrderExpr("?TableAlias.created_at ASC, ?TableAlias.path ASC")
	})
}

func (r *BunRepository) ListByResource(ctx context.Context, key, id string) ([]*Route, error) {
	return r.selectRoutes(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.resource_key = ?", key).
			Where("?TableAlias.resource_id = ?", id).
			Where("?TableAlias.history = ?", false).
			OrderExpr("?TableAlias.locale ASC")
	})
}

func (r *BunRepository) selectRoutes(ctx context.Context, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]*Route, error) {
	if r.db == nil {
		return nil, fmt.Errorf("route repository: database not configured")
	}
	records := []*Route{}
	if err := apply(r.db.NewSelect().Model(&records)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("route repository error: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("route repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
