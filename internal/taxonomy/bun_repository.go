package taxonomy

import (
	"context"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewTagRepository builds the generic bun repository for tags.
func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Name
		},
	})
}

type BunTagRepository struct {
	db   *bun.DB
	repo repository.Repository[*Tag]
}

func NewBunTagRepository(db *bun.DB) *BunTagRepository {
	return NewBunTagRepositoryWithCache(db, nil, nil)
}

// NewBunTagRepositoryWithCache constructs a TagRepository with optional caching.
func NewBunTagRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTagRepository {
	return &BunTagRepository{db: db, repo: wrapWithCache(NewTagRepository(db), cacheService, keySerializer)}
}

func (r *BunTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("tag repository error: %w", err)
	}
	return created, nil
}

func (r *BunTagRepository) GetByNames(ctx context.Context, names []string) ([]*Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(name))
	}
	if r.db == nil {
		return nil, fmt.Errorf("tag repository: database not configured")
	}
	// queried directly: cached select criteria would be keyed by the closure,
	// not by the names it captures
	records := []*Tag{}
	if err := r.db.NewSelect().
		Model(&records).
		Where("lower(?TableAlias.name) IN (?)", bun.In(lowered)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tag repository error: %w", err)
	}
	return records, nil
}

// BunCategoryRepository stores categories with plain bun queries; the
// generic repository only supports uuid keys.
type BunCategoryRepository struct {
	db *bun.DB
}

func NewBunCategoryRepository(db *bun.DB) *BunCategoryRepository {
	return &BunCategoryRepository{db: db}
}

func (r *BunCategoryRepository) Create(ctx context.Context, record *Category) (*Category, error) {
	if r.db == nil {
		return nil, fmt.Errorf("category repository: database not configured")
	}
	if strings.TrimSpace(record.Key) == "" {
		return nil, ErrCategoryKey
	}
	copied := *record
	if _, err := r.db.NewInsert().Model(&copied).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("category repository error: %w", err)
	}
	return &copied, nil
}

func (r *BunCategoryRepository) GetByIDs(ctx context.Context, ids []int) ([]*Category, error) {
	if r.db == nil {
		return nil, fmt.Errorf("category repository: database not configured")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []*Category
	if err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("category repository error: %w", err)
	}
	return records, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
