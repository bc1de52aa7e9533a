package persister

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/uptrace/bun"
)

// EntityRecord is the row layout of a content entity. Dimension contents are
// stored as one JSON document per entity.
type EntityRecord struct {
	bun.BaseModel `bun:"table:content_entities,alias:ce"`

	ResourceKey string                        `bun:"resource_key,pk"         json:"resource_key"`
	ResourceID  string                        `bun:"resource_id,pk"          json:"resource_id"`
	Dimensions  []*dimension.DimensionContent `bun:"dimensions,type:jsonb"   json:"dimensions"`
	CreatedAt   time.Time                     `bun:"created_at,notnull"      json:"created_at"`
	UpdatedAt   time.Time                     `bun:"updated_at,notnull"      json:"updated_at"`
}

// BunStore persists content entities with bun.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs a bun-backed store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Get loads the entity.
func (s *BunStore) Get(ctx context.Context, resourceKey, resourceID string) (*Entity, error) {
	if s.db == nil {
		return nil, errors.New("persister: database not configured")
	}
	var record EntityRecord
	err := s.db.NewSelect().
		Model(&record).
		Where("?TableAlias.resource_key = ?", resourceKey).
		Where("?TableAlias.resource_id = ?", resourceID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", ErrEntityNotFound, resourceKey, resourceID)
		}
		return nil, fmt.Errorf("persister: load entity: %w", err)
	}
	return record.entity(), nil
}

// Save inserts or replaces the entity row.
func (s *BunStore) Save(ctx context.Context, entity *Entity) error {
	if entity == nil {
		return errors.New("persister: entity is nil")
	}
	if s.db == nil {
		return errors.New("persister: database not configured")
	}
	record := &EntityRecord{
		ResourceKey: entity.ResourceKey,
		ResourceID:  entity.ResourceID,
		Dimensions:  entity.Dimensions.Items(),
		CreatedAt:   entity.CreatedAt.UTC(),
		UpdatedAt:   entity.UpdatedAt.UTC(),
	}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (resource_key, resource_id) DO UPDATE").
		Set("dimensions = EXCLUDED.dimensions").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("persister: save entity: %w", err)
	}
	return nil
}

// List returns the entities of a resource ordered by creation.
func (s *BunStore) List(ctx context.Context, resourceKey string) ([]*Entity, error) {
	if s.db == nil {
		return nil, errors.New("persister: database not configured")
	}
	var records []EntityRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.resource_key = ?", resourceKey).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.resource_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("persister: list entities: %w", err)
	}
	out := make([]*Entity, 0, len(records))
	for i := range records {
		out = append(out, records[i].entity())
	}
	return out, nil
}

func (r *EntityRecord) entity() *Entity {
	return &Entity{
		ResourceKey: r.ResourceKey,
		ResourceID:  r.ResourceID,
		Dimensions:  dimension.NewCollection(r.Dimensions...),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
