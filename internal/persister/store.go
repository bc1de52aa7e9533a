package persister

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

var ErrEntityNotFound = errors.New("persister: content entity not found")

// Entity is a content aggregate and its dimension contents.
type Entity struct {
	ResourceKey string
	ResourceID  string
	Dimensions  *dimension.Collection
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	items := e.Dimensions.Items()
	cloned := make([]*dimension.DimensionContent, 0, len(items))
	for _, item := range items {
		cloned = append(cloned, item.Clone())
	}
	out.Dimensions = dimension.NewCollection(cloned...)
	return &out
}

// Store persists content entities.
type Store interface {
	Get(ctx context.Context, resourceKey, resourceID string) (*Entity, error)
	Save(ctx context.Context, entity *Entity) error
	List(ctx context.Context, resourceKey string) ([]*Entity, error)
}

// MemoryStore keeps entities in memory. Entities are copied on the way in
// and out.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[string]*Entity)}
}

func entityKey(resourceKey, resourceID string) string {
	return resourceKey + "::" + resourceID
}

// Get returns a copy of the entity.
func (s *MemoryStore) Get(_ context.Context, resourceKey, resourceID string) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[entityKey(resourceKey, resourceID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrEntityNotFound, resourceKey, resourceID)
	}
	return entity.Clone(), nil
}

// Save stores a copy of the entity.
func (s *MemoryStore) Save(_ context.Context, entity *Entity) error {
	if entity == nil {
		return errors.New("persister: entity is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entityKey(entity.ResourceKey, entity.ResourceID)
	if _, ok := s.entities[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entities[key] = entity.Clone()
	return nil
}

// List returns the entities of a resource in insertion order.
func (s *MemoryStore) List(_ context.Context, resourceKey string) ([]*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Entity
	for _, key := range s.order {
		entity := s.entities[key]
		if entity.ResourceKey == resourceKey {
			out = append(out, entity.Clone())
		}
	}
	return out, nil
}
