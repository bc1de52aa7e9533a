package taxonomy

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryTagRepository is an in-memory implementation for scaffolding and tests.
type MemoryTagRepository struct {
	mu     sync.RWMutex
	tags   map[uuid.UUID]*Tag
	byName map[string]uuid.UUID
}

// NewMemoryTagRepository creates an empty tag repository.
func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{
		tags:   make(map[uuid.UUID]*Tag),
		byName: make(map[string]uuid.UUID),
	}
}

// Create inserts the tag.
func (m *MemoryTagRepository) Create(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.tags[copied.ID] = &copied
	m.byName[strings.ToLower(copied.Name)] = copied.ID
	out := copied
	return &out, nil
}

// GetByNames returns the stored tags matching the names in any order.
func (m *MemoryTagRepository) GetByNames(_ context.Context, names []string) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Tag, 0, len(names))
	for _, name := range names {
		id, ok := m.byName[strings.ToLower(name)]
		if !ok {
			continue
		}
		copied := *m.tags[id]
		out = append(out, &copied)
	}
	return out, nil
}

// MemoryCategoryRepository stores categories in-memory.
type MemoryCategoryRepository struct {
	mu         sync.RWMutex
	nextID     int
	categories map[int]*Category
}

// NewMemoryCategoryRepository creates an empty category repository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		nextID:     1,
		categories: make(map[int]*Category),
	}
}

// Create inserts the category, assigning an id when missing.
func (m *MemoryCategoryRepository) Create(_ context.Context, record *Category) (*Category, error) {
	if strings.TrimSpace(record.Key) == "" {
		return nil, ErrCategoryKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	m.categories[copied.ID] = &copied
	out := copied
	return &out, nil
}

// GetByIDs returns the stored categories matching the ids in any order.
func (m *MemoryCategoryRepository) GetByIDs(_ context.Context, ids []int) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Category, 0, len(ids))
	for _, id := range ids {
		record, ok := m.categories[id]
		if !ok {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}
