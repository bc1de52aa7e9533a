package routes

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	routes map[uuid.UUID]*Route
}

// NewMemoryRepository creates an empty route repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{routes: make(map[uuid.UUID]*Route)}
}

// Create inserts the route.
func (m *MemoryRepository) Create(_ context.Context, record *Route) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRoute(record)
	m.routes[copied.ID] = copied
	return cloneRoute(copied), nil
}

// Update replaces the stored route.
func (m *MemoryRepository) Update(_ context.Context, record *Route) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.routes[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	copied := cloneRoute(record)
	m.routes[copied.ID] = copied
	return cloneRoute(copied), nil
}

// Delete removes the route.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.routes[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.routes, id)
	return nil
}

// GetByID returns the route with the id.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	route, ok := m.routes[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneRoute(route), nil
}

// GetByResource returns the current route of the resource in the locale.
func (m *MemoryRepository) GetByResource(_ context.Context, key, id, locale string) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, route := range m.routes {
		if !route.History && route.Owns(key, id) && route.Locale == locale {
			return cloneRoute(route), nil
		}
	}
	return nil, &NotFoundError{Key: resourceKey(key, id, locale)}
}

// GetByPath returns the route bound to the path, preferring current routes.
func (m *MemoryRepository) GetByPath(_ context.Context, path, locale string) (*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var history *Route
	for _, route := range m.routes {
		if route.Path != path || route.Locale != locale {
			continue
		}
		if !route.History {
			return cloneRoute(route), nil
		}
		history = route
	}
	if history != nil {
		return cloneRoute(history), nil
	}
	return nil, &NotFoundError{Key: pathKey(path, locale)}
}

// ListHistory returns the history routes pointing at the target, oldest first.
func (m *MemoryRepository) ListHistory(_ context.Context, targetID uuid.UUID) ([]*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Route
	for _, route := range m.routes {
		if route.History && route.TargetID != nil && *route.TargetID == targetID {
			out = append(out, cloneRoute(route))
		}
	}
	sortRoutes(out)
	return out, nil
}

// ListByResource returns the current routes of the resource in every locale.
func (m *MemoryRepository) ListByResource(_ context.Context, key, id string) ([]*Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Route
	for _, route := range m.routes {
		if !route.History && route.Owns(key, id) {
			out = append(out, cloneRoute(route))
		}
	}
	slices.SortFunc(out, func(a, b *Route) int {
		return strings.Compare(a.Locale, b.Locale)
	})
	return out, nil
}

func sortRoutes(routes []*Route) {
	slices.SortFunc(routes, func(a, b *Route) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func cloneRoute(src *Route) *Route {
	if src == nil {
		return nil
	}
	copied := *src
	if src.TargetID != nil {
		target := *src.TargetID
		copied.TargetID = &target
	}
	return &copied
}
