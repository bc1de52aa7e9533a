package routes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-content/internal/identity"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	"github.com/google/uuid"
)

const maxConflictSuffix = 1000

// Manager creates and updates routes while keeping history.
type Manager struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithLogger overrides the manager logger.
func WithLogger(logger interfaces.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp routes.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator overrides the generator of current route ids.
func WithIDGenerator(fn func() uuid.UUID) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager constructs a route manager.
func NewManager(repo Repository, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidatePath checks the path shape accepted for routes.
func ValidatePath(path string) error {
	if path == "/" {
		return ErrPathNotAllowed
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrPathInvalid, path)
	}
	return nil
}

// FindByResource returns the current route of the resource in the locale,
// or nil when none exists.
func (m *Manager) FindByResource(ctx context.Context, resourceKey, resourceID, locale string) (*Route, error) {
	route, err := m.repo.GetByResource(ctx, resourceKey, resourceID, locale)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return route, nil
}

// CreateOrUpdate binds the path to the resource. An existing route is
// updated in place and its previous path is kept as a history route. Paths
// owned by another resource get a numeric suffix.
func (m *Manager) CreateOrUpdate(ctx context.Context, attrs Attributes) (*Route, error) {
	if strings.TrimSpace(attrs.ResourceKey) == "" || strings.TrimSpace(attrs.ResourceID) == "" || strings.TrimSpace(attrs.Locale) == "" {
		return nil, ErrResourceInvalid
	}
	if err := ValidatePath(attrs.Path); err != nil {
		return nil, err
	}

	logger := logging.WithFields(m.logger, map[string]any{
		"resource_key": attrs.ResourceKey,
		"resource_id":  attrs.ResourceID,
		"locale":       attrs.Locale,
	})

	current, err := m.FindByResource(ctx, attrs.ResourceKey, attrs.ResourceID, attrs.Locale)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Path == attrs.Path {
		return current, nil
	}

	path, err := m.resolveConflict(ctx, attrs)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Path == path {
		return current, nil
	}

	now := m.now().UTC()
	if current == nil {
		created, err := m.repo.Create(ctx, &Route{
			ID:          m.newID(),
			ResourceKey: attrs.ResourceKey,
			ResourceID:  attrs.ResourceID,
			Locale:      attrs.Locale,
			Path:        path,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("route.created", "path", path)
		return created, nil
	}

	// the current row moves first so the old path is free for its history row
	previous := current.Path
	current.Path = path
	current.UpdatedAt = now
	updated, err := m.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	logger.Debug("route.updated", "from", previous, "to", path)

	targetID := updated.ID
	if _, err := m.repo.Create(ctx, &Route{
		ID:          identity.RouteUUID(updated.ResourceKey, updated.ResourceID, updated.Locale, previous),
		ResourceKey: updated.ResourceKey,
		ResourceID:  updated.ResourceID,
		Locale:      updated.Locale,
		Path:        previous,
		History:     true,
		TargetID:    &targetID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}
	logger.Debug("route.history.created", "path", previous)
	return updated, nil
}

// History returns the prior paths of the resource in the locale.
func (m *Manager) History(ctx context.Context, resourceKey, resourceID, locale string) ([]*Route, error) {
	current, err := m.FindByResource(ctx, resourceKey, resourceID, locale)
	if err != nil || current == nil {
		return nil, err
	}
	return m.repo.ListHistory(ctx, current.ID)
}

// Remove deletes the current route of the resource in the locale together
// with its history. A missing route is not an error.
func (m *Manager) Remove(ctx context.Context, resourceKey, resourceID, locale string) error {
	current, err := m.FindByResource(ctx, resourceKey, resourceID, locale)
	if err != nil || current == nil {
		return err
	}
	history, err := m.repo.ListHistory(ctx, current.ID)
	if err != nil {
		return err
	}
	for _, route := range history {
		if err := m.repo.Delete(ctx, route.ID); err != nil && !IsNotFound(err) {
			return err
		}
	}
	if err := m.repo.Delete(ctx, current.ID); err != nil && !IsNotFound(err) {
		return err
	}
	m.logger.Debug("route.removed", "resource_key", resourceKey, "resource_id", resourceID, "locale", locale, "path", current.Path)
	return nil
}

// Resolve returns the current route serving the path, following history
// routes to their target.
func (m *Manager) Resolve(ctx context.Context, path, locale string) (*Route, error) {
	route, err := m.repo.GetByPath(ctx, path, locale)
	if err != nil {
		return nil, err
	}
	if !route.History || route.TargetID == nil {
		return route, nil
	}
	return m.repo.GetByID(ctx, *route.TargetID)
}

// resolveConflict returns the first free variant of the path. A history
// route of the same resource is reclaimed so a prior path can be reused.
func (m *Manager) resolveConflict(ctx context.Context, attrs Attributes) (string, error) {
	candidate := attrs.Path
	for i := 1; i <= maxConflictSuffix; i++ {
		existing, err := m.repo.GetByPath(ctx, candidate, attrs.Locale)
		if err != nil {
			if IsNotFound(err) {
				return candidate, nil
			}
			return "", err
		}
		if existing.Owns(attrs.ResourceKey, attrs.ResourceID) {
			if existing.History {
				if err := m.repo.Delete(ctx, existing.ID); err != nil {
					return "", err
				}
			}
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", attrs.Path, i)
	}
	return "", fmt.Errorf("routes: no free path variant for %q", attrs.Path)
}
