package routes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrPathInvalid     = errors.New("routes: path must start with a slash")
	ErrPathNotAllowed  = errors.New("routes: path is not allowed")
	ErrResourceInvalid = errors.New("routes: resource key, resource id and locale are required")
)

// Route binds a path to a content entity in one locale. History routes keep
// prior paths and point at the current route through TargetID.
type Route struct {
	bun.BaseModel `bun:"table:routes,alias:rt"`

	ID          uuid.UUID  `bun:",pk,type:uuid"                  json:"id"`
	ResourceKey string     `bun:"resource_key,notnull"           json:"resource_key"`
	ResourceID  string     `bun:"resource_id,notnull"            json:"resource_id"`
	Locale      string     `bun:"locale,notnull"                 json:"locale"`
	Path        string     `bun:"path,notnull"                   json:"path"`
	History     bool       `bun:"history,notnull,default:false"  json:"history"`
	TargetID    *uuid.UUID `bun:"target_id,type:uuid,nullzero"   json:"target_id,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Attributes identify the owner of a route.
type Attributes struct {
	ResourceKey string
	ResourceID  string
	Locale      string
	Path        string
}

// Owns reports whether the route belongs to the resource.
func (r *Route) Owns(resourceKey, resourceID string) bool {
	return r != nil && r.ResourceKey == resourceKey && r.ResourceID == resourceID
}

// Repository persists routes.
type Repository interface {
	Create(ctx context.Context, record *Route) (*Route, error)
	Update(ctx context.Context, record *Route) (*Route, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Route, error)
	GetByResource(ctx context.Context, resourceKey, resourceID, locale string) (*Route, error)
	GetByPath(ctx context.Context, path, locale string) (*Route, error)
	ListHistory(ctx context.Context, targetID uuid.UUID) ([]*Route, error)
	ListByResource(ctx context.Context, resourceKey, resourceID string) ([]*Route, error)
}

// NotFoundError reports a missing route.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "route not found"
	}
	return fmt.Sprintf("route %q not found", e.Key)
}

// IsNotFound reports whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func resourceKey(resourceKey, resourceID, locale string) string {
	return resourceKey + "::" + resourceID + "::" + locale
}

func pathKey(path, locale string) string {
	return locale + "::" + path
}
