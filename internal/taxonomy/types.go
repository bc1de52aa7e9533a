package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrTagNameRequired = errors.New("taxonomy: tag name is required")
	ErrCategoryKey     = errors.New("taxonomy: category key is required")
)

// Tag is a free-form label. Names are unique case-insensitively.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tg"`

	ID        uuid.UUID `bun:",pk,type:uuid"   json:"id"`
	Name      string    `bun:"name,notnull"    json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Category is a node of the category tree.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Key       string    `bun:"key,notnull"         json:"key"`
	Name      string    `bun:"name"                json:"name"`
	ParentID  *int      `bun:"parent_id"           json:"parent_id,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, record *Tag) (*Tag, error)
	GetByNames(ctx context.Context, names []string) ([]*Tag, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, record *Category) (*Category, error)
	GetByIDs(ctx context.Context, ids []int) ([]*Category, error)
}

// NotFoundError reports a missing taxonomy record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return dimension.ErrReferenceNotFound
}
