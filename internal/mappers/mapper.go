package mappers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// DataMapper copies validated input fields onto dimension content records.
// Mappers only write keys present in data and are no-ops for records that
// lack their capability.
type DataMapper interface {
	Map(ctx context.Context, unlocalized, localized *dimension.DimensionContent, data dimension.Data) error
}

// ContactFactory resolves contact ids into author references.
type ContactFactory interface {
	Create(ctx context.Context, id int) (*dimension.Contact, error)
}

// TagFactory resolves tag names into tag references, in input order.
type TagFactory interface {
	GetOrCreate(ctx context.Context, names []string) ([]*dimension.Tag, error)
}

// CategoryFactory resolves category ids into category references, in input order.
type CategoryFactory interface {
	GetEntities(ctx context.Context, ids []int) ([]*dimension.Category, error)
}

// RouteManager creates or updates the route of a resource.
type RouteManager interface {
	CreateOrUpdate(ctx context.Context, attrs routes.Attributes) (*routes.Route, error)
}

// PathGenerator builds a route path from a title.
type PathGenerator interface {
	Generate(title string) (string, error)
}

type named interface {
	Name() string
}

// Chain runs mappers in order against working copies of both records and
// only commits the copies when every mapper succeeds, so a failing field
// leaves the records untouched.
type Chain struct {
	mappers []DataMapper
	logger  interfaces.Logger
}

// NewChain constructs a chain. Nil mappers are skipped.
func NewChain(logger interfaces.Logger, mappers ...DataMapper) *Chain {
	if logger == nil {
		logger = logging.NoOp()
	}
	c := &Chain{logger: logger}
	for _, mapper := range mappers {
		if mapper != nil {
			c.mappers = append(c.mappers, mapper)
		}
	}
	return c
}

// Map satisfies DataMapper.
func (c *Chain) Map(ctx context.Context, unlocalized, localized *dimension.DimensionContent, data dimension.Data) error {
	if unlocalized == nil {
		return dimension.ErrUnlocalizedNil
	}
	if localized == nil {
		return dimension.ErrLocalizedNil
	}

	logger := logging.WithFields(c.logger, map[string]any{
		"resource_key": localized.ResourceKey,
		"resource_id":  localized.ResourceID,
		"locale":       localized.LocaleCode(),
		"stage":        string(localized.Stage),
	})

	workingUnlocalized := unlocalized.Clone()
	workingLocalized := localized.Clone()
	for _, mapper := range c.mappers {
		if err := mapper.Map(ctx, workingUnlocalized, workingLocalized, data); err != nil {
			logger.Warn("mapper.chain.failed", "mapper", mapperName(mapper), "error", err)
			return err
		}
	}

	*unlocalized = *workingUnlocalized
	*localized = *workingLocalized
	logger.Debug("mapper.chain.applied", "mappers", len(c.mappers))
	return nil
}

// Mappers returns the chained mappers.
func (c *Chain) Mappers() []DataMapper {
	return append([]DataMapper(nil), c.mappers...)
}

func mapperName(mapper DataMapper) string {
	if n, ok := mapper.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", mapper)
}
