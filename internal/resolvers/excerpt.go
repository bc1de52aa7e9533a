package resolvers

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// ExcerptResolver resolves the excerpt fields through the content_excerpt form.
type ExcerptResolver struct {
	formResolver
}

// NewExcerptResolver constructs an excerpt resolver.
func NewExcerptResolver(forms metadata.FormProvider, values metadata.ValueResolver, logger interfaces.Logger) *ExcerptResolver {
	return &ExcerptResolver{formResolver: newFormResolver(forms, values, logger)}
}

func (r *ExcerptResolver) Name() string { return "excerpt" }

func (r *ExcerptResolver) Capability() dimension.Capability { return dimension.CapabilityExcerpt }

// Resolve satisfies Resolver.
func (r *ExcerptResolver) Resolve(ctx context.Context, content *dimension.DimensionContent) (*ContentView, error) {
	if err := requireCapability(content, dimension.CapabilityExcerpt, "ExcerptResolver"); err != nil {
		return nil, err
	}
	excerpt := content.Excerpt
	data := map[string]any{
		"excerptTitle":       stringValue(excerpt.Title),
		"excerptMore":        stringValue(excerpt.More),
		"excerptDescription": stringValue(excerpt.Description),
		"excerptCategories":  excerpt.Categories,
		"excerptTags":        excerpt.Tags,
		"excerptImage":       excerpt.Image,
		"excerptIcon":        excerpt.Icon,
	}
	return r.resolveForm(ctx, metadata.FormExcerpt, data, content.LocaleCode())
}
