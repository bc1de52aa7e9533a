package resolvers

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// SeoResolver resolves the seo fields through the content_seo form.
type SeoResolver struct {
	formResolver
}

// NewSeoResolver constructs a seo resolver.
func NewSeoResolver(forms metadata.FormProvider, values metadata.ValueResolver, logger interfaces.Logger) *SeoResolver {
	return &SeoResolver{formResolver: newFormResolver(forms, values, logger)}
}

func (r *SeoResolver) Name() string { return "seo" }

func (r *SeoResolver) Capability() dimension.Capability { return dimension.CapabilitySeo }

// Resolve satisfies Resolver.
func (r *SeoResolver) Resolve(ctx context.Context, content *dimension.DimensionContent) (*ContentView, error) {
	if err := requireCapability(content, dimension.CapabilitySeo, "SeoResolver"); err != nil {
		return nil, err
	}
	seo := content.Seo
	data := map[string]any{
		"seoTitle":         stringValue(seo.Title),
		"seoDescription":   stringValue(seo.Description),
		"seoKeywords":      stringValue(seo.Keywords),
		"seoCanonicalUrl":  stringValue(seo.CanonicalURL),
		"seoNoIndex":       seo.NoIndex,
		"seoNoFollow":      seo.NoFollow,
		"seoHideInSitemap": seo.HideInSitemap,
	}
	return r.resolveForm(ctx, metadata.FormSeo, data, content.LocaleCode())
}
