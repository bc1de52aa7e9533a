package mappers

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

// SeoMapper maps the seo* fields onto the localized record.
type SeoMapper struct{}

// NewSeoMapper constructs a seo mapper.
func NewSeoMapper() *SeoMapper {
	return &SeoMapper{}
}

func (m *SeoMapper) Name() string { return "seo" }

// Map satisfies DataMapper. Null flags map to false.
func (m *SeoMapper) Map(_ context.Context, _, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Seo == nil {
		return nil
	}

	strs := make(map[string]dimension.Field[string], 4)
	for _, key := range []string{"seoTitle", "seoDescription", "seoKeywords", "seoCanonicalUrl"} {
		field, err := data.String(key)
		if err != nil {
			return err
		}
		strs[key] = field
	}
	flags := make(map[string]dimension.Field[bool], 3)
	for _, key := range []string{"seoNoIndex", "seoNoFollow", "seoHideInSitemap"} {
		field, err := data.Bool(key)
		if err != nil {
			return err
		}
		flags[key] = field
	}

	seo := localized.Seo
	assignString(&seo.Title, strs["seoTitle"])
	assignString(&seo.Description, strs["seoDescription"])
	assignString(&seo.Keywords, strs["seoKeywords"])
	assignString(&seo.CanonicalURL, strs["seoCanonicalUrl"])
	assignFlag(&seo.NoIndex, flags["seoNoIndex"])
	assignFlag(&seo.NoFollow, flags["seoNoFollow"])
	assignFlag(&seo.HideInSitemap, flags["seoHideInSitemap"])
	return nil
}

func assignString(dst **string, field dimension.Field[string]) {
	if field.Present {
		*dst = field.Ptr()
	}
}

func assignFlag(dst *bool, field dimension.Field[bool]) {
	if field.Present {
		*dst = field.Set() && field.Value
	}
}
