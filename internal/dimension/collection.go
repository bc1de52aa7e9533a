package dimension

import (
	"fmt"
	"slices"
	"strings"
)

// Collection holds the dimension content records of one entity.
type Collection struct {
	items []*DimensionContent
}

// NewCollection wraps the provided records. Nil entries are dropped.
func NewCollection(items ...*DimensionContent) *Collection {
	c := &Collection{}
	for _, item := range items {
		if item != nil {
			c.items = append(c.items, item)
		}
	}
	return c
}

// Items returns the records in insertion order.
func (c *Collection) Items() []*DimensionContent {
	if c == nil {
		return nil
	}
	return slices.Clone(c.items)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Add appends a record, replacing an existing record of the same dimension.
func (c *Collection) Add(item *DimensionContent) {
	if c == nil || item == nil {
		return
	}
	attrs := Attributes{Locale: item.Locale, Stage: item.Stage}
	for i, existing := range c.items {
		if existing.Matches(attrs) {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// Find returns the record matching the attributes, or nil.
func (c *Collection) Find(attrs Attributes) *DimensionContent {
	if c == nil {
		return nil
	}
	for _, item := range c.items {
		if item.Matches(attrs) {
			return item
		}
	}
	return nil
}

// Unlocalized returns the unlocalized record of the stage.
func (c *Collection) Unlocalized(stage Stage) *DimensionContent {
	return c.Find(UnlocalizedAttributes(stage))
}

// Localized returns the localized record of the locale and stage.
func (c *Collection) Localized(locale string, stage Stage) *DimensionContent {
	return c.Find(LocaleAttributes(locale, stage))
}

// Locales lists the locales that have a localized record in the stage.
func (c *Collection) Locales(stage Stage) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, item := range c.items {
		if item.Stage == stage && item.IsLocalized() && !slices.Contains(out, *item.Locale) {
			out = append(out, *item.Locale)
		}
	}
	slices.Sort(out)
	return out
}

// Merge overlays the localized record of the locale onto the unlocalized
// defaults of the same stage.
func (c *Collection) Merge(locale string, stage Stage) (*DimensionContent, error) {
	unlocalized := c.Unlocalized(stage)
	if unlocalized == nil {
		return nil, fmt.Errorf("%w: stage=%s", ErrUnlocalizedNil, stage)
	}
	if strings.TrimSpace(locale) == "" {
		return Merge(unlocalized), nil
	}
	localized := c.Localized(locale, stage)
	if localized == nil {
		return nil, fmt.Errorf("%w: locale=%s stage=%s", ErrLocalizedNil, locale, stage)
	}
	return Merge(unlocalized, localized), nil
}

// Merge folds the records from left to right into a new record. Values set
// on later records override earlier ones; unset values fall through. The
// result carries the dimension identity of the last record.
func Merge(records ...*DimensionContent) *DimensionContent {
	var merged *DimensionContent
	for _, record := range records {
		if record == nil {
			continue
		}
		if merged == nil {
			merged = record.Clone()
			continue
		}
		mergeInto(merged, record)
	}
	return merged
}

func mergeInto(target, source *DimensionContent) {
	target.ResourceKey = source.ResourceKey
	target.ResourceID = source.ResourceID
	target.Locale = cloneString(source.Locale)
	target.Stage = source.Stage
	if source.GhostLocale != nil {
		target.GhostLocale = cloneString(source.GhostLocale)
	}
	if len(source.AvailableLocales) > 0 {
		target.AvailableLocales = cloneStrings(source.AvailableLocales)
	}
	if source.UpdatedAt.After(target.UpdatedAt) {
		target.UpdatedAt = source.UpdatedAt
	}

	if source.Template != nil {
		target.Enable(CapabilityTemplate)
		if source.Template.Key != "" {
			target.Template.Key = source.Template.Key
		}
		for key, value := range source.Template.Data {
			target.SetTemplateValue(key, cloneValue(value))
		}
	}

	if source.Author != nil {
		target.Enable(CapabilityAuthor)
		if source.Author.Author != nil {
			contact := *source.Author.Author
			target.Author.Author = &contact
		}
		if source.Author.Authored != nil {
			target.Author.Authored = cloneTime(source.Author.Authored)
		}
		if source.Author.LastModified != nil {
			target.Author.LastModified = cloneTime(source.Author.LastModified)
		}
	}

	if source.Excerpt != nil {
		target.Enable(CapabilityExcerpt)
		src := source.Excerpt.clone()
		dst := target.Excerpt
		overrideString(&dst.Title, src.Title)
		overrideString(&dst.More, src.More)
		overrideString(&dst.Description, src.Description)
		if src.Image != nil {
			dst.Image = src.Image
		}
		if src.Icon != nil {
			dst.Icon = src.Icon
		}
		if len(src.Tags) > 0 {
			dst.Tags = src.Tags
		}
		if len(src.Categories) > 0 {
			dst.Categories = src.Categories
		}
	}

	if source.Seo != nil {
		target.Enable(CapabilitySeo)
		dst := target.Seo
		overrideString(&dst.Title, source.Seo.Title)
		overrideString(&dst.Description, source.Seo.Description)
		overrideString(&dst.Keywords, source.Seo.Keywords)
		overrideString(&dst.CanonicalURL, source.Seo.CanonicalURL)
		dst.NoIndex = dst.NoIndex || source.Seo.NoIndex
		dst.NoFollow = dst.NoFollow || source.Seo.NoFollow
		dst.HideInSitemap = dst.HideInSitemap || source.Seo.HideInSitemap
	}

	if source.Webspace != nil {
		target.Enable(CapabilityWebspace)
		overrideString(&target.Webspace.MainWebspace, source.Webspace.MainWebspace)
		if len(source.Webspace.AdditionalWebspaces) > 0 {
			target.Webspace.AdditionalWebspaces = cloneStrings(source.Webspace.AdditionalWebspaces)
		}
	}

	if source.Routable != nil {
		target.Enable(CapabilityRoutable)
		if source.Routable.RouteProperty != "" {
			target.Routable.RouteProperty = source.Routable.RouteProperty
		}
	}
}

func overrideString(dst **string, src *string) {
	if src == nil || *src == "" {
		return
	}
	*dst = cloneString(src)
}
