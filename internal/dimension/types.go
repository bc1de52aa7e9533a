package dimension

import (
	"strings"
	"time"
)

// Stage identifies the workflow stage a dimension belongs to.
type Stage string

const (
	StageDraft Stage = "draft"
	StageLive  Stage = "live"
)

// Valid reports whether the stage is one of the known workflow stages.
func (s Stage) Valid() bool {
	return s == StageDraft || s == StageLive
}

// Capability names a feature a dimension content record may carry.
type Capability string

const (
	CapabilityTemplate Capability = "template"
	CapabilityAuthor   Capability = "author"
	CapabilityExcerpt  Capability = "excerpt"
	CapabilitySeo      Capability = "seo"
	CapabilityWebspace Capability = "webspace"
	CapabilityRoutable Capability = "routable"
)

// Attributes identifies a single dimension of a content entity.
type Attributes struct {
	Locale *string
	Stage  Stage
}

// DimensionContent is one (locale x stage) projection of a content entity.
// A nil Locale marks the unlocalized record holding locale independent
// defaults. Capability sub-structs are optional: a nil sub-struct means the
// record does not implement that capability.
type DimensionContent struct {
	ResourceKey string
	ResourceID  string
	Locale      *string
	Stage       Stage

	// GhostLocale points at the locale whose content is shown while this
	// locale has no content of its own.
	GhostLocale *string
	// AvailableLocales is only maintained on the unlocalized record.
	AvailableLocales []string

	Template *TemplateData
	Author   *AuthorData
	Excerpt  *ExcerptData
	Seo      *SeoData
	Webspace *WebspaceData
	Routable *RoutableData

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateData carries the structure key and its property payload.
type TemplateData struct {
	Key  string
	Data map[string]any
}

// AuthorData carries authorship metadata.
type AuthorData struct {
	Author       *Contact
	Authored     *time.Time
	LastModified *time.Time
}

// ExcerptData carries the short summary representation of the content.
type ExcerptData struct {
	Title       *string
	More        *string
	Description *string
	Image       *MediaRef
	Icon        *MediaRef
	Tags        []*Tag
	Categories  []*Category
}

// SeoData carries search engine metadata.
type SeoData struct {
	Title         *string
	Description   *string
	Keywords      *string
	CanonicalURL  *string
	NoIndex       bool
	NoFollow      bool
	HideInSitemap bool
}

// WebspaceData carries the webspaces the content belongs to.
type WebspaceData struct {
	MainWebspace        *string
	AdditionalWebspaces []string
}

// RoutableData marks content that owns a route. RouteProperty records the
// template property the route path is stored under once mapped.
type RoutableData struct {
	RouteProperty string
}

// IsLocalized reports whether the record carries a locale.
func (d *DimensionContent) IsLocalized() bool {
	return d != nil && d.Locale != nil && strings.TrimSpace(*d.Locale) != ""
}

// LocaleCode returns the locale or an empty string for unlocalized records.
func (d *DimensionContent) LocaleCode() string {
	if d == nil || d.Locale == nil {
		return ""
	}
	return *d.Locale
}

// Has reports whether the record implements the capability.
func (d *DimensionContent) Has(capability Capability) bool {
	if d == nil {
		return false
	}
	switch capability {
	case CapabilityTemplate:
		return d.Template != nil
	case CapabilityAuthor:
		return d.Author != nil
	case CapabilityExcerpt:
		return d.Excerpt != nil
	case CapabilitySeo:
		return d.Seo != nil
	case CapabilityWebspace:
		return d.Webspace != nil
	case CapabilityRoutable:
		return d.Routable != nil
	default:
		return false
	}
}

// Matches reports whether the record belongs to the provided dimension.
func (d *DimensionContent) Matches(attrs Attributes) bool {
	if d == nil || d.Stage != attrs.Stage {
		return false
	}
	if attrs.Locale == nil {
		return d.Locale == nil
	}
	return d.Locale != nil && *d.Locale == *attrs.Locale
}

// TemplateValue returns a template data value, reporting whether it exists.
func (d *DimensionContent) TemplateValue(name string) (any, bool) {
	if d == nil || d.Template == nil || d.Template.Data == nil {
		return nil, false
	}
	value, ok := d.Template.Data[name]
	return value, ok
}

// SetTemplateValue writes a template data value, creating the map on demand.
func (d *DimensionContent) SetTemplateValue(name string, value any) {
	if d == nil || d.Template == nil {
		return
	}
	if d.Template.Data == nil {
		d.Template.Data = map[string]any{}
	}
	d.Template.Data[name] = value
}

// New constructs a dimension content record carrying the listed capabilities.
func New(resourceKey, resourceID string, attrs Attributes, capabilities ...Capability) *DimensionContent {
	record := &DimensionContent{
		ResourceKey: resourceKey,
		ResourceID:  resourceID,
		Locale:      cloneString(attrs.Locale),
		Stage:       attrs.Stage,
	}
	if record.Stage == "" {
		record.Stage = StageDraft
	}
	for _, capability := range capabilities {
		record.Enable(capability)
	}
	return record
}

// Enable attaches an empty capability sub-struct when missing.
func (d *DimensionContent) Enable(capability Capability) {
	switch capability {
	case CapabilityTemplate:
		if d.Template == nil {
			d.Template = &TemplateData{Data: map[string]any{}}
		}
	case CapabilityAuthor:
		if d.Author == nil {
			d.Author = &AuthorData{}
		}
	case CapabilityExcerpt:
		if d.Excerpt == nil {
			d.Excerpt = &ExcerptData{}
		}
	case CapabilitySeo:
		if d.Seo == nil {
			d.Seo = &SeoData{}
		}
	case CapabilityWebspace:
		if d.Webspace == nil {
			d.Webspace = &WebspaceData{}
		}
	case CapabilityRoutable:
		if d.Routable == nil {
			d.Routable = &RoutableData{}
		}
	}
}

// Capabilities lists the capabilities implemented by the record.
func (d *DimensionContent) Capabilities() []Capability {
	all := []Capability{
		CapabilityTemplate,
		CapabilityAuthor,
		CapabilityExcerpt,
		CapabilitySeo,
		CapabilityWebspace,
		CapabilityRoutable,
	}
	out := make([]Capability, 0, len(all))
	for _, capability := range all {
		if d.Has(capability) {
			out = append(out, capability)
		}
	}
	return out
}

// LocaleAttributes builds attributes for a localized dimension.
func LocaleAttributes(locale string, stage Stage) Attributes {
	return Attributes{Locale: &locale, Stage: stage}
}

// UnlocalizedAttributes builds attributes for the unlocalized dimension.
func UnlocalizedAttributes(stage Stage) Attributes {
	return Attributes{Stage: stage}
}
