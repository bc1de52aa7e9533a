package metadata

import "context"

const (
	FormExcerpt  = "content_excerpt"
	FormSeo      = "content_seo"
	FormSettings = "content_settings"
)

// Property types understood by the built-in property resolvers.
const (
	TypeTextLine             = "text_line"
	TypeTextArea             = "text_area"
	TypeMarkdown             = "markdown"
	TypeCheckbox             = "checkbox"
	TypeURL                  = "url"
	TypeDate                 = "date"
	TypeContact              = "contact"
	TypeTagSelection         = "tag_selection"
	TypeCategorySelection    = "category_selection"
	TypeSingleMediaSelection = "single_media_selection"
	TypeWebspaceSelection    = "webspace_selection"
	TypeLocalizations        = "localizations"
	TypeLocales              = "locales"
	TypeTemplate             = "template"
)

// FormItem is one field of a form.
type FormItem struct {
	Name    string         `yaml:"name"    json:"name"`
	Type    string         `yaml:"type"    json:"type"`
	Label   string         `yaml:"label"   json:"label,omitempty"`
	Options map[string]any `yaml:"options" json:"options,omitempty"`
}

// Form groups the items resolved together into a content view.
type Form struct {
	Key   string     `yaml:"key"   json:"key"`
	Items []FormItem `yaml:"items" json:"items"`
}

// Item returns the item with the given name.
func (f *Form) Item(name string) (*FormItem, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Items {
		if f.Items[i].Name == name {
			return &f.Items[i], true
		}
	}
	return nil, false
}

// FormProvider looks up forms by key.
type FormProvider interface {
	GetForm(ctx context.Context, key, locale string) (*Form, error)
}

// DefaultForms returns the excerpt, seo and settings forms.
func DefaultForms() []*Form {
	return []*Form{
		{
			Key: FormExcerpt,
			Items: []FormItem{
				{Name: "excerptTitle", Type: TypeTextLine, Label: "Title"},
				{Name: "excerptMore", Type: TypeTextLine, Label: "More text"},
				{Name: "excerptDescription", Type: TypeMarkdown, Label: "Description"},
				{Name: "excerptCategories", Type: TypeCategorySelection, Label: "Categories"},
				{Name: "excerptTags", Type: TypeTagSelection, Label: "Tags"},
				{Name: "excerptImage", Type: TypeSingleMediaSelection, Label: "Image"},
				{Name: "excerptIcon", Type: TypeSingleMediaSelection, Label: "Icon"},
			},
		},
		{
			Key: FormSeo,
			Items: []FormItem{
				{Name: "seoTitle", Type: TypeTextLine, Label: "Title"},
				{Name: "seoDescription", Type: TypeTextArea, Label: "Description"},
				{Name: "seoKeywords", Type: TypeTextLine, Label: "Keywords"},
				{Name: "seoCanonicalUrl", Type: TypeURL, Label: "Canonical URL"},
				{Name: "seoNoIndex", Type: TypeCheckbox, Label: "No index"},
				{Name: "seoNoFollow", Type: TypeCheckbox, Label: "No follow"},
				{Name: "seoHideInSitemap", Type: TypeCheckbox, Label: "Hide in sitemap"},
			},
		},
		{
			Key: FormSettings,
			Items: []FormItem{
				{Name: "template", Type: TypeTemplate, Label: "Template"},
				{Name: "mainWebspace", Type: TypeWebspaceSelection, Label: "Main webspace"},
				{Name: "additionalWebspaces", Type: TypeWebspaceSelection, Label: "Additional webspaces"},
				{Name: "author", Type: TypeContact, Label: "Author"},
				{Name: "authored", Type: TypeDate, Label: "Authored"},
				{Name: "lastModified", Type: TypeDate, Label: "Last modified"},
				{Name: "availableLocales", Type: TypeLocales, Label: "Available locales"},
				{Name: "localizations", Type: TypeLocalizations, Label: "Localizations"},
			},
		},
	}
}
