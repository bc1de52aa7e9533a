package dimension

import "time"

// Clone returns a deep copy of the record.
func (d *DimensionContent) Clone() *DimensionContent {
	if d == nil {
		return nil
	}
	copied := *d
	copied.Locale = cloneString(d.Locale)
	copied.GhostLocale = cloneString(d.GhostLocale)
	copied.AvailableLocales = cloneStrings(d.AvailableLocales)

	if d.Template != nil {
		copied.Template = &TemplateData{
			Key:  d.Template.Key,
			Data: CloneMap(d.Template.Data),
		}
	}
	if d.Author != nil {
		author := *d.Author
		if d.Author.Author != nil {
			contact := *d.Author.Author
			author.Author = &contact
		}
		author.Authored = cloneTime(d.Author.Authored)
		author.LastModified = cloneTime(d.Author.LastModified)
		copied.Author = &author
	}
	if d.Excerpt != nil {
		copied.Excerpt = d.Excerpt.clone()
	}
	if d.Seo != nil {
		seo := *d.Seo
		seo.Title = cloneString(d.Seo.Title)
		seo.Description = cloneString(d.Seo.Description)
		seo.Keywords = cloneString(d.Seo.Keywords)
		seo.CanonicalURL = cloneString(d.Seo.CanonicalURL)
		copied.Seo = &seo
	}
	if d.Webspace != nil {
		copied.Webspace = &WebspaceData{
			MainWebspace:        cloneString(d.Webspace.MainWebspace),
			AdditionalWebspaces: cloneStrings(d.Webspace.AdditionalWebspaces),
		}
	}
	if d.Routable != nil {
		routable := *d.Routable
		copied.Routable = &routable
	}
	return &copied
}

func (e *ExcerptData) clone() *ExcerptData {
	out := &ExcerptData{
		Title:       cloneString(e.Title),
		More:        cloneString(e.More),
		Description: cloneString(e.Description),
		Image:       cloneMedia(e.Image),
		Icon:        cloneMedia(e.Icon),
	}
	if e.Tags != nil {
		out.Tags = make([]*Tag, len(e.Tags))
		for i, tag := range e.Tags {
			if tag != nil {
				local := *tag
				out.Tags[i] = &local
			}
		}
	}
	if e.Categories != nil {
		out.Categories = make([]*Category, len(e.Categories))
		for i, category := range e.Categories {
			if category != nil {
				local := *category
				out.Categories[i] = &local
			}
		}
	}
	return out
}

// CloneMap deep copies nested maps and slices of a JSON-like payload.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneMap(typed)
	case Data:
		return Data(CloneMap(typed))
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneStrings(typed)
	default:
		return value
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneMedia(value *MediaRef) *MediaRef {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
