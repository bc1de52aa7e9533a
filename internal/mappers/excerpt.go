package mappers

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

// ExcerptMapper maps the excerpt* fields onto the localized record.
type ExcerptMapper struct {
	tags       TagFactory
	categories CategoryFactory
}

// NewExcerptMapper constructs an excerpt mapper.
func NewExcerptMapper(tags TagFactory, categories CategoryFactory) *ExcerptMapper {
	return &ExcerptMapper{tags: tags, categories: categories}
}

func (m *ExcerptMapper) Name() string { return "excerpt" }

// Map satisfies DataMapper. Null tag and category lists clear the lists.
func (m *ExcerptMapper) Map(ctx context.Context, _, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Excerpt == nil {
		return nil
	}

	title, err := data.String("excerptTitle")
	if err != nil {
		return err
	}
	more, err := data.String("excerptMore")
	if err != nil {
		return err
	}
	description, err := data.String("excerptDescription")
	if err != nil {
		return err
	}
	image, err := mediaField(data, "excerptImage")
	if err != nil {
		return err
	}
	icon, err := mediaField(data, "excerptIcon")
	if err != nil {
		return err
	}
	tagNames, tagsPresent, err := data.StringList("excerptTags")
	if err != nil {
		return err
	}
	categoryIDs, err := data.Ints("excerptCategories")
	if err != nil {
		return err
	}

	var tags []*dimension.Tag
	if tagsPresent && len(tagNames) > 0 {
		if m.tags == nil {
			return &dimension.ConfigurationError{Message: "excerpt mapper requires a tag factory"}
		}
		if tags, err = m.tags.GetOrCreate(ctx, tagNames); err != nil {
			return err
		}
	}
	var categories []*dimension.Category
	if categoryIDs.Set() && len(categoryIDs.Value) > 0 {
		if m.categories == nil {
			return &dimension.ConfigurationError{Message: "excerpt mapper requires a category factory"}
		}
		if categories, err = m.categories.GetEntities(ctx, categoryIDs.Value); err != nil {
			return err
		}
	}

	excerpt := localized.Excerpt
	if title.Present {
		excerpt.Title = title.Ptr()
	}
	if more.Present {
		excerpt.More = more.Ptr()
	}
	if description.Present {
		excerpt.Description = description.Ptr()
	}
	if image.Present {
		excerpt.Image = image.Value
	}
	if icon.Present {
		excerpt.Icon = icon.Value
	}
	if tagsPresent {
		excerpt.Tags = nonNilTags(tags)
	}
	if categoryIDs.Present {
		excerpt.Categories = nonNilCategories(categories)
	}
	return nil
}

// mediaField reads a media selection of the form {"id": <int>}. A null
// selection or a null id clears the reference.
func mediaField(data dimension.Data, key string) (dimension.Field[*dimension.MediaRef], error) {
	object, err := data.Object(key)
	if err != nil {
		return dimension.Field[*dimension.MediaRef]{}, err
	}
	if !object.Present {
		return dimension.Field[*dimension.MediaRef]{}, nil
	}
	if object.Null {
		return dimension.Field[*dimension.MediaRef]{Present: true, Null: true}, nil
	}
	if !object.Value.Has("id") {
		return dimension.Field[*dimension.MediaRef]{}, &dimension.FieldTypeError{Field: key + ".id", Expected: "int", Actual: nil}
	}
	id, err := object.Value.Int("id")
	if err != nil {
		return dimension.Field[*dimension.MediaRef]{}, &dimension.FieldTypeError{Field: key + ".id", Expected: "?int", Actual: object.Value["id"]}
	}
	if !id.Set() {
		return dimension.Field[*dimension.MediaRef]{Present: true, Null: true}, nil
	}
	return dimension.Field[*dimension.MediaRef]{Present: true, Value: &dimension.MediaRef{ID: id.Value}}, nil
}

func nonNilTags(tags []*dimension.Tag) []*dimension.Tag {
	if tags == nil {
		return []*dimension.Tag{}
	}
	return tags
}

func nonNilCategories(categories []*dimension.Category) []*dimension.Category {
	if categories == nil {
		return []*dimension.Category{}
	}
	return categories
}
