package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

func builtinPropertyResolvers() map[string]PropertyResolver {
	return map[string]PropertyResolver{
		TypeMarkdown:             NewMarkdownResolver(),
		TypeDate:                 PropertyResolverFunc(resolveDate),
		TypeContact:              PropertyResolverFunc(resolveContact),
		TypeTagSelection:         PropertyResolverFunc(resolveTags),
		TypeCategorySelection:    PropertyResolverFunc(resolveCategories),
		TypeSingleMediaSelection: PropertyResolverFunc(resolveMedia),
		TypeCheckbox:             PropertyResolverFunc(resolveCheckbox),
	}
}

func resolveDate(_ context.Context, value any, _ string, item FormItem) (ResolvedValue, error) {
	switch typed := value.(type) {
	case nil:
		return ResolvedValue{}, nil
	case *time.Time:
		if typed == nil {
			return ResolvedValue{}, nil
		}
		return ResolvedValue{
			Content: *dimension.FormatDate(typed),
			View:    map[string]any{"timestamp": typed.Unix()},
		}, nil
	case time.Time:
		return resolveDate(context.Background(), &typed, "", item)
	case string:
		return ResolvedValue{Content: typed, View: map[string]any{}}, nil
	default:
		return ResolvedValue{}, fmt.Errorf("unsupported date value %T", value)
	}
}

func resolveContact(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	contact, ok := value.(*dimension.Contact)
	if !ok || contact == nil {
		return ResolvedValue{}, nil
	}
	return ResolvedValue{
		Content: contact,
		View:    map[string]any{"id": contact.ID, "name": contact.FullName()},
	}, nil
}

func resolveTags(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	tags, _ := value.([]*dimension.Tag)
	if tags == nil {
		tags = []*dimension.Tag{}
	}
	return ResolvedValue{
		Content: tags,
		View:    map[string]any{"names": dimension.TagNames(tags)},
	}, nil
}

func resolveCategories(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	categories, _ := value.([]*dimension.Category)
	if categories == nil {
		categories = []*dimension.Category{}
	}
	return ResolvedValue{
		Content: categories,
		View:    map[string]any{"ids": dimension.CategoryIDs(categories)},
	}, nil
}

func resolveMedia(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	media, ok := value.(*dimension.MediaRef)
	if !ok || media == nil {
		return ResolvedValue{View: map[string]any{}}, nil
	}
	return ResolvedValue{
		Content: media,
		View:    map[string]any{"id": media.ID},
	}, nil
}

func resolveCheckbox(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	flag, _ := value.(bool)
	return ResolvedValue{Content: flag, View: map[string]any{}}, nil
}
