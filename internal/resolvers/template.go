package resolvers

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// TemplateResolver resolves the template data against a form derived from
// the template structure.
type TemplateResolver struct {
	formResolver
	structures metadata.StructureFactory
}

// NewTemplateResolver constructs a template resolver.
func NewTemplateResolver(structures metadata.StructureFactory, values metadata.ValueResolver, logger interfaces.Logger) *TemplateResolver {
	return &TemplateResolver{
		formResolver: newFormResolver(nil, values, logger),
		structures:   structures,
	}
}

func (r *TemplateResolver) Name() string { return "template" }

func (r *TemplateResolver) Capability() dimension.Capability { return dimension.CapabilityTemplate }

// Resolve satisfies Resolver. Template data keys without a structure
// property are passed through unchanged.
func (r *TemplateResolver) Resolve(ctx context.Context, content *dimension.DimensionContent) (*ContentView, error) {
	if err := requireCapability(content, dimension.CapabilityTemplate, "TemplateResolver"); err != nil {
		return nil, err
	}
	if content.Template.Key == "" || r.structures == nil {
		return NewContentView(dimension.CloneMap(content.Template.Data), nil), nil
	}
	structure, err := r.structures.GetStructure(ctx, content.ResourceKey, content.Template.Key)
	if err != nil {
		if errors.Is(err, metadata.ErrStructureNotFound) {
			return nil, &dimension.ConfigurationError{Message: "template " + content.Template.Key + " is not registered for " + content.ResourceKey}
		}
		return nil, err
	}

	form := &metadata.Form{Key: structure.ResourceKey + "." + structure.Key}
	for _, property := range structure.Properties {
		form.Items = append(form.Items, metadata.FormItem{
			Name:    property.Name,
			Type:    property.Type,
			Label:   property.Label,
			Options: property.Options,
		})
	}
	resolved, err := r.values.Resolve(ctx, form, content.Template.Data, content.LocaleCode())
	if err != nil {
		return nil, err
	}
	view := NewContentView(resolved.Content, resolved.View)
	for key, value := range content.Template.Data {
		if _, ok := view.Content[key]; !ok {
			view.Content[key] = value
			view.View[key] = map[string]any{}
		}
	}
	view.Content["template"] = content.Template.Key
	return view, nil
}
