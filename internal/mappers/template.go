package mappers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
)

// TemplateMapper maps the template key and the structure properties onto
// the records. Unlocalized properties land on the unlocalized record.
type TemplateMapper struct {
	structures metadata.StructureFactory
	defaults   map[string]string
}

// NewTemplateMapper constructs a template mapper. defaults maps resource keys
// to the template used when neither the input nor the record names one.
func NewTemplateMapper(structures metadata.StructureFactory, defaults map[string]string) *TemplateMapper {
	return &TemplateMapper{structures: structures, defaults: copyDefaults(defaults)}
}

func (m *TemplateMapper) Name() string { return "template" }

// Map satisfies DataMapper.
func (m *TemplateMapper) Map(ctx context.Context, unlocalized, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Template == nil {
		return nil
	}

	templateField, err := data.String("template")
	if err != nil {
		return err
	}
	key := ""
	if templateField.Set() {
		key = strings.TrimSpace(templateField.Value)
	}
	if key == "" {
		key = templateKey(localized, m.defaults)
	}
	if key == "" {
		return &dimension.ConfigurationError{Message: fmt.Sprintf("expected a template for resource %q", localized.ResourceKey)}
	}

	structure, err := loadStructure(ctx, m.structures, localized.ResourceKey, key)
	if err != nil {
		return err
	}

	var unlocalizedExisting map[string]any
	if unlocalized != nil && unlocalized.Template != nil {
		unlocalizedExisting = unlocalized.Template.Data
	}
	localizedData := map[string]any{}
	unlocalizedData := map[string]any{}
	touched := false
	for _, property := range structure.Properties {
		target, existing := localizedData, localized.Template.Data
		if property.Unlocalized {
			target, existing = unlocalizedData, unlocalizedExisting
		}
		if raw, ok := data.Raw(property.Name); ok {
			target[property.Name] = raw
			touched = true
			continue
		}
		if value, ok := existing[property.Name]; ok {
			target[property.Name] = value
		}
	}
	if !templateField.Present && !touched {
		return nil
	}

	combined := make(map[string]any, len(localizedData)+len(unlocalizedData))
	for name, value := range unlocalizedData {
		combined[name] = value
	}
	for name, value := range localizedData {
		combined[name] = value
	}
	if err := metadata.ValidateTemplateData(structure, combined); err != nil {
		return err
	}

	localized.Template.Key = key
	localized.Template.Data = localizedData
	if unlocalized != nil && unlocalized.Template != nil {
		unlocalized.Template.Key = key
		unlocalized.Template.Data = unlocalizedData
	}
	return nil
}

func templateKey(record *dimension.DimensionContent, defaults map[string]string) string {
	if record.Template != nil && strings.TrimSpace(record.Template.Key) != "" {
		return record.Template.Key
	}
	return defaults[record.ResourceKey]
}

func loadStructure(ctx context.Context, structures metadata.StructureFactory, resourceKey, key string) (*metadata.Structure, error) {
	if structures == nil {
		return nil, &dimension.ConfigurationError{Message: "no structure factory configured"}
	}
	structure, err := structures.GetStructure(ctx, resourceKey, key)
	if err != nil {
		if errors.Is(err, metadata.ErrStructureNotFound) {
			return nil, &dimension.ConfigurationError{Message: fmt.Sprintf("structure %s/%s is not registered", resourceKey, key)}
		}
		return nil, err
	}
	if structure == nil {
		return nil, &dimension.ConfigurationError{Message: fmt.Sprintf("structure %s/%s is not registered", resourceKey, key)}
	}
	return structure, nil
}

func copyDefaults(defaults map[string]string) map[string]string {
	out := make(map[string]string, len(defaults))
	for resource, key := range defaults {
		out[resource] = key
	}
	return out
}
