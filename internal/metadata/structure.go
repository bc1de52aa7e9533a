package metadata

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// PropertyTypeRoute is the property type holding a route path.
const PropertyTypeRoute = "route"

var (
	ErrStructureNotFound = errors.New("metadata: structure not found")
	ErrStructureInvalid  = errors.New("metadata: structure invalid")
	ErrFormNotFound      = errors.New("metadata: form not found")
)

// Property describes one field of a template structure.
type Property struct {
	Name     string         `yaml:"name"     json:"name"`
	Type     string         `yaml:"type"     json:"type"`
	Label    string         `yaml:"label"    json:"label,omitempty"`
	Required bool           `yaml:"required" json:"required,omitempty"`
	Options  map[string]any `yaml:"options"  json:"options,omitempty"`
	// Unlocalized properties are stored on the unlocalized record and
	// shared by every locale.
	Unlocalized bool `yaml:"unlocalized" json:"unlocalized,omitempty"`
}

// Structure describes a template available for a resource type.
type Structure struct {
	ResourceKey string         `yaml:"resource"   json:"resource"`
	Key         string         `yaml:"key"        json:"key"`
	Title       string         `yaml:"title"      json:"title,omitempty"`
	Properties  []Property     `yaml:"properties" json:"properties"`
	Schema      map[string]any `yaml:"schema"     json:"schema,omitempty"`

	compiled *jsonschema.Schema
}

// CompiledSchema returns the schema compiled at registration, or nil.
func (s *Structure) CompiledSchema() *jsonschema.Schema {
	if s == nil {
		return nil
	}
	return s.compiled
}

// Property returns the property with the given name.
func (s *Structure) Property(name string) (*Property, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i], true
		}
	}
	return nil, false
}

// PropertyByType returns the first property of the given type.
func (s *Structure) PropertyByType(propertyType string) (*Property, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Properties {
		if s.Properties[i].Type == propertyType {
			return &s.Properties[i], true
		}
	}
	return nil, false
}

// PropertyNames lists property names in declaration order.
func (s *Structure) PropertyNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Properties))
	for _, property := range s.Properties {
		out = append(out, property.Name)
	}
	return out
}

func (s *Structure) validate() error {
	if strings.TrimSpace(s.ResourceKey) == "" {
		return fmt.Errorf("%w: resource is required", ErrStructureInvalid)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%w: key is required for resource %s", ErrStructureInvalid, s.ResourceKey)
	}
	seen := map[string]struct{}{}
	for _, property := range s.Properties {
		name := strings.TrimSpace(property.Name)
		if name == "" {
			return fmt.Errorf("%w: %s/%s has a property without name", ErrStructureInvalid, s.ResourceKey, s.Key)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s/%s declares %q twice", ErrStructureInvalid, s.ResourceKey, s.Key, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// StructureFactory looks up template structures.
type StructureFactory interface {
	GetStructure(ctx context.Context, resourceKey, templateKey string) (*Structure, error)
}

// Registry is an in-memory StructureFactory and FormProvider.
type Registry struct {
	mu         sync.RWMutex
	structures map[string]*Structure
	forms      map[string]*Form
}

// NewRegistry constructs a registry seeded with the built-in content forms.
func NewRegistry() *Registry {
	r := &Registry{
		structures: make(map[string]*Structure),
		forms:      make(map[string]*Form),
	}
	for _, form := range DefaultForms() {
		r.forms[form.Key] = form
	}
	return r
}

// RegisterStructure adds or replaces a template structure.
func (r *Registry) RegisterStructure(structure Structure) error {
	if err := structure.validate(); err != nil {
		return err
	}
	copied := structure
	copied.Properties = slices.Clone(structure.Properties)
	copied.compiled = nil
	if len(copied.Schema) > 0 {
		compiled, err := compileSchema(copied.Schema)
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrStructureInvalid, copied.ResourceKey, copied.Key, err)
		}
		copied.compiled = compiled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.structures[structureKey(structure.ResourceKey, structure.Key)] = &copied
	return nil
}

// RegisterForm adds or replaces a form.
func (r *Registry) RegisterForm(form Form) error {
	if strings.TrimSpace(form.Key) == "" {
		return fmt.Errorf("metadata: form key is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := form
	copied.Items = slices.Clone(form.Items)
	r.forms[form.Key] = &copied
	return nil
}

// GetStructure satisfies StructureFactory.
func (r *Registry) GetStructure(_ context.Context, resourceKey, templateKey string) (*Structure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	structure, ok := r.structures[structureKey(resourceKey, templateKey)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrStructureNotFound, resourceKey, templateKey)
	}
	copied := *structure
	copied.Properties = slices.Clone(structure.Properties)
	return &copied, nil
}

// GetForm satisfies FormProvider.
func (r *Registry) GetForm(_ context.Context, key, _ string) (*Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, key)
	}
	copied := *form
	copied.Items = slices.Clone(form.Items)
	return &copied, nil
}

// Structures lists the structures registered for a resource, sorted by key.
func (r *Registry) Structures(resourceKey string) []*Structure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Structure
	for _, structure := range r.structures {
		if structure.ResourceKey == resourceKey {
			copied := *structure
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *Structure) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

func structureKey(resourceKey, templateKey string) string {
	return strings.TrimSpace(resourceKey) + "::" + strings.TrimSpace(templateKey)
}
