package mappers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// RouteProperty is the only supported name of the route property.
const RouteProperty = "url"

// RoutableMapper binds the route property of the localized template to a
// route and stores the resulting path in the template data.
type RoutableMapper struct {
	structures metadata.StructureFactory
	routes     RouteManager
	generator  PathGenerator
	defaults   map[string]string
	logger     interfaces.Logger
}

// RoutableOption configures the routable mapper.
type RoutableOption func(*RoutableMapper)

// WithPathGenerator overrides the generator used for empty route paths.
func WithPathGenerator(generator PathGenerator) RoutableOption {
	return func(m *RoutableMapper) {
		if generator != nil {
			m.generator = generator
		}
	}
}

// WithDefaultTemplates sets the per resource fallback templates.
func WithDefaultTemplates(defaults map[string]string) RoutableOption {
	return func(m *RoutableMapper) {
		m.defaults = copyDefaults(defaults)
	}
}

// WithRoutableLogger overrides the mapper logger.
func WithRoutableLogger(logger interfaces.Logger) RoutableOption {
	return func(m *RoutableMapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewRoutableMapper constructs a routable mapper.
func NewRoutableMapper(structures metadata.StructureFactory, manager RouteManager, opts ...RoutableOption) *RoutableMapper {
	m := &RoutableMapper{
		structures: structures,
		routes:     manager,
		generator:  routes.NewGenerator(""),
		defaults:   map[string]string{},
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *RoutableMapper) Name() string { return "routable" }

// Map satisfies DataMapper. An existing route path is kept unless the input
// names the route property. An empty path is generated from the title and
// "/" is rejected before any route is touched.
func (m *RoutableMapper) Map(ctx context.Context, _, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Routable == nil {
		return nil
	}
	if localized.Template == nil {
		return &dimension.ConfigurationError{Message: "routable content requires the template capability"}
	}
	key := templateKey(localized, m.defaults)
	if key == "" {
		return &dimension.ConfigurationError{Message: fmt.Sprintf("routable content %q requires a template", localized.ResourceKey)}
	}
	structure, err := loadStructure(ctx, m.structures, localized.ResourceKey, key)
	if err != nil {
		return err
	}
	property, ok := structure.PropertyByType(metadata.PropertyTypeRoute)
	if !ok {
		return nil
	}
	if !localized.IsLocalized() {
		return nil
	}
	name := property.Name
	if name != RouteProperty {
		return &dimension.ConfigurationError{Message: fmt.Sprintf("expected a route property named %q but %q given", RouteProperty, name)}
	}

	current, _ := localized.TemplateValue(name)
	if !data.Has(name) && current != nil {
		return nil
	}

	pathField, err := data.String(name)
	if err != nil {
		return err
	}
	path := ""
	if pathField.Set() {
		path = strings.TrimSpace(pathField.Value)
	}
	if path == "" {
		if path, err = m.generate(localized, data); err != nil {
			return err
		}
	}
	if err := routes.ValidatePath(path); err != nil {
		message := "route path must start with \"/\""
		if errors.Is(err, routes.ErrPathNotAllowed) {
			message = "route path \"/\" is not allowed"
		}
		return &dimension.PolicyError{Field: name, Value: path, Message: message}
	}
	if m.routes == nil {
		return &dimension.ConfigurationError{Message: "routable mapper requires a route manager"}
	}

	route, err := m.routes.CreateOrUpdate(ctx, routes.Attributes{
		ResourceKey: localized.ResourceKey,
		ResourceID:  localized.ResourceID,
		Locale:      localized.LocaleCode(),
		Path:        path,
	})
	if err != nil {
		return err
	}
	if route.Path != path {
		m.logger.Info("routable.path.adjusted", "requested", path, "path", route.Path, "resource_id", localized.ResourceID)
	}
	localized.SetTemplateValue(name, route.Path)
	localized.Routable.RouteProperty = name
	return nil
}

func (m *RoutableMapper) generate(localized *dimension.DimensionContent, data dimension.Data) (string, error) {
	title := ""
	if field, err := data.String("title"); err == nil && field.Set() {
		title = field.Value
	} else if value, ok := localized.TemplateValue("title"); ok {
		if str, ok := value.(string); ok {
			title = str
		}
	}
	return m.generator.Generate(title)
}
