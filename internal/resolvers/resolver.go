package resolvers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// Resolver projects one capability of a dimension into a content view.
type Resolver interface {
	Name() string
	Capability() dimension.Capability
	Resolve(ctx context.Context, content *dimension.DimensionContent) (*ContentView, error)
}

// formResolver resolves flat field data against a named form.
type formResolver struct {
	forms  metadata.FormProvider
	values metadata.ValueResolver
	logger interfaces.Logger
}

func newFormResolver(forms metadata.FormProvider, values metadata.ValueResolver, logger interfaces.Logger) formResolver {
	if forms == nil {
		forms = metadata.NewRegistry()
	}
	if values == nil {
		values = metadata.NewResolver()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return formResolver{forms: forms, values: values, logger: logger}
}

func (r formResolver) resolveForm(ctx context.Context, formKey string, data map[string]any, locale string) (*ContentView, error) {
	form, err := r.forms.GetForm(ctx, formKey, locale)
	if err != nil {
		return nil, fmt.Errorf("resolvers: load form %s: %w", formKey, err)
	}
	resolved, err := r.values.Resolve(ctx, form, data, locale)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolver.form.resolved", "form", formKey, "locale", locale, "items", len(form.Items))
	return NewContentView(resolved.Content, resolved.View), nil
}

func requireCapability(content *dimension.DimensionContent, capability dimension.Capability, component string) error {
	if content == nil || !content.Has(capability) {
		return &dimension.CapabilityError{Capability: capability, Component: component}
	}
	return nil
}

func stringValue(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
