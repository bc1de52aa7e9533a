package metadata

import (
	"context"
	"fmt"
)

// ResolvedValue is the content and view metadata of one resolved property.
type ResolvedValue struct {
	Content any
	View    map[string]any
}

// PropertyResolver resolves the raw value of a property of a given type.
type PropertyResolver interface {
	Resolve(ctx context.Context, value any, locale string, item FormItem) (ResolvedValue, error)
}

// PropertyResolverFunc adapts a function into a PropertyResolver.
type PropertyResolverFunc func(ctx context.Context, value any, locale string, item FormItem) (ResolvedValue, error)

// Resolve satisfies PropertyResolver.
func (fn PropertyResolverFunc) Resolve(ctx context.Context, value any, locale string, item FormItem) (ResolvedValue, error) {
	return fn(ctx, value, locale, item)
}

// Resolved holds the per-item content and view maps of a form.
type Resolved struct {
	Content map[string]any
	View    map[string]any
}

// ValueResolver resolves flat data against a form.
type ValueResolver interface {
	Resolve(ctx context.Context, form *Form, data map[string]any, locale string) (*Resolved, error)
}

// Resolver is the metadata driven ValueResolver dispatching on item type.
type Resolver struct {
	properties map[string]PropertyResolver
	fallback   PropertyResolver
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPropertyResolver registers or overrides the resolver of a property type.
func WithPropertyResolver(propertyType string, resolver PropertyResolver) ResolverOption {
	return func(r *Resolver) {
		if resolver == nil {
			delete(r.properties, propertyType)
			return
		}
		r.properties[propertyType] = resolver
	}
}

// WithFallbackResolver overrides the resolver used for unknown types.
func WithFallbackResolver(resolver PropertyResolver) ResolverOption {
	return func(r *Resolver) {
		if resolver != nil {
			r.fallback = resolver
		}
	}
}

// NewResolver constructs a resolver with the built-in property resolvers.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		properties: builtinPropertyResolvers(),
		fallback:   PropertyResolverFunc(passthrough),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve walks the form items in order. Items missing from data resolve
// from a nil value.
func (r *Resolver) Resolve(ctx context.Context, form *Form, data map[string]any, locale string) (*Resolved, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: nil form", ErrFormNotFound)
	}
	out := &Resolved{
		Content: make(map[string]any, len(form.Items)),
		View:    make(map[string]any, len(form.Items)),
	}
	for _, item := range form.Items {
		resolver, ok := r.properties[item.Type]
		if !ok {
			resolver = r.fallback
		}
		value, err := resolver.Resolve(ctx, data[item.Name], locale, item)
		if err != nil {
			return nil, fmt.Errorf("metadata: resolve %s.%s: %w", form.Key, item.Name, err)
		}
		out.Content[item.Name] = value.Content
		if value.View == nil {
			value.View = map[string]any{}
		}
		out.View[item.Name] = value.View
	}
	return out, nil
}

func passthrough(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	return ResolvedValue{Content: value, View: map[string]any{}}, nil
}
