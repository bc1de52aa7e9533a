package resolvers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

// Registry holds resolvers by name.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
	order     []string
}

// NewRegistry constructs a registry with the given resolvers.
func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{resolvers: make(map[string]Resolver)}
	for _, resolver := range resolvers {
		r.Register(resolver)
	}
	return r
}

// Register adds or replaces a resolver.
func (r *Registry) Register(resolver Resolver) {
	if resolver == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := resolver.Name()
	if _, ok := r.resolvers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.resolvers[name] = resolver
}

// Get returns the resolver registered under name.
func (r *Registry) Get(name string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolver, ok := r.resolvers[name]
	return resolver, ok
}

// Names lists the registered resolver names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// Resolve runs the named resolver.
func (r *Registry) Resolve(ctx context.Context, name string, content *dimension.DimensionContent) (*ContentView, error) {
	resolver, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("resolvers: no resolver named %q", name)
	}
	return resolver.Resolve(ctx, content)
}

// ResolveAll runs every resolver whose capability the content carries, in
// registration order.
func (r *Registry) ResolveAll(ctx context.Context, content *dimension.DimensionContent) (map[string]*ContentView, error) {
	r.mu.RLock()
	resolvers := make([]Resolver, 0, len(r.order))
	for _, name := range r.order {
		resolvers = append(resolvers, r.resolvers[name])
	}
	r.mu.RUnlock()

	out := make(map[string]*ContentView, len(resolvers))
	for _, resolver := range resolvers {
		if !content.Has(resolver.Capability()) {
			continue
		}
		view, err := resolver.Resolve(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("resolvers: %s: %w", resolver.Name(), err)
		}
		out[resolver.Name()] = view
	}
	return out, nil
}
