package cms

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/commands"
	"github.com/goliatone/go-cms-content/internal/di"
	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/internal/persister"
	"github.com/goliatone/go-cms-content/internal/resolvers"
	"github.com/goliatone/go-cms-content/pkg/activity"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// DimensionContent is one content record for a locale and stage.
type DimensionContent = dimension.DimensionContent

// Data is the decoded input map handed to the mappers.
type Data = dimension.Data

// Stage is the publication stage of a dimension.
type Stage = dimension.Stage

const (
	StageDraft = dimension.StageDraft
	StageLive  = dimension.StageLive
)

// ContentView is a resolved projection of a dimension.
type ContentView = resolvers.ContentView

// Resolved carries the merged dimension and its resolved views.
type Resolved = persister.Resolved

// Structures is the template and form registry.
type Structures = metadata.Registry

// RegistrationOptions selects the integrations command handlers are
// registered with.
type RegistrationOptions = commands.RegistrationOptions

// RegistrationResult lists the registered command handlers.
type RegistrationResult = commands.RegistrationResult

// Option customises the module wiring.
type Option = di.Option

// WithBunDB reuses an open database instead of the configured storage.
func WithBunDB(db *bun.DB) Option { return di.WithBunDB(db) }

// WithLoggerProvider routes module logs through provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithCache injects the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return di.WithCache(service, serializer)
}

// WithStructures injects a preloaded template registry.
func WithStructures(registry *Structures) Option { return di.WithStructures(registry) }

// WithURLResolver overrides how webspace URLs are built.
func WithURLResolver(urls interfaces.URLResolver) Option { return di.WithURLResolver(urls) }

// WithActivityHook notifies hook after content is saved or published. Use
// usersink.Hook to forward events to a go-users activity sink.
func WithActivityHook(hook activity.Hook) Option { return di.WithActivityHook(hook) }

// NewStructures returns an empty registry seeded with the built-in forms.
func NewStructures() *Structures { return metadata.NewRegistry() }

// Module represents the top level content runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a content module using the provided configuration and
// optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Persist maps data onto the draft dimensions of the locale and returns the
// merged draft.
func (m *Module) Persist(ctx context.Context, resourceKey, resourceID, locale string, data Data) (*DimensionContent, error) {
	return m.container.ContentService().Persist(ctx, persister.PersistRequest{
		ResourceKey: resourceKey,
		ResourceID:  resourceID,
		Locale:      locale,
		Data:        data,
	})
}

// Publish copies the draft dimensions of the locale to live.
func (m *Module) Publish(ctx context.Context, resourceKey, resourceID, locale string) (*DimensionContent, error) {
	return m.container.ContentService().Publish(ctx, persister.PublishRequest{
		ResourceKey: resourceKey,
		ResourceID:  resourceID,
		Locale:      locale,
	})
}

// Resolve merges the dimension of the locale and stage and runs every
// applicable resolver.
func (m *Module) Resolve(ctx context.Context, resourceKey, resourceID, locale string, stage Stage) (*Resolved, error) {
	return m.container.ContentService().Resolve(ctx, persister.ResolveRequest{
		ResourceKey: resourceKey,
		ResourceID:  resourceID,
		Locale:      locale,
		Stage:       stage,
	})
}

// ContentTypes lists the configured resource keys.
func (m *Module) ContentTypes() []string {
	return m.container.ContentService().ContentTypes()
}

// Structures returns the template registry.
func (m *Module) Structures() *Structures {
	return m.container.Structures()
}

// RegisterCommands hands the content command handlers to the integrations.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	return m.container.RegisterCommands(opts)
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
