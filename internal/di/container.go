package di

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-cms-content/internal/commands"
	contentcmd "github.com/goliatone/go-cms-content/internal/commands/content"
	"github.com/goliatone/go-cms-content/internal/contacts"
	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/logging/console"
	"github.com/goliatone/go-cms-content/internal/logging/gologger"
	"github.com/goliatone/go-cms-content/internal/mappers"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/internal/persister"
	"github.com/goliatone/go-cms-content/internal/resolvers"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/internal/runtimeconfig"
	"github.com/goliatone/go-cms-content/internal/storage"
	"github.com/goliatone/go-cms-content/internal/taxonomy"
	"github.com/goliatone/go-cms-content/internal/webspaces"
	"github.com/goliatone/go-cms-content/pkg/activity"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the content module. Repositories default to memory and
// switch to bun when a database is configured or injected. Logging stays
// no-op unless Features.Logger is set or a provider is injected.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	structures *metadata.Registry
	values     metadata.ValueResolver
	webspaces  *webspaces.Collection
	urls       webspaces.URLResolver

	routeRepo    routes.Repository
	tagRepo      taxonomy.TagRepository
	categoryRepo taxonomy.CategoryRepository
	contactRepo  contacts.Repository
	store        persister.Store
	activity     activity.Hooks

	routeManager *routes.Manager
	chain        *mappers.Chain
	resolvers    *resolvers.Registry
	service      *persister.Service

	mapHandler     *contentcmd.MapContentHandler
	publishHandler *contentcmd.PublishContentHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB injects an open database. The container creates its schema but
// does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache injects the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithStructures injects a preloaded metadata registry.
func WithStructures(registry *metadata.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.structures = registry
		}
	}
}

// WithValueResolver overrides the metadata value resolver.
func WithValueResolver(values metadata.ValueResolver) Option {
	return func(c *Container) {
		if values != nil {
			c.values = values
		}
	}
}

// WithURLResolver overrides the go-urlkit webspace URL resolver.
func WithURLResolver(urls webspaces.URLResolver) Option {
	return func(c *Container) {
		if urls != nil {
			c.urls = urls
		}
	}
}

// WithContactRepository overrides the contact repository.
func WithContactRepository(repo contacts.Repository) Option {
	return func(c *Container) {
		if repo != nil {
			c.contactRepo = repo
		}
	}
}

// WithStore overrides the content entity store.
func WithStore(store persister.Store) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithActivityHook adds a hook notified after content is saved.
func WithActivityHook(hook activity.Hook) Option {
	return func(c *Container) {
		if hook != nil {
			c.activity = append(c.activity, hook)
		}
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureMetadata,
		c.configureWebspaces,
		c.configureStorage,
		c.configureServices,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := newLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "cms")
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case runtimeconfig.LoggingGoLogger:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: configure go-logger: %w", err)
		}
		return provider, nil
	default:
		return console.NewProvider(console.Options{MinLevel: console.ParseLevel(cfg.Level)}), nil
	}
}

func (c *Container) configureMetadata(context.Context) error {
	if c.structures == nil {
		c.structures = metadata.NewRegistry()
		if dir := strings.TrimSpace(c.Config.Metadata.Dir); dir != "" {
			if err := c.structures.LoadFS(os.DirFS(dir), c.Config.Metadata.Pattern); err != nil {
				return fmt.Errorf("di: load metadata from %s: %w", dir, err)
			}
		}
	}
	if c.values == nil {
		c.values = metadata.NewResolver()
	}
	return nil
}

func (c *Container) configureWebspaces(context.Context) error {
	items := make([]webspaces.Webspace, 0, len(c.Config.Webspaces))
	for _, ws := range c.Config.Webspaces {
		localizations := make([]webspaces.Localization, 0, len(ws.Locales))
		for _, locale := range ws.Locales {
			localizations = append(localizations, webspaces.Localization{
				Locale:  locale,
				Default: locale == ws.DefaultLocale,
			})
		}
		items = append(items, webspaces.Webspace{
			Key:           ws.Key,
			Name:          ws.Name,
			BaseURL:       ws.BaseURL,
			Localizations: localizations,
			LocalePrefix:  ws.LocalePrefix,
		})
	}
	collection, err := webspaces.NewCollection(items...)
	if err != nil {
		return fmt.Errorf("di: configure webspaces: %w", err)
	}
	c.webspaces = collection
	if c.urls == nil {
		c.urls = webspaces.NewURLKitResolver(collection, nil)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil && c.Config.StorageDriver() != runtimeconfig.StorageMemory {
		db, err := storage.Open(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if c.bunDB == nil {
		c.routeRepo = routes.NewMemoryRepository()
		c.tagRepo = taxonomy.NewMemoryTagRepository()
		c.categoryRepo = taxonomy.NewMemoryCategoryRepository()
		if c.contactRepo == nil {
			c.contactRepo = contacts.NewMemoryRepository()
		}
		if c.store == nil {
			c.store = persister.NewMemoryStore()
		}
		return nil
	}

	if err := storage.CreateSchema(ctx, c.bunDB); err != nil {
		return err
	}
	c.configureCacheDefaults()
	c.routeRepo = routes.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.tagRepo = taxonomy.NewBunTagRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.categoryRepo = taxonomy.NewBunCategoryRepository(c.bunDB)
	if c.contactRepo == nil {
		c.contactRepo = contacts.NewBunRepository(c.bunDB)
	}
	if c.store == nil {
		c.store = persister.NewBunStore(c.bunDB)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cache.configure.failed", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureServices(context.Context) error {
	c.routeManager = routes.NewManager(c.routeRepo, routes.WithLogger(logging.RoutesLogger(c.loggerProvider)))

	defaultTemplates := c.Config.DefaultTemplates()
	c.chain = mappers.NewDefaultChain(mappers.Dependencies{
		Structures:       c.structures,
		Contacts:         contacts.NewFactory(c.contactRepo),
		Tags:             taxonomy.NewTagFactory(c.tagRepo),
		Categories:       taxonomy.NewCategoryFactory(c.categoryRepo),
		Routes:           c.routeManager,
		PathGenerator:    routes.NewGenerator(c.Config.Routes.Prefix),
		DefaultWebspace:  c.webspaces.DefaultKey(),
		DefaultTemplates: defaultTemplates,
		Logger:           logging.MappersLogger(c.loggerProvider),
	})

	resolverLogger := logging.ResolversLogger(c.loggerProvider)
	c.resolvers = resolvers.NewRegistry(
		resolvers.NewTemplateResolver(c.structures, c.values, resolverLogger),
		resolvers.NewExcerptResolver(c.structures, c.values, resolverLogger),
		resolvers.NewSeoResolver(c.structures, c.values, resolverLogger),
		resolvers.NewSettingsResolver(c.structures, c.values, c.webspaces, c.urls, resolverLogger,
			resolvers.WithRouteFinder(c.routeManager),
			resolvers.WithDefaultWebspace(c.webspaces.DefaultKey()),
		),
	)

	serviceOpts := []persister.ServiceOption{
		persister.WithLogger(logging.PersisterLogger(c.loggerProvider)),
		persister.WithResolvers(c.resolvers),
		persister.WithRouteCleanup(c.routeManager),
	}
	if len(c.activity) > 0 {
		serviceOpts = append(serviceOpts, persister.WithActivity(c.activity))
	}
	for _, contentType := range c.Config.ContentTypes {
		capabilities := make([]dimension.Capability, 0, len(contentType.Capabilities))
		for _, capability := range contentType.Capabilities {
			capabilities = append(capabilities, dimension.Capability(strings.ToLower(strings.TrimSpace(capability))))
		}
		serviceOpts = append(serviceOpts, persister.WithContentType(persister.ContentType{
			ResourceKey:  contentType.ResourceKey,
			Capabilities: capabilities,
		}))
	}
	c.service = persister.NewService(c.store, c.chain, serviceOpts...)

	commandLogger := logging.CommandsLogger(c.loggerProvider)
	c.mapHandler = contentcmd.NewMapContentHandler(c.service, commandLogger, nil)
	c.publishHandler = contentcmd.NewPublishContentHandler(c.service, commandLogger)
	return nil
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger { return c.logger }

// LoggerProvider returns the provider backing every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// BunDB returns the database handle, nil for memory storage.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// Structures returns the template and form registry.
func (c *Container) Structures() *metadata.Registry { return c.structures }

// Webspaces returns the configured webspaces.
func (c *Container) Webspaces() *webspaces.Collection { return c.webspaces }

// URLResolver returns the webspace URL resolver.
func (c *Container) URLResolver() webspaces.URLResolver { return c.urls }

// RouteManager returns the route manager.
func (c *Container) RouteManager() *routes.Manager { return c.routeManager }

// ContactRepository returns the contact repository.
func (c *Container) ContactRepository() contacts.Repository { return c.contactRepo }

// TagRepository returns the tag repository.
func (c *Container) TagRepository() taxonomy.TagRepository { return c.tagRepo }

// CategoryRepository returns the category repository.
func (c *Container) CategoryRepository() taxonomy.CategoryRepository { return c.categoryRepo }

// Mapper returns the default mapper chain.
func (c *Container) Mapper() *mappers.Chain { return c.chain }

// Resolvers returns the resolver registry.
func (c *Container) Resolvers() *resolvers.Registry { return c.resolvers }

// ContentService returns the content persister.
func (c *Container) ContentService() *persister.Service { return c.service }

// CommandHandlers returns the content command handlers.
func (c *Container) CommandHandlers() []any {
	return []any{c.mapHandler, c.publishHandler}
}

// MapContentHandler returns the map command handler.
func (c *Container) MapContentHandler() *contentcmd.MapContentHandler { return c.mapHandler }

// PublishContentHandler returns the publish command handler.
func (c *Container) PublishContentHandler() *contentcmd.PublishContentHandler {
	return c.publishHandler
}

// RegisterCommands hands the content command handlers to the integrations.
func (c *Container) RegisterCommands(opts commands.RegistrationOptions) (*commands.RegistrationResult, error) {
	return commands.Register(opts, c.CommandHandlers()...)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}
