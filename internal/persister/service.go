package persister

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/mappers"
	"github.com/goliatone/go-cms-content/internal/resolvers"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/pkg/activity"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrContentTypeUnknown = errors.New("persister: content type not registered")

// ContentType declares the capabilities of the dimensions of a resource.
type ContentType struct {
	ResourceKey  string
	Capabilities []dimension.Capability
}

// PersistRequest applies input data to one locale of a content entity.
// ActorID is optional and only reaches activity events.
type PersistRequest struct {
	ResourceKey string
	ResourceID  string
	Locale      string
	Data        dimension.Data
	ActorID     string
}

// Validate checks the request shape.
func (r PersistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResourceKey, validation.Required),
		validation.Field(&r.ResourceID, validation.Required),
		validation.Field(&r.Locale, validation.Required),
	)
}

// PublishRequest copies the draft dimensions of a locale to live.
type PublishRequest struct {
	ResourceKey string
	ResourceID  string
	Locale      string
	ActorID     string
}

// Validate checks the request shape.
func (r PublishRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResourceKey, validation.Required),
		validation.Field(&r.ResourceID, validation.Required),
		validation.Field(&r.Locale, validation.Required),
	)
}

// ResolveRequest selects the dimension to resolve. An empty stage resolves
// the draft.
type ResolveRequest struct {
	ResourceKey string
	ResourceID  string
	Locale      string
	Stage       dimension.Stage
}

// Validate checks the request shape.
func (r ResolveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResourceKey, validation.Required),
		validation.Field(&r.ResourceID, validation.Required),
		validation.Field(&r.Stage, validation.By(func(value any) error {
			stage, _ := value.(dimension.Stage)
			if stage != "" && !stage.Valid() {
				return validation.NewError("validation_stage_invalid", "must be draft or live")
			}
			return nil
		})),
	)
}

// Resolved is a merged dimension and its content views.
type Resolved struct {
	Content *dimension.DimensionContent
	Views   map[string]*resolvers.ContentView
}

// Service maps input onto content dimensions and resolves them back.
type Service struct {
	store     Store
	mapper    mappers.DataMapper
	resolvers *resolvers.Registry
	types     map[string]ContentType
	activity  activity.Hook
	routes    RouteCleaner
	logger    interfaces.Logger
	now       func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp dimensions.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithContentType registers the capabilities of a resource.
func WithContentType(contentType ContentType) ServiceOption {
	return func(s *Service) {
		key := strings.TrimSpace(contentType.ResourceKey)
		if key == "" {
			return
		}
		contentType.ResourceKey = key
		contentType.Capabilities = slices.Clone(contentType.Capabilities)
		s.types[key] = contentType
	}
}

// WithResolvers sets the resolvers used by Resolve.
func WithResolvers(registry *resolvers.Registry) ServiceOption {
	return func(s *Service) {
		if registry != nil {
			s.resolvers = registry
		}
	}
}

// WithActivity sets the hook notified after content is saved. Hook failures
// are logged and never fail the operation.
func WithActivity(hook activity.Hook) ServiceOption {
	return func(s *Service) {
		s.activity = hook
	}
}

// RouteCleaner finds and removes the current route of a resource.
type RouteCleaner interface {
	FindByResource(ctx context.Context, resourceKey, resourceID, locale string) (*routes.Route, error)
	Remove(ctx context.Context, resourceKey, resourceID, locale string) error
}

// WithRouteCleanup removes a route created while mapping when the entity
// cannot be saved. Updated routes are kept.
func WithRouteCleanup(cleaner RouteCleaner) ServiceOption {
	return func(s *Service) {
		s.routes = cleaner
	}
}

// NewService constructs the persister service.
func NewService(store Store, mapper mappers.DataMapper, opts ...ServiceOption) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Service{
		store:     store,
		mapper:    mapper,
		resolvers: resolvers.NewRegistry(),
		types:     make(map[string]ContentType),
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ContentTypes lists the registered resource keys, sorted.
func (s *Service) ContentTypes() []string {
	out := make([]string, 0, len(s.types))
	for key := range s.types {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// Persist maps the data onto the draft dimensions of the locale, creating
// missing dimensions, and returns the merged draft. Nothing is stored when
// mapping fails.
func (s *Service) Persist(ctx context.Context, req PersistRequest) (*dimension.DimensionContent, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapRequestError(err)
	}
	contentType, ok := s.types[req.ResourceKey]
	if !ok {
		return nil, wrapRequestError(ErrContentTypeUnknown)
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"resource_key": req.ResourceKey,
		"resource_id":  req.ResourceID,
		"locale":       req.Locale,
	})

	entity, err := s.loadOrCreate(ctx, req.ResourceKey, req.ResourceID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	verb := activity.VerbUpdate
	if entity.Dimensions.Localized(req.Locale, dimension.StageDraft) == nil {
		verb = activity.VerbCreate
	}
	unlocalized := s.dimension(entity, contentType, dimension.UnlocalizedAttributes(dimension.StageDraft), now)
	localized := s.dimension(entity, contentType, dimension.LocaleAttributes(req.Locale, dimension.StageDraft), now)
	routed, err := s.hasRoute(ctx, req.ResourceKey, req.ResourceID, req.Locale)
	if err != nil {
		return nil, err
	}

	if s.mapper != nil {
		if err := s.mapper.Map(ctx, unlocalized, localized, req.Data); err != nil {
			logger.Warn("persister.persist.failed", "error", err)
			return nil, wrapMappingError(err)
		}
	}

	if !slices.Contains(unlocalized.AvailableLocales, req.Locale) {
		unlocalized.AvailableLocales = append(unlocalized.AvailableLocales, req.Locale)
		slices.Sort(unlocalized.AvailableLocales)
	}
	unlocalized.UpdatedAt = now
	localized.UpdatedAt = now
	entity.Dimensions.Add(unlocalized)
	entity.Dimensions.Add(localized)
	entity.UpdatedAt = now

	if err := s.store.Save(ctx, entity); err != nil {
		if !routed {
			s.removeRoute(ctx, logger, req.ResourceKey, req.ResourceID, req.Locale)
		}
		return nil, err
	}
	logger.Info("persister.persist.saved", "available_locales", unlocalized.AvailableLocales)
	s.notify(ctx, verb, req.ResourceKey, req.ResourceID, req.Locale, req.ActorID, now)
	return dimension.Merge(unlocalized, localized), nil
}

// Publish copies the draft dimensions of the locale to live and returns the
// merged live dimension.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (*dimension.DimensionContent, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapRequestError(err)
	}
	entity, err := s.store.Get(ctx, req.ResourceKey, req.ResourceID)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			return nil, wrapNotFound(err)
		}
		return nil, err
	}
	draftUnlocalized := entity.Dimensions.Unlocalized(dimension.StageDraft)
	draftLocalized := entity.Dimensions.Localized(req.Locale, dimension.StageDraft)
	if draftUnlocalized == nil || draftLocalized == nil {
		return nil, wrapNotFound(errors.New("persister: no draft for locale " + req.Locale))
	}

	now := s.now().UTC()
	liveUnlocalized := publishCopy(draftUnlocalized, entity.Dimensions.Unlocalized(dimension.StageLive), now)
	liveLocalized := publishCopy(draftLocalized, entity.Dimensions.Localized(req.Locale, dimension.StageLive), now)
	entity.Dimensions.Add(liveUnlocalized)
	entity.Dimensions.Add(liveLocalized)
	entity.UpdatedAt = now

	if err := s.store.Save(ctx, entity); err != nil {
		return nil, err
	}
	s.logger.Info("persister.publish.saved",
		"resource_key", req.ResourceKey,
		"resource_id", req.ResourceID,
		"locale", req.Locale,
	)
	s.notify(ctx, activity.VerbPublish, req.ResourceKey, req.ResourceID, req.Locale, req.ActorID, now)
	return dimension.Merge(liveUnlocalized, liveLocalized), nil
}

// Resolve merges the requested dimension and runs every applicable resolver.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*Resolved, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapRequestError(err)
	}
	stage := req.Stage
	if stage == "" {
		stage = dimension.StageDraft
	}
	entity, err := s.store.Get(ctx, req.ResourceKey, req.ResourceID)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			return nil, wrapNotFound(err)
		}
		return nil, err
	}
	merged, err := entity.Dimensions.Merge(req.Locale, stage)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	views, err := s.resolvers.ResolveAll(ctx, merged)
	if err != nil {
		return nil, wrapMappingError(err)
	}
	return &Resolved{Content: merged, Views: views}, nil
}

func (s *Service) notify(ctx context.Context, verb, resourceKey, resourceID, locale, actorID string, at time.Time) {
	if s.activity == nil {
		return
	}
	err := s.activity.Notify(ctx, activity.Event{
		Verb:           verb,
		ActorID:        actorID,
		ObjectType:     resourceKey,
		ObjectID:       resourceID,
		Channel:        activity.Channel,
		DefinitionCode: resourceKey + ":" + verb,
		Metadata:       map[string]any{"locale": locale},
		OccurredAt:     at,
	})
	if err != nil {
		s.logger.Warn("persister.activity.failed", "verb", verb, "resource_id", resourceID, "error", err)
	}
}

func (s *Service) loadOrCreate(ctx context.Context, resourceKey, resourceID string) (*Entity, error) {
	entity, err := s.store.Get(ctx, resourceKey, resourceID)
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, ErrEntityNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	return &Entity{
		ResourceKey: resourceKey,
		ResourceID:  resourceID,
		Dimensions:  dimension.NewCollection(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Service) dimension(entity *Entity, contentType ContentType, attrs dimension.Attributes, now time.Time) *dimension.DimensionContent {
	if existing := entity.Dimensions.Find(attrs); existing != nil {
		return existing
	}
	created := dimension.New(entity.ResourceKey, entity.ResourceID, attrs, contentType.Capabilities...)
	created.CreatedAt = now
	created.UpdatedAt = now
	return created
}

func publishCopy(draft, live *dimension.DimensionContent, now time.Time) *dimension.DimensionContent {
	published := draft.Clone()
	published.Stage = dimension.StageLive
	published.CreatedAt = now
	if live != nil {
		published.CreatedAt = live.CreatedAt
	}
	published.UpdatedAt = now
	return published
}

func (s *Service) hasRoute(ctx context.Context, resourceKey, resourceID, locale string) (bool, error) {
	if s.routes == nil {
		return false, nil
	}
	route, err := s.routes.FindByResource(ctx, resourceKey, resourceID, locale)
	if err != nil {
		return false, err
	}
	return route != nil, nil
}

func (s *Service) removeRoute(ctx context.Context, logger interfaces.Logger, resourceKey, resourceID, locale string) {
	if s.routes == nil {
		return
	}
	if err := s.routes.Remove(ctx, resourceKey, resourceID, locale); err != nil {
		logger.Error("persister.route.cleanup_failed", "error", err)
	}
}
