package resolvers

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/internal/webspaces"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// LocalizationProvider enumerates every locale known to the installation.
type LocalizationProvider = interfaces.LocalizationProvider

// RouteFinder looks up the current route of a resource in a locale.
type RouteFinder interface {
	FindByResource(ctx context.Context, resourceKey, resourceID, locale string) (*routes.Route, error)
}

// Localization is the URL of the content in one locale. Alternate is true
// when the content has its own route in that locale.
type Localization struct {
	Locale    string `json:"locale"`
	URL       string `json:"url"`
	Alternate bool   `json:"alternate"`
}

// SettingsResolver resolves template, webspace, author and localization
// settings through the content_settings form.
type SettingsResolver struct {
	formResolver
	localizations   LocalizationProvider
	urls            webspaces.URLResolver
	routes          RouteFinder
	defaultWebspace string
}

// SettingsOption configures the settings resolver.
type SettingsOption func(*SettingsResolver)

// WithRouteFinder sets the route lookup used for localization URLs.
func WithRouteFinder(finder RouteFinder) SettingsOption {
	return func(r *SettingsResolver) {
		r.routes = finder
	}
}

// WithDefaultWebspace sets the webspace used when the content has none.
func WithDefaultWebspace(key string) SettingsOption {
	return func(r *SettingsResolver) {
		r.defaultWebspace = strings.TrimSpace(key)
	}
}

// NewSettingsResolver constructs a settings resolver.
func NewSettingsResolver(forms metadata.FormProvider, values metadata.ValueResolver, localizations LocalizationProvider, urls webspaces.URLResolver, logger interfaces.Logger, opts ...SettingsOption) *SettingsResolver {
	r := &SettingsResolver{
		formResolver:  newFormResolver(forms, values, logger),
		localizations: localizations,
		urls:          urls,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *SettingsResolver) Name() string { return "settings" }

func (r *SettingsResolver) Capability() dimension.Capability { return dimension.CapabilityWebspace }

// Resolve satisfies Resolver.
func (r *SettingsResolver) Resolve(ctx context.Context, content *dimension.DimensionContent) (*ContentView, error) {
	if err := requireCapability(content, dimension.CapabilityWebspace, "SettingsResolver"); err != nil {
		return nil, err
	}

	webspaceKey := r.defaultWebspace
	if content.Webspace.MainWebspace != nil && *content.Webspace.MainWebspace != "" {
		webspaceKey = *content.Webspace.MainWebspace
	}

	data := map[string]any{
		"mainWebspace":        webspaceKey,
		"additionalWebspaces": append([]string{}, content.Webspace.AdditionalWebspaces...),
		"availableLocales":    append([]string{}, content.AvailableLocales...),
	}
	if content.Template != nil {
		data["template"] = content.Template.Key
	}
	if content.Author != nil {
		data["author"] = content.Author.Author
		data["authored"] = content.Author.Authored
		data["lastModified"] = content.Author.LastModified
	}

	localizations, err := r.resolveLocalizations(ctx, content, webspaceKey)
	if err != nil {
		return nil, err
	}
	data["localizations"] = localizations

	return r.resolveForm(ctx, metadata.FormSettings, data, content.LocaleCode())
}

func (r *SettingsResolver) resolveLocalizations(ctx context.Context, content *dimension.DimensionContent, webspaceKey string) (map[string]Localization, error) {
	out := map[string]Localization{}
	if r.localizations == nil || r.urls == nil || webspaceKey == "" {
		return out, nil
	}
	logger := logging.WithFields(r.logger, map[string]any{
		"resource_key": content.ResourceKey,
		"resource_id":  content.ResourceID,
		"webspace":     webspaceKey,
	})

	for _, locale := range r.localizations.Localizations() {
		path := "/"
		alternate := false
		if route, err := r.findRoute(ctx, content, locale); err != nil {
			return nil, err
		} else if route != nil {
			path = route.Path
			alternate = true
		}
		url, err := r.urls.FindURL(ctx, path, locale, webspaceKey)
		if err != nil {
			return nil, err
		}
		if url == "" {
			logger.Debug("resolver.localization.unserved", "locale", locale)
		}
		out[locale] = Localization{Locale: locale, URL: url, Alternate: alternate && url != ""}
	}
	return out, nil
}

func (r *SettingsResolver) findRoute(ctx context.Context, content *dimension.DimensionContent, locale string) (*routes.Route, error) {
	if content.Routable == nil {
		return nil, nil
	}
	if r.routes == nil {
		if locale != content.LocaleCode() {
			return nil, nil
		}
		value, ok := content.TemplateValue(routeProperty(content))
		if path, isString := value.(string); ok && isString && path != "" {
			return &routes.Route{ResourceKey: content.ResourceKey, ResourceID: content.ResourceID, Locale: locale, Path: path}, nil
		}
		return nil, nil
	}
	return r.routes.FindByResource(ctx, content.ResourceKey, content.ResourceID, locale)
}

func routeProperty(content *dimension.DimensionContent) string {
	if content.Routable != nil && content.Routable.RouteProperty != "" {
		return content.Routable.RouteProperty
	}
	return "url"
}
