package webspaces

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-content/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

const rootRoute = "root"

// URLResolver resolves the absolute URL of a content path.
type URLResolver = interfaces.URLResolver

var _ URLResolver = (*URLKitResolver)(nil)

// URLKitResolver builds webspace URLs from a go-urlkit route manager with
// one group per webspace and one child group per prefixed locale.
type URLKitResolver struct {
	webspaces *Collection
	manager   *urlkit.RouteManager

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// RouteConfig derives the go-urlkit configuration of the webspaces.
func RouteConfig(webspaces *Collection) *urlkit.Config {
	cfg := &urlkit.Config{}
	for _, webspace := range webspaces.All() {
		group := urlkit.GroupConfig{
			Name:    webspace.Key,
			BaseURL: strings.TrimRight(webspace.BaseURL, "/"),
			Paths:   map[string]string{rootRoute: "/"},
		}
		if webspace.LocalePrefix {
			for _, locale := range webspace.Locales() {
				group.Groups = append(group.Groups, urlkit.GroupConfig{
					Name:  locale,
					Path:  "/" + locale,
					Paths: map[string]string{rootRoute: "/"},
				})
			}
		}
		cfg.Groups = append(cfg.Groups, group)
	}
	return cfg
}

// NewURLKitResolver constructs a resolver. A nil manager is derived from the
// webspace collection.
func NewURLKitResolver(webspaces *Collection, manager *urlkit.RouteManager) *URLKitResolver {
	if manager == nil && webspaces != nil {
		manager = urlkit.NewRouteManager(RouteConfig(webspaces))
	}
	return &URLKitResolver{
		webspaces:  webspaces,
		manager:    manager,
		groupCache: make(map[string]*urlkit.Group),
	}
}

// FindURL returns the URL of the path in the webspace and locale. An empty
// string is returned when the webspace does not serve the locale.
func (r *URLKitResolver) FindURL(_ context.Context, path, locale, webspaceKey string) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}
	webspace, err := r.webspaces.Get(webspaceKey)
	if err != nil {
		return "", err
	}
	served := false
	for _, candidate := range webspace.Locales() {
		if candidate == locale {
			served = true
			break
		}
	}
	if !served {
		return "", nil
	}

	groupPath := webspace.Key
	if webspace.LocalePrefix {
		groupPath += "." + locale
	}
	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}
	base, err := build(group)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path, nil
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func build(group *urlkit.Group) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webspaces: urlkit builder panic: %v", rec)
		}
	}()
	return group.Builder(rootRoute).Build()
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webspaces: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webspaces: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
