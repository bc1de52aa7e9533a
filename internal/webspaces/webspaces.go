package webspaces

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrWebspaceKeyRequired = errors.New("webspaces: webspace key is required")
	ErrWebspaceDuplicate   = errors.New("webspaces: duplicate webspace key")
	ErrWebspaceNotFound    = errors.New("webspaces: webspace not found")
)

// Localization is a locale served by a webspace.
type Localization struct {
	Locale  string
	Default bool
}

// Webspace is a named content domain.
type Webspace struct {
	Key           string
	Name          string
	BaseURL       string
	Localizations []Localization
	// LocalePrefix serves each locale under "/<locale>" when true.
	LocalePrefix bool
}

// Locales returns the webspace locales in declaration order.
func (w Webspace) Locales() []string {
	out := make([]string, 0, len(w.Localizations))
	for _, localization := range w.Localizations {
		out = append(out, localization.Locale)
	}
	return out
}

// DefaultLocale returns the flagged default locale or the first one.
func (w Webspace) DefaultLocale() string {
	for _, localization := range w.Localizations {
		if localization.Default {
			return localization.Locale
		}
	}
	if len(w.Localizations) > 0 {
		return w.Localizations[0].Locale
	}
	return ""
}

// Collection is the ordered, immutable set of configured webspaces. The
// default webspace key is fixed at construction.
type Collection struct {
	webspaces  []Webspace
	index      map[string]int
	defaultKey string
}

// NewCollection validates and indexes the webspaces.
func NewCollection(webspaces ...Webspace) (*Collection, error) {
	c := &Collection{index: make(map[string]int, len(webspaces))}
	for _, webspace := range webspaces {
		key := strings.TrimSpace(webspace.Key)
		if key == "" {
			return nil, ErrWebspaceKeyRequired
		}
		if _, ok := c.index[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrWebspaceDuplicate, key)
		}
		webspace.Key = key
		webspace.Localizations = slices.Clone(webspace.Localizations)
		c.index[key] = len(c.webspaces)
		c.webspaces = append(c.webspaces, webspace)
	}
	if len(c.webspaces) > 0 {
		c.defaultKey = c.webspaces[0].Key
	}
	return c, nil
}

// DefaultKey returns the key of the first configured webspace, or an empty
// string when none is configured.
func (c *Collection) DefaultKey() string {
	if c == nil {
		return ""
	}
	return c.defaultKey
}

// Keys returns the webspace keys in declaration order.
func (c *Collection) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.webspaces))
	for _, webspace := range c.webspaces {
		out = append(out, webspace.Key)
	}
	return out
}

// Get returns the webspace with the key.
func (c *Collection) Get(key string) (Webspace, error) {
	if c != nil {
		if i, ok := c.index[strings.TrimSpace(key)]; ok {
			return c.webspaces[i], nil
		}
	}
	return Webspace{}, fmt.Errorf("%w: %s", ErrWebspaceNotFound, key)
}

// Has reports whether the key is configured.
func (c *Collection) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[strings.TrimSpace(key)]
	return ok
}

// All returns a copy of the webspaces.
func (c *Collection) All() []Webspace {
	if c == nil {
		return nil
	}
	return slices.Clone(c.webspaces)
}

// Localizations returns every locale served by any webspace, first
// occurrence order.
func (c *Collection) Localizations() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, webspace := range c.webspaces {
		for _, localization := range webspace.Localizations {
			if !slices.Contains(out, localization.Locale) {
				out = append(out, localization.Locale)
			}
		}
	}
	return out
}
