package interfaces

import "context"

// URLResolver resolves the absolute URL of a content path in a webspace and
// locale. An empty URL means the webspace does not serve the locale.
type URLResolver interface {
	FindURL(ctx context.Context, path, locale, webspaceKey string) (string, error)
}

// LocalizationProvider enumerates every locale known to the installation.
type LocalizationProvider interface {
	Localizations() []string
}
