package routes

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// Generator builds route paths from content titles.
type Generator struct {
	normalizer slug.Normalizer
	prefix     string
}

// NewGenerator constructs a generator. The prefix is prepended to every
// generated path (e.g. "/blog").
func NewGenerator(prefix string) *Generator {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &Generator{normalizer: slug.Default(), prefix: prefix}
}

// Generate returns "/<prefix>/<slug>" for the title. An empty or
// unsluggable title yields the bare prefix, which is "/" without prefix.
func (g *Generator) Generate(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return g.prefix + "/", nil
	}
	normalized, err := g.normalizer.Normalize(trimmed)
	if err != nil {
		return "", err
	}
	normalized = strings.Trim(normalized, "/")
	if normalized == "" {
		return g.prefix + "/", nil
	}
	return g.prefix + "/" + normalized, nil
}
