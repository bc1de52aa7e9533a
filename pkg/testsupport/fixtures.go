package testsupport

import (
	"testing"

	"github.com/goliatone/go-cms-content/internal/metadata"
)

// ArticleStructure is the "articles/default" template used across tests: a
// title and a route property named url.
func ArticleStructure() metadata.Structure {
	return metadata.Structure{
		ResourceKey: "articles",
		Key:         "default",
		Properties: []metadata.Property{
			{Name: "title", Type: metadata.TypeTextLine},
			{Name: "url", Type: metadata.PropertyTypeRoute},
		},
	}
}

// ArticleStructures returns a registry holding ArticleStructure.
func ArticleStructures(t testing.TB) *metadata.Registry {
	t.Helper()
	registry := metadata.NewRegistry()
	if err := registry.RegisterStructure(ArticleStructure()); err != nil {
		t.Fatalf("register structure: %v", err)
	}
	return registry
}
