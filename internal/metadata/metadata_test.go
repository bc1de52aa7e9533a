package metadata_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/google/go-cmp/cmp"
)

const articlesDocument = `
structures:
  - resource: articles
    key: default
    title: Default
    properties:
      - name: title
        type: text_line
        required: true
      - name: url
        type: route
      - name: rating
        type: number
        unlocalized: true
    schema:
      type: object
      required: [title]
      properties:
        title:
          type: string
          minLength: 1
        rating:
          type: integer
          maximum: 5
forms:
  - key: article_sidebar
    items:
      - name: teaser
        type: markdown
`

func loadRegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	registry := metadata.NewRegistry()
	fsys := fstest.MapFS{
		"b_articles.yaml": {Data: []byte(articlesDocument)},
		"a_empty.yaml":    {Data: []byte("")},
		"ignored.txt":     {Data: []byte("not yaml")},
	}
	if err := registry.LoadFS(fsys, "*.yaml"); err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	return registry
}

func TestRegistry_LoadFS(t *testing.T) {
	registry := loadRegistry(t)
	ctx := context.Background()

	structure, err := registry.GetStructure(ctx, "articles", "default")
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
	if diff := cmp.Diff([]string{"title", "url", "rating"}, structure.PropertyNames()); diff != "" {
		t.Fatalf("property names mismatch (-want +got):\n%s", diff)
	}
	route, ok := structure.PropertyByType(metadata.PropertyTypeRoute)
	if !ok || route.Name != "url" {
		t.Fatalf("expected url route property, got %+v", route)
	}
	rating, _ := structure.Property("rating")
	if !rating.Unlocalized {
		t.Fatalf("expected rating to be unlocalized")
	}

	form, err := registry.GetForm(ctx, "article_sidebar", "en")
	if err != nil {
		t.Fatalf("GetForm() error = %v", err)
	}
	if item, ok := form.Item("teaser"); !ok || item.Type != metadata.TypeMarkdown {
		t.Fatalf("unexpected form item: %+v", item)
	}
	if _, err := registry.GetForm(ctx, metadata.FormSeo, "en"); err != nil {
		t.Fatalf("expected built-in seo form, got %v", err)
	}
	if got := registry.Structures("articles"); len(got) != 1 {
		t.Fatalf("expected one articles structure, got %d", len(got))
	}
}

func TestRegistry_LookupErrors(t *testing.T) {
	registry := metadata.NewRegistry()
	ctx := context.Background()

	if _, err := registry.GetStructure(ctx, "articles", "missing"); !errors.Is(err, metadata.ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound, got %v", err)
	}
	if _, err := registry.GetForm(ctx, "missing", ""); !errors.Is(err, metadata.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	err := registry.RegisterStructure(metadata.Structure{
		ResourceKey: "articles",
		Key:         "dup",
		Properties:  []metadata.Property{{Name: "title"}, {Name: "title"}},
	})
	if !errors.Is(err, metadata.ErrStructureInvalid) {
		t.Fatalf("expected ErrStructureInvalid, got %v", err)
	}
}

func TestRegistry_LoadRejectsUnknownFields(t *testing.T) {
	registry := metadata.NewRegistry()
	err := registry.Load(strings.NewReader("structures:\n  - resource: articles\n    key: default\n    colour: red\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestValidateTemplateData(t *testing.T) {
	registry := loadRegistry(t)
	structure, err := registry.GetStructure(context.Background(), "articles", "default")
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}

	if err := metadata.ValidateTemplateData(structure, map[string]any{"title": "Hello", "rating": 4}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err = metadata.ValidateTemplateData(structure, map[string]any{"title": "", "rating": 7})
	var dataErr *metadata.TemplateDataError
	if !errors.As(err, &dataErr) || !errors.Is(err, metadata.ErrTemplateDataInvalid) {
		t.Fatalf("expected TemplateDataError, got %v", err)
	}
	if len(dataErr.Issues) < 2 {
		t.Fatalf("expected an issue per failing property, got %+v", dataErr.Issues)
	}
	if dataErr.Structure != "articles/default" {
		t.Fatalf("unexpected structure name %q", dataErr.Structure)
	}

	if err := metadata.ValidateTemplateData(&metadata.Structure{}, map[string]any{"anything": 1}); err != nil {
		t.Fatalf("expected schemaless structure to accept payload, got %v", err)
	}
}

func TestRegistry_CompilesSchemaOnRegistration(t *testing.T) {
	registry := metadata.NewRegistry()
	err := registry.RegisterStructure(metadata.Structure{
		ResourceKey: "articles",
		Key:         "broken",
		Properties:  []metadata.Property{{Name: "title"}},
		Schema:      map[string]any{"type": 42},
	})
	if !errors.Is(err, metadata.ErrStructureInvalid) {
		t.Fatalf("expected ErrStructureInvalid for an invalid schema, got %v", err)
	}

	registry = loadRegistry(t)
	ctx := context.Background()
	first, err := registry.GetStructure(ctx, "articles", "default")
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
	second, err := registry.GetStructure(ctx, "articles", "default")
	if err != nil {
		t.Fatalf("GetStructure() error = %v", err)
	}
	if first.CompiledSchema() == nil || first.CompiledSchema() != second.CompiledSchema() {
		t.Fatalf("expected the schema compiled once and shared")
	}
	if err := metadata.ValidateTemplateData(first, map[string]any{"title": "", "rating": 7}); !errors.Is(err, metadata.ErrTemplateDataInvalid) {
		t.Fatalf("expected compiled schema to reject payload, got %v", err)
	}
}

func TestResolver_ResolvesBuiltinTypes(t *testing.T) {
	form := &metadata.Form{
		Key: "sample",
		Items: []metadata.FormItem{
			{Name: "body", Type: metadata.TypeMarkdown},
			{Name: "published", Type: metadata.TypeDate},
			{Name: "author", Type: metadata.TypeContact},
			{Name: "tags", Type: metadata.TypeTagSelection},
			{Name: "hidden", Type: metadata.TypeCheckbox},
			{Name: "plain", Type: metadata.TypeTextLine},
		},
	}
	published := time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
	data := map[string]any{
		"body":      "Hello <script>alert(1)</script>*world*",
		"published": &published,
		"author":    &dimension.Contact{ID: 3, FirstName: "Ada"},
		"plain":     "as is",
	}

	resolved, err := metadata.NewResolver().Resolve(context.Background(), form, data, "en")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	body, _ := resolved.Content["body"].(string)
	if strings.Contains(body, "<script>") || !strings.Contains(body, "<em>world</em>") {
		t.Fatalf("expected sanitized markdown, got %q", body)
	}
	if resolved.View["body"].(map[string]any)["markdown"] != data["body"] {
		t.Fatalf("expected markdown source in view")
	}
	if resolved.Content["published"] != "2022-03-04" {
		t.Fatalf("unexpected date content: %v", resolved.Content["published"])
	}
	if resolved.View["author"].(map[string]any)["name"] != "Ada" {
		t.Fatalf("unexpected author view: %v", resolved.View["author"])
	}
	if tags, ok := resolved.Content["tags"].([]*dimension.Tag); !ok || tags == nil || len(tags) != 0 {
		t.Fatalf("expected empty tag list, got %#v", resolved.Content["tags"])
	}
	if resolved.Content["hidden"] != false || resolved.Content["plain"] != "as is" {
		t.Fatalf("unexpected passthrough values: %v", resolved.Content)
	}
}

func TestResolver_OverridesPropertyType(t *testing.T) {
	upper := metadata.PropertyResolverFunc(func(_ context.Context, value any, _ string, _ metadata.FormItem) (metadata.ResolvedValue, error) {
		text, _ := value.(string)
		return metadata.ResolvedValue{Content: strings.ToUpper(text)}, nil
	})
	resolver := metadata.NewResolver(metadata.WithPropertyResolver(metadata.TypeTextLine, upper))
	form := &metadata.Form{Key: "sample", Items: []metadata.FormItem{{Name: "title", Type: metadata.TypeTextLine}}}

	resolved, err := resolver.Resolve(context.Background(), form, map[string]any{"title": "quiet"}, "en")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Content["title"] != "QUIET" {
		t.Fatalf("expected override to apply, got %v", resolved.Content["title"])
	}
	if view, ok := resolved.View["title"].(map[string]any); !ok || view == nil {
		t.Fatalf("expected empty view map, got %#v", resolved.View["title"])
	}

	if _, err := resolver.Resolve(context.Background(), nil, nil, "en"); !errors.Is(err, metadata.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound for nil form, got %v", err)
	}
}
