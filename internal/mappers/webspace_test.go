package mappers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/mappers"
)

func webspaceRecord() *dimension.DimensionContent {
	return dimension.New("articles", "1", dimension.LocaleAttributes("en", dimension.StageDraft), dimension.CapabilityWebspace)
}

func TestWebspaceMapperUsesInput(t *testing.T) {
	localized := webspaceRecord()
	err := mappers.NewWebspaceMapper("main").Map(context.Background(), nil, localized, dimension.Data{
		"mainWebspace":        "blog",
		"additionalWebspaces": []any{"main", "shop"},
	})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if *localized.Webspace.MainWebspace != "blog" {
		t.Fatalf("expected blog, got %s", *localized.Webspace.MainWebspace)
	}
	if len(localized.Webspace.AdditionalWebspaces) != 2 {
		t.Fatalf("expected two additional webspaces, got %v", localized.Webspace.AdditionalWebspaces)
	}
}

func TestWebspaceMapperDefaultsWhenUnset(t *testing.T) {
	localized := webspaceRecord()
	if err := mappers.NewWebspaceMapper("main").Map(context.Background(), nil, localized, dimension.Data{}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Webspace.MainWebspace == nil || *localized.Webspace.MainWebspace != "main" {
		t.Fatalf("expected default webspace, got %v", localized.Webspace.MainWebspace)
	}

	existing := "blog"
	localized.Webspace.MainWebspace = &existing
	if err := mappers.NewWebspaceMapper("main").Map(context.Background(), nil, localized, dimension.Data{}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if *localized.Webspace.MainWebspace != "blog" {
		t.Fatalf("expected existing webspace preserved, got %s", *localized.Webspace.MainWebspace)
	}
}

func TestWebspaceMapperWithoutDefaultKeepsNull(t *testing.T) {
	localized := webspaceRecord()
	if err := mappers.NewWebspaceMapper("").Map(context.Background(), nil, localized, dimension.Data{"mainWebspace": nil}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Webspace.MainWebspace != nil {
		t.Fatalf("expected nil main webspace, got %v", *localized.Webspace.MainWebspace)
	}
}

func TestWebspaceMapperRejectsMistypedValue(t *testing.T) {
	err := mappers.NewWebspaceMapper("main").Map(context.Background(), nil, webspaceRecord(), dimension.Data{"mainWebspace": true})
	if !errors.Is(err, dimension.ErrFieldType) {
		t.Fatalf("expected ErrFieldType, got %v", err)
	}
}
