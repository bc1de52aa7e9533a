package cms_test

import (
	"context"
	"errors"
	"testing"

	cms "github.com/goliatone/go-cms-content"
	"github.com/goliatone/go-cms-content/pkg/activity/usersink"
	"github.com/goliatone/go-cms-content/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
	usertypes "github.com/goliatone/go-users/pkg/types"
)

func newModule(t *testing.T) *cms.Module {
	t.Helper()
	structures := cms.NewStructures()
	if err := structures.RegisterStructure(testsupport.ArticleStructure()); err != nil {
		t.Fatalf("register structure: %v", err)
	}

	cfg := cms.DefaultConfig()
	cfg.ContentTypes = []cms.ContentTypeConfig{{
		ResourceKey:     "articles",
		Capabilities:    []string{"template", "seo", "webspace", "routable"},
		DefaultTemplate: "default",
	}}
	module, err := cms.New(cfg, cms.WithStructures(structures))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Storage.Driver = "mongo"

	if _, err := cms.New(cfg); !errors.Is(err, cms.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestModule_PersistPublishResolve(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	draft, err := module.Persist(ctx, "articles", "1", "en", cms.Data{
		"title":    "Hello",
		"url":      "/hello",
		"seoTitle": "Hello SEO",
	})
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if draft.Stage != cms.StageDraft || draft.LocaleCode() != "en" {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	if _, err := module.Resolve(ctx, "articles", "1", "en", cms.StageLive); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected live content to be missing before publish, got %v", err)
	}

	if _, err := module.Publish(ctx, "articles", "1", "en"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	resolved, err := module.Resolve(ctx, "articles", "1", "en", cms.StageLive)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := resolved.Views["seo"].Content["seoTitle"]; got != "Hello SEO" {
		t.Fatalf("expected seo title, got %v", got)
	}
	if got := resolved.Views["template"].Content["url"]; got != "/hello" {
		t.Fatalf("expected route in template view, got %v", got)
	}
}

func TestModule_ContentTypes(t *testing.T) {
	module := newModule(t)
	if types := module.ContentTypes(); len(types) != 1 || types[0] != "articles" {
		t.Fatalf("unexpected content types: %v", types)
	}
}

func TestModule_PersistUnknownContentType(t *testing.T) {
	module := newModule(t)

	_, err := module.Persist(context.Background(), "snippets", "1", "en", cms.Data{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

type recordingSink struct {
	records []usertypes.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestModule_ForwardsActivityToUserSink(t *testing.T) {
	sink := &recordingSink{}
	cfg := cms.DefaultConfig()
	cfg.ContentTypes = []cms.ContentTypeConfig{{ResourceKey: "snippets", Capabilities: []string{"seo"}}}
	module, err := cms.New(cfg, cms.WithActivityHook(usersink.Hook{Sink: sink}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if _, err := module.Persist(context.Background(), "snippets", "s-1", "en", cms.Data{"seoTitle": "Snippet"}); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected one activity record, got %d", len(sink.records))
	}
	if record := sink.records[0]; record.Verb != "create" || record.ObjectType != "snippets" || record.ObjectID != "s-1" {
		t.Fatalf("unexpected record: %+v", record)
	}
}
