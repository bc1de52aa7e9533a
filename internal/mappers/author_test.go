package mappers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-content/internal/contacts"
	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/mappers"
)

type stubContacts struct {
	calls []int
}

func (s *stubContacts) Create(_ context.Context, id int) (*dimension.Contact, error) {
	s.calls = append(s.calls, id)
	return &dimension.Contact{ID: id, FirstName: "Max", LastName: "Mustermann"}, nil
}

func authorRecord() *dimension.DimensionContent {
	return dimension.New("articles", "1", dimension.LocaleAttributes("en", dimension.StageDraft), dimension.CapabilityAuthor)
}

func TestAuthorMapperSetsContactAndDates(t *testing.T) {
	factory := &stubContacts{}
	mapper := mappers.NewAuthorMapper(factory)
	localized := authorRecord()

	err := mapper.Map(context.Background(), nil, localized, dimension.Data{
		"author":       1,
		"authored":     "2020-05-08T00:00:00+00:00",
		"lastModified": "2022-01-05",
	})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Author.Author == nil || localized.Author.Author.ID != 1 {
		t.Fatalf("expected contact 1, got %+v", localized.Author.Author)
	}
	want := time.Date(2020, 5, 8, 0, 0, 0, 0, time.UTC)
	if localized.Author.Authored == nil || !localized.Author.Authored.Equal(want) {
		t.Fatalf("expected authored %v, got %v", want, localized.Author.Authored)
	}
	if localized.Author.LastModified != nil {
		t.Fatalf("expected lastModified ignored without lastModifiedEnabled, got %v", localized.Author.LastModified)
	}
}

func TestAuthorMapperNullClearsFields(t *testing.T) {
	factory := &stubContacts{}
	mapper := mappers.NewAuthorMapper(factory)
	localized := authorRecord()
	now := time.Now()
	localized.Author.Author = &dimension.Contact{ID: 3}
	localized.Author.Authored = &now

	err := mapper.Map(context.Background(), nil, localized, dimension.Data{
		"author":   nil,
		"authored": nil,
	})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Author.Author != nil || localized.Author.Authored != nil {
		t.Fatalf("expected null to clear author fields, got %+v", localized.Author)
	}
	if len(factory.calls) != 0 {
		t.Fatalf("expected no factory calls, got %v", factory.calls)
	}
}

func TestAuthorMapperAbsentKeysPreserveValues(t *testing.T) {
	mapper := mappers.NewAuthorMapper(&stubContacts{})
	localized := authorRecord()
	now := time.Now()
	localized.Author.Author = &dimension.Contact{ID: 3}
	localized.Author.Authored = &now

	if err := mapper.Map(context.Background(), nil, localized, dimension.Data{}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Author.Author == nil || localized.Author.Author.ID != 3 || localized.Author.Authored == nil {
		t.Fatalf("expected values preserved, got %+v", localized.Author)
	}
}

func TestAuthorMapperLastModifiedToggle(t *testing.T) {
	mapper := mappers.NewAuthorMapper(&stubContacts{})
	localized := authorRecord()

	if err := mapper.Map(context.Background(), nil, localized, dimension.Data{
		"lastModified":        "2022-01-05",
		"lastModifiedEnabled": true,
	}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Author.LastModified == nil {
		t.Fatalf("expected lastModified set")
	}

	if err := mapper.Map(context.Background(), nil, localized, dimension.Data{
		"lastModified":        "2022-01-05",
		"lastModifiedEnabled": false,
	}); err != nil {
		t.Fatalf("map: %v", err)
	}
	if localized.Author.LastModified != nil {
		t.Fatalf("expected lastModified cleared when disabled")
	}
}

func TestAuthorMapperRejectsInvalidInput(t *testing.T) {
	mapper := mappers.NewAuthorMapper(&stubContacts{})

	err := mapper.Map(context.Background(), nil, authorRecord(), dimension.Data{"author": "one"})
	if !errors.Is(err, dimension.ErrFieldType) {
		t.Fatalf("expected ErrFieldType, got %v", err)
	}
	err = mapper.Map(context.Background(), nil, authorRecord(), dimension.Data{"authored": "yesterday"})
	if !errors.Is(err, dimension.ErrDateInvalid) {
		t.Fatalf("expected ErrDateInvalid, got %v", err)
	}
}

func TestAuthorMapperPropagatesUnknownContact(t *testing.T) {
	mapper := mappers.NewAuthorMapper(contacts.NewFactory(contacts.NewMemoryRepository()))
	err := mapper.Map(context.Background(), nil, authorRecord(), dimension.Data{"author": 42})
	var notFound *contacts.NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != 42 {
		t.Fatalf("expected contact not found for 42, got %v", err)
	}
}
