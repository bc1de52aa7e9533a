package mappers

import (
	"context"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

// AuthorMapper maps author, authored and lastModified onto the localized
// record.
type AuthorMapper struct {
	contacts ContactFactory
}

// NewAuthorMapper constructs an author mapper.
func NewAuthorMapper(contacts ContactFactory) *AuthorMapper {
	return &AuthorMapper{contacts: contacts}
}

func (m *AuthorMapper) Name() string { return "author" }

// Map satisfies DataMapper. lastModified is only kept while
// lastModifiedEnabled is true.
func (m *AuthorMapper) Map(ctx context.Context, _, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Author == nil {
		return nil
	}

	author, err := data.Int("author")
	if err != nil {
		return err
	}
	authored, err := data.Date("authored")
	if err != nil {
		return err
	}
	lastModified, err := data.Date("lastModified")
	if err != nil {
		return err
	}
	enabled, err := data.Bool("lastModifiedEnabled")
	if err != nil {
		return err
	}

	var contact *dimension.Contact
	if author.Set() {
		if m.contacts == nil {
			return &dimension.ConfigurationError{Message: "author mapper requires a contact factory"}
		}
		contact, err = m.contacts.Create(ctx, author.Value)
		if err != nil {
			return err
		}
	}

	if author.Present {
		localized.Author.Author = contact
	}
	if lastModified.Present {
		if enabled.Set() && enabled.Value {
			localized.Author.LastModified = lastModified.Ptr()
		} else {
			localized.Author.LastModified = nil
		}
	}
	if authored.Present {
		localized.Author.Authored = authored.Ptr()
	}
	return nil
}
