package mappers

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-content/internal/dimension"
)

// WebspaceMapper maps mainWebspace and additionalWebspaces onto the
// localized record.
type WebspaceMapper struct {
	defaultKey string
}

// NewWebspaceMapper constructs a webspace mapper. defaultKey is assigned
// whenever the record ends up without a main webspace; pass the first
// configured webspace key.
func NewWebspaceMapper(defaultKey string) *WebspaceMapper {
	return &WebspaceMapper{defaultKey: strings.TrimSpace(defaultKey)}
}

func (m *WebspaceMapper) Name() string { return "webspace" }

// Map satisfies DataMapper.
func (m *WebspaceMapper) Map(_ context.Context, _, localized *dimension.DimensionContent, data dimension.Data) error {
	if localized == nil || localized.Webspace == nil {
		return nil
	}

	main, err := data.String("mainWebspace")
	if err != nil {
		return err
	}
	additional, additionalPresent, err := data.StringList("additionalWebspaces")
	if err != nil {
		return err
	}

	webspace := localized.Webspace
	if main.Present {
		webspace.MainWebspace = main.Ptr()
	}
	if additionalPresent {
		webspace.AdditionalWebspaces = additional
	}
	if (webspace.MainWebspace == nil || *webspace.MainWebspace == "") && m.defaultKey != "" {
		key := m.defaultKey
		webspace.MainWebspace = &key
	}
	return nil
}
