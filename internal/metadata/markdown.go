package metadata

import (
	"bytes"
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownResolver renders markdown properties to sanitized HTML. The raw
// source is kept in the view.
type MarkdownResolver struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewMarkdownResolver constructs the resolver with GFM enabled and the UGC
// sanitizing policy.
func NewMarkdownResolver() *MarkdownResolver {
	return &MarkdownResolver{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Resolve satisfies PropertyResolver.
func (m *MarkdownResolver) Resolve(_ context.Context, value any, _ string, _ FormItem) (ResolvedValue, error) {
	var source string
	switch typed := value.(type) {
	case nil:
		return ResolvedValue{View: map[string]any{}}, nil
	case string:
		source = typed
	case *string:
		if typed == nil {
			return ResolvedValue{View: map[string]any{}}, nil
		}
		source = *typed
	default:
		return ResolvedValue{}, fmt.Errorf("unsupported markdown value %T", value)
	}

	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(source), &buf); err != nil {
		return ResolvedValue{}, fmt.Errorf("render markdown: %w", err)
	}
	return ResolvedValue{
		Content: m.policy.Sanitize(buf.String()),
		View:    map[string]any{"markdown": source},
	}, nil
}
