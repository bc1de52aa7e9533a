package resolvers

// ContentView is the read-only projection of a dimension for rendering.
// Content holds the resolved values and View the per-item display metadata.
type ContentView struct {
	Content map[string]any
	View    map[string]any
}

// NewContentView constructs a view, replacing nil maps with empty ones.
func NewContentView(content, view map[string]any) *ContentView {
	if content == nil {
		content = map[string]any{}
	}
	if view == nil {
		view = map[string]any{}
	}
	return &ContentView{Content: content, View: view}
}

// Get returns the resolved content value of a key.
func (v *ContentView) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	value, ok := v.Content[key]
	return value, ok
}

// ViewOf returns the view metadata of a key.
func (v *ContentView) ViewOf(key string) map[string]any {
	if v == nil {
		return nil
	}
	view, _ := v.View[key].(map[string]any)
	return view
}
