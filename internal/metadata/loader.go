package metadata

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a metadata file.
type Document struct {
	Structures []Structure `yaml:"structures"`
	Forms      []Form      `yaml:"forms"`
}

// Load decodes a YAML metadata document and registers its contents.
func (r *Registry) Load(reader io.Reader) error {
	var doc Document
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("metadata: decode document: %w", err)
	}
	for _, structure := range doc.Structures {
		structure.Schema = normalizeYAML(structure.Schema)
		if err := r.RegisterStructure(structure); err != nil {
			return err
		}
	}
	for _, form := range doc.Forms {
		if err := r.RegisterForm(form); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS registers every document matching the glob pattern, in lexical
// order so later files override earlier ones predictably.
func (r *Registry) LoadFS(fsys fs.FS, pattern string) error {
	if pattern == "" {
		pattern = "*.yaml"
	}
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("metadata: glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		file, err := fsys.Open(match)
		if err != nil {
			return fmt.Errorf("metadata: open %s: %w", path.Clean(match), err)
		}
		loadErr := r.Load(file)
		_ = file.Close()
		if loadErr != nil {
			return fmt.Errorf("metadata: load %s: %w", path.Clean(match), loadErr)
		}
	}
	return nil
}

// normalizeYAML converts yaml.v3 decoded values into JSON-compatible shapes
// so schemas compile with the JSON schema validator.
func normalizeYAML(value map[string]any) map[string]any {
	if value == nil {
		return nil
	}
	out := make(map[string]any, len(value))
	for key, item := range value {
		out[key] = normalizeYAMLValue(item)
	}
	return out
}

func normalizeYAMLValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeYAML(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeYAMLValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	case int:
		return float64(typed)
	default:
		return value
	}
}
