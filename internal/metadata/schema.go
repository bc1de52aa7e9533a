package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrTemplateDataInvalid = errors.New("metadata: template data invalid")

// SchemaIssue captures a single template data validation failure.
type SchemaIssue struct {
	Location string
	Message  string
}

// TemplateDataError lists the schema issues of a template payload.
type TemplateDataError struct {
	Structure string
	Issues    []SchemaIssue
}

func (e *TemplateDataError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrTemplateDataInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s: %s", ErrTemplateDataInvalid.Error(), e.Structure, strings.Join(parts, "; "))
}

func (e *TemplateDataError) Unwrap() error {
	return ErrTemplateDataInvalid
}

// ValidateTemplateData checks a template payload against the structure
// schema. Structures without schema accept any payload. Registered
// structures reuse the schema compiled at registration.
func ValidateTemplateData(structure *Structure, data map[string]any) error {
	if structure == nil || len(structure.Schema) == 0 {
		return nil
	}
	compiled := structure.compiled
	if compiled == nil {
		var err error
		if compiled, err = compileSchema(structure.Schema); err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrStructureInvalid, structure.ResourceKey, structure.Key, err)
		}
	}
	payload, err := jsonCompatible(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateDataInvalid, err)
	}
	if err := compiled.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &TemplateDataError{
				Structure: structure.ResourceKey + "/" + structure.Key,
				Issues:    collectIssues(validationErr),
			}
		}
		return fmt.Errorf("%w: %v", ErrTemplateDataInvalid, err)
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("template.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("template.json")
}

func jsonCompatible(data map[string]any) (any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
