package dimension

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Field is the tri-state read of a single input key: absent, present with an
// explicit null, or present with a value.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set reports whether the key was present with a non-null value.
func (f Field[T]) Set() bool {
	return f.Present && !f.Null
}

// Ptr returns a pointer to a copy of the value, or nil when absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Set() {
		return nil
	}
	value := f.Value
	return &value
}

// Data is the untyped input payload applied by data mappers. Key presence,
// not value nullness, gates writes.
type Data map[string]any

// DecodeData parses a JSON object into Data, keeping numbers exact.
func DecodeData(raw []byte) (Data, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("dimension: decode data: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return Data(data), nil
}

// Has reports whether the key is present, regardless of its value.
func (d Data) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d[key]
	return ok
}

// Raw returns the untyped value and its presence.
func (d Data) Raw(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	value, ok := d[key]
	return value, ok
}

// String reads a nullable string.
func (d Data) String(key string) (Field[string], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[string]{}, nil
	}
	if raw == nil {
		return Field[string]{Present: true, Null: true}, nil
	}
	value, ok := raw.(string)
	if !ok {
		return Field[string]{}, &FieldTypeError{Field: key, Expected: "?string", Actual: raw}
	}
	return Field[string]{Present: true, Value: value}, nil
}

// Bool reads a nullable bool.
func (d Data) Bool(key string) (Field[bool], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[bool]{}, nil
	}
	if raw == nil {
		return Field[bool]{Present: true, Null: true}, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return Field[bool]{}, &FieldTypeError{Field: key, Expected: "?bool", Actual: raw}
	}
	return Field[bool]{Present: true, Value: value}, nil
}

// Int reads a nullable integer. JSON numbers are accepted when integral.
func (d Data) Int(key string) (Field[int], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[int]{}, nil
	}
	if raw == nil {
		return Field[int]{Present: true, Null: true}, nil
	}
	value, ok := asInt(raw)
	if !ok {
		return Field[int]{}, &FieldTypeError{Field: key, Expected: "?int", Actual: raw}
	}
	return Field[int]{Present: true, Value: value}, nil
}

// Object reads a nullable nested object.
func (d Data) Object(key string) (Field[Data], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[Data]{}, nil
	}
	if raw == nil {
		return Field[Data]{Present: true, Null: true}, nil
	}
	switch value := raw.(type) {
	case map[string]any:
		return Field[Data]{Present: true, Value: Data(value)}, nil
	case Data:
		return Field[Data]{Present: true, Value: value}, nil
	default:
		return Field[Data]{}, &FieldTypeError{Field: key, Expected: "?object", Actual: raw}
	}
}

// Strings reads a nullable list of strings.
func (d Data) Strings(key string) (Field[[]string], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[[]string]{}, nil
	}
	if raw == nil {
		return Field[[]string]{Present: true, Null: true}, nil
	}
	switch value := raw.(type) {
	case []string:
		return Field[[]string]{Present: true, Value: append([]string(nil), value...)}, nil
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			str, ok := item.(string)
			if !ok {
				return Field[[]string]{}, &FieldTypeError{Field: key, Expected: "?string[]", Actual: raw}
			}
			out = append(out, str)
		}
		return Field[[]string]{Present: true, Value: out}, nil
	default:
		return Field[[]string]{}, &FieldTypeError{Field: key, Expected: "?string[]", Actual: raw}
	}
}

// Ints reads a nullable list of integers.
func (d Data) Ints(key string) (Field[[]int], error) {
	raw, ok := d.Raw(key)
	if !ok {
		return Field[[]int]{}, nil
	}
	if raw == nil {
		return Field[[]int]{Present: true, Null: true}, nil
	}
	switch value := raw.(type) {
	case []int:
		return Field[[]int]{Present: true, Value: append([]int(nil), value...)}, nil
	case []any:
		out := make([]int, 0, len(value))
		for _, item := range value {
			id, ok := asInt(item)
			if !ok {
				return Field[[]int]{}, &FieldTypeError{Field: key, Expected: "?int[]", Actual: raw}
			}
			out = append(out, id)
		}
		return Field[[]int]{Present: true, Value: out}, nil
	default:
		return Field[[]int]{}, &FieldTypeError{Field: key, Expected: "?int[]", Actual: raw}
	}
}

// Date reads a nullable ISO date or date-time string. Empty strings read as
// null.
func (d Data) Date(key string) (Field[time.Time], error) {
	str, err := d.String(key)
	if err != nil {
		return Field[time.Time]{}, err
	}
	if !str.Present {
		return Field[time.Time]{}, nil
	}
	if str.Null || strings.TrimSpace(str.Value) == "" {
		return Field[time.Time]{Present: true, Null: true}, nil
	}
	parsed, err := ParseDate(str.Value)
	if err != nil {
		return Field[time.Time]{}, fmt.Errorf("%w: field=%s: %v", ErrDateInvalid, key, err)
	}
	return Field[time.Time]{Present: true, Value: parsed}, nil
}

// StringList reads a nullable list of strings, treating null as empty.
func (d Data) StringList(key string) ([]string, bool, error) {
	field, err := d.Strings(key)
	if err != nil || !field.Present {
		return nil, field.Present, err
	}
	if field.Null {
		return []string{}, true, nil
	}
	return field.Value, true, nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// ParseDate parses the ISO date formats accepted by the author fields.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatDate renders a timestamp as an ISO date when it has no time part and
// as RFC3339 otherwise.
func FormatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	t := *value
	var out string
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		out = t.Format(time.DateOnly)
	} else {
		out = t.Format(time.RFC3339)
	}
	return &out
}

func asInt(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int32:
		return int(value), true
	case int64:
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}
