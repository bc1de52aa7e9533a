package dimension

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFieldType         = errors.New("dimension: field has unexpected type")
	ErrCapabilityMissing = errors.New("dimension: record does not implement required capability")
	ErrConfiguration     = errors.New("dimension: configuration error")
	ErrPolicyViolation   = errors.New("dimension: policy violation")
	ErrUnlocalizedNil    = errors.New("dimension: unlocalized record is required")
	ErrLocalizedNil      = errors.New("dimension: localized record is required")
	ErrDateInvalid       = errors.New("dimension: date is invalid")
	ErrReferenceNotFound = errors.New("dimension: referenced entity not found")
)

// FieldTypeError reports an input value that does not match the expected type.
type FieldTypeError struct {
	Field    string
	Expected string
	Actual   any
}

func (e *FieldTypeError) Error() string {
	if e == nil {
		return ErrFieldType.Error()
	}
	return fmt.Sprintf("%s: field=%s expected=%s got=%s", ErrFieldType.Error(), e.Field, e.Expected, typeName(e.Actual))
}

func (e *FieldTypeError) Unwrap() error {
	return ErrFieldType
}

// CapabilityError names the capability a record was expected to implement.
type CapabilityError struct {
	Capability Capability
	Component  string
}

func (e *CapabilityError) Error() string {
	if e == nil {
		return ErrCapabilityMissing.Error()
	}
	if e.Component == "" {
		return fmt.Sprintf("%s: capability=%s", ErrCapabilityMissing.Error(), e.Capability)
	}
	return fmt.Sprintf("%s: capability=%s component=%s", ErrCapabilityMissing.Error(), e.Capability, e.Component)
}

func (e *CapabilityError) Unwrap() error {
	return ErrCapabilityMissing
}

// ConfigurationError reports a developer facing misconfiguration.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	if e == nil || strings.TrimSpace(e.Message) == "" {
		return ErrConfiguration.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// PolicyError reports input that is well formed but not allowed.
type PolicyError struct {
	Field   string
	Value   string
	Message string
}

func (e *PolicyError) Error() string {
	if e == nil {
		return ErrPolicyViolation.Error()
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = "value not allowed"
	}
	return fmt.Sprintf("%s: field=%s value=%q: %s", ErrPolicyViolation.Error(), e.Field, e.Value, message)
}

func (e *PolicyError) Unwrap() error {
	return ErrPolicyViolation
}

func typeName(value any) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
