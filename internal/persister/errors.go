package persister

import (
	"errors"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/metadata"
	goerrors "github.com/goliatone/go-errors"
)

const (
	codeRequestInvalid    = "CONTENT_REQUEST_INVALID"
	codeFieldInvalid      = "CONTENT_FIELD_INVALID"
	codePolicyViolation   = "CONTENT_POLICY_VIOLATION"
	codeTemplateInvalid   = "CONTENT_TEMPLATE_DATA_INVALID"
	codeCapabilityMissing = "CONTENT_CAPABILITY_MISSING"
	codeConfiguration     = "CONTENT_CONFIGURATION_ERROR"
	codeNotFound          = "CONTENT_NOT_FOUND"
	codeReferenceMissing  = "CONTENT_REFERENCE_NOT_FOUND"
	codeMappingFailed     = "CONTENT_MAPPING_FAILED"
)

func wrapRequestError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "content request invalid").
		WithTextCode(codeRequestInvalid)
}

func wrapNotFound(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "content not found").
		WithTextCode(codeNotFound)
}

// wrapMappingError tags mapper and resolver failures with a category and
// text code while keeping the typed error reachable through errors.As.
func wrapMappingError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, dimension.ErrFieldType), errors.Is(err, dimension.ErrDateInvalid):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content field invalid").
			WithTextCode(codeFieldInvalid)
	case errors.Is(err, dimension.ErrPolicyViolation):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "content policy violation").
			WithTextCode(codePolicyViolation)
	case errors.Is(err, dimension.ErrReferenceNotFound):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "content reference not found").
			WithTextCode(codeReferenceMissing)
	case errors.Is(err, metadata.ErrTemplateDataInvalid):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "template data invalid").
			WithTextCode(codeTemplateInvalid)
	case errors.Is(err, dimension.ErrCapabilityMissing):
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content capability missing").
			WithTextCode(codeCapabilityMissing)
	case errors.Is(err, dimension.ErrConfiguration):
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content configuration error").
			WithTextCode(codeConfiguration)
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content mapping failed").
			WithTextCode(codeMappingFailed)
	}
}
