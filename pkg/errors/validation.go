package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// Identifiers reserved for the layout root. "parent" is the anchor alias.
const (
	ReservedStageID  = "Stage"
	ReservedParentID = "parent"
)

// FieldError describes one invalid field of a scene document.
type FieldError struct {
	Field   string // Dotted path, e.g. "elements[2].width"
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure of a document so users see
// them all at once instead of fixing one per run.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// AsError returns nil for an empty collection and an INVALID_SCENE error
// wrapping the collection otherwise.
func (v ValidationErrors) AsError() error {
	if len(v) == 0 {
		return nil
	}
	return Wrap(ErrCodeInvalidScene, v, "%d invalid field(s)", len(v))
}

// ValidateElementID validates an element identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No '.', '|', '!' or '~', which are separators in the string syntax
//   - Not a reserved stage identifier (case-insensitive)
//   - Maximum length of 128 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "element id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, ".|!~") {
		return New(ErrCodeInvalidInput, "element id %q contains a reserved separator", id)
	}

	if strings.EqualFold(id, ReservedStageID) || strings.EqualFold(id, ReservedParentID) {
		return New(ErrCodeDuplicateID, "element id %q is reserved for the stage", id)
	}

	return nil
}

// ValidateFraction validates that v lies in [0, 1].
func ValidateFraction(field string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", field, v)
	}
	return nil
}
