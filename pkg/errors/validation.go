package errors

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateElementID validates an element identifier from a diagram document.
// Identifiers are referenced by placement directives and become SVG element
// ids, so the rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 128 characters
//   - Letters, digits, '-', '_' and '.' only
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDiagram, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidDiagram, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDiagram, "element id %q contains whitespace or control characters", id)
		}
	}

	if !elementIDRegex.MatchString(id) {
		return New(ErrCodeInvalidDiagram, "invalid element id: %q", id)
	}

	return nil
}

// elementIDRegex matches valid element identifiers.
var elementIDRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// ValidateFinite reports an INVALID_ARGUMENT error if any value is NaN or
// infinite. name identifies the argument in the message.
func ValidateFinite(name string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidArgument, "%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// ValidateProportion checks that t lies in the closed unit interval.
func ValidateProportion(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return New(ErrCodeInvalidArgument, "proportion must be between 0 and 1, got %v", t)
	}
	return nil
}

// ValidateOutputPath validates a file path an artifact is written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(filepath.ToSlash(path), "/") || filepath.Base(path) == "." {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
