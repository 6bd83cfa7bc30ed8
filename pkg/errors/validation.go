package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds node, edge and dimension identifiers.
const maxIDLength = 256

// ValidateID validates a node or edge identifier.
// kind is used in messages only ("node", "edge").
//
// Rules:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s id %q contains control characters", kind, id)
		}
	}
	return nil
}

// ValidateDimensionName validates a dimension key.
// Names are trimmed by callers; surrounding whitespace is rejected here so
// that "era" and " era" can never become two dimensions.
func ValidateDimensionName(name string) error {
	if err := ValidateID("dimension", name); err != nil {
		return err
	}
	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidID, "dimension name %q has surrounding whitespace", name)
	}
	return nil
}

// ValidateFinite reports an INVALID_CONFIG error when v is NaN or infinite.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", field, v)
	}
	return nil
}

// ValidateRange reports an INVALID_CONFIG error when v is outside [lo, hi].
func ValidateRange(field string, v, lo, hi float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be in [%v, %v], got %v", field, lo, hi, v)
	}
	return nil
}

// ValidatePositive reports an INVALID_CONFIG error unless v > 0.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative reports an INVALID_CONFIG error when v < 0.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", field, v)
	}
	return nil
}
