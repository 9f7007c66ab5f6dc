package domain

import (
	"fmt"
	"strings"
)

// ValidationKind classifies a single record-level validation failure.
type ValidationKind string

const (
	ValidationInvalidAssetClass ValidationKind = "INVALID_ASSET_CLASS"
	ValidationNonPositivePrice  ValidationKind = "NON_POSITIVE_PRICE"
	ValidationDuplicateAssetID  ValidationKind = "DUPLICATE_ASSET_ID"
	ValidationUnknownCurrency   ValidationKind = "UNKNOWN_CURRENCY"
	ValidationMissingField      ValidationKind = "MISSING_FIELD"
	ValidationUnknownKind       ValidationKind = "UNKNOWN_RELATIONSHIP_KIND"
	ValidationInvalidWeight     ValidationKind = "INVALID_WEIGHT"
	ValidationSelfReference     ValidationKind = "SELF_REFERENCE"
)

// ValidationError describes one violation found while validating a record.
type ValidationError struct {
	Kind     ValidationKind
	RecordID string // asset id, or "source->target" for relationships
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.RecordID, e.Message)
}

// ValidationErrors aggregates every violation found in a record or batch.
// Callers get the complete diagnostic, not just the first failure.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}

// HasKind reports whether any collected violation has the given kind.
func (e ValidationErrors) HasKind(kind ValidationKind) bool {
	for _, v := range e {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// OrNil returns the slice as an error, or nil when no violations were collected.
func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
