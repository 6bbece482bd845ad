package graph

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Canonical 8-4-4-4-12 form only. uuid.Parse alone is too lenient (it accepts
// braces and urn: prefixes), so both checks must pass before an identifier is
// spliced into an OData $filter expression.
var guidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}$`)

// InvalidGUIDError reports a caller-supplied identifier that is not a
// canonical GUID.
type InvalidGUIDError struct {
	Value string
}

func (e *InvalidGUIDError) Error() string {
	return fmt.Sprintf("invalid GUID: %q", e.Value)
}

// IsGUID reports whether s is a canonical GUID. Quiet form for batch input.
func IsGUID(s string) bool {
	if !guidRe.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidateGUID returns an *InvalidGUIDError when s is not a canonical GUID.
func ValidateGUID(s string) error {
	if !IsGUID(s) {
		return &InvalidGUIDError{Value: s}
	}
	return nil
}
