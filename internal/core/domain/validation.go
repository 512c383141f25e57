package domain

import (
	"sort"
	"strings"
)

// ValidationError lists every constraint a record violates.
type ValidationError struct {
	Violations []string
}

func newValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	sort.Strings(violations)
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}
