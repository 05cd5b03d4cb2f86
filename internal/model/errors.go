package model

import (
	"errors"
	"fmt"
)

// ErrValidationFailed marks an assembled puzzle that broke one of the
// structural rules. The wrapped error names the rule.
var ErrValidationFailed = errors.New("puzzle failed validation")

// StructuralError reports a match record missing a field the conversion
// cannot do without.
type StructuralError struct {
	Field string
	Cause error
}

func (e *StructuralError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("structural error: %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("structural error: missing %s", e.Field)
}

func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// TargetNotFoundError reports a player of the match with no recorded
// participation in the match's deliveries.
type TargetNotFoundError struct {
	Key  PlayerKey
	Name string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target player %s (%q) not found in match performances", e.Key, e.Name)
}
