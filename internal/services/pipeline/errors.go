package pipeline

import (
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	MissingField       Kind = "missing_field"
	InvalidFormat      Kind = "invalid_format"
	InvalidNumber      Kind = "invalid_number"
	UnknownEnum        Kind = "unknown_enum"
	DateOrderViolation Kind = "date_order_violation"
	OutOfRange         Kind = "out_of_range"
	EmptyCollection    Kind = "empty_collection"
	ArtifactTooLarge   Kind = "artifact_too_large"
)

// Violation is one validation failure. Row is 1-based and zero for
// declaration-level failures.
type Violation struct {
	Kind    Kind
	Row     int
	Field   string
	Message string
}

func (v Violation) Error() string {
	if v.Row > 0 {
		return fmt.Sprintf("ligne %d: %s", v.Row, v.Message)
	}
	return v.Message
}

// ValidationError aggregates every violation found in a declaration.
// Validation is all-or-nothing: either the declaration is clean or the
// caller gets every message at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

// Has reports whether any violation of the given kind was collected.
func (e *ValidationError) Has(k Kind) bool {
	for _, v := range e.Violations {
		if v.Kind == k {
			return true
		}
	}
	return false
}
