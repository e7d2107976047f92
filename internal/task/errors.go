package task

import (
	"errors"
	"fmt"
)

// Kind classifies a validation failure.
type Kind int

const (
	EmptyField Kind = iota
	InvalidDuration
	MissingDate
	InvalidDate
)

func (k Kind) String() string {
	switch k {
	case EmptyField:
		return "empty field"
	case InvalidDuration:
		return "invalid duration"
	case MissingDate:
		return "missing date"
	case InvalidDate:
		return "invalid date"
	default:
		return "unknown"
	}
}

// ValidationError is returned for user input that cannot become a task.
// It is shown to the user as-is and never retried.
type ValidationError struct {
	Kind  Kind
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %s: %q", e.Field, e.Kind, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Kind)
}

// Message is the short text shown in the status bar.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case EmptyField:
		return fmt.Sprintf("Please fill in the %s", e.Field)
	case InvalidDuration:
		return "Invalid duration value"
	case MissingDate:
		return "Please set a due date"
	case InvalidDate:
		return fmt.Sprintf("Could not understand date %q", e.Value)
	}
	return e.Error()
}

// IsKind reports whether err is a *ValidationError of kind k.
func IsKind(err error, k Kind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == k
}
