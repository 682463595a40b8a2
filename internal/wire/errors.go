package wire

import (
	"errors"
	"fmt"
)

// ErrConnection is returned when the server reports that the session is no
// longer valid. The caller has to log in again.
var ErrConnection = errors.New("session is no longer valid")

// ErrIncompleteState is returned when a snapshot is built from a response
// that does not carry the full player state (level and name).
var ErrIncompleteState = errors.New("response did not contain full player state")

// ParsingError is a hard decode failure. Label names the field or record
// block, Value carries the offending raw text for diagnosis.
type ParsingError struct {
	Label string
	Value string
}

// NewParsingError builds a ParsingError from any raw value.
func NewParsingError(label string, value any) *ParsingError {
	return &ParsingError{Label: label, Value: fmt.Sprint(value)}
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing %s: bad value %q", e.Label, e.Value)
}
