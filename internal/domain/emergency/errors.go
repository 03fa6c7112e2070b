package emergency

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("emergency case not found")
	ErrInvalidType    = errors.New("invalid emergency type")
	ErrInvalidTriage  = errors.New("triage level must be between 1 and 5")
	ErrInvalidGlasgow = errors.New("glasgow score must be between 3 and 15")
)

// StateError signals a lifecycle move the case's current status forbids.
type StateError struct {
	Status string
	Action string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a case in status %s", e.Action, e.Status)
}
