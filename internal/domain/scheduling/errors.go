package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("appointment not found")
	ErrInvalidType = errors.New("invalid appointment type")
	ErrPastSlot    = errors.New("appointment slot is in the past")
)

// TransitionError signals a status change the machine forbids.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}
