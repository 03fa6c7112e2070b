package lab

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("lab order not found")
	ErrAlreadyCompleted = errors.New("lab order is already completed")
)

// StatusError signals a lifecycle move the order's status forbids.
type StatusError struct {
	From string
	To   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot move lab order from %s to %s", e.From, e.To)
}
