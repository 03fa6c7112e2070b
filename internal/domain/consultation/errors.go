package consultation

import (
	"errors"
	"fmt"
)

// ErrOutsideHours is returned when the supplied instant falls in neither
// shift window. The message names both windows so callers can surface it
// verbatim.
var ErrOutsideHours = errors.New("outside operating hours: morning 07:00-12:00, afternoon 13:30-17:00")

// ErrNotFound is returned when a consultation id does not exist.
var ErrNotFound = errors.New("consultation not found")

// ErrAlreadyClosed is returned when mutating a consultation whose closed
// state is terminal.
var ErrAlreadyClosed = errors.New("consultation is already closed")

// CapacityError signals that a (clinic day, shift) partition already holds
// the maximum number of consultations.
type CapacityError struct {
	Shift    Shift
	Count    int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("limit of %d consultations reached for the %s shift, currently %d registered",
		e.Capacity, e.Shift, e.Count)
}

// Clinical validation failure kinds.
const (
	InvalidPressureOrdering = "pressure-ordering"
	InvalidBMIRange         = "bmi-range"
)

// ValidationError signals that recorded vitals fail a clinical sanity
// invariant; the record must not be persisted.
type ValidationError struct {
	Kind    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InputError signals a missing or malformed request field.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return e.Field + " is required"
}
