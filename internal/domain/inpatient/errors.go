package inpatient

import (
	"errors"
	"fmt"
)

var (
	ErrBedNotFound       = errors.New("bed not found")
	ErrAdmissionNotFound = errors.New("admission not found")
	ErrDuplicateBedCode  = errors.New("bed code already exists")
	ErrInvalidDischarge  = errors.New("invalid discharge type")
	ErrAlreadyDischarged = errors.New("admission is already discharged")
)

// BedStateError signals an operation the bed's current state forbids.
type BedStateError struct {
	Code  string
	State string
}

func (e *BedStateError) Error() string {
	return fmt.Sprintf("bed %s is %s", e.Code, e.State)
}
