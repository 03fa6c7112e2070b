package pharmacy

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("medication not found")
	ErrDuplicateBarcode = errors.New("barcode already registered")
)

// StockError signals an adjustment that would drive stock negative.
type StockError struct {
	Name      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: %d available, %d requested",
		e.Name, e.Available, e.Requested)
}
