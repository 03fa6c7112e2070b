package consultation

import "fmt"

// ValidateClinicalRanges enforces the sanity invariants on recorded vitals:
// diastolic pressure below systolic when both are present, and a derived BMI
// inside [10, 80] when weight and height are present. It is independent of
// sequencing and must pass before a record is persisted.
func ValidateClinicalRanges(c *Consultation) error {
	if c.SystolicBP != nil && c.DiastolicBP != nil {
		if *c.DiastolicBP >= *c.SystolicBP {
			return &ValidationError{
				Kind: InvalidPressureOrdering,
				Message: fmt.Sprintf("diastolic pressure (%d mmHg) must be lower than systolic (%d mmHg)",
					*c.DiastolicBP, *c.SystolicBP),
			}
		}
	}

	if bmi := c.BMI(); bmi != nil {
		if *bmi < 10 || *bmi > 80 {
			return &ValidationError{
				Kind:    InvalidBMIRange,
				Message: fmt.Sprintf("body-mass index %.2f outside reasonable range [10, 80]", *bmi),
			}
		}
	}

	return nil
}
