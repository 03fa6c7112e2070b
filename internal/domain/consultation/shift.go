package consultation

import "time"

// The clinic runs on a fixed UTC-4 offset; no daylight saving applies.
var clinicZone = time.FixedZone("UTC-4", -4*60*60)

// ResolveShift maps an instant to the shift whose admission window contains
// it, evaluated on the clinic's civil clock. It is a pure function of the
// input; callers supply the instant so boundary behavior is testable.
//
// Windows: morning 07:00:00-12:00:00 inclusive, afternoon 13:30:00-17:00:00
// inclusive. The 12:00:01-13:29:59 gap and everything outside both windows
// yields ErrOutsideHours.
func ResolveShift(t time.Time) (Shift, error) {
	local := t.In(clinicZone)
	h, m, s := local.Hour(), local.Minute(), local.Second()

	switch {
	case h >= 7 && h < 12:
		return ShiftMorning, nil
	case h == 12 && m == 0 && s == 0:
		return ShiftMorning, nil
	case h == 13 && m >= 30:
		return ShiftAfternoon, nil
	case h >= 14 && h < 17:
		return ShiftAfternoon, nil
	case h == 17 && m == 0 && s == 0:
		return ShiftAfternoon, nil
	default:
		return "", ErrOutsideHours
	}
}

// ClinicDay returns the civil calendar day of t at the clinic's offset,
// normalized to midnight UTC. Together with the shift it forms the partition
// key for capacity counting.
func ClinicDay(t time.Time) time.Time {
	local := t.In(clinicZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
