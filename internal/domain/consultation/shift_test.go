package consultation

import (
	"errors"
	"testing"
	"time"
)

func clinicTime(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 10, hour, min, sec, 0, clinicZone)
}

func TestResolveShiftMorningWindow(t *testing.T) {
	for _, hour := range []int{7, 8, 9, 10, 11} {
		shift, err := ResolveShift(clinicTime(hour, 15, 0))
		if err != nil {
			t.Fatalf("hour %d: unexpected error: %v", hour, err)
		}
		if shift != ShiftMorning {
			t.Errorf("hour %d: got %s, want morning", hour, shift)
		}
	}
}

func TestResolveShiftAfternoonWindow(t *testing.T) {
	for _, hour := range []int{14, 15, 16} {
		shift, err := ResolveShift(clinicTime(hour, 30, 0))
		if err != nil {
			t.Fatalf("hour %d: unexpected error: %v", hour, err)
		}
		if shift != ShiftAfternoon {
			t.Errorf("hour %d: got %s, want afternoon", hour, shift)
		}
	}
}

func TestResolveShiftBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantShift Shift
		wantErr   bool
	}{
		{"morning open", clinicTime(7, 0, 0), ShiftMorning, false},
		{"noon inclusive", clinicTime(12, 0, 0), ShiftMorning, false},
		{"just past noon", clinicTime(12, 0, 1), "", true},
		{"midday gap", clinicTime(12, 30, 0), "", true},
		{"just before afternoon", clinicTime(13, 29, 59), "", true},
		{"afternoon open", clinicTime(13, 30, 0), ShiftAfternoon, false},
		{"five pm inclusive", clinicTime(17, 0, 0), ShiftAfternoon, false},
		{"just past five pm", clinicTime(17, 0, 1), "", true},
		{"early morning", clinicTime(6, 59, 59), "", true},
		{"evening", clinicTime(18, 0, 0), "", true},
		{"midnight", clinicTime(0, 0, 0), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift, err := ResolveShift(tt.at)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideHours) {
					t.Fatalf("got err %v, want ErrOutsideHours", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shift != tt.wantShift {
				t.Errorf("got %s, want %s", shift, tt.wantShift)
			}
		})
	}
}

func TestResolveShiftConvertsToClinicZone(t *testing.T) {
	// 14:00 UTC is 10:00 at the clinic.
	shift, err := ResolveShift(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift != ShiftMorning {
		t.Errorf("got %s, want morning", shift)
	}

	// 10:00 UTC is 06:00 at the clinic, before opening.
	if _, err := ResolveShift(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)); !errors.Is(err, ErrOutsideHours) {
		t.Errorf("got err %v, want ErrOutsideHours", err)
	}
}

func TestClinicDay(t *testing.T) {
	// 02:00 UTC on March 11 is still March 10 at the clinic.
	day := ClinicDay(time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC))
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("got %v, want %v", day, want)
	}

	day = ClinicDay(clinicTime(9, 0, 0))
	want = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("got %v, want %v", day, want)
	}
}
