package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDay(_ context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if !a.ScheduledAt.Before(day) && a.ScheduledAt.Before(day.Add(24*time.Hour)) {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPhysician(_ context.Context, physicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.PhysicianID == physicianID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func newAppointment() *Appointment {
	return &Appointment{
		PatientID:   uuid.New(),
		PhysicianID: uuid.New(),
		ScheduledAt: testNow.Add(48 * time.Hour),
		Reason:      "control visit",
	}
}

func TestScheduleDefaults(t *testing.T) {
	svc, _ := newTestService()
	a := newAppointment()
	if err := svc.Schedule(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("got status %s, want scheduled", a.Status)
	}
	if a.Type != TypeConsultation {
		t.Errorf("got type %s, want consultation", a.Type)
	}
	if a.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("got duration %d, want %d", a.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestScheduleRejectsPastSlot(t *testing.T) {
	svc, _ := newTestService()
	a := newAppointment()
	a.ScheduledAt = testNow.Add(-time.Hour)
	if err := svc.Schedule(context.Background(), a); !errors.Is(err, ErrPastSlot) {
		t.Fatalf("got %v, want ErrPastSlot", err)
	}
}

func TestScheduleRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService()
	a := newAppointment()
	a.Type = "house-call"
	if err := svc.Schedule(context.Background(), a); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("got %v, want ErrInvalidType", err)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := newAppointment()
	if err := svc.Schedule(ctx, a); err != nil {
		t.Fatal(err)
	}

	for _, next := range []string{StatusConfirmed, StatusInProgress, StatusCompleted} {
		updated, err := svc.Transition(ctx, a.ID, next)
		if err != nil {
			t.Fatalf("to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Errorf("got %s, want %s", updated.Status, next)
		}
	}
}

func TestTransitionRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		from, to string
	}{
		{StatusScheduled, StatusCompleted},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusConfirmed},
		{StatusInProgress, StatusCancelled},
		{StatusNoShow, StatusScheduled},
	}
	for _, tt := range tests {
		a := newAppointment()
		if err := svc.Schedule(ctx, a); err != nil {
			t.Fatal(err)
		}
		a.Status = tt.from

		_, err := svc.Transition(ctx, a.ID, tt.to)
		var trErr *TransitionError
		if !errors.As(err, &trErr) {
			t.Fatalf("%s→%s: got %v, want TransitionError", tt.from, tt.to, err)
		}
		if trErr.From != tt.from || trErr.To != tt.to {
			t.Errorf("error names %s→%s, want %s→%s", trErr.From, trErr.To, tt.from, tt.to)
		}
	}
}

func TestReschedule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := newAppointment()
	if err := svc.Schedule(ctx, a); err != nil {
		t.Fatal(err)
	}

	newSlot := testNow.Add(72 * time.Hour)
	updated, err := svc.Reschedule(ctx, a.ID, newSlot, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.ScheduledAt.Equal(newSlot) || updated.DurationMinutes != 45 {
		t.Errorf("slot not moved: %+v", updated)
	}

	// Completed appointments stay put.
	a.Status = StatusCompleted
	if _, err := svc.Reschedule(ctx, a.ID, newSlot.Add(time.Hour), 0); err == nil {
		t.Error("expected error rescheduling a completed appointment")
	}
}

func TestEndsAt(t *testing.T) {
	a := &Appointment{ScheduledAt: testNow, DurationMinutes: 45}
	if got := a.EndsAt(); !got.Equal(testNow.Add(45 * time.Minute)) {
		t.Errorf("got %v, want %v", got, testNow.Add(45*time.Minute))
	}
}
