package inpatient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	beds       map[uuid.UUID]*Bed
	admissions map[uuid.UUID]*Admission
	notes      map[uuid.UUID]*ProgressNote
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		beds:       make(map[uuid.UUID]*Bed),
		admissions: make(map[uuid.UUID]*Admission),
		notes:      make(map[uuid.UUID]*ProgressNote),
	}
}

func (m *mockRepo) CreateBed(_ context.Context, b *Bed) error {
	b.ID = uuid.New()
	m.beds[b.ID] = b
	return nil
}

func (m *mockRepo) GetBed(_ context.Context, id uuid.UUID) (*Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, ErrBedNotFound
	}
	return b, nil
}

func (m *mockRepo) GetBedByCode(_ context.Context, code string) (*Bed, error) {
	for _, b := range m.beds {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, ErrBedNotFound
}

func (m *mockRepo) UpdateBed(_ context.Context, b *Bed) error {
	if _, ok := m.beds[b.ID]; !ok {
		return ErrBedNotFound
	}
	m.beds[b.ID] = b
	return nil
}

func (m *mockRepo) ListBeds(_ context.Context, ward string, limit, offset int) ([]*Bed, int, error) {
	var result []*Bed
	for _, b := range m.beds {
		if ward == "" || b.Ward == ward {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Admit(_ context.Context, a *Admission) error {
	b, ok := m.beds[a.BedID]
	if !ok {
		return ErrBedNotFound
	}
	if b.State != BedFree {
		return &BedStateError{Code: b.Code, State: b.State}
	}
	b.State = BedOccupied
	a.ID = uuid.New()
	m.admissions[a.ID] = a
	return nil
}

func (m *mockRepo) Discharge(_ context.Context, a *Admission) error {
	if _, ok := m.admissions[a.ID]; !ok {
		return ErrAdmissionNotFound
	}
	m.admissions[a.ID] = a
	if b, ok := m.beds[a.BedID]; ok {
		b.State = BedFree
	}
	return nil
}

func (m *mockRepo) GetAdmission(_ context.Context, id uuid.UUID) (*Admission, error) {
	a, ok := m.admissions[id]
	if !ok {
		return nil, ErrAdmissionNotFound
	}
	return a, nil
}

func (m *mockRepo) ListAdmissions(_ context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error) {
	var result []*Admission
	for _, a := range m.admissions {
		if !activeOnly || a.Status == StatusActive {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) AddProgressNote(_ context.Context, n *ProgressNote) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.notes[n.ID] = n
	return nil
}

func (m *mockRepo) ListProgressNotes(_ context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	var result []*ProgressNote
	for _, n := range m.notes {
		if n.AdmissionID == admissionID {
			result = append(result, n)
		}
	}
	return result, nil
}

var testNow = time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func seedBed(t *testing.T, svc *Service, code string) *Bed {
	t.Helper()
	b := &Bed{Code: code, Ward: "general"}
	if err := svc.CreateBed(context.Background(), b); err != nil {
		t.Fatalf("seed bed: %v", err)
	}
	return b
}

func newAdmission(bedID uuid.UUID) *Admission {
	return &Admission{
		PatientID:   uuid.New(),
		BedID:       bedID,
		PhysicianID: uuid.New(),
		Reason:      "pneumonia",
	}
}

func TestCreateBedDefaultsAndDuplicates(t *testing.T) {
	svc, _ := newTestService()
	b := seedBed(t, svc, "G-01")
	if b.State != BedFree {
		t.Errorf("got state %s, want free", b.State)
	}
	dup := &Bed{Code: "G-01", Ward: "general"}
	if err := svc.CreateBed(context.Background(), dup); !errors.Is(err, ErrDuplicateBedCode) {
		t.Fatalf("got %v, want ErrDuplicateBedCode", err)
	}
}

func TestAdmitOccupiesBed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	b := seedBed(t, svc, "G-01")

	a := newAdmission(b.ID)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusActive || !a.AdmittedAt.Equal(testNow) {
		t.Errorf("admission not initialized: %+v", a)
	}
	if repo.beds[b.ID].State != BedOccupied {
		t.Errorf("bed not occupied: %s", repo.beds[b.ID].State)
	}

	// The occupied bed rejects a second admission.
	err := svc.Admit(ctx, newAdmission(b.ID))
	var bedErr *BedStateError
	if !errors.As(err, &bedErr) {
		t.Fatalf("got %v, want BedStateError", err)
	}
	if bedErr.State != BedOccupied {
		t.Errorf("error names state %s, want occupied", bedErr.State)
	}
}

func TestDischargeFreesBed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	b := seedBed(t, svc, "G-01")
	a := newAdmission(b.ID)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatal(err)
	}

	discharged, err := svc.Discharge(ctx, a.ID, DischargeMedical, "recovered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discharged.Status != StatusDischarged || discharged.DischargedAt == nil {
		t.Errorf("discharge not recorded: %+v", discharged)
	}
	if repo.beds[b.ID].State != BedFree {
		t.Errorf("bed not freed: %s", repo.beds[b.ID].State)
	}

	if _, err := svc.Discharge(ctx, a.ID, DischargeMedical, ""); !errors.Is(err, ErrAlreadyDischarged) {
		t.Errorf("second discharge: got %v, want ErrAlreadyDischarged", err)
	}
}

func TestDischargeValidatesType(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Discharge(context.Background(), uuid.New(), "escape", ""); !errors.Is(err, ErrInvalidDischarge) {
		t.Fatalf("got %v, want ErrInvalidDischarge", err)
	}
}

func TestBedMaintenance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := seedBed(t, svc, "G-01")

	updated, err := svc.SetBedMaintenance(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.State != BedMaintenance {
		t.Errorf("got state %s, want maintenance", updated.State)
	}

	// An occupied bed cannot enter maintenance.
	b2 := seedBed(t, svc, "G-02")
	if err := svc.Admit(ctx, newAdmission(b2.ID)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetBedMaintenance(ctx, b2.ID, true); err == nil {
		t.Error("expected error for occupied bed")
	}
}

func TestProgressNotesOnlyWhileActive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := seedBed(t, svc, "G-01")
	a := newAdmission(b.ID)
	if err := svc.Admit(ctx, a); err != nil {
		t.Fatal(err)
	}

	n := &ProgressNote{AdmissionID: a.ID, AuthorID: uuid.New(), Note: "afebrile, stable"}
	if err := svc.AddProgressNote(ctx, n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Discharge(ctx, a.ID, DischargeMedical, ""); err != nil {
		t.Fatal(err)
	}
	late := &ProgressNote{AdmissionID: a.ID, AuthorID: uuid.New(), Note: "late"}
	if err := svc.AddProgressNote(ctx, late); !errors.Is(err, ErrAlreadyDischarged) {
		t.Errorf("got %v, want ErrAlreadyDischarged", err)
	}

	notes, err := svc.ListProgressNotes(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Errorf("got %d notes, want 1", len(notes))
	}
}

func TestDaysAdmitted(t *testing.T) {
	a := &Admission{AdmittedAt: testNow.Add(-3 * 24 * time.Hour)}
	if got := a.DaysAdmitted(testNow); got != 3 {
		t.Errorf("active stay: got %d, want 3", got)
	}

	sameDay := &Admission{AdmittedAt: testNow.Add(-2 * time.Hour)}
	if got := sameDay.DaysAdmitted(testNow); got != 1 {
		t.Errorf("same-day stay: got %d, want 1", got)
	}

	discharged := testNow.Add(-24 * time.Hour)
	a.DischargedAt = &discharged
	if got := a.DaysAdmitted(testNow); got != 2 {
		t.Errorf("discharged stay: got %d, want 2", got)
	}
}
