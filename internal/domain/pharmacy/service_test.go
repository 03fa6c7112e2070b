package pharmacy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	mu   sync.Mutex
	meds map[uuid.UUID]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[uuid.UUID]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med.ID = uuid.New()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return med, nil
}

func (m *mockRepo) GetByBarcode(_ context.Context, barcode string) (*Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, med := range m.meds {
		if med.Barcode != nil && *med.Barcode == barcode {
			return med, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meds[med.ID]; !ok {
		return ErrNotFound
	}
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Medication, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Medication
	for _, med := range m.meds {
		if med.Active {
			result = append(result, med)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, q string, limit, offset int) ([]*Medication, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Medication
	for _, med := range m.meds {
		if med.Active && strings.Contains(strings.ToLower(med.Name), strings.ToLower(q)) {
			result = append(result, med)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListLowStock(_ context.Context, limit, offset int) ([]*Medication, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Medication
	for _, med := range m.meds {
		if med.Active && med.LowStock() {
			result = append(result, med)
		}
	}
	return result, len(result), nil
}

// AdjustStock mirrors the guarded UPDATE of the Postgres implementation.
func (m *mockRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (*Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	if med.StockQuantity+delta < 0 {
		return nil, &StockError{Name: med.Name, Available: med.StockQuantity, Requested: -delta}
	}
	med.StockQuantity += delta
	return med, nil
}

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(newMockRepo())
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedMedication(t *testing.T, svc *Service, name string, stock, minimum int) *Medication {
	t.Helper()
	m := &Medication{Name: name, Form: "tablet", Unit: "unit", StockQuantity: stock, MinimumStock: minimum}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("seed medication: %v", err)
	}
	return m
}

func TestCreateRejectsDuplicateBarcode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	barcode := "7791234567890"

	m := &Medication{Name: "Paracetamol 500mg", Form: "tablet", Unit: "unit", Barcode: &barcode}
	if err := svc.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	dup := &Medication{Name: "Other", Form: "tablet", Unit: "unit", Barcode: &barcode}
	if err := svc.Create(ctx, dup); !errors.Is(err, ErrDuplicateBarcode) {
		t.Fatalf("got %v, want ErrDuplicateBarcode", err)
	}
}

func TestAdjustStock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m := seedMedication(t, svc, "Amoxicillin 500mg", 100, 20)

	updated, err := svc.AdjustStock(ctx, m.ID, -30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.StockQuantity != 70 {
		t.Errorf("got stock %d, want 70", updated.StockQuantity)
	}

	// Draining below zero is refused and leaves stock untouched.
	_, err = svc.AdjustStock(ctx, m.ID, -100)
	var stockErr *StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("got %v, want StockError", err)
	}
	if stockErr.Available != 70 || stockErr.Requested != 100 {
		t.Errorf("error carries %d/%d, want 70/100", stockErr.Available, stockErr.Requested)
	}

	current, err := svc.Get(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.StockQuantity != 70 {
		t.Errorf("failed adjustment changed stock: %d", current.StockQuantity)
	}
}

// Concurrent dispensations must never drive stock negative.
func TestAdjustStockConcurrent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m := seedMedication(t, svc, "Ibuprofen 400mg", 10, 2)

	const writers = 25
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			_, errs[w] = svc.AdjustStock(ctx, m.ID, -1)
		}(w)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 10 {
		t.Errorf("got %d successful dispensations, want 10", succeeded)
	}
	current, err := svc.Get(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.StockQuantity != 0 {
		t.Errorf("got stock %d, want 0", current.StockQuantity)
	}
}

func TestLowStockFlag(t *testing.T) {
	m := &Medication{StockQuantity: 20, MinimumStock: 20}
	if !m.LowStock() {
		t.Error("stock at minimum should flag low")
	}
	m.StockQuantity = 21
	if m.LowStock() {
		t.Error("stock above minimum should not flag low")
	}
}

func TestExpiryStatus(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)
	soon := testNow.Add(15 * 24 * time.Hour)
	far := testNow.Add(90 * 24 * time.Hour)

	tests := []struct {
		name   string
		expiry *time.Time
		want   string
	}{
		{"no date", nil, ExpiryCurrent},
		{"expired", &past, ExpiryExpired},
		{"expiring", &soon, ExpiryExpiring},
		{"current", &far, ExpiryCurrent},
	}
	for _, tt := range tests {
		m := &Medication{ExpiryDate: tt.expiry}
		if got := m.ExpiryStatus(testNow); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDiscontinue(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m := seedMedication(t, svc, "Diazepam 10mg", 50, 10)

	if err := svc.Discontinue(ctx, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _, err := svc.List(ctx, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if item.ID == m.ID {
			t.Error("discontinued medication still listed")
		}
	}
}
