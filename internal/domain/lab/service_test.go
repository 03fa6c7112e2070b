package lab

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockRepo assigns codes from an atomic counter, mirroring the database
// sequence.
type mockRepo struct {
	mu      sync.Mutex
	seq     int64
	orders  map[uuid.UUID]*Order
	results map[uuid.UUID]*Result
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		orders:  make(map[uuid.UUID]*Order),
		results: make(map[uuid.UUID]*Result),
	}
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	o.ID = uuid.New()
	o.Code = fmt.Sprintf("LAB-%d-%d", o.RequestedAt.Year(), m.seq)
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) List(_ context.Context, status string, limit, offset int) ([]*Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			result = append(result, o)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Order
	for _, o := range m.orders {
		if o.PatientID == patientID {
			result = append(result, o)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) AddResult(_ context.Context, r *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	m.results[r.ID] = r
	return nil
}

func (m *mockRepo) ListResults(_ context.Context, orderID uuid.UUID) ([]*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Result
	for _, r := range m.results {
		if r.OrderID == orderID {
			result = append(result, r)
		}
	}
	return result, nil
}

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(newMockRepo())
	svc.now = func() time.Time { return testNow }
	return svc
}

func newOrder() *Order {
	return &Order{
		PatientID:   uuid.New(),
		PhysicianID: uuid.New(),
		Tests:       "complete blood count, glucose",
	}
}

func TestCreateOrderGeneratesCode(t *testing.T) {
	svc := newTestService()
	o := newOrder()
	if err := svc.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Code != "LAB-2026-1" {
		t.Errorf("got code %s, want LAB-2026-1", o.Code)
	}
	if o.Status != StatusPending {
		t.Errorf("got status %s, want pending", o.Status)
	}
}

// Concurrent orders must all receive distinct codes.
func TestCreateOrderConcurrentCodes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const n = 30
	var wg sync.WaitGroup
	codes := make([]string, n)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			o := newOrder()
			if err := svc.CreateOrder(ctx, o); err != nil {
				t.Errorf("writer %d: %v", w, err)
				return
			}
			codes[w] = o.Code
		}(w)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("duplicate order code %s", code)
		}
		seen[code] = true
	}
}

func TestOrderLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	o := newOrder()
	if err := svc.CreateOrder(ctx, o); err != nil {
		t.Fatal(err)
	}

	// Completing a pending order is rejected.
	if _, err := svc.Complete(ctx, o.ID, []*Result{{TestName: "glucose", Value: "92 mg/dL"}}); err == nil {
		t.Error("expected error completing a pending order")
	}

	started, err := svc.Start(ctx, o.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress {
		t.Errorf("got status %s, want in_progress", started.Status)
	}
	if _, err := svc.Start(ctx, o.ID); err == nil {
		t.Error("expected error starting twice")
	}

	completed, err := svc.Complete(ctx, o.ID, []*Result{
		{TestName: "glucose", Value: "92 mg/dL", ReferenceRange: strPtr("70-100")},
		{TestName: "hemoglobin", Value: "14.1 g/dL"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted || completed.CompletedAt == nil {
		t.Errorf("completion not recorded: %+v", completed)
	}

	results, err := svc.Results(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}

	if _, err := svc.Complete(ctx, o.ID, nil); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("got %v, want ErrAlreadyCompleted", err)
	}
}

func strPtr(s string) *string { return &s }
