package specialty

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	specialists map[uuid.UUID]*Specialist
}

func newMockRepo() *mockRepo {
	return &mockRepo{specialists: make(map[uuid.UUID]*Specialist)}
}

func (m *mockRepo) Create(_ context.Context, s *Specialist) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.specialists[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Specialist, error) {
	s, ok := m.specialists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) Update(_ context.Context, s *Specialist) error {
	if _, ok := m.specialists[s.ID]; !ok {
		return ErrNotFound
	}
	m.specialists[s.ID] = s
	return nil
}

func (m *mockRepo) List(_ context.Context, specialty string, limit, offset int) ([]*Specialist, int, error) {
	var result []*Specialist
	for _, s := range m.specialists {
		if s.Active && (specialty == "" || s.Specialty == specialty) {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func newTestHandler() (*Handler, *echo.Echo, *mockRepo) {
	repo := newMockRepo()
	return NewHandler(repo), echo.New(), repo
}

func TestHandler_CreateSpecialist(t *testing.T) {
	h, e, _ := newTestHandler()

	body := `{"physician_name":"Dr. Rojas","specialty":"cardiology","shift_label":"tuesdays AM"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/specialists", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateSpecialist(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var s Specialist
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if !s.Active {
		t.Error("new specialist should be active")
	}
}

func TestHandler_CreateSpecialist_MissingFields(t *testing.T) {
	h, e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/specialists", strings.NewReader(`{"specialty":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateSpecialist(c); err == nil {
		t.Error("expected error for missing physician_name")
	}
}

func TestHandler_DeactivateSpecialist(t *testing.T) {
	h, e, repo := newTestHandler()

	s := &Specialist{PhysicianName: "Dr. Rojas", Specialty: "cardiology", Active: true}
	repo.Create(context.Background(), s)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(s.ID.String())

	if err := h.DeactivateSpecialist(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if repo.specialists[s.ID].Active {
		t.Error("specialist still active")
	}
}
