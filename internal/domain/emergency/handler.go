package emergency

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jsalud/hospital/internal/platform/auth"
	"github.com/jsalud/hospital/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	clinical.POST("/emergencies", h.RegisterCase)
	clinical.GET("/emergencies", h.ListCases)
	clinical.GET("/emergencies/:id", h.GetCase)
	clinical.POST("/emergencies/:id/care", h.StartCare)
	clinical.PUT("/emergencies/:id/triage", h.Retriage)
	clinical.POST("/emergencies/:id/resolve", h.ResolveCase)
	clinical.PUT("/emergencies/:id/patient", h.IdentifyPatient)
}

// caseView decorates a case with its derived triage labels.
type caseView struct {
	*Case
	TriageName     string `json:"triage_name"`
	TriageColor    string `json:"triage_color"`
	WaitingMinutes int    `json:"waiting_minutes"`
}

func (h *Handler) view(c *Case) caseView {
	return caseView{
		Case:           c,
		TriageName:     c.TriageLevel.Name(),
		TriageColor:    c.TriageLevel.Color(),
		WaitingMinutes: c.WaitingMinutes(h.svc.now()),
	}
}

func (h *Handler) RegisterCase(c echo.Context) error {
	var in Case
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if err := h.svc.Register(c.Request().Context(), &in); err != nil {
		switch {
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidTriage), errors.Is(err, ErrInvalidGlasgow):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, h.view(&in))
}

func (h *Handler) GetCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emergency case not found")
	}
	return c.JSON(http.StatusOK, h.view(rec))
}

func (h *Handler) ListCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	var (
		items []*Case
		total int
		err   error
	)
	if c.QueryParam("active") == "true" {
		items, total, err = h.svc.ListActive(c.Request().Context(), pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views := make([]caseView, len(items))
	for idx, item := range items {
		views[idx] = h.view(item)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) StartCare(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	attendedBy, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	rec, err := h.svc.StartCare(c.Request().Context(), id, attendedBy)
	if err != nil {
		return mapCaseError(err)
	}
	return c.JSON(http.StatusOK, h.view(rec))
}

type retriageRequest struct {
	TriageLevel TriageLevel `json:"triage_level"`
}

func (h *Handler) Retriage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req retriageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Retriage(c.Request().Context(), id, req.TriageLevel)
	if err != nil {
		return mapCaseError(err)
	}
	return c.JSON(http.StatusOK, h.view(rec))
}

type resolveRequest struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome"`
}

func (h *Handler) ResolveCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Resolve(c.Request().Context(), id, req.Status, req.Outcome)
	if err != nil {
		return mapCaseError(err)
	}
	return c.JSON(http.StatusOK, h.view(rec))
}

type identifyRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
}

func (h *Handler) IdentifyPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req identifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	rec, err := h.svc.Identify(c.Request().Context(), id, req.PatientID)
	if err != nil {
		return mapCaseError(err)
	}
	return c.JSON(http.StatusOK, h.view(rec))
}

func mapCaseError(err error) error {
	var stErr *StateError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &stErr):
		return echo.NewHTTPError(http.StatusConflict, stErr.Error())
	case errors.Is(err, ErrInvalidTriage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
