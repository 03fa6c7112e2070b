package inpatient

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
	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/beds", h.CreateBed)
	admin.PUT("/beds/:id/maintenance", h.SetBedMaintenance)

	clinical := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	clinical.GET("/beds", h.ListBeds)
	clinical.POST("/admissions", h.Admit)
	clinical.GET("/admissions", h.ListAdmissions)
	clinical.GET("/admissions/:id", h.GetAdmission)
	clinical.POST("/admissions/:id/discharge", h.Discharge)
	clinical.POST("/admissions/:id/notes", h.AddProgressNote)
	clinical.GET("/admissions/:id/notes", h.ListProgressNotes)
}

func (h *Handler) CreateBed(c echo.Context) error {
	var b Bed
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if b.Code == "" || b.Ward == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code and ward are required")
	}
	if err := h.svc.CreateBed(c.Request().Context(), &b); err != nil {
		if errors.Is(err, ErrDuplicateBedCode) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBeds(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListBeds(c.Request().Context(), c.QueryParam("ward"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type maintenanceRequest struct {
	UnderMaintenance bool `json:"under_maintenance"`
}

func (h *Handler) SetBedMaintenance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req maintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.SetBedMaintenance(c.Request().Context(), id, req.UnderMaintenance)
	if err != nil {
		return mapInpatientError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Admit(c echo.Context) error {
	var a Admission
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if a.PatientID == uuid.Nil || a.BedID == uuid.Nil || a.PhysicianID == uuid.Nil || a.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id, bed_id, physician_id and reason are required")
	}
	if err := h.svc.Admit(c.Request().Context(), &a); err != nil {
		return mapInpatientError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAdmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAdmission(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "admission not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAdmissions(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.ListAdmissions(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type dischargeRequest struct {
	DischargeType string `json:"discharge_type"`
	Summary       string `json:"summary"`
}

func (h *Handler) Discharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req dischargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Discharge(c.Request().Context(), id, req.DischargeType, req.Summary)
	if err != nil {
		return mapInpatientError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) AddProgressNote(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	authorID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	var n ProgressNote
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if n.Note == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "note is required")
	}
	n.AdmissionID = admissionID
	n.AuthorID = authorID
	if err := h.svc.AddProgressNote(c.Request().Context(), &n); err != nil {
		return mapInpatientError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListProgressNotes(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	notes, err := h.svc.ListProgressNotes(c.Request().Context(), admissionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

func mapInpatientError(err error) error {
	var bedErr *BedStateError
	switch {
	case errors.Is(err, ErrBedNotFound), errors.Is(err, ErrAdmissionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &bedErr):
		return echo.NewHTTPError(http.StatusConflict, bedErr.Error())
	case errors.Is(err, ErrAlreadyDischarged):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidDischarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
