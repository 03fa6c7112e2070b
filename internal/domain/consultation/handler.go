package consultation

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jsalud/hospital/internal/platform/auth"
	"github.com/jsalud/hospital/internal/platform/metrics"
	"github.com/jsalud/hospital/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := auth.RequireRole(auth.RolePhysician, auth.RoleNurse)
	frontdesk := auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleReceptionist)

	read := api.Group("", frontdesk)
	read.GET("/consultations", h.ListConsultations)
	read.GET("/consultations/availability", h.GetAvailability)
	read.GET("/consultations/:id", h.GetConsultation)
	read.GET("/patients/:id/consultations", h.ListPatientConsultations)

	write := api.Group("", clinical)
	write.POST("/consultations", h.AdmitConsultation)
	write.PUT("/consultations/:id", h.UpdateConsultation)
	write.POST("/consultations/:id/close", h.CloseConsultation)
}

// admitResponse pairs the persisted record with the alerts its vitals
// triggered, so the caller sees them at admission time.
type admitResponse struct {
	Consultation *Consultation `json:"consultation"`
	Alerts       []Alert       `json:"alerts"`
}

func (h *Handler) AdmitConsultation(c echo.Context) error {
	var in Consultation
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alerts, err := h.svc.Admit(c.Request().Context(), &in)
	if err != nil {
		var capErr *CapacityError
		var valErr *ValidationError
		var inErr *InputError
		switch {
		case errors.As(err, &capErr):
			metrics.RecordAdmission(string(capErr.Shift), "capacity_exceeded")
			return echo.NewHTTPError(http.StatusConflict, capErr.Error())
		case errors.Is(err, ErrOutsideHours):
			metrics.RecordAdmission("none", "outside_hours")
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &valErr):
			metrics.RecordAdmission(string(in.Shift), "invalid")
			return echo.NewHTTPError(http.StatusUnprocessableEntity, valErr.Error())
		case errors.As(err, &inErr):
			return echo.NewHTTPError(http.StatusBadRequest, inErr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	metrics.RecordAdmission(string(in.Shift), "admitted")
	for _, a := range alerts {
		metrics.RecordClinicalAlert(a.Kind)
	}
	return c.JSON(http.StatusCreated, admitResponse{Consultation: &in, Alerts: alerts})
}

func (h *Handler) GetAvailability(c echo.Context) error {
	var at time.Time
	if raw := c.QueryParam("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid at timestamp, expected RFC3339")
		}
		at = parsed
	}
	shift := Shift(c.QueryParam("shift"))
	if shift != "" && shift != ShiftMorning && shift != ShiftAfternoon {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid shift")
	}

	av, err := h.svc.CheckAvailability(c.Request().Context(), at, shift)
	if err != nil {
		if errors.Is(err, ErrOutsideHours) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, av)
}

func (h *Handler) GetConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, field := range []string{"patient_id", "physician_id", "shift", "status", "clinic_day", "sector"} {
		if v := c.QueryParam(field); v != "" {
			params[field] = v
		}
	}

	var (
		items []*Consultation
		total int
		err   error
	)
	if len(params) == 0 {
		items, total, err = h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatientConsultations(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyClosed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) CloseConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Close(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyClosed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, rec)
}
