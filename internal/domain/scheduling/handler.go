package scheduling

import (
	"errors"
	"net/http"
	"time"

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
	staff := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleReceptionist))
	staff.POST("/appointments", h.Schedule)
	staff.GET("/appointments", h.ListAppointments)
	staff.GET("/appointments/:id", h.GetAppointment)
	staff.PUT("/appointments/:id/reschedule", h.Reschedule)
	staff.PUT("/appointments/:id/status", h.ChangeStatus)
}

func (h *Handler) Schedule(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if a.PatientID == uuid.Nil || a.PhysicianID == uuid.Nil || a.ScheduledAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id, physician_id and scheduled_at are required")
	}
	if err := h.svc.Schedule(c.Request().Context(), &a); err != nil {
		switch {
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrPastSlot):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		items []*Appointment
		total int
		err   error
	)
	switch {
	case c.QueryParam("day") != "":
		day, parseErr := time.Parse("2006-01-02", c.QueryParam("day"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid day, expected YYYY-MM-DD")
		}
		items, total, err = h.svc.ListByDay(ctx, day, pg.Limit, pg.Offset)
	case c.QueryParam("physician_id") != "":
		physicianID, parseErr := uuid.Parse(c.QueryParam("physician_id"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid physician_id")
		}
		items, total, err = h.svc.ListByPhysician(ctx, physicianID, pg.Limit, pg.Offset)
	case c.QueryParam("patient_id") != "":
		patientID, parseErr := uuid.Parse(c.QueryParam("patient_id"))
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err = h.svc.ListByPatient(ctx, patientID, pg.Limit, pg.Offset)
	default:
		items, total, err = h.svc.List(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type rescheduleRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Reschedule(c.Request().Context(), id, req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		return mapSchedulingError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Transition(c.Request().Context(), id, req.Status)
	if err != nil {
		return mapSchedulingError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func mapSchedulingError(err error) error {
	var trErr *TransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &trErr):
		return echo.NewHTTPError(http.StatusConflict, trErr.Error())
	case errors.Is(err, ErrPastSlot):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
