package lab

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
	ordering := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	ordering.POST("/lab/orders", h.CreateOrder)

	reading := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleLab))
	reading.GET("/lab/orders", h.ListOrders)
	reading.GET("/lab/orders/:id", h.GetOrder)
	reading.GET("/lab/orders/:id/results", h.ListResults)

	processing := api.Group("", auth.RequireRole(auth.RoleLab))
	processing.POST("/lab/orders/:id/start", h.StartOrder)
	processing.POST("/lab/orders/:id/complete", h.CompleteOrder)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var o Order
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if o.PatientID == uuid.Nil || o.PhysicianID == uuid.Nil || o.Tests == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id, physician_id and tests are required")
	}
	if err := h.svc.CreateOrder(c.Request().Context(), &o); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Order codes are also accepted in place of ids.
		o, codeErr := h.svc.GetByCode(c.Request().Context(), c.Param("id"))
		if codeErr != nil {
			return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
		}
		return c.JSON(http.StatusOK, o)
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListOrders(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if raw := c.QueryParam("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(ctx, patientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	status := c.QueryParam("status")
	if status != "" && status != StatusPending && status != StatusInProgress && status != StatusCompleted {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	items, total, err := h.svc.List(ctx, status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) StartOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.Start(c.Request().Context(), id)
	if err != nil {
		return mapLabError(err)
	}
	return c.JSON(http.StatusOK, o)
}

type completeRequest struct {
	Results []*Result `json:"results"`
}

func (h *Handler) CompleteOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Results) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one result is required")
	}
	o, err := h.svc.Complete(c.Request().Context(), id, req.Results)
	if err != nil {
		return mapLabError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListResults(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	results, err := h.svc.Results(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}

func mapLabError(err error) error {
	var stErr *StatusError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyCompleted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &stErr):
		return echo.NewHTTPError(http.StatusConflict, stErr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
