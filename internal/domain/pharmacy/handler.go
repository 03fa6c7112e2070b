package pharmacy

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
	pharmacy := api.Group("", auth.RequireRole(auth.RolePharmacy))
	pharmacy.POST("/medications", h.CreateMedication)
	pharmacy.PUT("/medications/:id", h.UpdateMedication)
	pharmacy.POST("/medications/:id/stock", h.AdjustStock)
	pharmacy.DELETE("/medications/:id", h.Discontinue)

	reading := api.Group("", auth.RequireRole(auth.RolePharmacy, auth.RolePhysician, auth.RoleNurse))
	reading.GET("/medications", h.ListMedications)
	reading.GET("/medications/low-stock", h.ListLowStock)
	reading.GET("/medications/:id", h.GetMedication)
}

// medicationView adds the derived stock and expiry flags.
type medicationView struct {
	*Medication
	LowStock     bool   `json:"low_stock"`
	ExpiryStatus string `json:"expiry_status"`
}

func (h *Handler) view(m *Medication) medicationView {
	return medicationView{
		Medication:   m,
		LowStock:     m.LowStock(),
		ExpiryStatus: m.ExpiryStatus(h.svc.now()),
	}
}

func (h *Handler) views(items []*Medication) []medicationView {
	result := make([]medicationView, len(items))
	for idx, m := range items {
		result[idx] = h.view(m)
	}
	return result
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if m.Name == "" || m.Form == "" || m.Unit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, form and unit are required")
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrDuplicateBarcode) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, h.view(&m))
}

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, h.view(m))
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if barcode := c.QueryParam("barcode"); barcode != "" {
		m, err := h.svc.GetByBarcode(ctx, barcode)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return c.JSON(http.StatusOK, h.view(m))
	}

	var (
		items []*Medication
		total int
		err   error
	)
	if q := c.QueryParam("q"); q != "" {
		items, total, err = h.svc.Search(ctx, q, pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.List(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(h.views(items), total, pg.Limit, pg.Offset))
}

func (h *Handler) ListLowStock(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListLowStock(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(h.views(items), total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(&m))
}

type stockRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) AdjustStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req stockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Delta == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "delta must be non-zero")
	}
	m, err := h.svc.AdjustStock(c.Request().Context(), id, req.Delta)
	if err != nil {
		var stockErr *StockError
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.As(err, &stockErr):
			return echo.NewHTTPError(http.StatusConflict, stockErr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, h.view(m))
}

func (h *Handler) Discontinue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Discontinue(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
