package registry

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-parking/internal/common"
)

// Handler exposes the driver and vehicle registry endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	PerPage  int
}

type createDriverRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"omitempty,min=5"`
}

type createVehicleRequest struct {
	Plate string `json:"plate" validate:"required,min=5"`
	Type  string `json:"type" validate:"required"`
	Year  int    `json:"year" validate:"omitempty,gte=1900"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// CreateDriver handles POST /api/v1/drivers.
func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.Svc.CreateDriver(r.Context(), req.Name, req.Phone)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// GetDriver handles GET /api/v1/drivers/{id}.
func (h *Handler) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	d, err := h.Svc.GetDriver(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": d})
}

// SetDriverActive handles PATCH /api/v1/drivers/{id}/active.
func (h *Handler) SetDriverActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.Svc.SetDriverActive(r.Context(), id, req.Active)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": d})
}

// ListDrivers handles GET /api/v1/drivers.
func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PerPage)
	drivers, err := h.Svc.ListDrivers(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": drivers})
}

// CreateVehicle handles POST /api/v1/vehicles.
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.Svc.CreateVehicle(r.Context(), req.Plate, req.Type, req.Year)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// GetVehicle handles GET /api/v1/vehicles/{id}.
func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	v, err := h.Svc.GetVehicle(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": v})
}

// SetVehicleActive handles PATCH /api/v1/vehicles/{id}/active.
func (h *Handler) SetVehicleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if !h.decode(w, r, &req) {
		return
	}
	v, err := h.Svc.SetVehicleActive(r.Context(), id, req.Active)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": v})
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PerPage)
	vehicles, err := h.Svc.ListVehicles(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": vehicles})
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return false
		}
	}
	return true
}
