package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-parking/internal/common"
)

// Handler exposes the session lifecycle endpoints.
type Handler struct {
	Svc        *Service
	Validate   *validator.Validate
	PerPage    int
	MaxPerPage int
}

type sessionRequest struct {
	VehicleID string  `json:"vehicle_id" validate:"required,uuid4"`
	DriverID  string  `json:"driver_id" validate:"required,uuid4"`
	EntryTime string  `json:"entry_time" validate:"required"`
	ExitTime  *string `json:"exit_time,omitempty"`
}

// Create handles POST /api/v1/sessions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeRequest(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	created, err := h.Svc.RegisterEntry(r.Context(), EntryInput(input))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Update handles PUT /api/v1/sessions/{id}: closing an open session or
// correcting a recorded one.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id", nil)
		return
	}
	input, err := h.decodeRequest(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	updated, err := h.Svc.RegisterExitOrCorrect(r.Context(), id, UpdateInput(input))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Delete handles DELETE /api/v1/sessions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id", nil)
		return
	}
	if err := h.Svc.DeleteSession(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/v1/sessions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id", nil)
		return
	}
	sess, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sess})
}

// List handles GET /api/v1/sessions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PerPage)
	if h.MaxPerPage > 0 && perPage > h.MaxPerPage {
		perPage = h.MaxPerPage
	}

	sessions, total, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": sessions,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

// Receipt handles GET /api/v1/sessions/{id}/receipt, returning plain text.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id", nil)
		return
	}
	receipt, err := h.Svc.Receipt(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(receipt))
}

func (h *Handler) decodeRequest(r *http.Request) (EntryInput, error) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return EntryInput{}, common.ValidationError("invalid JSON body")
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return EntryInput{}, common.ValidationError(err.Error())
		}
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return EntryInput{}, common.ValidationError("vehicle_id is not a valid UUID")
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return EntryInput{}, common.ValidationError("driver_id is not a valid UUID")
	}
	entry, err := time.Parse(time.RFC3339, req.EntryTime)
	if err != nil {
		return EntryInput{}, common.ValidationError("entry_time must be RFC 3339")
	}

	input := EntryInput{VehicleID: vehicleID, DriverID: driverID, EntryTime: entry}
	if req.ExitTime != nil {
		exit, err := time.Parse(time.RFC3339, *req.ExitTime)
		if err != nil {
			return EntryInput{}, common.ValidationError("exit_time must be RFC 3339")
		}
		input.ExitTime = &exit
	}
	return input, nil
}
