package tariff

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/common"
)

// Handler exposes tariff management endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createRequest struct {
	HourlyRate             string `json:"hourly_rate" validate:"required"`
	FinePerMinute          string `json:"fine_per_minute" validate:"required"`
	OpensAt                string `json:"opens_at" validate:"required"`
	ClosesAt               string `json:"closes_at" validate:"required"`
	DiscountThresholdHours int    `json:"discount_threshold_hours" validate:"gte=0"`
	DiscountGrantHours     int    `json:"discount_grant_hours" validate:"gte=0"`
	DiscountEnabled        bool   `json:"discount_enabled"`
	MotorcycleSpots        int    `json:"motorcycle_spots" validate:"gte=0"`
	CarSpots               int    `json:"car_spots" validate:"gte=0"`
	VanSpots               int    `json:"van_spots" validate:"gte=0"`
}

// Create handles POST /api/v1/tariffs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
	}

	t, err := tariffFromRequest(req)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	created, err := h.Svc.Create(r.Context(), t)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Latest handles GET /api/v1/tariffs/latest.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.Latest(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": t})
}

func tariffFromRequest(req createRequest) (billing.Tariff, error) {
	hourlyRate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil {
		return billing.Tariff{}, common.ValidationError("hourly_rate is not a valid amount")
	}
	finePerMinute, err := decimal.NewFromString(req.FinePerMinute)
	if err != nil {
		return billing.Tariff{}, common.ValidationError("fine_per_minute is not a valid amount")
	}
	opensAt, err := billing.ParseTimeOfDay(req.OpensAt)
	if err != nil {
		return billing.Tariff{}, common.ValidationError("opens_at must be HH:MM")
	}
	closesAt, err := billing.ParseTimeOfDay(req.ClosesAt)
	if err != nil {
		return billing.Tariff{}, common.ValidationError("closes_at must be HH:MM")
	}

	return billing.Tariff{
		HourlyRate:             hourlyRate,
		FinePerMinute:          finePerMinute,
		OpensAt:                opensAt,
		ClosesAt:               closesAt,
		DiscountThresholdHours: req.DiscountThresholdHours,
		DiscountGrantHours:     req.DiscountGrantHours,
		DiscountEnabled:        req.DiscountEnabled,
		MotorcycleSpots:        req.MotorcycleSpots,
		CarSpots:               req.CarSpots,
		VanSpots:               req.VanSpots,
	}, nil
}
