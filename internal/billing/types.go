package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownVehicleType is returned when a vehicle type outside the closed
	// set reaches the engine. This is a programming or data-integrity fault,
	// not a user input error.
	ErrUnknownVehicleType = errors.New("billing: unknown vehicle type")
	// ErrInvalidBusinessWindow is returned when a tariff's business hours do
	// not form a non-empty same-day window.
	ErrInvalidBusinessWindow = errors.New("billing: business window must open before it closes")
)

// VehicleType enumerates the closed set of vehicle categories the lot accepts.
type VehicleType string

const (
	Motorcycle VehicleType = "motorcycle"
	Car        VehicleType = "car"
	Van        VehicleType = "van"
)

// ParseVehicleType normalises a string into a VehicleType.
func ParseVehicleType(value string) (VehicleType, error) {
	switch VehicleType(strings.ToLower(strings.TrimSpace(value))) {
	case Motorcycle:
		return Motorcycle, nil
	case Car:
		return Car, nil
	case Van:
		return Van, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVehicleType, value)
	}
}

// Valid reports whether the type belongs to the closed set.
func (v VehicleType) Valid() bool {
	switch v {
	case Motorcycle, Car, Van:
		return true
	default:
		return false
	}
}

func (v VehicleType) String() string { return string(v) }

// TimeOfDay is a clock time expressed as minutes since midnight. It carries no
// date or zone and is rendered as "HH:MM".
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("billing: parse time of day %q: %w", value, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the value as minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// MarshalJSON renders the time as a "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts a "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	parsed, err := ParseTimeOfDay(trimmed)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tariff is the active billing configuration applied to sessions. Only the
// most recently created tariff is authoritative.
type Tariff struct {
	ID                     uuid.UUID       `json:"id"`
	HourlyRate             decimal.Decimal `json:"hourly_rate"`
	FinePerMinute          decimal.Decimal `json:"fine_per_minute"`
	OpensAt                TimeOfDay       `json:"opens_at"`
	ClosesAt               TimeOfDay       `json:"closes_at"`
	DiscountThresholdHours int             `json:"discount_threshold_hours"`
	DiscountGrantHours     int             `json:"discount_grant_hours"`
	DiscountEnabled        bool            `json:"discount_enabled"`
	MotorcycleSpots        int             `json:"motorcycle_spots"`
	CarSpots               int             `json:"car_spots"`
	VanSpots               int             `json:"van_spots"`
	CreatedAt              time.Time       `json:"created_at"`
}

// FineHourlyRate derives the hourly fine rate snapshotted onto sessions at
// entry time: the per-minute fine rate scaled to an hour.
func (t Tariff) FineHourlyRate() decimal.Decimal {
	return t.FinePerMinute.Mul(decimal.NewFromInt(60))
}

// SpotsFor returns the configured capacity for the given vehicle type. The
// switch is exhaustive over the closed set; anything else fails loudly.
func (t Tariff) SpotsFor(vehicleType VehicleType) (int, error) {
	switch vehicleType {
	case Motorcycle:
		return t.MotorcycleSpots, nil
	case Car:
		return t.CarSpots, nil
	case Van:
		return t.VanSpots, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicleType, vehicleType)
	}
}

// Validate checks the tariff invariants enforced at creation time.
func (t Tariff) Validate() error {
	if t.OpensAt >= t.ClosesAt {
		return ErrInvalidBusinessWindow
	}
	if t.HourlyRate.IsNegative() || t.FinePerMinute.IsNegative() {
		return errors.New("billing: rates must not be negative")
	}
	if t.DiscountThresholdHours < 0 || t.DiscountGrantHours < 0 {
		return errors.New("billing: discount settings must not be negative")
	}
	if t.MotorcycleSpots < 0 || t.CarSpots < 0 || t.VanSpots < 0 {
		return errors.New("billing: capacities must not be negative")
	}
	return nil
}

// Stay is the outcome of the duration and fine calculation for one session:
// total parked time and the portion of it outside business hours, each split
// into whole hours plus remainder minutes.
type Stay struct {
	Hours       int `json:"hours"`
	Minutes     int `json:"minutes"`
	FineHours   int `json:"fine_hours"`
	FineMinutes int `json:"fine_minutes"`
}

// DriverCounters is the per-driver accumulation state: lifetime paid parking
// time plus the earned discount bank. Values move through the accrual engine
// by value and are written back atomically by the caller.
type DriverCounters struct {
	PaidHours     int `json:"paid_hours"`
	PaidMinutes   int `json:"paid_minutes"`
	DiscountHours int `json:"discount_hours"`
}
