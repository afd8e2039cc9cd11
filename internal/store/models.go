package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-parking/internal/billing"
)

// Session is one vehicle's stay in the lot. A nil ExitTime means the session
// is still open and every derived field holds its zero default; a closed
// session carries the full billing breakdown plus the rate snapshots taken
// when it was opened.
type Session struct {
	ID             uuid.UUID       `json:"id"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	DriverID       uuid.UUID       `json:"driver_id"`
	EntryTime      time.Time       `json:"entry_time"`
	ExitTime       *time.Time      `json:"exit_time,omitempty"`
	Hours          int             `json:"hours"`
	Minutes        int             `json:"minutes"`
	FineHours      int             `json:"fine_hours"`
	FineMinutes    int             `json:"fine_minutes"`
	DiscountHours  int             `json:"discount_hours"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	FineHourlyRate decimal.Decimal `json:"fine_hourly_rate"`
	FineAmount     decimal.Decimal `json:"fine_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Open reports whether the session has no exit recorded yet.
func (s Session) Open() bool { return s.ExitTime == nil }

// Driver accrues paid parking time and discount hours across sessions. The
// counters are mutated exclusively by the session engine.
type Driver struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone"`
	Active    bool                   `json:"active"`
	Counters  billing.DriverCounters `json:"counters"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Vehicle is a registered vehicle typed over the closed vehicle-type set.
type Vehicle struct {
	ID        uuid.UUID           `json:"id"`
	Plate     string              `json:"plate"`
	Type      billing.VehicleType `json:"type"`
	Year      int                 `json:"year"`
	Active    bool                `json:"active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
