package store

import (
	"context"
	"fmt"

	"github.com/noah-isme/backend-parking/internal/billing"
)

const tariffColumns = `id, hourly_rate::text, fine_per_minute::text, opens_at_minutes, closes_at_minutes,
	discount_threshold_hours, discount_grant_hours, discount_enabled,
	motorcycle_spots, car_spots, van_spots, created_at`

// CreateTariff inserts a new tariff record. The newest record becomes the
// authoritative configuration.
func (s *Store) CreateTariff(ctx context.Context, db DBTX, t billing.Tariff) (billing.Tariff, error) {
	const query = `
		INSERT INTO tariffs (
			id, hourly_rate, fine_per_minute, opens_at_minutes, closes_at_minutes,
			discount_threshold_hours, discount_grant_hours, discount_enabled,
			motorcycle_spots, car_spots, van_spots
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	err := db.QueryRow(ctx, query,
		t.ID,
		t.HourlyRate.String(),
		t.FinePerMinute.String(),
		t.OpensAt.Minutes(),
		t.ClosesAt.Minutes(),
		t.DiscountThresholdHours,
		t.DiscountGrantHours,
		t.DiscountEnabled,
		t.MotorcycleSpots,
		t.CarSpots,
		t.VanSpots,
	).Scan(&t.CreatedAt)
	if err != nil {
		return billing.Tariff{}, fmt.Errorf("insert tariff: %w", err)
	}
	return t, nil
}

// LatestTariff returns the most recently created tariff. pgx.ErrNoRows is
// surfaced unchanged when no tariff was ever configured.
func (s *Store) LatestTariff(ctx context.Context, db DBTX) (billing.Tariff, error) {
	query := fmt.Sprintf(`SELECT %s FROM tariffs ORDER BY created_at DESC, id DESC LIMIT 1`, tariffColumns)
	return scanTariff(db.QueryRow(ctx, query))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTariff(row rowScanner) (billing.Tariff, error) {
	var (
		t                       billing.Tariff
		hourlyRate, finePerMin  string
		opensMinutes, closesMin int
	)
	err := row.Scan(
		&t.ID,
		&hourlyRate,
		&finePerMin,
		&opensMinutes,
		&closesMin,
		&t.DiscountThresholdHours,
		&t.DiscountGrantHours,
		&t.DiscountEnabled,
		&t.MotorcycleSpots,
		&t.CarSpots,
		&t.VanSpots,
		&t.CreatedAt,
	)
	if err != nil {
		return billing.Tariff{}, err
	}
	if t.HourlyRate, err = scanDecimal(hourlyRate); err != nil {
		return billing.Tariff{}, fmt.Errorf("parse hourly rate: %w", err)
	}
	if t.FinePerMinute, err = scanDecimal(finePerMin); err != nil {
		return billing.Tariff{}, fmt.Errorf("parse fine per minute: %w", err)
	}
	t.OpensAt = billing.TimeOfDay(opensMinutes)
	t.ClosesAt = billing.TimeOfDay(closesMin)
	return t, nil
}
