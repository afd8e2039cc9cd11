package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const driverColumns = `id, name, phone, active, paid_hours, paid_minutes, discount_hours, created_at, updated_at`

// CreateDriver inserts a driver with zeroed counters.
func (s *Store) CreateDriver(ctx context.Context, db DBTX, d Driver) (Driver, error) {
	const query = `
		INSERT INTO drivers (id, name, phone, active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
	err := db.QueryRow(ctx, query, d.ID, d.Name, d.Phone, d.Active).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Driver{}, fmt.Errorf("insert driver: %w", err)
	}
	return d, nil
}

// GetDriver fetches one driver by id.
func (s *Store) GetDriver(ctx context.Context, db DBTX, id uuid.UUID) (Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE id = $1`, driverColumns)
	return scanDriver(db.QueryRow(ctx, query, id))
}

// GetDriverForUpdate fetches a driver under a row lock. Callers must run it
// inside a transaction; the lock serialises concurrent counter write-backs.
func (s *Store) GetDriverForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE id = $1 FOR UPDATE`, driverColumns)
	return scanDriver(db.QueryRow(ctx, query, id))
}

// UpdateDriverCounters writes back the cumulative paid-time and discount-bank
// counters computed by the accrual engine.
func (s *Store) UpdateDriverCounters(ctx context.Context, db DBTX, d Driver) error {
	const query = `
		UPDATE drivers
		SET paid_hours = $2, paid_minutes = $3, discount_hours = $4, updated_at = now()
		WHERE id = $1`
	tag, err := db.Exec(ctx, query, d.ID, d.Counters.PaidHours, d.Counters.PaidMinutes, d.Counters.DiscountHours)
	if err != nil {
		return fmt.Errorf("update driver counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update driver counters: driver %s not found", d.ID)
	}
	return nil
}

// SetDriverActive toggles the active flag.
func (s *Store) SetDriverActive(ctx context.Context, db DBTX, id uuid.UUID, active bool) (Driver, error) {
	query := fmt.Sprintf(`
		UPDATE drivers SET active = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, driverColumns)
	return scanDriver(db.QueryRow(ctx, query, id, active))
}

// ListDrivers returns drivers ordered by creation time.
func (s *Store) ListDrivers(ctx context.Context, db DBTX, limit, offset int) ([]Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers ORDER BY created_at DESC LIMIT $1 OFFSET $2`, driverColumns)
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func scanDriver(row rowScanner) (Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Phone,
		&d.Active,
		&d.Counters.PaidHours,
		&d.Counters.PaidMinutes,
		&d.Counters.DiscountHours,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return Driver{}, err
	}
	return d, nil
}
