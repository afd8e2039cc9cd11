package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-parking/internal/billing"
)

const vehicleColumns = `id, plate, vehicle_type, year, active, created_at, updated_at`

// CreateVehicle inserts a vehicle.
func (s *Store) CreateVehicle(ctx context.Context, db DBTX, v Vehicle) (Vehicle, error) {
	const query = `
		INSERT INTO vehicles (id, plate, vehicle_type, year, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	err := db.QueryRow(ctx, query, v.ID, v.Plate, string(v.Type), v.Year, v.Active).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}
	return v, nil
}

// GetVehicle fetches one vehicle by id.
func (s *Store) GetVehicle(ctx context.Context, db DBTX, id uuid.UUID) (Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1`, vehicleColumns)
	return scanVehicle(db.QueryRow(ctx, query, id))
}

// SetVehicleActive toggles the active flag.
func (s *Store) SetVehicleActive(ctx context.Context, db DBTX, id uuid.UUID, active bool) (Vehicle, error) {
	query := fmt.Sprintf(`
		UPDATE vehicles SET active = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, vehicleColumns)
	return scanVehicle(db.QueryRow(ctx, query, id, active))
}

// ListVehicles returns vehicles ordered by creation time.
func (s *Store) ListVehicles(ctx context.Context, db DBTX, limit, offset int) ([]Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles ORDER BY created_at DESC LIMIT $1 OFFSET $2`, vehicleColumns)
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func scanVehicle(row rowScanner) (Vehicle, error) {
	var (
		v           Vehicle
		vehicleType string
	)
	err := row.Scan(
		&v.ID,
		&v.Plate,
		&vehicleType,
		&v.Year,
		&v.Active,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return Vehicle{}, err
	}
	v.Type = billing.VehicleType(vehicleType)
	return v, nil
}
