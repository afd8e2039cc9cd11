package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/common"
	"github.com/noah-isme/backend-parking/internal/store"
)

// Repository captures the driver and vehicle persistence methods the registry
// requires.
type Repository interface {
	CreateDriver(ctx context.Context, db store.DBTX, d store.Driver) (store.Driver, error)
	GetDriver(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Driver, error)
	SetDriverActive(ctx context.Context, db store.DBTX, id uuid.UUID, active bool) (store.Driver, error)
	ListDrivers(ctx context.Context, db store.DBTX, limit, offset int) ([]store.Driver, error)
	CreateVehicle(ctx context.Context, db store.DBTX, v store.Vehicle) (store.Vehicle, error)
	GetVehicle(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Vehicle, error)
	SetVehicleActive(ctx context.Context, db store.DBTX, id uuid.UUID, active bool) (store.Vehicle, error)
	ListVehicles(ctx context.Context, db store.DBTX, limit, offset int) ([]store.Vehicle, error)
}

// Service manages the driver and vehicle registries that sessions reference.
type Service struct {
	Repo   Repository
	DB     store.DBTX
	Logger zerolog.Logger
}

// CreateDriver registers a driver with zeroed loyalty counters.
func (s *Service) CreateDriver(ctx context.Context, name, phone string) (store.Driver, error) {
	if name == "" {
		return store.Driver{}, common.ValidationError("driver name is required")
	}
	d := store.Driver{
		ID:     uuid.New(),
		Name:   name,
		Phone:  phone,
		Active: true,
	}
	created, err := s.Repo.CreateDriver(ctx, s.DB, d)
	if err != nil {
		return store.Driver{}, err
	}
	s.Logger.Info().Str("driver_id", created.ID.String()).Msg("driver registered")
	return created, nil
}

// GetDriver fetches one driver.
func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (store.Driver, error) {
	d, err := s.Repo.GetDriver(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Driver{}, common.NotFoundError("driver not found")
		}
		return store.Driver{}, err
	}
	return d, nil
}

// SetDriverActive toggles a driver's active flag. Inactive drivers keep their
// history and counters but cannot start new sessions.
func (s *Service) SetDriverActive(ctx context.Context, id uuid.UUID, active bool) (store.Driver, error) {
	d, err := s.Repo.SetDriverActive(ctx, s.DB, id, active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Driver{}, common.NotFoundError("driver not found")
		}
		return store.Driver{}, err
	}
	s.Logger.Info().Str("driver_id", id.String()).Bool("active", active).Msg("driver status changed")
	return d, nil
}

// ListDrivers returns a page of drivers.
func (s *Service) ListDrivers(ctx context.Context, page, perPage int) ([]store.Driver, error) {
	return s.Repo.ListDrivers(ctx, s.DB, perPage, (page-1)*perPage)
}

// CreateVehicle registers a vehicle under one of the accepted types.
func (s *Service) CreateVehicle(ctx context.Context, plate, vehicleType string, year int) (store.Vehicle, error) {
	if plate == "" {
		return store.Vehicle{}, common.ValidationError("vehicle plate is required")
	}
	parsed, err := billing.ParseVehicleType(vehicleType)
	if err != nil {
		return store.Vehicle{}, common.ValidationError(err.Error())
	}
	v := store.Vehicle{
		ID:     uuid.New(),
		Plate:  plate,
		Type:   parsed,
		Year:   year,
		Active: true,
	}
	created, err := s.Repo.CreateVehicle(ctx, s.DB, v)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.Vehicle{}, common.ValidationError("plate is already registered")
		}
		return store.Vehicle{}, err
	}
	s.Logger.Info().Str("vehicle_id", created.ID.String()).Str("plate", created.Plate).Msg("vehicle registered")
	return created, nil
}

// GetVehicle fetches one vehicle.
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (store.Vehicle, error) {
	v, err := s.Repo.GetVehicle(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Vehicle{}, common.NotFoundError("vehicle not found")
		}
		return store.Vehicle{}, err
	}
	return v, nil
}

// SetVehicleActive toggles a vehicle's active flag.
func (s *Service) SetVehicleActive(ctx context.Context, id uuid.UUID, active bool) (store.Vehicle, error) {
	v, err := s.Repo.SetVehicleActive(ctx, s.DB, id, active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Vehicle{}, common.NotFoundError("vehicle not found")
		}
		return store.Vehicle{}, err
	}
	s.Logger.Info().Str("vehicle_id", id.String()).Bool("active", active).Msg("vehicle status changed")
	return v, nil
}

// ListVehicles returns a page of vehicles.
func (s *Service) ListVehicles(ctx context.Context, page, perPage int) ([]store.Vehicle, error) {
	return s.Repo.ListVehicles(ctx, s.DB, perPage, (page-1)*perPage)
}
