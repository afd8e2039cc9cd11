package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/common"
	"github.com/noah-isme/backend-parking/internal/lock"
	"github.com/noah-isme/backend-parking/internal/obs"
	"github.com/noah-isme/backend-parking/internal/store"
)

// Repository captures the persistence methods the orchestrator requires.
type Repository interface {
	InsertSession(ctx context.Context, db store.DBTX, sess store.Session) (store.Session, error)
	UpdateSession(ctx context.Context, db store.DBTX, sess store.Session) (store.Session, error)
	DeleteSession(ctx context.Context, db store.DBTX, id uuid.UUID) (bool, error)
	GetSession(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Session, error)
	CountOpenByType(ctx context.Context, db store.DBTX, vehicleType billing.VehicleType) (int, error)
	ListSessions(ctx context.Context, db store.DBTX, limit, offset int) ([]store.Session, error)
	CountSessions(ctx context.Context, db store.DBTX) (int64, error)
	GetVehicle(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Vehicle, error)
	GetDriver(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Driver, error)
	GetDriverForUpdate(ctx context.Context, db store.DBTX, id uuid.UUID) (store.Driver, error)
	UpdateDriverCounters(ctx context.Context, db store.DBTX, d store.Driver) error
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(db store.DBTX) error) error
}

// Locker serialises critical sections across concurrent requests.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// TariffProvider supplies the active billing configuration.
type TariffProvider interface {
	Latest(ctx context.Context) (billing.Tariff, error)
}

// Service orchestrates the parking-session lifecycle: entry registration with
// capacity enforcement, exit billing with discount accrual, corrections, and
// deletion. Every precondition is checked before any state is mutated.
type Service struct {
	Repo    Repository
	DB      store.DBTX
	Tx      TxRunner
	Tariffs TariffProvider
	Locks   Locker
	Logger  zerolog.Logger
}

// EntryInput carries the fields accepted when registering a session. ExitTime
// may be set to record an already-finished stay in one call.
type EntryInput struct {
	VehicleID uuid.UUID
	DriverID  uuid.UUID
	EntryTime time.Time
	ExitTime  *time.Time
}

// RegisterEntry validates the vehicle, driver, and capacity preconditions and
// creates a session. An open session takes a rate snapshot from the active
// tariff; when an exit time is supplied the session is billed and closed in
// the same call.
func (s *Service) RegisterEntry(ctx context.Context, input EntryInput) (store.Session, error) {
	tariff, err := s.Tariffs.Latest(ctx)
	if err != nil {
		return store.Session{}, err
	}
	vehicle, driver, err := s.validateParticipants(ctx, input.VehicleID, input.DriverID)
	if err != nil {
		return store.Session{}, err
	}

	sess := store.Session{
		ID:             uuid.New(),
		VehicleID:      vehicle.ID,
		DriverID:       driver.ID,
		EntryTime:      input.EntryTime,
		HourlyRate:     tariff.HourlyRate,
		FineHourlyRate: tariff.FineHourlyRate(),
	}

	if input.ExitTime != nil {
		if !input.ExitTime.After(input.EntryTime) {
			return store.Session{}, common.ValidationError("entry time must be before exit time")
		}
		sess.ExitTime = input.ExitTime
		closed, err := s.closeAndInsert(ctx, sess, tariff, vehicle)
		if err != nil {
			return store.Session{}, err
		}
		return closed, nil
	}

	// The capacity check and the insert must be one atomic unit, otherwise
	// two concurrent entries can both pass the check before either commits.
	var created store.Session
	err = s.Locks.WithLock(ctx, lock.CapacityKey(vehicle.Type.String()), func(ctx context.Context) error {
		if err := s.checkCapacity(ctx, tariff, vehicle.Type); err != nil {
			return err
		}
		var insertErr error
		created, insertErr = s.Repo.InsertSession(ctx, s.DB, sess)
		return insertErr
	})
	if err != nil {
		return store.Session{}, err
	}

	obs.SessionsOpenedTotal.WithLabelValues(vehicle.Type.String()).Inc()
	s.Logger.Info().
		Str("session_id", created.ID.String()).
		Str("vehicle_type", vehicle.Type.String()).
		Msg("session opened")
	return created, nil
}

// UpdateInput carries the fields accepted when closing or correcting a session.
type UpdateInput struct {
	VehicleID uuid.UUID
	DriverID  uuid.UUID
	EntryTime time.Time
	ExitTime  *time.Time
}

// RegisterExitOrCorrect closes an open session or corrects an existing one.
// Closing runs the billing pipeline and folds the stay into the driver's
// counters. Correcting an already-closed session recomputes duration, fine,
// and charges from the stored rate snapshots without touching the driver's
// counters again. A closed session cannot be reopened: omitting the exit time
// is only valid while the session is still open, where it keeps the derived
// fields at their zero defaults.
func (s *Service) RegisterExitOrCorrect(ctx context.Context, id uuid.UUID, input UpdateInput) (store.Session, error) {
	sess, err := s.Repo.GetSession(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Session{}, common.NotFoundError("session not found")
		}
		return store.Session{}, err
	}
	tariff, err := s.Tariffs.Latest(ctx)
	if err != nil {
		return store.Session{}, err
	}
	vehicle, driver, err := s.validateParticipants(ctx, input.VehicleID, input.DriverID)
	if err != nil {
		return store.Session{}, err
	}

	wasOpen := sess.Open()
	sess.VehicleID = vehicle.ID
	sess.DriverID = driver.ID
	sess.EntryTime = input.EntryTime
	sess.ExitTime = input.ExitTime

	if input.ExitTime == nil {
		if !wasOpen {
			return store.Session{}, common.ValidationError("closed session cannot be reopened")
		}
		resetDerived(&sess)
		return s.Repo.UpdateSession(ctx, s.DB, sess)
	}

	if !input.ExitTime.After(input.EntryTime) {
		return store.Session{}, common.ValidationError("entry time must be before exit time")
	}

	if wasOpen {
		closed, err := s.closeAndUpdate(ctx, sess, tariff, vehicle)
		if err != nil {
			return store.Session{}, err
		}
		return closed, nil
	}

	// Correction of a closed session: the stay was already accrued to the
	// driver, so only the session's own derived fields are recomputed.
	stay := billing.ComputeStay(sess.EntryTime, *sess.ExitTime, tariff.OpensAt, tariff.ClosesAt)
	applyBilling(&sess, stay, sess.DiscountHours, tariff.DiscountEnabled)
	return s.Repo.UpdateSession(ctx, s.DB, sess)
}

// DeleteSession removes a session permanently.
func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.Repo.DeleteSession(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !deleted {
		return common.NotFoundError("session not found")
	}
	s.Logger.Info().Str("session_id", id.String()).Msg("session deleted")
	return nil
}

// Get fetches one session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (store.Session, error) {
	sess, err := s.Repo.GetSession(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Session{}, common.NotFoundError("session not found")
		}
		return store.Session{}, err
	}
	return sess, nil
}

// List returns a page of sessions plus the total count.
func (s *Service) List(ctx context.Context, page, perPage int) ([]store.Session, int64, error) {
	offset := (page - 1) * perPage
	sessions, err := s.Repo.ListSessions(ctx, s.DB, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountSessions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// validateParticipants ensures both vehicle and driver exist and are active.
func (s *Service) validateParticipants(ctx context.Context, vehicleID, driverID uuid.UUID) (store.Vehicle, store.Driver, error) {
	vehicle, err := s.Repo.GetVehicle(ctx, s.DB, vehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Vehicle{}, store.Driver{}, common.NotFoundError("vehicle not found")
		}
		return store.Vehicle{}, store.Driver{}, err
	}
	if !vehicle.Active {
		return store.Vehicle{}, store.Driver{}, common.InactiveEntityError("vehicle is inactive")
	}
	if !vehicle.Type.Valid() {
		return store.Vehicle{}, store.Driver{}, fmt.Errorf("%w: %q", billing.ErrUnknownVehicleType, vehicle.Type)
	}

	driver, err := s.Repo.GetDriver(ctx, s.DB, driverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Vehicle{}, store.Driver{}, common.NotFoundError("driver not found")
		}
		return store.Vehicle{}, store.Driver{}, err
	}
	if !driver.Active {
		return store.Vehicle{}, store.Driver{}, common.InactiveEntityError("driver is inactive")
	}
	return vehicle, driver, nil
}

func (s *Service) checkCapacity(ctx context.Context, tariff billing.Tariff, vehicleType billing.VehicleType) error {
	spots, err := tariff.SpotsFor(vehicleType)
	if err != nil {
		return err
	}
	occupied, err := s.Repo.CountOpenByType(ctx, s.DB, vehicleType)
	if err != nil {
		return err
	}
	if occupied >= spots {
		obs.CapacityRejectionsTotal.WithLabelValues(vehicleType.String()).Inc()
		return common.CapacityExceededError(fmt.Sprintf("no available spots for vehicle type %s", vehicleType))
	}
	return nil
}

func (s *Service) closeAndInsert(ctx context.Context, sess store.Session, tariff billing.Tariff, vehicle store.Vehicle) (store.Session, error) {
	return s.closeSession(ctx, sess, tariff, vehicle, func(ctx context.Context, db store.DBTX, sess store.Session) (store.Session, error) {
		return s.Repo.InsertSession(ctx, db, sess)
	})
}

func (s *Service) closeAndUpdate(ctx context.Context, sess store.Session, tariff billing.Tariff, vehicle store.Vehicle) (store.Session, error) {
	return s.closeSession(ctx, sess, tariff, vehicle, func(ctx context.Context, db store.DBTX, sess store.Session) (store.Session, error) {
		return s.Repo.UpdateSession(ctx, db, sess)
	})
}

// closeSession runs the billing pipeline for a session with a known exit: it
// computes the stay, folds it into the driver's counters under a per-driver
// lock and a row-locking transaction, prices the session against the entry
// rate snapshots, and persists everything atomically.
func (s *Service) closeSession(
	ctx context.Context,
	sess store.Session,
	tariff billing.Tariff,
	vehicle store.Vehicle,
	persist func(ctx context.Context, db store.DBTX, sess store.Session) (store.Session, error),
) (store.Session, error) {
	stay := billing.ComputeStay(sess.EntryTime, *sess.ExitTime, tariff.OpensAt, tariff.ClosesAt)

	var saved store.Session
	err := s.Locks.WithLock(ctx, lock.DriverKey(sess.DriverID.String()), func(ctx context.Context) error {
		return s.Tx.WithinTx(ctx, func(db store.DBTX) error {
			driver, err := s.Repo.GetDriverForUpdate(ctx, db, sess.DriverID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return common.NotFoundError("driver not found")
				}
				return err
			}

			counters, granted := billing.AccrueDiscount(driver.Counters, stay, tariff)
			driver.Counters = counters
			if err := s.Repo.UpdateDriverCounters(ctx, db, driver); err != nil {
				return err
			}
			if granted > 0 {
				obs.DiscountGrantsTotal.Inc()
			}

			// The session reports the driver's full bank balance, not the
			// grant delta.
			applyBilling(&sess, stay, counters.DiscountHours, tariff.DiscountEnabled)

			saved, err = persist(ctx, db, sess)
			return err
		})
	})
	if err != nil {
		return store.Session{}, err
	}

	obs.SessionsClosedTotal.WithLabelValues(vehicle.Type.String()).Inc()
	obs.SessionDurationHours.Observe(float64(stay.Hours) + float64(stay.Minutes)/60)
	s.Logger.Info().
		Str("session_id", saved.ID.String()).
		Int("hours", stay.Hours).
		Int("minutes", stay.Minutes).
		Str("total", saved.TotalAmount.String()).
		Msg("session closed")
	return saved, nil
}

// applyBilling fills the derived fields of a session from a computed stay.
// The monetary discount is suppressed when discounting is disabled, but the
// reported discount hours still show the bank balance.
func applyBilling(sess *store.Session, stay billing.Stay, discountHours int, discountEnabled bool) {
	effectiveHours := discountHours
	if !discountEnabled {
		effectiveHours = 0
	}
	charges := billing.ComputeCharges(stay, sess.HourlyRate, sess.FineHourlyRate, effectiveHours)

	sess.Hours = stay.Hours
	sess.Minutes = stay.Minutes
	sess.FineHours = stay.FineHours
	sess.FineMinutes = stay.FineMinutes
	sess.DiscountHours = discountHours
	sess.FineAmount = charges.Fine
	sess.DiscountAmount = charges.Discount
	sess.TotalAmount = charges.Total
}

// resetDerived returns every derived field to its open-session zero default.
func resetDerived(sess *store.Session) {
	sess.Hours = 0
	sess.Minutes = 0
	sess.FineHours = 0
	sess.FineMinutes = 0
	sess.DiscountHours = 0
	sess.FineAmount = decimal.Zero
	sess.DiscountAmount = decimal.Zero
	sess.TotalAmount = decimal.Zero
}
