package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-parking/internal/billing"
)

const sessionColumns = `id, vehicle_id, driver_id, entry_time, exit_time,
	hours, minutes, fine_hours, fine_minutes, discount_hours,
	hourly_rate::text, fine_hourly_rate::text, fine_amount::text, discount_amount::text, total_amount::text,
	created_at, updated_at`

// InsertSession persists a new session, open or already closed.
func (s *Store) InsertSession(ctx context.Context, db DBTX, sess Session) (Session, error) {
	const query = `
		INSERT INTO sessions (
			id, vehicle_id, driver_id, entry_time, exit_time,
			hours, minutes, fine_hours, fine_minutes, discount_hours,
			hourly_rate, fine_hourly_rate, fine_amount, discount_amount, total_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`
	err := db.QueryRow(ctx, query,
		sess.ID,
		sess.VehicleID,
		sess.DriverID,
		sess.EntryTime,
		sess.ExitTime,
		sess.Hours,
		sess.Minutes,
		sess.FineHours,
		sess.FineMinutes,
		sess.DiscountHours,
		sess.HourlyRate.String(),
		sess.FineHourlyRate.String(),
		sess.FineAmount.String(),
		sess.DiscountAmount.String(),
		sess.TotalAmount.String(),
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// UpdateSession rewrites every mutable field of an existing session. Used by
// the correcting update, which recomputes all derived values.
func (s *Store) UpdateSession(ctx context.Context, db DBTX, sess Session) (Session, error) {
	const query = `
		UPDATE sessions SET
			vehicle_id = $2, driver_id = $3, entry_time = $4, exit_time = $5,
			hours = $6, minutes = $7, fine_hours = $8, fine_minutes = $9, discount_hours = $10,
			hourly_rate = $11, fine_hourly_rate = $12, fine_amount = $13, discount_amount = $14, total_amount = $15,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := db.QueryRow(ctx, query,
		sess.ID,
		sess.VehicleID,
		sess.DriverID,
		sess.EntryTime,
		sess.ExitTime,
		sess.Hours,
		sess.Minutes,
		sess.FineHours,
		sess.FineMinutes,
		sess.DiscountHours,
		sess.HourlyRate.String(),
		sess.FineHourlyRate.String(),
		sess.FineAmount.String(),
		sess.DiscountAmount.String(),
		sess.TotalAmount.String(),
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("update session: %w", err)
	}
	return sess, nil
}

// DeleteSession removes a session permanently. It reports whether a row was deleted.
func (s *Store) DeleteSession(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetSession fetches one session by id.
func (s *Store) GetSession(ctx context.Context, db DBTX, id uuid.UUID) (Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	return scanSession(db.QueryRow(ctx, query, id))
}

// CountOpenByType counts sessions without an exit whose vehicle is of the
// given type. Feeds the capacity check.
func (s *Store) CountOpenByType(ctx context.Context, db DBTX, vehicleType billing.VehicleType) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.exit_time IS NULL AND v.vehicle_type = $1`
	var count int
	if err := db.QueryRow(ctx, query, string(vehicleType)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open sessions: %w", err)
	}
	return count, nil
}

// ListSessions returns sessions ordered by entry time, newest first.
func (s *Store) ListSessions(ctx context.Context, db DBTX, limit, offset int) ([]Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY entry_time DESC LIMIT $1 OFFSET $2`, sessionColumns)
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// CountSessions returns the total number of sessions for pagination metadata.
func (s *Store) CountSessions(ctx context.Context, db DBTX) (int64, error) {
	var total int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return total, nil
}

func scanSession(row rowScanner) (Session, error) {
	var (
		sess                                                    Session
		hourlyRate, fineHourlyRate, fineAmt, discountAmt, total string
	)
	err := row.Scan(
		&sess.ID,
		&sess.VehicleID,
		&sess.DriverID,
		&sess.EntryTime,
		&sess.ExitTime,
		&sess.Hours,
		&sess.Minutes,
		&sess.FineHours,
		&sess.FineMinutes,
		&sess.DiscountHours,
		&hourlyRate,
		&fineHourlyRate,
		&fineAmt,
		&discountAmt,
		&total,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		return Session{}, err
	}
	if sess.HourlyRate, err = scanDecimal(hourlyRate); err != nil {
		return Session{}, fmt.Errorf("parse hourly rate: %w", err)
	}
	if sess.FineHourlyRate, err = scanDecimal(fineHourlyRate); err != nil {
		return Session{}, fmt.Errorf("parse fine hourly rate: %w", err)
	}
	if sess.FineAmount, err = scanDecimal(fineAmt); err != nil {
		return Session{}, fmt.Errorf("parse fine amount: %w", err)
	}
	if sess.DiscountAmount, err = scanDecimal(discountAmt); err != nil {
		return Session{}, fmt.Errorf("parse discount amount: %w", err)
	}
	if sess.TotalAmount, err = scanDecimal(total); err != nil {
		return Session{}, fmt.Errorf("parse total amount: %w", err)
	}
	return sess, nil
}
