package tariff

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

// Repository captures the tariff persistence methods the service requires.
type Repository interface {
	CreateTariff(ctx context.Context, db store.DBTX, t billing.Tariff) (billing.Tariff, error)
	LatestTariff(ctx context.Context, db store.DBTX) (billing.Tariff, error)
}

// Service provides the active billing configuration to the session engine and
// the tariff management endpoints.
type Service struct {
	Repo   Repository
	DB     store.DBTX
	Cache  *Cache
	Logger zerolog.Logger
}

// Latest returns the authoritative tariff: the most recently created record,
// served from the cache snapshot when warm. The engine cannot operate without
// one; the absence is reported as CONFIG_MISSING.
func (s *Service) Latest(ctx context.Context) (billing.Tariff, error) {
	if cached, ok, err := s.Cache.Get(ctx); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.Logger.Warn().Err(err).Msg("tariff cache read failed")
	}

	t, err := s.Repo.LatestTariff(ctx, s.DB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.Tariff{}, common.ConfigMissingError()
		}
		return billing.Tariff{}, err
	}

	if err := s.Cache.Set(ctx, t); err != nil {
		s.Logger.Warn().Err(err).Msg("tariff cache write failed")
	}
	return t, nil
}

// Create validates and persists a new tariff, making it authoritative, and
// drops the cached snapshot.
func (s *Service) Create(ctx context.Context, t billing.Tariff) (billing.Tariff, error) {
	if err := t.Validate(); err != nil {
		return billing.Tariff{}, common.ValidationError(err.Error())
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	created, err := s.Repo.CreateTariff(ctx, s.DB, t)
	if err != nil {
		return billing.Tariff{}, err
	}

	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("tariff cache invalidation failed")
	}
	s.Logger.Info().Str("tariff_id", created.ID.String()).Msg("tariff created")
	return created, nil
}
