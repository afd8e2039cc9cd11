package tariff

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/common"
	"github.com/noah-isme/backend-parking/internal/store"
)

type fakeRepo struct {
	latest  *billing.Tariff
	created []billing.Tariff
	reads   int
}

func (f *fakeRepo) CreateTariff(_ context.Context, _ store.DBTX, t billing.Tariff) (billing.Tariff, error) {
	t.CreatedAt = time.Now()
	f.created = append(f.created, t)
	f.latest = &t
	return t, nil
}

func (f *fakeRepo) LatestTariff(_ context.Context, _ store.DBTX) (billing.Tariff, error) {
	f.reads++
	if f.latest == nil {
		return billing.Tariff{}, pgx.ErrNoRows
	}
	return *f.latest, nil
}

func testTariff(t *testing.T) billing.Tariff {
	t.Helper()
	opens, err := billing.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	closes, err := billing.ParseTimeOfDay("18:00")
	require.NoError(t, err)
	return billing.Tariff{
		ID:                     uuid.New(),
		HourlyRate:             decimal.RequireFromString("10.00"),
		FinePerMinute:          decimal.RequireFromString("1.00"),
		OpensAt:                opens,
		ClosesAt:               closes,
		DiscountThresholdHours: 50,
		DiscountGrantHours:     5,
		DiscountEnabled:        true,
		CarSpots:               1,
	}
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &Service{
		Repo:   repo,
		Cache:  NewCache(client, time.Minute),
		Logger: zerolog.Nop(),
	}
}

func TestLatestMissingConfiguration(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Latest(context.Background())

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CONFIG_MISSING", appErr.Code)
}

func TestLatestServedFromCacheSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), testTariff(t))
	require.NoError(t, err)

	first, err := svc.Latest(context.Background())
	require.NoError(t, err)
	second, err := svc.Latest(context.Background())
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.reads, "second read should hit the cache")
}

func TestCreateInvalidatesSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), testTariff(t))
	require.NoError(t, err)
	_, err = svc.Latest(context.Background())
	require.NoError(t, err)

	replacement := testTariff(t)
	replacement.CarSpots = 7
	_, err = svc.Create(context.Background(), replacement)
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, latest.CarSpots)
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	invalid := testTariff(t)
	invalid.OpensAt, invalid.ClosesAt = invalid.ClosesAt, invalid.OpensAt

	_, err := svc.Create(context.Background(), invalid)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
