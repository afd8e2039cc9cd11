package session

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-parking/internal/billing"
	"github.com/noah-isme/backend-parking/internal/common"
	"github.com/noah-isme/backend-parking/internal/store"
)

func TestRenderReceipt(t *testing.T) {
	exit := entryAt(12, 30)
	sess := store.Session{
		ID:             uuid.New(),
		EntryTime:      entryAt(10, 0),
		ExitTime:       &exit,
		Hours:          2,
		Minutes:        30,
		HourlyRate:     decimal.RequireFromString("10.00"),
		FineHourlyRate: decimal.RequireFromString("6.00"),
		FineAmount:     decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.RequireFromString("25.00"),
	}
	driver := store.Driver{ID: uuid.New(), Name: "Ana Souza"}
	vehicle := store.Vehicle{ID: uuid.New(), Plate: "ABC1D23", Type: billing.Car}

	receipt := RenderReceipt(sess, driver, vehicle)

	require.Contains(t, receipt, "PARKING RECEIPT")
	require.Contains(t, receipt, "Ana Souza")
	require.Contains(t, receipt, "ABC1D23")
	require.Contains(t, receipt, "2h 30m")
	require.Contains(t, receipt, "25.00")

	for _, line := range strings.Split(strings.TrimRight(receipt, "\n"), "\n") {
		require.Equal(t, receiptWidth, utf8.RuneCountInString(line), "every receipt line is the same width")
	}
}

func TestRenderReceiptMultiByteNameKeepsAlignment(t *testing.T) {
	exit := entryAt(12, 0)
	sess := store.Session{
		ID:             uuid.New(),
		EntryTime:      entryAt(10, 0),
		ExitTime:       &exit,
		Hours:          2,
		HourlyRate:     decimal.RequireFromString("10.00"),
		FineHourlyRate: decimal.RequireFromString("6.00"),
		FineAmount:     decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.RequireFromString("20.00"),
	}
	driver := store.Driver{ID: uuid.New(), Name: "José Antônio da Conceição Vasconcelos e Albuquerque"}
	vehicle := store.Vehicle{ID: uuid.New(), Plate: "XYZ9A87", Type: billing.Van}

	receipt := RenderReceipt(sess, driver, vehicle)

	require.True(t, utf8.ValidString(receipt), "truncation must never split a rune")
	for _, line := range strings.Split(strings.TrimRight(receipt, "\n"), "\n") {
		require.Equal(t, receiptWidth, utf8.RuneCountInString(line), "every receipt line is the same width")
	}
}

func TestReceiptRequiresClosedSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.svc.RegisterEntry(ctx, EntryInput{
		VehicleID: env.vehicle.ID,
		DriverID:  env.driver.ID,
		EntryTime: entryAt(10, 0),
	})
	require.NoError(t, err)

	_, err = env.svc.Receipt(ctx, sess.ID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)

	exit := entryAt(12, 0)
	_, err = env.svc.RegisterExitOrCorrect(ctx, sess.ID, UpdateInput{
		VehicleID: env.vehicle.ID,
		DriverID:  env.driver.ID,
		EntryTime: entryAt(10, 0),
		ExitTime:  &exit,
	})
	require.NoError(t, err)

	rendered, err := env.svc.Receipt(ctx, sess.ID)
	require.NoError(t, err)
	require.Contains(t, rendered, "TOTAL")
}
