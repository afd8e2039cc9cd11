package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeChargesShortStay(t *testing.T) {
	rate := decimal.RequireFromString("10.00")

	charges := ComputeCharges(Stay{Hours: 2, Minutes: 30}, rate, decimal.RequireFromString("60.00"), 0)

	require.True(t, charges.Parked.Equal(decimal.RequireFromString("25.00")), "parked charge %s", charges.Parked)
	require.True(t, charges.Fine.IsZero(), "fine charge %s", charges.Fine)
	require.True(t, charges.Total.Equal(decimal.RequireFromString("25.00")), "total %s", charges.Total)
}

func TestComputeChargesWithFine(t *testing.T) {
	rate := decimal.RequireFromString("10.00")
	fineRate := decimal.RequireFromString("60.00")

	charges := ComputeCharges(Stay{Hours: 12, FineHours: 2}, rate, fineRate, 0)

	require.True(t, charges.Parked.Equal(decimal.RequireFromString("120.00")), "parked charge %s", charges.Parked)
	require.True(t, charges.Fine.Equal(decimal.RequireFromString("120.00")), "fine charge %s", charges.Fine)
	require.True(t, charges.Total.Equal(decimal.RequireFromString("240.00")), "total %s", charges.Total)
}

func TestComputeChargesSubtractsDiscount(t *testing.T) {
	rate := decimal.RequireFromString("10.00")

	charges := ComputeCharges(Stay{Hours: 3}, rate, decimal.Zero, 2)

	require.True(t, charges.Discount.Equal(decimal.RequireFromString("20.00")), "discount charge %s", charges.Discount)
	require.True(t, charges.Total.Equal(decimal.RequireFromString("10.00")), "total %s", charges.Total)
}

func TestComputeChargesNegativeTotalPreserved(t *testing.T) {
	rate := decimal.RequireFromString("10.00")

	charges := ComputeCharges(Stay{Hours: 1}, rate, decimal.Zero, 5)

	require.True(t, charges.Total.Equal(decimal.RequireFromString("-40.00")), "total %s", charges.Total)
}

func TestComputeChargesRoundsMinuteChargeHalfUp(t *testing.T) {
	// 30 minutes at 0.05/h: 1.50/60 = 0.025, half-up => 0.03.
	charges := ComputeCharges(Stay{Minutes: 30}, decimal.RequireFromString("0.05"), decimal.Zero, 0)

	require.True(t, charges.Parked.Equal(decimal.RequireFromString("0.03")), "parked charge %s", charges.Parked)
}

func TestComputeChargesRoundsAfterDivision(t *testing.T) {
	// 59 minutes at 10.00/h: 590/60 = 9.8333..., rounded once => 9.83.
	charges := ComputeCharges(Stay{Minutes: 59}, decimal.RequireFromString("10.00"), decimal.Zero, 0)

	require.True(t, charges.Parked.Equal(decimal.RequireFromString("9.83")), "parked charge %s", charges.Parked)
}

func TestFineHourlyRateSnapshot(t *testing.T) {
	tariff := Tariff{FinePerMinute: decimal.RequireFromString("1.00")}

	require.True(t, tariff.FineHourlyRate().Equal(decimal.RequireFromString("60.00")))
}
