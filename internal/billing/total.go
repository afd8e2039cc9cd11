package billing

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

// Charges breaks a closed session's money amounts down into its components.
// Total is parked + fine - discount and is deliberately not clamped: a
// negative total signals excessive discount accrual and must stay visible.
type Charges struct {
	Parked   decimal.Decimal `json:"parked"`
	Fine     decimal.Decimal `json:"fine"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeCharges prices a stay against the rate snapshots taken at entry
// time. The minute remainder is charged as (minutes x rate) / 60 with
// half-up rounding to two decimal places applied after the division; the
// discount covers whole hours only. discountHours should be zero when the
// active tariff has discounting disabled, the bank balance notwithstanding.
func ComputeCharges(stay Stay, hourlyRate, fineHourlyRate decimal.Decimal, discountHours int) Charges {
	parked := timeCharge(stay.Hours, stay.Minutes, hourlyRate)
	fine := timeCharge(stay.FineHours, stay.FineMinutes, fineHourlyRate)
	discount := decimal.NewFromInt(int64(discountHours)).Mul(hourlyRate)

	return Charges{
		Parked:   parked,
		Fine:     fine,
		Discount: discount,
		Total:    parked.Add(fine).Sub(discount),
	}
}

func timeCharge(hours, minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	wholeHours := hourlyRate.Mul(decimal.NewFromInt(int64(hours)))
	remainder := hourlyRate.Mul(decimal.NewFromInt(int64(minutes))).DivRound(sixty, 2)
	return wholeHours.Add(remainder)
}
