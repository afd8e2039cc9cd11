package billing

// AccrueDiscount folds one closed session's parked time into the driver's
// counters and grants discount hours for every paid-hours threshold multiple
// newly crossed. The input counters are taken by value and the updated copy is
// returned together with the number of hours granted by this call; the caller
// is responsible for writing the copy back atomically.
//
// The discount bank only ever grows. Closed sessions report the driver's full
// bank balance, not the delta, matching the behaviour billed totals have
// always been computed against.
func AccrueDiscount(counters DriverCounters, stay Stay, tariff Tariff) (DriverCounters, int) {
	priorHours := counters.PaidHours

	counters.PaidHours += stay.Hours
	counters.PaidMinutes += stay.Minutes
	counters.PaidHours += counters.PaidMinutes / 60
	counters.PaidMinutes %= 60

	granted := 0
	if tariff.DiscountThresholdHours > 0 {
		priorCrossings := priorHours / tariff.DiscountThresholdHours
		newCrossings := counters.PaidHours / tariff.DiscountThresholdHours
		if newCrossings > priorCrossings {
			granted = (newCrossings - priorCrossings) * tariff.DiscountGrantHours
			counters.DiscountHours += granted
		}
	}

	return counters, granted
}
