package billing

import "testing"

func discountTariff(threshold, grant int) Tariff {
	return Tariff{DiscountThresholdHours: threshold, DiscountGrantHours: grant}
}

func TestAccrueDiscountBelowThreshold(t *testing.T) {
	counters, granted := AccrueDiscount(DriverCounters{}, Stay{Hours: 2, Minutes: 30}, discountTariff(50, 5))

	if granted != 0 {
		t.Fatalf("expected no grant, got %d", granted)
	}
	if counters.PaidHours != 2 || counters.PaidMinutes != 30 {
		t.Fatalf("expected 2h30m paid, got %dh%dm", counters.PaidHours, counters.PaidMinutes)
	}
	if counters.DiscountHours != 0 {
		t.Fatalf("expected empty bank, got %d", counters.DiscountHours)
	}
}

func TestAccrueDiscountCrossesThresholdOnce(t *testing.T) {
	prior := DriverCounters{PaidHours: 48}

	counters, granted := AccrueDiscount(prior, Stay{Hours: 3}, discountTariff(50, 5))

	if granted != 5 {
		t.Fatalf("expected 5 granted hours, got %d", granted)
	}
	if counters.PaidHours != 51 {
		t.Fatalf("expected 51 paid hours, got %d", counters.PaidHours)
	}
	if counters.DiscountHours != 5 {
		t.Fatalf("expected bank of 5, got %d", counters.DiscountHours)
	}
}

func TestAccrueDiscountNeverRegrantsSameMultiple(t *testing.T) {
	counters := DriverCounters{PaidHours: 51, DiscountHours: 5}

	counters, granted := AccrueDiscount(counters, Stay{Hours: 4}, discountTariff(50, 5))

	if granted != 0 {
		t.Fatalf("expected no grant inside the same multiple, got %d", granted)
	}
	if counters.DiscountHours != 5 {
		t.Fatalf("expected bank unchanged at 5, got %d", counters.DiscountHours)
	}
}

func TestAccrueDiscountMultipleThresholdsInOneSession(t *testing.T) {
	counters, granted := AccrueDiscount(DriverCounters{PaidHours: 10}, Stay{Hours: 95}, discountTariff(50, 5))

	if granted != 10 {
		t.Fatalf("expected 10 granted hours for two crossings, got %d", granted)
	}
	if counters.DiscountHours != 10 {
		t.Fatalf("expected bank of 10, got %d", counters.DiscountHours)
	}
}

func TestAccrueDiscountNormalisesMinutes(t *testing.T) {
	counters, _ := AccrueDiscount(DriverCounters{PaidHours: 1, PaidMinutes: 45}, Stay{Hours: 0, Minutes: 30}, discountTariff(50, 5))

	if counters.PaidHours != 2 || counters.PaidMinutes != 15 {
		t.Fatalf("expected 2h15m, got %dh%dm", counters.PaidHours, counters.PaidMinutes)
	}
}

func TestAccrueDiscountMinuteRolloverCanCrossThreshold(t *testing.T) {
	counters, granted := AccrueDiscount(DriverCounters{PaidHours: 49, PaidMinutes: 40}, Stay{Minutes: 30}, discountTariff(50, 5))

	if counters.PaidHours != 50 || counters.PaidMinutes != 10 {
		t.Fatalf("expected 50h10m, got %dh%dm", counters.PaidHours, counters.PaidMinutes)
	}
	if granted != 5 {
		t.Fatalf("expected rollover to grant 5 hours, got %d", granted)
	}
}

func TestAccrueDiscountIgnoresEnabledFlag(t *testing.T) {
	disabled := discountTariff(50, 5)
	disabled.DiscountEnabled = false

	counters, granted := AccrueDiscount(DriverCounters{PaidHours: 49}, Stay{Hours: 2}, disabled)

	if granted != 5 || counters.DiscountHours != 5 {
		t.Fatalf("expected the bank to accrue regardless of the flag, got granted=%d bank=%d", granted, counters.DiscountHours)
	}
}

func TestAccrueDiscountZeroThresholdNeverGrants(t *testing.T) {
	counters, granted := AccrueDiscount(DriverCounters{PaidHours: 500}, Stay{Hours: 100}, discountTariff(0, 5))

	if granted != 0 || counters.DiscountHours != 0 {
		t.Fatalf("expected no grants with zero threshold, got granted=%d bank=%d", granted, counters.DiscountHours)
	}
}
