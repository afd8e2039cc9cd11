package billing

import (
	"testing"
	"time"
)

func mustTimeOfDay(t *testing.T, value string) TimeOfDay {
	t.Helper()
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestComputeStayInsideBusinessHours(t *testing.T) {
	entry := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 2 || stay.Minutes != 30 {
		t.Fatalf("expected 2h30m parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
	if stay.FineHours != 0 || stay.FineMinutes != 0 {
		t.Fatalf("expected no fine, got %dh%dm", stay.FineHours, stay.FineMinutes)
	}
}

func TestComputeStayOutsideBusinessHours(t *testing.T) {
	entry := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 12 || stay.Minutes != 0 {
		t.Fatalf("expected 12h parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
	if stay.FineHours != 2 || stay.FineMinutes != 0 {
		t.Fatalf("expected 2h fine, got %dh%dm", stay.FineHours, stay.FineMinutes)
	}
}

func TestComputeStayOvernightFullyOutside(t *testing.T) {
	entry := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 2 || stay.Minutes != 0 {
		t.Fatalf("expected 2h parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
	// The whole stay falls outside the window, so the fine covers it all.
	if stay.FineHours != 2 || stay.FineMinutes != 0 {
		t.Fatalf("expected 2h fine, got %dh%dm", stay.FineHours, stay.FineMinutes)
	}
}

func TestComputeStayMultiDay(t *testing.T) {
	entry := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 2, 19, 0, 0, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 36 || stay.Minutes != 0 {
		t.Fatalf("expected 36h parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
	// Two business-hour windows of 10h each overlap the stay: 36h - 20h = 16h.
	if stay.FineHours != 16 || stay.FineMinutes != 0 {
		t.Fatalf("expected 16h fine, got %dh%dm", stay.FineHours, stay.FineMinutes)
	}
}

func TestComputeStayFullContainedDay(t *testing.T) {
	entry := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 50 {
		t.Fatalf("expected 50h parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
	// Overlap: day one 10:00-18:00 (8h), day two 08:00-18:00 (10h),
	// day three 08:00-12:00 (4h) => 50h - 22h = 28h fine.
	if stay.FineHours != 28 || stay.FineMinutes != 0 {
		t.Fatalf("expected 28h fine, got %dh%dm", stay.FineHours, stay.FineMinutes)
	}
}

func TestComputeStayTruncatesToWholeMinutes(t *testing.T) {
	entry := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 1, 1, 10, 30, 59, 0, time.UTC)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay.Hours != 1 || stay.Minutes != 30 {
		t.Fatalf("expected 1h30m parked, got %dh%dm", stay.Hours, stay.Minutes)
	}
}

func TestComputeStayIsPure(t *testing.T) {
	entry := time.Date(2024, 3, 10, 6, 45, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 12, 20, 15, 0, 0, time.UTC)
	opens := mustTimeOfDay(t, "08:00")
	closes := mustTimeOfDay(t, "18:00")

	first := ComputeStay(entry, exit, opens, closes)
	second := ComputeStay(entry, exit, opens, closes)

	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestComputeStayRejectsInvertedInterval(t *testing.T) {
	entry := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	exit := entry.Add(-time.Hour)

	stay := ComputeStay(entry, exit, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "18:00"))

	if stay != (Stay{}) {
		t.Fatalf("expected zero stay, got %+v", stay)
	}
}
