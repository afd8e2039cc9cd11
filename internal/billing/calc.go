package billing

import "time"

// ComputeStay splits the parked interval [entry, exit) into total duration and
// fine basis, both as whole hours plus remainder minutes (truncated, never
// rounded). The fine basis is the portion of the interval falling outside the
// daily business window [opensAt, closesAt): the interval's overlap with each
// calendar day's window is subtracted from the total. A session fully inside
// the window on a single day therefore carries no fine, and each fully
// spanned day contributes exactly its non-business portion.
//
// The function is pure; identical inputs always yield identical results.
func ComputeStay(entry, exit time.Time, opensAt, closesAt TimeOfDay) Stay {
	if !exit.After(entry) {
		return Stay{}
	}

	totalSeconds := int64(exit.Sub(entry) / time.Second)
	businessSeconds := businessOverlapSeconds(entry, exit, opensAt, closesAt)

	fineSeconds := totalSeconds - businessSeconds
	if fineSeconds < 0 {
		fineSeconds = 0
	}

	totalMinutes := totalSeconds / 60
	fineMinutes := fineSeconds / 60

	return Stay{
		Hours:       int(totalMinutes / 60),
		Minutes:     int(totalMinutes % 60),
		FineHours:   int(fineMinutes / 60),
		FineMinutes: int(fineMinutes % 60),
	}
}

// businessOverlapSeconds walks the calendar days touched by [entry, exit) and
// sums the overlap with each day's business window.
func businessOverlapSeconds(entry, exit time.Time, opensAt, closesAt TimeOfDay) int64 {
	var overlap int64

	day := time.Date(entry.Year(), entry.Month(), entry.Day(), 0, 0, 0, 0, entry.Location())
	for !day.After(exit) {
		windowStart := day.Add(time.Duration(opensAt.Minutes()) * time.Minute)
		windowEnd := day.Add(time.Duration(closesAt.Minutes()) * time.Minute)

		lo := windowStart
		if entry.After(lo) {
			lo = entry
		}
		hi := windowEnd
		if exit.Before(hi) {
			hi = exit
		}
		if hi.After(lo) {
			overlap += int64(hi.Sub(lo) / time.Second)
		}
		day = day.AddDate(0, 0, 1)
	}
	return overlap
}
