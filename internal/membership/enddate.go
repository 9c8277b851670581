package membership

import "time"

// EndDate computes the expiry date of a membership starting on start
// with the given plan duration.
//
// Durations that are an exact multiple of 30 advance by calendar months
// (clamping to month end, so Jan 31 + 1 month lands on Feb 28/29) and
// then step back one day, keeping monthly/quarterly/annual plans aligned
// to the calendar instead of drifting. Odd durations (trial and weekly
// plans) use plain day arithmetic: start + duration - 1.
func EndDate(start time.Time, durationDays int) (time.Time, error) {
	if durationDays < 1 {
		return time.Time{}, ErrInvalidPlanDuration
	}

	start = startOfDay(start)
	if durationDays%30 == 0 {
		return addMonthsClamped(start, durationDays/30).AddDate(0, 0, -1), nil
	}
	return start.AddDate(0, 0, durationDays-1), nil
}

// addMonthsClamped adds calendar months, clamping the day to the last
// day of the target month. time.AddDate would normalize Jan 31 + 1
// month into March; membership expiries must not skip a month.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
