package core

import "time"

// Period is a whole-calendar-month window a budget applies to.
// Budgets never span arbitrary ranges: Start is the first day of the month
// and End the last, so (owner, category, Start) is effectively a
// per-category per-month key.
type Period struct {
	Start time.Time
	End   time.Time
}

// NormalizePeriod snaps any date to the calendar-month window containing it.
//
//	NormalizePeriod(2024-02-15) -> {2024-02-01, 2024-02-29}
//	NormalizePeriod(2023-02-10) -> {2023-02-01, 2023-02-28}
func NormalizePeriod(d time.Time) Period {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	// First of next month minus one day lands on the last day,
	// leap Februaries included.
	end := start.AddDate(0, 1, -1)
	return Period{Start: start, End: end}
}

// Contains reports whether the calendar date of t falls inside the period,
// boundaries included.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}
