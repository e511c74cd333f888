package billing

import (
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// PeriodKind selects which date window restricts the entry set before totals
// are computed. Exactly one filter is active at a time.
type PeriodKind string

const (
	PeriodAll       PeriodKind = "ALL"        // all outstanding entries
	PeriodPrevMonth PeriodKind = "PREV_MONTH" // previous calendar month, inclusive
	PeriodCustom    PeriodKind = "CUSTOM"     // arbitrary [start, end], inclusive
)

// Period describes a date filter over time entries.
type Period struct {
	Kind  PeriodKind
	Start time.Time // CUSTOM only
	End   time.Time // CUSTOM only
}

// Bounds resolves the inclusive [start, end] window of the period relative
// to now. The second return is false for PeriodAll, which matches everything.
func (p Period) Bounds(now time.Time) (time.Time, time.Time, bool) {
	switch p.Kind {
	case PeriodPrevMonth:
		start, end := PreviousMonthRange(now)
		return start, end, true
	case PeriodCustom:
		return p.Start, p.End, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// PreviousMonthRange returns the first and last day of the calendar month
// before the one containing t, at midnight in t's location.
func PreviousMonthRange(t time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	first := firstOfThisMonth.AddDate(0, -1, 0)
	last := firstOfThisMonth.AddDate(0, 0, -1)
	return first, last
}

// FilterByPeriod returns the entries whose work date falls inside the period.
// Boundary days are included.
func FilterByPeriod(entries []domain.TimeEntry, p Period, now time.Time) []domain.TimeEntry {
	start, end, bounded := p.Bounds(now)
	if !bounded {
		return entries
	}
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if onOrAfterDay(e.WorkDate, start) && onOrBeforeDay(e.WorkDate, end) {
			out = append(out, e)
		}
	}
	return out
}

func onOrAfterDay(t, bound time.Time) bool {
	ty, tm, td := t.Date()
	by, bm, bd := bound.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return !day.Before(b)
}

func onOrBeforeDay(t, bound time.Time) bool {
	ty, tm, td := t.Date()
	by, bm, bd := bound.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return !day.After(b)
}
