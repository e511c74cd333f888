// Package billing holds the pure computation core of the application:
// unbilled rollups and invoice draft totals. Everything here is a
// deterministic projection over caller-supplied slices; nothing is stored,
// nothing is mutated, and calling any function twice on the same input
// yields identical output.
package billing

import (
	"sort"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnbilledOnly returns the entries not yet attached to a finalized invoice.
// The Invoiced flag is externally authoritative and is never mutated here.
func UnbilledOnly(entries []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Invoiced {
			out = append(out, e)
		}
	}
	return out
}

// Summarize produces the two-level rollup (client -> cases) for one client's
// entry batch. Cross-client grouping is the caller's concern; each invocation
// receives a per-client batch. Entries without a case land in the sentinel
// bucket keyed by domain.NoCaseKey.
//
// Case groups are ordered descending by TotalAmount so the highest-value work
// surfaces first; ties keep input order (stable sort). This is display
// priority, not a business rule.
func Summarize(clientID string, entries []domain.TimeEntry) domain.ClientSummary {
	summary := domain.ClientSummary{
		ClientID:    clientID,
		TotalHours:  decimal.Zero,
		TotalAmount: decimal.Zero,
		Cases:       []domain.CaseGroup{},
	}

	groups := make(map[string]*domain.CaseGroup)
	order := make([]string, 0)

	for _, e := range entries {
		key := domain.NoCaseKey
		if e.CaseID != nil && *e.CaseID != "" {
			key = *e.CaseID
		}

		g, ok := groups[key]
		if !ok {
			g = &domain.CaseGroup{
				CaseID:      key,
				TotalHours:  decimal.Zero,
				TotalAmount: decimal.Zero,
			}
			groups[key] = g
			order = append(order, key)
		}

		g.TotalHours = g.TotalHours.Add(e.Hours)
		g.TotalAmount = g.TotalAmount.Add(e.Amount())
		g.EntryCount++
		g.Entries = append(g.Entries, e)

		summary.TotalHours = summary.TotalHours.Add(e.Hours)
		summary.TotalAmount = summary.TotalAmount.Add(e.Amount())
		summary.EntryCount++

		if summary.OldestEntryDate == nil || e.WorkDate.Before(*summary.OldestEntryDate) {
			d := e.WorkDate
			summary.OldestEntryDate = &d
		}
	}

	for _, key := range order {
		summary.Cases = append(summary.Cases, *groups[key])
	}
	sort.SliceStable(summary.Cases, func(i, j int) bool {
		return summary.Cases[i].TotalAmount.GreaterThan(summary.Cases[j].TotalAmount)
	})

	return summary
}

// AnnotateCases fills case number/title on a summary's groups from the given
// case set. Groups whose case is unknown (including the sentinel bucket) are
// left untouched.
func AnnotateCases(summary domain.ClientSummary, cases []domain.Case) domain.ClientSummary {
	byID := make(map[string]domain.Case, len(cases))
	for _, c := range cases {
		byID[c.CaseID] = c
	}
	for i := range summary.Cases {
		if c, ok := byID[summary.Cases[i].CaseID]; ok {
			summary.Cases[i].CaseNumber = c.Number
			summary.Cases[i].CaseTitle = c.Title
		}
	}
	return summary
}

// OldestEntryDate returns the minimum work date across entries, or nil for an
// empty slice.
func OldestEntryDate(entries []domain.TimeEntry) *time.Time {
	var oldest *time.Time
	for _, e := range entries {
		if oldest == nil || e.WorkDate.Before(*oldest) {
			d := e.WorkDate
			oldest = &d
		}
	}
	return oldest
}
