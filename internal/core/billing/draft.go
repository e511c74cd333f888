package billing

import (
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Draft is the transient state of an in-progress invoice: which entries are
// selected, per-line overrides, manual non-time lines, and the optional
// whole-invoice manual total. It is a plain value owned by the caller; the
// functions below only read it.
type Draft struct {
	SelectedEntryIDs []string
	Adjustments      map[string]domain.LineItemAdjustment
	ManualItems      []domain.ManualLineItem
	ManualTotal      *decimal.Decimal
}

// EffectiveValues resolves the hours and amount shown for one draft line.
//
// hours  = adjustedHours ?? entry.Hours
// amount = adjustedAmount ?? hours x entry.Rate
//
// The asymmetry is deliberate: an hours override feeds the default amount
// only while amount itself is not overridden, and overriding amount never
// changes the displayed hours. A user can discount an amount without lying
// about hours worked, or vice versa.
func EffectiveValues(entry domain.TimeEntry, adj domain.LineItemAdjustment) domain.EffectiveLine {
	hours := entry.Hours
	if adj.AdjustedHours != nil {
		hours = *adj.AdjustedHours
	}

	amount := hours.Mul(entry.Rate)
	if adj.AdjustedAmount != nil {
		amount = *adj.AdjustedAmount
	}

	return domain.EffectiveLine{
		EntryID: entry.EntryID,
		Hours:   hours,
		Amount:  amount,
	}
}

// EffectiveLines resolves every selected entry of the draft against the
// given entry set. Selected IDs with no matching entry are skipped.
func EffectiveLines(entries []domain.TimeEntry, draft Draft) []domain.EffectiveLine {
	selected := selectEntries(entries, draft.SelectedEntryIDs)
	lines := make([]domain.EffectiveLine, 0, len(selected))
	for _, e := range selected {
		lines = append(lines, EffectiveValues(e, draft.Adjustments[e.EntryID]))
	}
	return lines
}

// ComputeTotals computes the live figures for a draft:
//
//	originalTotal    =  sum hours x rate over selected entries (sticker price)
//	totalTimeAmount  =  sum of effective amounts
//	totalHours       =  sum of effective hours
//	finalTotal       =  manualTotal ?? totalTimeAmount
//	discount         =  max(0, totalTimeAmount - finalTotal)
//	manualItemsTotal =  sum quantity x unitPrice
//	grandTotal       =  finalTotal + manualItemsTotal
//
// A manual total above totalTimeAmount is permitted (a premium) and yields a
// zero discount, never a negative one. An empty selection with no manual
// items yields all-zero totals, which is a valid draft.
func ComputeTotals(entries []domain.TimeEntry, draft Draft) domain.Totals {
	selected := selectEntries(entries, draft.SelectedEntryIDs)

	originalTotal := decimal.Zero
	totalTimeAmount := decimal.Zero
	totalHours := decimal.Zero

	for _, e := range selected {
		originalTotal = originalTotal.Add(e.Amount())
		line := EffectiveValues(e, draft.Adjustments[e.EntryID])
		totalTimeAmount = totalTimeAmount.Add(line.Amount)
		totalHours = totalHours.Add(line.Hours)
	}

	finalTotal := totalTimeAmount
	if draft.ManualTotal != nil {
		finalTotal = *draft.ManualTotal
	}

	discount := totalTimeAmount.Sub(finalTotal)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	manualItemsTotal := decimal.Zero
	for _, item := range draft.ManualItems {
		manualItemsTotal = manualItemsTotal.Add(item.Total())
	}

	return domain.Totals{
		OriginalTotal:    originalTotal,
		TotalTimeAmount:  totalTimeAmount,
		TotalHours:       totalHours,
		FinalTotal:       finalTotal,
		Discount:         discount,
		ManualItemsTotal: manualItemsTotal,
		GrandTotal:       finalTotal.Add(manualItemsTotal),
	}
}

// selectEntries returns the entries whose IDs appear in ids, preserving the
// input entry order. Unknown IDs are ignored.
func selectEntries(entries []domain.TimeEntry, ids []string) []domain.TimeEntry {
	if len(ids) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]domain.TimeEntry, 0, len(ids))
	for _, e := range entries {
		if _, ok := wanted[e.EntryID]; ok {
			out = append(out, e)
		}
	}
	return out
}
