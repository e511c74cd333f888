package billing_test

import (
	"testing"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func draftEntries() []domain.TimeEntry {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.TimeEntry{
		entry("e1", caseID("caseA"), "2", "100", day, false),
		entry("e2", caseID("caseA"), "3", "150", day, false),
	}
}

func TestEffectiveValues_NoAdjustment(t *testing.T) {
	e := draftEntries()[0]

	line := billing.EffectiveValues(e, domain.LineItemAdjustment{})

	assert.True(t, line.Hours.Equal(decimal.NewFromInt(2)))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(200)))
}

func TestEffectiveValues_HoursOverrideRecomputesDefaultAmount(t *testing.T) {
	e := draftEntries()[0] // 2h x 100

	line := billing.EffectiveValues(e, domain.LineItemAdjustment{
		AdjustedHours: decPtr("1.5"),
	})

	assert.True(t, line.Hours.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(150)), "amount recomputes from adjusted hours x rate")
}

func TestEffectiveValues_AmountOverrideLeavesHoursAlone(t *testing.T) {
	e := draftEntries()[0]

	line := billing.EffectiveValues(e, domain.LineItemAdjustment{
		AdjustedAmount: decPtr("120"),
	})

	assert.True(t, line.Hours.Equal(decimal.NewFromInt(2)))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(120)))
}

// When both overrides are set they are independent: the amount override wins
// for amount, and the hours override only affects displayed hours. This
// mirrors the editing flow where setting one field never clears the other;
// the UX oddity (adjusted hours not feeding an already-overridden amount) is
// intentional.
func TestEffectiveValues_BothOverridesIndependent(t *testing.T) {
	e := draftEntries()[0]

	line := billing.EffectiveValues(e, domain.LineItemAdjustment{
		AdjustedHours:  decPtr("10"),
		AdjustedAmount: decPtr("99"),
	})

	assert.True(t, line.Hours.Equal(decimal.NewFromInt(10)))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(99)))
}

func TestComputeTotals_PlainSelection(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{SelectedEntryIDs: []string{"e1", "e2"}}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.OriginalTotal.Equal(decimal.NewFromInt(650)))
	assert.True(t, totals.TotalTimeAmount.Equal(decimal.NewFromInt(650)))
	assert.True(t, totals.TotalHours.Equal(decimal.NewFromInt(5)))
	assert.True(t, totals.FinalTotal.Equal(decimal.NewFromInt(650)))
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(650)))
}

func TestComputeTotals_ManualTotalDerivesDiscount(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1", "e2"},
		ManualTotal:      decPtr("500"),
	}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.FinalTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.Discount.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.OriginalTotal.Equal(decimal.NewFromInt(650)), "sticker price unaffected")
}

func TestComputeTotals_ManualTotalAboveTimeAmountIsPremiumNotNegativeDiscount(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1", "e2"},
		ManualTotal:      decPtr("700"),
	}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.FinalTotal.Equal(decimal.NewFromInt(700)))
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(700)))
}

func TestComputeTotals_ManualItems(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1", "e2"},
		ManualTotal:      decPtr("500"),
		ManualItems: []domain.ManualLineItem{
			{Description: "Court filing fee", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(75)},
		},
	}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.ManualItemsTotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(650)), "grandTotal = finalTotal + manualItemsTotal")
}

func TestComputeTotals_AdjustmentsFlowIntoTimeAmountOnly(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e1", "e2"},
		Adjustments: map[string]domain.LineItemAdjustment{
			"e1": {AdjustedHours: decPtr("1.5")}, // default amount becomes 150
		},
	}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.OriginalTotal.Equal(decimal.NewFromInt(650)))
	assert.True(t, totals.TotalTimeAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, totals.TotalHours.Equal(decimal.RequireFromString("4.5")))
	assert.True(t, totals.FinalTotal.Equal(decimal.NewFromInt(600)))
}

func TestComputeTotals_EmptyDraftIsValidZero(t *testing.T) {
	totals := billing.ComputeTotals(nil, billing.Draft{})

	assert.True(t, totals.OriginalTotal.IsZero())
	assert.True(t, totals.TotalTimeAmount.IsZero())
	assert.True(t, totals.TotalHours.IsZero())
	assert.True(t, totals.FinalTotal.IsZero())
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.ManualItemsTotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotals_UnknownSelectionIgnored(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{SelectedEntryIDs: []string{"e1", "missing"}}

	totals := billing.ComputeTotals(entries, draft)

	assert.True(t, totals.OriginalTotal.Equal(decimal.NewFromInt(200)))
}

func TestComputeTotals_PreservesDecimalPrecision(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.TimeEntry{
		entry("e1", nil, "0.1", "0.3", day, false),
		entry("e2", nil, "0.2", "0.3", day, false),
	}
	draft := billing.Draft{SelectedEntryIDs: []string{"e1", "e2"}}

	totals := billing.ComputeTotals(entries, draft)

	// 0.1*0.3 + 0.2*0.3 = 0.09 exactly; float math would drift.
	assert.True(t, totals.TotalTimeAmount.Equal(decimal.RequireFromString("0.09")))
}

func TestEffectiveLines(t *testing.T) {
	entries := draftEntries()
	draft := billing.Draft{
		SelectedEntryIDs: []string{"e2"},
		Adjustments: map[string]domain.LineItemAdjustment{
			"e2": {AdjustedAmount: decPtr("400")},
		},
	}

	lines := billing.EffectiveLines(entries, draft)

	require.Len(t, lines, 1)
	assert.Equal(t, "e2", lines[0].EntryID)
	assert.True(t, lines[0].Hours.Equal(decimal.NewFromInt(3)))
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(400)))
}
