package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoCaseKey is the sentinel grouping key used for time entries that are not
// attached to any case.
const NoCaseKey = "__no_case__"

// CaseGroup aggregates the unbilled entries of one case within a client's
// entry set. It is derived on every read and never persisted.
type CaseGroup struct {
	CaseID      string          `json:"caseID"` // NoCaseKey for the sentinel bucket
	CaseNumber  string          `json:"caseNumber,omitempty"`
	CaseTitle   string          `json:"caseTitle,omitempty"`
	TotalHours  decimal.Decimal `json:"totalHours"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	EntryCount  int             `json:"entryCount"`
	Entries     []TimeEntry     `json:"entries,omitempty"`
}

// ClientSummary is the two-level rollup of one client's unbilled work.
type ClientSummary struct {
	ClientID        string          `json:"clientID"`
	TotalHours      decimal.Decimal `json:"totalHours"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	EntryCount      int             `json:"entryCount"`
	OldestEntryDate *time.Time      `json:"oldestEntryDate,omitempty"`
	Cases           []CaseGroup     `json:"cases"`
}

// LineItemAdjustment overrides an entry's computed hours and/or amount on a
// draft invoice line. The two fields are independent: setting one never
// clears or recomputes the other. Clearing both removes the adjustment.
type LineItemAdjustment struct {
	AdjustedHours  *decimal.Decimal `json:"adjustedHours,omitempty"`
	AdjustedAmount *decimal.Decimal `json:"adjustedAmount,omitempty"`
}

// IsZero reports whether the adjustment carries no overrides.
func (a LineItemAdjustment) IsZero() bool {
	return a.AdjustedHours == nil && a.AdjustedAmount == nil
}

// ManualLineItem is a non-time-entry invoice line (e.g. a filing fee).
type ManualLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Total returns quantity x unit price.
func (m ManualLineItem) Total() decimal.Decimal {
	return m.Quantity.Mul(m.UnitPrice)
}

// EffectiveLine is the per-entry view of a draft line after adjustments.
type EffectiveLine struct {
	EntryID string          `json:"entryID"`
	Hours   decimal.Decimal `json:"hours"`
	Amount  decimal.Decimal `json:"amount"`
}

// Totals is the full set of computed figures for an invoice draft.
type Totals struct {
	OriginalTotal    decimal.Decimal `json:"originalTotal"`
	TotalTimeAmount  decimal.Decimal `json:"totalTimeAmount"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	FinalTotal       decimal.Decimal `json:"finalTotal"`
	Discount         decimal.Decimal `json:"discount"`
	ManualItemsTotal decimal.Decimal `json:"manualItemsTotal"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
}
