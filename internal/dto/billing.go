package dto

import (
	"fmt"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodParams defines the period filter shared by the summary and draft
// endpoints. CUSTOM requires both dates; the window is inclusive.
type PeriodParams struct {
	Period    string `form:"period,default=ALL" json:"period" binding:"omitempty,oneof=ALL PREV_MONTH CUSTOM"`
	StartDate string `form:"startDate" json:"startDate"` // YYYY-MM-DD, CUSTOM only
	EndDate   string `form:"endDate" json:"endDate"`     // YYYY-MM-DD, CUSTOM only
}

// ToPeriod validates and converts the raw parameters to a billing.Period.
func (p PeriodParams) ToPeriod() (billing.Period, error) {
	kind := billing.PeriodKind(p.Period)
	if kind == "" {
		kind = billing.PeriodAll
	}
	switch kind {
	case billing.PeriodAll, billing.PeriodPrevMonth:
		return billing.Period{Kind: kind}, nil
	case billing.PeriodCustom:
		start, err := time.Parse("2006-01-02", p.StartDate)
		if err != nil {
			return billing.Period{}, apperrors.NewAppError(400, "invalid startDate, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		end, err := time.Parse("2006-01-02", p.EndDate)
		if err != nil {
			return billing.Period{}, apperrors.NewAppError(400, "invalid endDate, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		if end.Before(start) {
			return billing.Period{}, apperrors.NewAppError(400, "endDate must not precede startDate", apperrors.ErrValidation)
		}
		return billing.Period{Kind: kind, Start: start, End: end}, nil
	default:
		return billing.Period{}, apperrors.NewAppError(400, "invalid period", apperrors.ErrValidation)
	}
}

// CaseGroupResponse is one case bucket within an unbilled summary.
type CaseGroupResponse struct {
	CaseID      string              `json:"caseID"`
	CaseNumber  string              `json:"caseNumber,omitempty"`
	CaseTitle   string              `json:"caseTitle,omitempty"`
	TotalHours  decimal.Decimal     `json:"totalHours"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	EntryCount  int                 `json:"entryCount"`
	Entries     []TimeEntryResponse `json:"entries,omitempty"`
}

// UnbilledSummaryResponse is the two-level rollup returned for a client.
type UnbilledSummaryResponse struct {
	ClientID        string              `json:"clientID"`
	TotalHours      decimal.Decimal     `json:"totalHours"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	EntryCount      int                 `json:"entryCount"`
	OldestEntryDate *time.Time          `json:"oldestEntryDate,omitempty"`
	Cases           []CaseGroupResponse `json:"cases"`
}

// ToUnbilledSummaryResponse converts a domain.ClientSummary to its DTO
func ToUnbilledSummaryResponse(s *domain.ClientSummary) UnbilledSummaryResponse {
	cases := make([]CaseGroupResponse, len(s.Cases))
	for i, g := range s.Cases {
		entries := make([]TimeEntryResponse, len(g.Entries))
		for j, e := range g.Entries {
			entries[j] = ToTimeEntryResponse(&e)
		}
		cases[i] = CaseGroupResponse{
			CaseID:      g.CaseID,
			CaseNumber:  g.CaseNumber,
			CaseTitle:   g.CaseTitle,
			TotalHours:  g.TotalHours,
			TotalAmount: g.TotalAmount,
			EntryCount:  g.EntryCount,
			Entries:     entries,
		}
	}
	return UnbilledSummaryResponse{
		ClientID:        s.ClientID,
		TotalHours:      s.TotalHours,
		TotalAmount:     s.TotalAmount,
		EntryCount:      s.EntryCount,
		OldestEntryDate: s.OldestEntryDate,
		Cases:           cases,
	}
}

// LineItemAdjustmentDTO carries the per-line overrides of a draft request.
type LineItemAdjustmentDTO struct {
	AdjustedHours  *decimal.Decimal `json:"adjustedHours"`
	AdjustedAmount *decimal.Decimal `json:"adjustedAmount"`
}

// ManualLineItemDTO is a non-time line on a draft request.
type ManualLineItemDTO struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// ComputeDraftRequest is the full draft state submitted for recomputation
// or invoice creation. Adjustment keys are entry IDs.
type ComputeDraftRequest struct {
	PeriodParams
	SelectedEntryIDs []string                         `json:"selectedEntryIDs" binding:"required"`
	Adjustments      map[string]LineItemAdjustmentDTO `json:"adjustments"`
	ManualItems      []ManualLineItemDTO              `json:"manualItems" binding:"omitempty,dive"`
	ManualTotal      *decimal.Decimal                 `json:"manualTotal"`
}

// ToDraft validates and converts the request to the engine's draft value.
// Negative figures are rejected here; the engine assumes its inputs are
// non-negative.
func (r ComputeDraftRequest) ToDraft() (billing.Draft, error) {
	adjustments := make(map[string]domain.LineItemAdjustment, len(r.Adjustments))
	for entryID, a := range r.Adjustments {
		if a.AdjustedHours != nil && a.AdjustedHours.IsNegative() {
			return billing.Draft{}, apperrors.NewAppError(400, fmt.Sprintf("adjusted hours for entry %s must not be negative", entryID), apperrors.ErrValidation)
		}
		if a.AdjustedAmount != nil && a.AdjustedAmount.IsNegative() {
			return billing.Draft{}, apperrors.NewAppError(400, fmt.Sprintf("adjusted amount for entry %s must not be negative", entryID), apperrors.ErrValidation)
		}
		adj := domain.LineItemAdjustment{
			AdjustedHours:  a.AdjustedHours,
			AdjustedAmount: a.AdjustedAmount,
		}
		if adj.IsZero() {
			continue
		}
		adjustments[entryID] = adj
	}
	manualItems := make([]domain.ManualLineItem, len(r.ManualItems))
	for i, m := range r.ManualItems {
		if m.Quantity.IsNegative() {
			return billing.Draft{}, apperrors.NewAppError(400, fmt.Sprintf("quantity for manual item %q must not be negative", m.Description), apperrors.ErrValidation)
		}
		if m.UnitPrice.IsNegative() {
			return billing.Draft{}, apperrors.NewAppError(400, fmt.Sprintf("unit price for manual item %q must not be negative", m.Description), apperrors.ErrValidation)
		}
		manualItems[i] = domain.ManualLineItem{
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
		}
	}
	if r.ManualTotal != nil && r.ManualTotal.IsNegative() {
		return billing.Draft{}, apperrors.NewAppError(400, "manual total must not be negative", apperrors.ErrValidation)
	}
	return billing.Draft{
		SelectedEntryIDs: r.SelectedEntryIDs,
		Adjustments:      adjustments,
		ManualItems:      manualItems,
		ManualTotal:      r.ManualTotal,
	}, nil
}

// EffectiveLineResponse is a per-entry draft line after adjustments.
type EffectiveLineResponse struct {
	EntryID string          `json:"entryID"`
	Hours   decimal.Decimal `json:"hours"`
	Amount  decimal.Decimal `json:"amount"`
}

// TotalsResponse is the computed figure set for a draft.
type TotalsResponse struct {
	OriginalTotal    decimal.Decimal `json:"originalTotal"`
	TotalTimeAmount  decimal.Decimal `json:"totalTimeAmount"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	FinalTotal       decimal.Decimal `json:"finalTotal"`
	Discount         decimal.Decimal `json:"discount"`
	ManualItemsTotal decimal.Decimal `json:"manualItemsTotal"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
}

// ComputeDraftResponse pairs the totals with the per-line effective values.
type ComputeDraftResponse struct {
	Totals TotalsResponse          `json:"totals"`
	Lines  []EffectiveLineResponse `json:"lines"`
}

// ToTotalsResponse converts domain.Totals to its DTO
func ToTotalsResponse(t *domain.Totals) TotalsResponse {
	return TotalsResponse{
		OriginalTotal:    t.OriginalTotal,
		TotalTimeAmount:  t.TotalTimeAmount,
		TotalHours:       t.TotalHours,
		FinalTotal:       t.FinalTotal,
		Discount:         t.Discount,
		ManualItemsTotal: t.ManualItemsTotal,
		GrandTotal:       t.GrandTotal,
	}
}

// ToComputeDraftResponse converts the engine outputs to the response DTO
func ToComputeDraftResponse(t *domain.Totals, lines []domain.EffectiveLine) ComputeDraftResponse {
	lineResponses := make([]EffectiveLineResponse, len(lines))
	for i, l := range lines {
		lineResponses[i] = EffectiveLineResponse{
			EntryID: l.EntryID,
			Hours:   l.Hours,
			Amount:  l.Amount,
		}
	}
	return ComputeDraftResponse{
		Totals: ToTotalsResponse(t),
		Lines:  lineResponses,
	}
}
