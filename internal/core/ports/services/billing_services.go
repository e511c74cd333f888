package services

import (
	"context"

	"github.com/harborlaw/legal_billing_app/internal/core/billing"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// BillingSvcFacade defines the unbilled-time aggregation and draft
// computation operations backing the billing screens.
type BillingSvcFacade interface {
	// UnbilledSummary aggregates a client's unbilled entries into per-case
	// groups for the given period.
	UnbilledSummary(ctx context.Context, clientID string, period billing.Period) (*domain.ClientSummary, error)

	// ComputeDraft recomputes invoice draft totals from the client's
	// unbilled entries and the caller-supplied draft state.
	ComputeDraft(ctx context.Context, clientID string, period billing.Period, draft billing.Draft) (*domain.Totals, []domain.EffectiveLine, error)

	// ExportUnbilledSummary renders the summary as an xlsx workbook.
	ExportUnbilledSummary(ctx context.Context, clientID string, period billing.Period) ([]byte, string, error)
}
