package dto_test

import (
	"errors"
	"testing"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestToDraftValid(t *testing.T) {
	req := dto.ComputeDraftRequest{
		SelectedEntryIDs: []string{"e1", "e2"},
		Adjustments: map[string]dto.LineItemAdjustmentDTO{
			"e1": {AdjustedHours: decPtr("1.5")},
			"e2": {}, // empty adjustment is dropped, not an error
		},
		ManualItems: []dto.ManualLineItemDTO{
			{Description: "Filing fee", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(75)},
		},
		ManualTotal: decPtr("0"),
	}

	draft, err := req.ToDraft()

	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, draft.SelectedEntryIDs)
	assert.Len(t, draft.Adjustments, 1)
	assert.Len(t, draft.ManualItems, 1)
	require.NotNil(t, draft.ManualTotal)
	assert.True(t, draft.ManualTotal.IsZero())
}

func TestToDraftRejectsNegativeFigures(t *testing.T) {
	cases := []struct {
		name string
		req  dto.ComputeDraftRequest
	}{
		{
			name: "negative adjusted hours",
			req: dto.ComputeDraftRequest{
				SelectedEntryIDs: []string{"e1"},
				Adjustments:      map[string]dto.LineItemAdjustmentDTO{"e1": {AdjustedHours: decPtr("-1")}},
			},
		},
		{
			name: "negative adjusted amount",
			req: dto.ComputeDraftRequest{
				SelectedEntryIDs: []string{"e1"},
				Adjustments:      map[string]dto.LineItemAdjustmentDTO{"e1": {AdjustedAmount: decPtr("-500")}},
			},
		},
		{
			name: "negative manual item quantity",
			req: dto.ComputeDraftRequest{
				SelectedEntryIDs: []string{"e1"},
				ManualItems:      []dto.ManualLineItemDTO{{Description: "Fee", Quantity: decimal.NewFromInt(-2), UnitPrice: decimal.NewFromInt(10)}},
			},
		},
		{
			name: "negative manual item unit price",
			req: dto.ComputeDraftRequest{
				SelectedEntryIDs: []string{"e1"},
				ManualItems:      []dto.ManualLineItemDTO{{Description: "Fee", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(-10)}},
			},
		},
		{
			name: "negative manual total",
			req: dto.ComputeDraftRequest{
				SelectedEntryIDs: []string{"e1"},
				ManualTotal:      decPtr("-1000"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.req.ToDraft()

			require.Error(t, err)
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, 400, appErr.Code)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}
