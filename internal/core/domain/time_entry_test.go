package domain_test

import (
	"testing"
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTimeEntry_Amount(t *testing.T) {
	entry := domain.TimeEntry{
		Hours: decimal.RequireFromString("2.5"),
		Rate:  decimal.RequireFromString("150"),
	}
	assert.True(t, entry.Amount().Equal(decimal.RequireFromString("375")))
}

func TestTimeEntry_Validate(t *testing.T) {
	now := time.Now()
	invoiceID := "inv_123"

	tests := []struct {
		name    string
		entry   domain.TimeEntry
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid entry with case",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				CaseID:   stringPtr("case_123"),
				Hours:    decimal.NewFromFloat(2.0),
				Rate:     decimal.NewFromFloat(100.00),
				WorkDate: now,
			},
			wantErr: false,
		},
		{
			name: "valid entry without case",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				Hours:    decimal.NewFromFloat(1.5),
				Rate:     decimal.NewFromFloat(200.00),
				WorkDate: now,
			},
			wantErr: false,
		},
		{
			name: "missing client",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				Hours:    decimal.NewFromFloat(1),
				Rate:     decimal.NewFromFloat(100),
				WorkDate: now,
			},
			wantErr: true,
			errMsg:  "client ID is required",
		},
		{
			name: "negative hours",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				Hours:    decimal.NewFromFloat(-1),
				Rate:     decimal.NewFromFloat(100),
				WorkDate: now,
			},
			wantErr: true,
			errMsg:  "hours must not be negative",
		},
		{
			name: "negative rate",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				Hours:    decimal.NewFromFloat(1),
				Rate:     decimal.NewFromFloat(-100),
				WorkDate: now,
			},
			wantErr: true,
			errMsg:  "rate must not be negative",
		},
		{
			name: "missing work date",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				Hours:    decimal.NewFromFloat(1),
				Rate:     decimal.NewFromFloat(100),
			},
			wantErr: true,
			errMsg:  "work date is required",
		},
		{
			name: "invoiced without invoice reference",
			entry: domain.TimeEntry{
				EntryID:  "entry_123",
				ClientID: "client_123",
				Hours:    decimal.NewFromFloat(1),
				Rate:     decimal.NewFromFloat(100),
				WorkDate: now,
				Invoiced: true,
			},
			wantErr: true,
			errMsg:  "invoiced entry must reference an invoice",
		},
		{
			name: "invoiced with invoice reference",
			entry: domain.TimeEntry{
				EntryID:   "entry_123",
				ClientID:  "client_123",
				Hours:     decimal.NewFromFloat(1),
				Rate:      decimal.NewFromFloat(100),
				WorkDate:  now,
				Invoiced:  true,
				InvoiceID: &invoiceID,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}
