package domain

import "github.com/shopspring/decimal"

// Client represents a billable party of the firm.
type Client struct {
	ClientID     string          `json:"clientID"` // Primary Key (e.g., UUID)
	Name         string          `json:"name"`
	ContactEmail string          `json:"contactEmail"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"` // Default rate applied to new time entries
	IsActive     bool            `json:"isActive"`
	AuditFields
}
