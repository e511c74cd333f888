package models

import "github.com/shopspring/decimal"

// Client represents a billable party row.
type Client struct {
	ClientID     string          `db:"client_id"`
	Name         string          `db:"name"`
	ContactEmail string          `db:"contact_email"`
	HourlyRate   decimal.Decimal `db:"hourly_rate"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}
