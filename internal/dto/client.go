package dto

import (
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to create a new client.
type CreateClientRequest struct {
	Name         string          `json:"name" binding:"required"`
	ContactEmail string          `json:"contactEmail" binding:"omitempty,email"`
	HourlyRate   decimal.Decimal `json:"hourlyRate" binding:"required"`
}

// UpdateClientRequest defines the data allowed for updating a client.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateClientRequest struct {
	Name         *string          `json:"name"`
	ContactEmail *string          `json:"contactEmail" binding:"omitempty,email"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate"`
	IsActive     *bool            `json:"isActive"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID     string          `json:"clientID"`
	Name         string          `json:"name"`
	ContactEmail string          `json:"contactEmail"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:      c.ClientID,
		Name:          c.Name,
		ContactEmail:  c.ContactEmail,
		HourlyRate:    c.HourlyRate,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListClientResponse converts a slice of domain.Client to ClientResponse DTOs
func ToListClientResponse(clients []domain.Client) []ClientResponse {
	res := make([]ClientResponse, len(clients))
	for i, c := range clients {
		res[i] = ToClientResponse(&c)
	}
	return res
}
