package dto

import (
	"time"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
)

// CreateCaseRequest defines the data needed to open a new case.
type CreateCaseRequest struct {
	ClientID string `json:"clientID" binding:"required"`
	Number   string `json:"number" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

// UpdateCaseRequest defines the data allowed for updating a case.
type UpdateCaseRequest struct {
	Number *string `json:"number"`
	Title  *string `json:"title"`
}

// CaseResponse defines the data returned for a case.
type CaseResponse struct {
	CaseID        string            `json:"caseID"`
	ClientID      string            `json:"clientID"`
	Number        string            `json:"number"`
	Title         string            `json:"title"`
	Status        domain.CaseStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
}

// ListCasesParams defines query parameters for listing cases.
type ListCasesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ToCaseResponse converts a domain.Case to CaseResponse DTO
func ToCaseResponse(c *domain.Case) CaseResponse {
	return CaseResponse{
		CaseID:        c.CaseID,
		ClientID:      c.ClientID,
		Number:        c.Number,
		Title:         c.Title,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCaseResponse converts a slice of domain.Case to CaseResponse DTOs
func ToListCaseResponse(cases []domain.Case) []CaseResponse {
	res := make([]CaseResponse, len(cases))
	for i, c := range cases {
		res[i] = ToCaseResponse(&c)
	}
	return res
}
