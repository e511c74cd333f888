package mapping

import (
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:     d.ClientID,
		Name:         d.Name,
		ContactEmail: d.ContactEmail,
		HourlyRate:   d.HourlyRate,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:     m.ClientID,
		Name:         m.Name,
		ContactEmail: m.ContactEmail,
		HourlyRate:   m.HourlyRate,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to a slice of domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
