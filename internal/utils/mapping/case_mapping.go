package mapping

import (
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/models"
)

// ToModelCase converts a domain Case to a model Case
func ToModelCase(d domain.Case) models.Case {
	return models.Case{
		CaseID:      d.CaseID,
		ClientID:    d.ClientID,
		Number:      d.Number,
		Title:       d.Title,
		Status:      models.CaseStatus(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCase converts a model Case to a domain Case
func ToDomainCase(m models.Case) domain.Case {
	return domain.Case{
		CaseID:      m.CaseID,
		ClientID:    m.ClientID,
		Number:      m.Number,
		Title:       m.Title,
		Status:      domain.CaseStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCaseSlice converts a slice of model Cases to a slice of domain Cases
func ToDomainCaseSlice(ms []models.Case) []domain.Case {
	ds := make([]domain.Case, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCase(m)
	}
	return ds
}
