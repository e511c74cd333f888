package mapping

import (
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/models"
)

// ToModelTimeEntry converts a domain TimeEntry to a model TimeEntry
func ToModelTimeEntry(d domain.TimeEntry) models.TimeEntry {
	return models.TimeEntry{
		EntryID:     d.EntryID,
		ClientID:    d.ClientID,
		CaseID:      d.CaseID,
		Description: d.Description,
		Hours:       d.Hours,
		Rate:        d.Rate,
		WorkDate:    d.WorkDate,
		Invoiced:    d.Invoiced,
		InvoiceID:   d.InvoiceID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTimeEntry converts a model TimeEntry to a domain TimeEntry
func ToDomainTimeEntry(m models.TimeEntry) domain.TimeEntry {
	return domain.TimeEntry{
		EntryID:     m.EntryID,
		ClientID:    m.ClientID,
		CaseID:      m.CaseID,
		Description: m.Description,
		Hours:       m.Hours,
		Rate:        m.Rate,
		WorkDate:    m.WorkDate,
		Invoiced:    m.Invoiced,
		InvoiceID:   m.InvoiceID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTimeEntrySlice converts a slice of model TimeEntries to a slice of domain TimeEntries
func ToDomainTimeEntrySlice(ms []models.TimeEntry) []domain.TimeEntry {
	ds := make([]domain.TimeEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTimeEntry(m)
	}
	return ds
}
