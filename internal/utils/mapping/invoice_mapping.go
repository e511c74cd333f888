package mapping

import (
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:        d.InvoiceID,
		ClientID:         d.ClientID,
		Number:           d.Number,
		Status:           models.InvoiceStatus(d.Status),
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		PaidDate:         d.PaidDate,
		OriginalTotal:    d.OriginalTotal,
		TotalTimeAmount:  d.TotalTimeAmount,
		TotalHours:       d.TotalHours,
		ManualTotal:      d.ManualTotal,
		FinalTotal:       d.FinalTotal,
		Discount:         d.Discount,
		ManualItemsTotal: d.ManualItemsTotal,
		GrandTotal:       d.GrandTotal,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:        m.InvoiceID,
		ClientID:         m.ClientID,
		Number:           m.Number,
		Status:           domain.InvoiceStatus(m.Status),
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		PaidDate:         m.PaidDate,
		OriginalTotal:    m.OriginalTotal,
		TotalTimeAmount:  m.TotalTimeAmount,
		TotalHours:       m.TotalHours,
		ManualTotal:      m.ManualTotal,
		FinalTotal:       m.FinalTotal,
		Discount:         m.Discount,
		ManualItemsTotal: m.ManualItemsTotal,
		GrandTotal:       m.GrandTotal,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLineItem converts a domain InvoiceLineItem to a model InvoiceLineItem
func ToModelInvoiceLineItem(d domain.InvoiceLineItem) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		LineItemID:  d.LineItemID,
		InvoiceID:   d.InvoiceID,
		Kind:        models.LineItemKind(d.Kind),
		EntryID:     d.EntryID,
		Description: d.Description,
		WorkDate:    d.WorkDate,
		Hours:       d.Hours,
		Rate:        d.Rate,
		Amount:      d.Amount,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
	}
}

// ToDomainInvoiceLineItem converts a model InvoiceLineItem to a domain InvoiceLineItem
func ToDomainInvoiceLineItem(m models.InvoiceLineItem) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		LineItemID:  m.LineItemID,
		InvoiceID:   m.InvoiceID,
		Kind:        domain.LineItemKind(m.Kind),
		EntryID:     m.EntryID,
		Description: m.Description,
		WorkDate:    m.WorkDate,
		Hours:       m.Hours,
		Rate:        m.Rate,
		Amount:      m.Amount,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// ToDomainInvoiceLineItemSlice converts a slice of model line items to domain line items
func ToDomainInvoiceLineItemSlice(ms []models.InvoiceLineItem) []domain.InvoiceLineItem {
	ds := make([]domain.InvoiceLineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLineItem(m)
	}
	return ds
}
