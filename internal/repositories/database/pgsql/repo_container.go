package pgsql

import (
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	apiTokenRepo := newPgxAPITokenRepository(dbPool)
	clientRepo := newPgxClientRepository(dbPool)
	caseRepo := newPgxCaseRepository(dbPool)
	timeEntryRepo := newPgxTimeEntryRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:      userRepo,
		APITokenRepo:  apiTokenRepo,
		ClientRepo:    clientRepo,
		CaseRepo:      caseRepo,
		TimeEntryRepo: timeEntryRepo,
		InvoiceRepo:   invoiceRepo,
	}
}
