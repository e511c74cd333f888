package services

import (
	portsrepo "github.com/harborlaw/legal_billing_app/internal/core/ports/repositories"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.APIToken = NewAPITokenService(repos.APITokenRepo, container.User)
	container.Client = NewClientService(repos.ClientRepo)
	container.Case = NewCaseService(repos.CaseRepo, repos.ClientRepo)
	container.TimeEntry = NewTimeEntryService(repos.TimeEntryRepo, repos.ClientRepo, repos.CaseRepo)
	container.Billing = NewBillingService(repos.TimeEntryRepo, repos.ClientRepo, repos.CaseRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.TimeEntryRepo, repos.ClientRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
