package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User      UserSvcFacade
	APIToken  APITokenSvc
	Client    ClientSvcFacade
	Case      CaseSvcFacade
	TimeEntry TimeEntrySvcFacade
	Billing   BillingSvcFacade
	Invoice   InvoiceSvcFacade

	// TokenService handles access/refresh token issuance for the auth handlers.
	TokenService TokenSvcFacade
	// GoogleOAuthHandler handles the Google OAuth login flow.
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
