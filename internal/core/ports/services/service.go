package services

// ServiceContainer bundles all service facades for handler wiring.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	Shareholder ShareholderSvcFacade
	Dividend    DividendSvcFacade
	K10         K10SvcFacade
	TaxRate     TaxRateSvcFacade
	Wizard      WizardSvcFacade
	Closing     ClosingSvcFacade
	Document    DocumentSvcFacade
	User        UserSvcFacade

	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
