package services

import (
	"log/slog"

	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, roadmapCreator portssvc.RoadmapCreator, reviewFetcher portssvc.MonthlyReviewFetcher, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Ledger first since the shareholder, wizard and closing services book or
	// read verifications through it.
	container.Ledger = NewLedgerService(repos.VerificationRepo)

	container.TaxRate = NewTaxRateService(repos.TaxRateRepo)
	container.Shareholder = NewShareholderService(repos.ShareholderRepo, container.Ledger)
	container.Dividend = NewDividendService(container.TaxRate, repos.ShareholderRepo)
	container.K10 = NewK10Service(repos.K10Repo, repos.ShareholderRepo, container.TaxRate)
	container.Document = NewDocumentService(repos.DocumentRepo)
	container.Wizard = NewWizardService(container.Document, container.Ledger, roadmapCreator)
	container.Closing = NewClosingService(repos.ClosingRepo, container.Ledger, reviewFetcher, logger)
	container.User = NewUserService(repos.UserRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
