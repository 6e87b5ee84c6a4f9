package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	BatchRepo          BatchRepositoryFacade
	RuleRepo           RuleRepositoryFacade
	ResultRepo         ResultRepositoryFacade
	BankRepo           BankRepositoryFacade
	ConnectionRepo     ConnectionRepositoryFacade
	SubmissionRepo     SubmissionRepositoryFacade
	ComplianceRepo     ComplianceRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade

	PayrollSource     PayrollSource
	BankAccountSource BankAccountSource
}
