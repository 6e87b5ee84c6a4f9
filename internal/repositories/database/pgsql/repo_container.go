package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	batchRepo := newPgxBatchRepository(dbPool)
	ruleRepo := newPgxRuleRepository(dbPool)
	resultRepo := newPgxResultRepository(dbPool)
	bankRepo := newPgxBankRepository(dbPool)
	connectionRepo := newPgxConnectionRepository(dbPool)
	submissionRepo := newPgxSubmissionRepository(dbPool)
	complianceRepo := newPgxComplianceRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)
	payrollSource := newPgxPayrollSource(dbPool)
	bankAccountSource := newPgxBankAccountSource(dbPool)

	return portsrepo.RepositoryProvider{
		BatchRepo:          batchRepo,
		RuleRepo:           ruleRepo,
		ResultRepo:         resultRepo,
		BankRepo:           bankRepo,
		ConnectionRepo:     connectionRepo,
		SubmissionRepo:     submissionRepo,
		ComplianceRepo:     complianceRepo,
		ReconciliationRepo: reconciliationRepo,
		PayrollSource:      payrollSource,
		BankAccountSource:  bankAccountSource,
	}
}
