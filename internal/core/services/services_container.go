package services

import (
	"time"

	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

// ContainerOptions carries the tuning knobs the container constructor needs
// beyond repositories and adapters.
type ContainerOptions struct {
	SubmitTimeout time.Duration
	MaxRetries    int
}

// NewServiceContainer wires every application service against the provided
// repositories and connector factory.
func NewServiceContainer(
	repos portsrepo.RepositoryProvider,
	connectors ports.ConnectorFactory,
	reg *metrics.Registry,
	opts ContainerOptions,
) *portssvc.ServiceContainer {
	batchSvc := NewBatchService(
		repos.BatchRepo,
		repos.ResultRepo,
		repos.ComplianceRepo,
		repos.PayrollSource,
		repos.BankAccountSource,
		reg,
	)
	resolver := NewBankReferenceResolver(repos.BankRepo)

	return &portssvc.ServiceContainer{
		Batch:      batchSvc,
		Validation: NewValidationService(repos.BatchRepo, repos.RuleRepo, repos.ResultRepo, resolver, reg),
		Rule:       NewRuleService(repos.RuleRepo),
		Submission: NewSubmissionService(
			repos.SubmissionRepo,
			repos.BatchRepo,
			repos.ConnectionRepo,
			connectors,
			batchSvc,
			reg,
			opts.SubmitTimeout,
			opts.MaxRetries,
		),
		Bank:           NewBankService(repos.BankRepo),
		Connection:     NewConnectionService(repos.ConnectionRepo, repos.BankRepo, connectors),
		Reconciliation: NewReconciliationService(repos.ReconciliationRepo, repos.BatchRepo),
		Compliance:     NewComplianceService(repos.ComplianceRepo),
	}
}
