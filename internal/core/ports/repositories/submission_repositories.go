package repositories

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// SubmissionReader defines read operations for submissions.
type SubmissionReader interface {
	FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListSubmissionsByBatch(ctx context.Context, batchID string) ([]domain.Submission, error)

	// HasInFlightSubmission reports whether a non-terminal submission already
	// exists for the (batch, connection) pair.
	HasInFlightSubmission(ctx context.Context, batchID, connectionID string) (bool, error)
}

// SubmissionWriter defines write operations for submissions.
type SubmissionWriter interface {
	SaveSubmission(ctx context.Context, sub domain.Submission) error
	UpdateSubmission(ctx context.Context, sub domain.Submission) error
}

// SubmissionRepositoryFacade combines submission repository interfaces.
type SubmissionRepositoryFacade interface {
	SubmissionReader
	SubmissionWriter
}

// ComplianceWriter persists monthly compliance records.
type ComplianceWriter interface {
	SaveComplianceRecord(ctx context.Context, record domain.ComplianceRecord) error
}

// ComplianceReader defines read operations for compliance records.
type ComplianceReader interface {
	ListComplianceRecords(ctx context.Context, year int) ([]domain.ComplianceRecord, error)
}

// ComplianceRepositoryFacade combines compliance repository interfaces.
type ComplianceRepositoryFacade interface {
	ComplianceReader
	ComplianceWriter
}

// ReconciliationReader defines read operations for reconciliations.
type ReconciliationReader interface {
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)
	ListReconciliationsByBatch(ctx context.Context, batchID string) ([]domain.Reconciliation, error)
}

// ReconciliationWriter defines write operations for reconciliations.
type ReconciliationWriter interface {
	SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error
}

// ReconciliationRepositoryFacade combines reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
