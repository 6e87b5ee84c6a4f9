package services

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// ReconciliationSvcFacade matches batches against bank acknowledgement files.
type ReconciliationSvcFacade interface {
	// ReconcileBatch decodes the acknowledgement, matches its records to the
	// batch's lines by employee identifier, updates per-line payment status
	// and persists the run.
	ReconcileBatch(ctx context.Context, batchID string, ackContent []byte, actor string) (*domain.Reconciliation, error)

	GetReconciliation(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)
	ListReconciliationsByBatch(ctx context.Context, batchID string) ([]domain.Reconciliation, error)
}

// ComplianceSvcFacade serves the monthly compliance records written when
// batches reach processed.
type ComplianceSvcFacade interface {
	ListComplianceRecords(ctx context.Context, year int) ([]domain.ComplianceRecord, error)
}
