package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
	"github.com/mtc-jordan/tazweed-wps/internal/sif"
)

type reconciliationService struct {
	reconRepo portsrepo.ReconciliationRepositoryFacade
	batchRepo portsrepo.BatchRepositoryFacade
	now       func() time.Time
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	batchRepo portsrepo.BatchRepositoryFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo: reconRepo,
		batchRepo: batchRepo,
		now:       time.Now,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcileBatch matches a bank acknowledgement file against the batch line by
// line. Matching is by WPS identifier, the same key the SDRs were encoded
// with, so a bank echoing our file back matches every line.
func (s *reconciliationService) ReconcileBatch(ctx context.Context, batchID string, ackContent []byte, actor string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.State != domain.BatchSubmitted && batch.State != domain.BatchProcessed {
		return nil, fmt.Errorf("%w: batch must be submitted or processed to reconcile (state %s)",
			apperrors.ErrStateTransition, batch.State)
	}

	ack, err := sif.Decode(ackContent)
	if err != nil {
		return nil, fmt.Errorf("decoding acknowledgement file: %w", err)
	}

	ackByID := make(map[string]sif.Record, len(ack.Records))
	for _, rec := range ack.Records {
		ackByID[rec.EmployeeID] = rec
	}

	now := s.now().UTC()
	recon := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		BatchID:          batchID,
		RunAt:            now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	for i := range batch.Lines {
		line := &batch.Lines[i]
		rl := domain.ReconciliationLine{
			LineID:     line.LineID,
			EmployeeID: line.EmployeeID,
			WpsAmount:  line.NetSalary,
		}

		ackRec, found := ackByID[line.WPSIdentifier()]
		switch {
		case !found:
			rl.State = domain.ReconLineUnmatched
		case !ackRec.NetSalary.Equal(line.NetSalary):
			rl.BankAmount = ackRec.NetSalary
			rl.State = domain.ReconLineMismatch
		default:
			rl.BankAmount = ackRec.NetSalary
			rl.State = domain.ReconLineMatched
		}
		recon.Lines = append(recon.Lines, rl)

		status := domain.PaymentFailed
		if rl.State == domain.ReconLineMatched {
			status = domain.PaymentPaid
		}
		if err := s.batchRepo.UpdateLinePaymentStatus(ctx, line.LineID, status); err != nil {
			return nil, err
		}
	}

	recon.Finalize()
	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		return nil, err
	}

	logger.Info("Batch reconciled",
		slog.String("batch_id", batchID),
		slog.String("state", string(recon.State)),
		slog.Int("matched", recon.Matched),
		slog.Int("unmatched", recon.Unmatched),
	)
	return &recon, nil
}

func (s *reconciliationService) GetReconciliation(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	return s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
}

func (s *reconciliationService) ListReconciliationsByBatch(ctx context.Context, batchID string) ([]domain.Reconciliation, error) {
	return s.reconRepo.ListReconciliationsByBatch(ctx, batchID)
}

type complianceService struct {
	complianceRepo portsrepo.ComplianceReader
}

// NewComplianceService creates a new ComplianceService.
func NewComplianceService(complianceRepo portsrepo.ComplianceReader) portssvc.ComplianceSvcFacade {
	return &complianceService{complianceRepo: complianceRepo}
}

var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

func (s *complianceService) ListComplianceRecords(ctx context.Context, year int) ([]domain.ComplianceRecord, error) {
	return s.complianceRepo.ListComplianceRecords(ctx, year)
}
