package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
	"github.com/mtc-jordan/tazweed-wps/internal/sif"
)

// batchService owns the WPS batch lifecycle: assembly, the validation gate,
// SIF generation and state transitions driven by bank responses.
type batchService struct {
	batchRepo      portsrepo.BatchRepositoryFacade
	resultRepo     portsrepo.ResultReader
	complianceRepo portsrepo.ComplianceWriter
	payroll        portsrepo.PayrollSource
	bankAccounts   portsrepo.BankAccountSource
	metrics        *metrics.Registry
	now            func() time.Time
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	batchRepo portsrepo.BatchRepositoryFacade,
	resultRepo portsrepo.ResultReader,
	complianceRepo portsrepo.ComplianceWriter,
	payroll portsrepo.PayrollSource,
	bankAccounts portsrepo.BankAccountSource,
	reg *metrics.Registry,
) portssvc.BatchSvcFacade {
	return &batchService{
		batchRepo:      batchRepo,
		resultRepo:     resultRepo,
		complianceRepo: complianceRepo,
		payroll:        payroll,
		bankAccounts:   bankAccounts,
		metrics:        reg,
		now:            time.Now,
	}
}

var _ portssvc.BatchSvcFacade = (*batchService)(nil)

func (s *batchService) CreateBatch(ctx context.Context, req dto.CreateBatchRequest, actor string) (*domain.WpsBatch, error) {
	period := domain.Period{Month: req.Month, Year: req.Year}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: invalid period %02d/%04d", apperrors.ErrValidation, req.Month, req.Year)
	}

	fileType := domain.FileTypeSIF
	if strings.EqualFold(req.FileType, string(domain.FileTypeNonSIF)) {
		fileType = domain.FileTypeNonSIF
	}

	now := s.now().UTC()
	batch := domain.WpsBatch{
		BatchID:         uuid.NewString(),
		Reference:       fmt.Sprintf("WPS/%04d/%s", req.Year, strings.ToUpper(uuid.NewString()[:8])),
		EmployerID:      req.EmployerID,
		EmployerRouting: req.EmployerRouting,
		EmployerAccount: req.EmployerAccount,
		Period:          period,
		SalaryDate:      req.SalaryDate,
		FileType:        fileType,
		State:           domain.BatchDraft,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.batchRepo.SaveBatch(ctx, batch); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Batch created",
		slog.String("batch_id", batch.BatchID),
		slog.String("reference", batch.Reference),
	)
	return &batch, nil
}

func (s *batchService) GetBatch(ctx context.Context, batchID string) (*domain.WpsBatch, error) {
	return s.batchRepo.FindBatchByID(ctx, batchID)
}

func (s *batchService) ListBatches(ctx context.Context, params dto.ListBatchesParams) ([]dto.BatchSummaryResponse, error) {
	batches, err := s.batchRepo.ListBatches(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchSummaryResponse, 0, len(batches))
	for i := range batches {
		totals := batches[i].Totals()
		batches[i].Lines = nil
		out = append(out, dto.BatchSummaryResponse{Batch: batches[i], Totals: totals})
	}
	return out, nil
}

// AssembleLines builds one line per eligible employee in scope. A previous
// run's lines are discarded wholesale; assembly is idempotent, not incremental.
// An employee without a resolvable bank account still produces a line with
// empty bank fields so validation can name exactly who needs data.
func (s *batchService) AssembleLines(ctx context.Context, batchID string, scope domain.EmployerScope, actor string) (*domain.WpsBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.State != domain.BatchDraft {
		return nil, fmt.Errorf("%w: lines can only be assembled on a draft batch (state %s)",
			apperrors.ErrStateTransition, batch.State)
	}

	figures, err := s.payroll.ListEligiblePayroll(ctx, scope, batch.Period)
	if err != nil {
		return nil, err
	}
	if len(figures) == 0 {
		return nil, fmt.Errorf("%w: no employees with active contracts in scope", apperrors.ErrValidation)
	}

	lines := make([]domain.WpsLine, 0, len(figures))
	missingAccounts := 0
	for _, fig := range figures {
		line := domain.WpsLine{
			LineID:             uuid.NewString(),
			BatchID:            batchID,
			EmployeeID:         fig.EmployeeID,
			EmiratesID:         fig.EmiratesID,
			LabourCardNo:       fig.LabourCardNo,
			DaysWorked:         fig.DaysWorked,
			BasicSalary:        fig.Basic,
			HousingAllowance:   fig.Housing,
			TransportAllowance: fig.Transport,
			OtherAllowance:     fig.Other,
			Overtime:           fig.Overtime,
			LeaveSalary:        fig.Leave,
			Deductions:         fig.Deductions,
			PaymentStatus:      domain.PaymentPending,
		}
		if line.DaysWorked <= 0 {
			line.DaysWorked = sif.DefaultDaysWorked
		}
		line.NetSalary = line.ExpectedNet()

		account, err := s.bankAccounts.FindBankAccount(ctx, fig.EmployeeID)
		switch {
		case err == nil:
			line.BankCode = account.BankCode
			line.AccountNumber = account.AccountNumber
			line.IBAN = account.IBAN
		case errors.Is(err, apperrors.ErrNotFound):
			missingAccounts++
		default:
			return nil, err
		}

		lines = append(lines, line)
	}

	if err := s.batchRepo.ReplaceLines(ctx, batchID, lines); err != nil {
		return nil, err
	}

	logger.Info("Batch lines assembled",
		slog.String("batch_id", batchID),
		slog.Int("lines", len(lines)),
		slog.Int("missing_bank_accounts", missingAccounts),
	)

	batch.Lines = lines
	return batch, nil
}

// GenerateSIF encodes the batch. The latest validation result gates encoding:
// error-severity failures block it, warnings do not.
func (s *batchService) GenerateSIF(ctx context.Context, batchID string, actor string) (*domain.WpsBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.State != domain.BatchDraft {
		return nil, fmt.Errorf("%w: SIF can only be generated from draft (state %s)",
			apperrors.ErrStateTransition, batch.State)
	}
	if len(batch.Lines) == 0 {
		return nil, fmt.Errorf("%w: batch has no lines; assemble lines first", apperrors.ErrValidation)
	}

	result, err := s.resultRepo.FindLatestResultByBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: batch has not been validated", apperrors.ErrValidationBlocked)
		}
		return nil, err
	}
	if !result.CanSubmit {
		return nil, fmt.Errorf("%w: %d error-severity rule failures", apperrors.ErrValidationBlocked, result.Failed)
	}

	content, err := sif.Encode(batch)
	if err != nil {
		return nil, err
	}

	filename := batch.SIFFileName()
	if err := s.batchRepo.StoreSIFContent(ctx, batchID, filename, content); err != nil {
		return nil, err
	}
	if err := s.batchRepo.UpdateBatchState(ctx, batchID, domain.BatchGenerated, actor); err != nil {
		return nil, err
	}

	s.metrics.SIFFilesGeneratedTotal.Inc()
	logger.Info("SIF file generated",
		slog.String("batch_id", batchID),
		slog.String("filename", filename),
		slog.Int("size_bytes", len(content)),
	)

	batch.State = domain.BatchGenerated
	batch.SIFFilename = filename
	return batch, nil
}

func (s *batchService) DownloadSIF(ctx context.Context, batchID string) (string, []byte, error) {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return "", nil, err
	}
	if batch.SIFFilename == "" {
		return "", nil, fmt.Errorf("%w: no SIF file generated for batch", apperrors.ErrNotFound)
	}
	content, err := s.batchRepo.FindSIFContent(ctx, batchID)
	if err != nil {
		return "", nil, err
	}
	return batch.SIFFilename, content, nil
}

func (s *batchService) CancelBatch(ctx context.Context, batchID string, actor string) error {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.State.IsTerminal() {
		return fmt.Errorf("%w: %s batches cannot be cancelled", apperrors.ErrStateTransition, batch.State)
	}
	return s.batchRepo.UpdateBatchState(ctx, batchID, domain.BatchCancelled, actor)
}

func (s *batchService) ResetBatchToDraft(ctx context.Context, batchID string, actor string) error {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if !batch.CanResetToDraft() {
		return fmt.Errorf("%w: only rejected or cancelled batches can be reset", apperrors.ErrStateTransition)
	}
	if err := s.batchRepo.StoreSIFContent(ctx, batchID, "", nil); err != nil {
		return err
	}
	return s.batchRepo.UpdateBatchState(ctx, batchID, domain.BatchDraft, actor)
}

func (s *batchService) MarkBatchSubmitted(ctx context.Context, batchID string, actor string) error {
	return s.transition(ctx, batchID, domain.BatchGenerated, domain.BatchSubmitted, actor)
}

func (s *batchService) MarkBatchRejected(ctx context.Context, batchID string, actor string) error {
	return s.transition(ctx, batchID, domain.BatchSubmitted, domain.BatchRejected, actor)
}

// MarkBatchProcessed finalizes the batch and writes the period's compliance record.
func (s *batchService) MarkBatchProcessed(ctx context.Context, batchID string, actor string) error {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.State != domain.BatchSubmitted {
		return fmt.Errorf("%w: only submitted batches can be marked processed (state %s)",
			apperrors.ErrStateTransition, batch.State)
	}
	if err := s.batchRepo.UpdateBatchState(ctx, batchID, domain.BatchProcessed, actor); err != nil {
		return err
	}

	totals := batch.Totals()
	now := s.now().UTC()
	record := domain.ComplianceRecord{
		RecordID:        uuid.NewString(),
		Period:          batch.Period,
		BatchID:         batchID,
		TotalEmployees:  totals.EmployeeCount,
		EmployeesPaid:   totals.EmployeeCount,
		TotalSalaryDue:  totals.Net,
		TotalSalaryPaid: totals.Net,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.complianceRepo.SaveComplianceRecord(ctx, record); err != nil {
		// The batch is processed either way; a missing compliance row is
		// recoverable from the batch itself.
		middleware.GetLoggerFromCtx(ctx).Error("Failed to write compliance record",
			slog.String("batch_id", batchID), slog.String("error", err.Error()))
	}
	return nil
}

func (s *batchService) transition(ctx context.Context, batchID string, from, to domain.BatchState, actor string) error {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.State != from {
		return fmt.Errorf("%w: batch is %s, expected %s", apperrors.ErrStateTransition, batch.State, from)
	}
	return s.batchRepo.UpdateBatchState(ctx, batchID, to, actor)
}
