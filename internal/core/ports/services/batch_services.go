package services

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
)

// BatchReaderSvc defines read operations for WPS batches.
type BatchReaderSvc interface {
	// GetBatch retrieves a batch with its lines and derived totals.
	GetBatch(ctx context.Context, batchID string) (*domain.WpsBatch, error)

	// ListBatches retrieves batches, newest first.
	ListBatches(ctx context.Context, params dto.ListBatchesParams) ([]dto.BatchSummaryResponse, error)

	// DownloadSIF returns the generated file content and its filename.
	DownloadSIF(ctx context.Context, batchID string) (string, []byte, error)
}

// BatchWriterSvc defines lifecycle operations for WPS batches.
type BatchWriterSvc interface {
	// CreateBatch creates an empty draft batch.
	CreateBatch(ctx context.Context, req dto.CreateBatchRequest, actor string) (*domain.WpsBatch, error)

	// AssembleLines builds one line per eligible employee in scope, discarding
	// any lines a previous run produced.
	AssembleLines(ctx context.Context, batchID string, scope domain.EmployerScope, actor string) (*domain.WpsBatch, error)

	// GenerateSIF encodes the batch and stores the file. The batch must have
	// an admissible validation result; error-severity failures block encoding.
	GenerateSIF(ctx context.Context, batchID string, actor string) (*domain.WpsBatch, error)

	// CancelBatch cancels a non-terminal batch.
	CancelBatch(ctx context.Context, batchID string, actor string) error

	// ResetBatchToDraft reworks a rejected or cancelled batch.
	ResetBatchToDraft(ctx context.Context, batchID string, actor string) error
}

// BatchLifecycleSvc is the narrow surface the submission orchestrator needs to
// move a batch through submitted/processed/rejected as bank responses arrive.
type BatchLifecycleSvc interface {
	MarkBatchSubmitted(ctx context.Context, batchID string, actor string) error
	MarkBatchProcessed(ctx context.Context, batchID string, actor string) error
	MarkBatchRejected(ctx context.Context, batchID string, actor string) error
}

// BatchSvcFacade combines all batch-related service interfaces.
type BatchSvcFacade interface {
	BatchReaderSvc
	BatchWriterSvc
	BatchLifecycleSvc
}
