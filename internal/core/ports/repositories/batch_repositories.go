package repositories

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// BatchReader defines read operations for WPS batches.
type BatchReader interface {
	// FindBatchByID retrieves a batch including its lines.
	FindBatchByID(ctx context.Context, batchID string) (*domain.WpsBatch, error)

	// ListBatches retrieves batches, newest first.
	ListBatches(ctx context.Context, limit, offset int) ([]domain.WpsBatch, error)

	// FindSIFContent returns the stored encoded file for a generated batch.
	FindSIFContent(ctx context.Context, batchID string) ([]byte, error)
}

// BatchWriter defines write operations for WPS batches.
type BatchWriter interface {
	// SaveBatch persists a new batch.
	SaveBatch(ctx context.Context, batch domain.WpsBatch) error

	// UpdateBatchState moves a batch to a new lifecycle state.
	UpdateBatchState(ctx context.Context, batchID string, state domain.BatchState, actor string) error

	// ReplaceLines atomically discards and rebuilds all lines of a batch.
	ReplaceLines(ctx context.Context, batchID string, lines []domain.WpsLine) error

	// StoreSIFContent stores the encoded file and filename for a batch.
	StoreSIFContent(ctx context.Context, batchID string, filename string, content []byte) error

	// UpdateLinePaymentStatus records the reconciled payment outcome of one line.
	UpdateLinePaymentStatus(ctx context.Context, lineID string, status domain.PaymentStatus) error
}

// BatchRepositoryFacade combines all batch-related repository interfaces.
type BatchRepositoryFacade interface {
	BatchReader
	BatchWriter
}
