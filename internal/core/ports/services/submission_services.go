package services

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// SubmissionSvcFacade orchestrates transmission of encoded batches to banks.
type SubmissionSvcFacade interface {
	// Submit creates a submission for the batch over the given connection and
	// performs the first transmission attempt. The connection must be active
	// and the batch admissible; refusals create no record.
	Submit(ctx context.Context, batchID, connectionID string, subType domain.SubmissionType, actor string) (*domain.Submission, error)

	// Retry re-runs a draft submission that failed a prior attempt. The retry
	// count carries over; it is never reset.
	Retry(ctx context.Context, submissionID string, actor string) (*domain.Submission, error)

	// CheckStatus polls the bank for a processing submission. Idempotent; a
	// poll failure leaves the record in processing.
	CheckStatus(ctx context.Context, submissionID string, actor string) (*domain.Submission, error)

	// Cancel marks a non-terminal submission cancelled. An in-flight connector
	// call is not aborted; its result is discarded.
	Cancel(ctx context.Context, submissionID string, actor string) error

	GetSubmission(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListSubmissionsByBatch(ctx context.Context, batchID string) ([]domain.Submission, error)
}
