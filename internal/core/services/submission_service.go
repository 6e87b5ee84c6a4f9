package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

// submissionService orchestrates transmission of encoded batches to banks.
// A keyed mutex serializes work per (batch, connection) pair so concurrent
// Submit calls cannot race each other into duplicate transmissions.
type submissionService struct {
	subRepo        portsrepo.SubmissionRepositoryFacade
	batchRepo      portsrepo.BatchReader
	connRepo       portsrepo.ConnectionReader
	connectors     ports.ConnectorFactory
	batchLifecycle portssvc.BatchLifecycleSvc
	metrics        *metrics.Registry

	attemptTimeout time.Duration
	maxRetries     int
	now            func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	subRepo portsrepo.SubmissionRepositoryFacade,
	batchRepo portsrepo.BatchReader,
	connRepo portsrepo.ConnectionReader,
	connectors ports.ConnectorFactory,
	batchLifecycle portssvc.BatchLifecycleSvc,
	reg *metrics.Registry,
	attemptTimeout time.Duration,
	maxRetries int,
) portssvc.SubmissionSvcFacade {
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &submissionService{
		subRepo:        subRepo,
		batchRepo:      batchRepo,
		connRepo:       connRepo,
		connectors:     connectors,
		batchLifecycle: batchLifecycle,
		metrics:        reg,
		attemptTimeout: attemptTimeout,
		maxRetries:     maxRetries,
		now:            time.Now,
		locks:          make(map[string]*sync.Mutex),
	}
}

var _ portssvc.SubmissionSvcFacade = (*submissionService)(nil)

func (s *submissionService) lockFor(batchID, connectionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := batchID + "/" + connectionID
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *submissionService) Submit(ctx context.Context, batchID, connectionID string, subType domain.SubmissionType, actor string) (*domain.Submission, error) {
	lock := s.lockFor(batchID, connectionID)
	lock.Lock()
	defer lock.Unlock()

	conn, err := s.connRepo.FindConnectionByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.State != domain.ConnectionActive {
		return nil, fmt.Errorf("%w: connection %s is %s", apperrors.ErrConnectionNotActive, conn.Name, conn.State)
	}

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.State != domain.BatchGenerated {
		return nil, fmt.Errorf("%w: batch must be generated before submission (state %s)",
			apperrors.ErrStateTransition, batch.State)
	}

	inFlight, err := s.subRepo.HasInFlightSubmission(ctx, batchID, connectionID)
	if err != nil {
		return nil, err
	}
	if inFlight {
		return nil, fmt.Errorf("%w: a submission for this batch and connection is already in flight", apperrors.ErrDuplicate)
	}

	content, err := s.batchRepo.FindSIFContent(ctx, batchID)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(content)

	if subType == "" {
		subType = domain.SubmissionNew
	}
	now := s.now().UTC()
	sub := domain.Submission{
		SubmissionID: uuid.NewString(),
		Reference:    fmt.Sprintf("SUB/%04d/%s", now.Year(), strings.ToUpper(uuid.NewString()[:8])),
		BatchID:      batchID,
		ConnectionID: connectionID,
		Type:         subType,
		State:        domain.SubmissionDraft,
		FileName:     batch.SIFFileName(),
		FileHash:     hex.EncodeToString(digest[:]),
		FileSize:     len(content),
		MaxRetries:   s.maxRetries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.subRepo.SaveSubmission(ctx, sub); err != nil {
		return nil, err
	}

	return s.transmit(ctx, &sub, conn, content, actor)
}

// Retry re-runs a draft submission that failed a prior attempt. The retry
// count carries over from the failed attempts.
func (s *submissionService) Retry(ctx context.Context, submissionID string, actor string) (*domain.Submission, error) {
	sub, err := s.subRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(sub.BatchID, sub.ConnectionID)
	lock.Lock()
	defer lock.Unlock()

	// Reload under the lock; a concurrent call may have advanced the record.
	sub, err = s.subRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !sub.CanRetry() {
		if sub.State == domain.SubmissionDraft && sub.LastError != "" {
			return nil, fmt.Errorf("%w: %d of %d attempts used", apperrors.ErrRetryExhausted, sub.RetryCount, sub.MaxRetries)
		}
		return nil, fmt.Errorf("%w: only a failed draft submission can be retried (state %s)",
			apperrors.ErrStateTransition, sub.State)
	}

	conn, err := s.connRepo.FindConnectionByID(ctx, sub.ConnectionID)
	if err != nil {
		return nil, err
	}
	if conn.State != domain.ConnectionActive {
		return nil, fmt.Errorf("%w: connection %s is %s", apperrors.ErrConnectionNotActive, conn.Name, conn.State)
	}

	content, err := s.batchRepo.FindSIFContent(ctx, sub.BatchID)
	if err != nil {
		return nil, err
	}

	return s.transmit(ctx, sub, conn, content, actor)
}

// transmit performs one connector attempt and applies its outcome to the
// record. Cancellation is cooperative: the connector call is not aborted, but
// a record cancelled while the call was in flight keeps its cancelled state
// and the result is discarded.
func (s *submissionService) transmit(ctx context.Context, sub *domain.Submission, conn *domain.BankConnection, content []byte, actor string) (*domain.Submission, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("submission_id", sub.SubmissionID),
		slog.String("batch_id", sub.BatchID),
		slog.String("protocol", string(conn.Protocol)),
	)

	connector, err := s.connectors.For(*conn)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sub.State = domain.SubmissionSubmitted
	sub.SubmittedAt = &now
	sub.LastUpdatedAt = now
	sub.LastUpdatedBy = actor
	if err := s.subRepo.UpdateSubmission(ctx, *sub); err != nil {
		return nil, err
	}

	payload := ports.SubmissionPayload{
		FileName:   sub.FileName,
		Content:    content,
		FileHash:   sub.FileHash,
		EmployerID: conn.EmployerID,
		Reference:  sub.Reference,
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	start := s.now()
	result, transmitErr := connector.Transmit(attemptCtx, payload)
	s.metrics.SubmissionDuration.Observe(s.now().Sub(start).Seconds())

	// A cancel issued while the connector call was in flight wins.
	current, err := s.subRepo.FindSubmissionByID(ctx, sub.SubmissionID)
	if err == nil && current.State == domain.SubmissionCancelled {
		logger.Info("Submission cancelled mid-flight, discarding connector result")
		return current, nil
	}

	end := s.now().UTC()
	sub.LastUpdatedAt = end
	sub.LastUpdatedBy = actor

	switch {
	case transmitErr != nil:
		sub.RecordFailure(transmitErr.Error())
		s.metrics.SubmissionAttemptsTotal.WithLabelValues(string(conn.Protocol), "transport_error").Inc()
		logger.Error("Transmission failed", slog.String("error", transmitErr.Error()),
			slog.Int("retry_count", sub.RetryCount))

	case !result.Accepted:
		sub.BankResponseCode = result.ResponseCode
		sub.BankResponseMessage = result.ResponseMessage
		sub.RecordFailure(result.ResponseMessage)
		s.metrics.SubmissionAttemptsTotal.WithLabelValues(string(conn.Protocol), "rejected").Inc()
		logger.Warn("Bank rejected submission", slog.String("response_code", result.ResponseCode))

	default:
		sub.State = domain.SubmissionProcessing
		sub.ProcessingStart = &end
		sub.BankReference = result.BankReference
		sub.BankResponseCode = result.ResponseCode
		sub.BankResponseMessage = result.ResponseMessage
		s.metrics.SubmissionAttemptsTotal.WithLabelValues(string(conn.Protocol), "accepted").Inc()
		logger.Info("Bank accepted submission", slog.String("bank_reference", result.BankReference))
	}

	if err := s.subRepo.UpdateSubmission(ctx, *sub); err != nil {
		return nil, err
	}

	if sub.State == domain.SubmissionProcessing && sub.Type == domain.SubmissionNew {
		if err := s.batchLifecycle.MarkBatchSubmitted(ctx, sub.BatchID, actor); err != nil &&
			!errors.Is(err, apperrors.ErrStateTransition) {
			return nil, err
		}
	}
	return sub, nil
}

// CheckStatus polls the bank for a processing submission. A poll failure
// leaves the record in processing for a later poll.
func (s *submissionService) CheckStatus(ctx context.Context, submissionID string, actor string) (*domain.Submission, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sub, err := s.subRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.State != domain.SubmissionProcessing {
		return nil, fmt.Errorf("%w: only processing submissions can be polled (state %s)",
			apperrors.ErrStateTransition, sub.State)
	}

	conn, err := s.connRepo.FindConnectionByID(ctx, sub.ConnectionID)
	if err != nil {
		return nil, err
	}
	connector, err := s.connectors.For(*conn)
	if err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	status, err := connector.CheckStatus(attemptCtx, sub.BankReference)
	if err != nil {
		logger.Warn("Status poll failed, submission stays in processing",
			slog.String("submission_id", submissionID), slog.String("error", err.Error()))
		return sub, nil
	}
	if !status.Settled {
		return sub, nil
	}

	now := s.now().UTC()
	sub.ProcessingEnd = &now
	sub.BankResponseCode = status.ResponseCode
	sub.BankResponseMessage = status.ResponseMessage
	sub.LastUpdatedAt = now
	sub.LastUpdatedBy = actor

	if status.Success {
		sub.State = domain.SubmissionSuccess
	} else {
		sub.State = domain.SubmissionFailed
		sub.LastError = status.ResponseMessage
	}
	if err := s.subRepo.UpdateSubmission(ctx, *sub); err != nil {
		return nil, err
	}

	if sub.Type == domain.SubmissionNew {
		var lcErr error
		if status.Success {
			lcErr = s.batchLifecycle.MarkBatchProcessed(ctx, sub.BatchID, actor)
		} else {
			lcErr = s.batchLifecycle.MarkBatchRejected(ctx, sub.BatchID, actor)
		}
		if lcErr != nil && !errors.Is(lcErr, apperrors.ErrStateTransition) {
			return nil, lcErr
		}
	}

	logger.Info("Submission settled",
		slog.String("submission_id", submissionID),
		slog.Bool("success", status.Success),
	)
	return sub, nil
}

func (s *submissionService) Cancel(ctx context.Context, submissionID string, actor string) error {
	sub, err := s.subRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.State.IsTerminal() {
		return fmt.Errorf("%w: %s submissions cannot be cancelled", apperrors.ErrStateTransition, sub.State)
	}

	now := s.now().UTC()
	sub.State = domain.SubmissionCancelled
	sub.LastUpdatedAt = now
	sub.LastUpdatedBy = actor
	return s.subRepo.UpdateSubmission(ctx, *sub)
}

func (s *submissionService) GetSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	return s.subRepo.FindSubmissionByID(ctx, submissionID)
}

func (s *submissionService) ListSubmissionsByBatch(ctx context.Context, batchID string) ([]domain.Submission, error) {
	return s.subRepo.ListSubmissionsByBatch(ctx, batchID)
}
