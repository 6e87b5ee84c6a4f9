package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/core/services"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

type SubmissionServiceTestSuite struct {
	suite.Suite
	mockSubRepo    *MockSubmissionRepository
	mockBatchRepo  *MockBatchRepository
	mockConnRepo   *MockConnectionRepository
	mockFactory    *MockConnectorFactory
	mockConnector  *MockConnector
	mockLifecycle  *MockBatchLifecycle
	service        portssvc.SubmissionSvcFacade

	batchID      string
	connectionID string
	actor        string
	batch        *domain.WpsBatch
	connection   *domain.BankConnection
	content      []byte
}

func (s *SubmissionServiceTestSuite) SetupTest() {
	s.mockSubRepo = new(MockSubmissionRepository)
	s.mockBatchRepo = new(MockBatchRepository)
	s.mockConnRepo = new(MockConnectionRepository)
	s.mockFactory = new(MockConnectorFactory)
	s.mockConnector = new(MockConnector)
	s.mockLifecycle = new(MockBatchLifecycle)
	s.service = services.NewSubmissionService(
		s.mockSubRepo,
		s.mockBatchRepo,
		s.mockConnRepo,
		s.mockFactory,
		s.mockLifecycle,
		metrics.NewRegistry(),
		5*time.Second,
		3,
	)

	s.batchID = uuid.NewString()
	s.connectionID = uuid.NewString()
	s.actor = uuid.NewString()
	s.batch = &domain.WpsBatch{
		BatchID:    s.batchID,
		EmployerID: "201234567890123",
		Period:     domain.Period{Month: 7, Year: 2026},
		State:      domain.BatchGenerated,
	}
	s.connection = &domain.BankConnection{
		ConnectionID: s.connectionID,
		Name:         "ENBD Corporate",
		Protocol:     domain.ProtocolREST,
		Endpoint:     "https://wps.example.ae",
		EmployerID:   "201234567890123",
		State:        domain.ConnectionActive,
		Credentials:  domain.ConnectionCredentials{APIKey: "key"},
	}
	s.content = []byte("EDR...\n")
}

func (s *SubmissionServiceTestSuite) TestSubmit_InactiveConnection_NoRecordCreated() {
	ctx := context.Background()
	draftConn := *s.connection
	draftConn.State = domain.ConnectionDraft
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(&draftConn, nil).Once()

	sub, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConnectionNotActive)
	s.Nil(sub)
	s.mockSubRepo.AssertNotCalled(s.T(), "SaveSubmission", mock.Anything, mock.Anything)
}

func (s *SubmissionServiceTestSuite) TestSubmit_BatchNotGenerated() {
	ctx := context.Background()
	draftBatch := *s.batch
	draftBatch.State = domain.BatchDraft
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(&draftBatch, nil).Once()

	_, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStateTransition)
	s.mockSubRepo.AssertNotCalled(s.T(), "SaveSubmission", mock.Anything, mock.Anything)
}

func (s *SubmissionServiceTestSuite) TestSubmit_DuplicateInFlight() {
	ctx := context.Background()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.batch, nil).Once()
	s.mockSubRepo.On("HasInFlightSubmission", ctx, s.batchID, s.connectionID).Return(true, nil).Once()

	_, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *SubmissionServiceTestSuite) TestSubmit_AcceptedByBank() {
	ctx := context.Background()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.batch, nil).Once()
	s.mockSubRepo.On("HasInFlightSubmission", ctx, s.batchID, s.connectionID).Return(false, nil).Once()
	s.mockBatchRepo.On("FindSIFContent", ctx, s.batchID).Return(s.content, nil).Once()
	s.mockSubRepo.On("SaveSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Once()
	s.mockFactory.On("For", *s.connection).Return(s.mockConnector, nil).Once()
	s.mockSubRepo.On("UpdateSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Times(2)
	s.mockConnector.On("Transmit", mock.Anything, mock.AnythingOfType("ports.SubmissionPayload")).
		Return(ports.TransmitResult{Accepted: true, BankReference: "ENBD-42", ResponseCode: "000"}, nil).Once()
	// Post-transmit reload sees the record still in flight.
	s.mockSubRepo.On("FindSubmissionByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.Submission{State: domain.SubmissionSubmitted}, nil).Once()
	s.mockLifecycle.On("MarkBatchSubmitted", ctx, s.batchID, s.actor).Return(nil).Once()

	sub, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().NoError(err)
	s.Require().NotNil(sub)
	s.Equal(domain.SubmissionProcessing, sub.State)
	s.Equal("ENBD-42", sub.BankReference)
	s.Equal(0, sub.RetryCount)
	s.NotEmpty(sub.FileHash)
	s.Equal(len(s.content), sub.FileSize)
	s.mockLifecycle.AssertExpectations(s.T())
}

func (s *SubmissionServiceTestSuite) TestSubmit_TransportError_ReturnsToDraft() {
	ctx := context.Background()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.batch, nil).Once()
	s.mockSubRepo.On("HasInFlightSubmission", ctx, s.batchID, s.connectionID).Return(false, nil).Once()
	s.mockBatchRepo.On("FindSIFContent", ctx, s.batchID).Return(s.content, nil).Once()
	s.mockSubRepo.On("SaveSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Once()
	s.mockFactory.On("For", *s.connection).Return(s.mockConnector, nil).Once()
	s.mockSubRepo.On("UpdateSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Times(2)
	s.mockConnector.On("Transmit", mock.Anything, mock.AnythingOfType("ports.SubmissionPayload")).
		Return(ports.TransmitResult{}, errors.New("dial tcp: connection refused")).Once()
	s.mockSubRepo.On("FindSubmissionByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.Submission{State: domain.SubmissionSubmitted}, nil).Once()

	sub, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().NoError(err)
	s.Require().NotNil(sub)
	s.Equal(domain.SubmissionDraft, sub.State)
	s.Equal(1, sub.RetryCount)
	s.Equal("dial tcp: connection refused", sub.LastError)
	s.mockLifecycle.AssertNotCalled(s.T(), "MarkBatchSubmitted", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubmissionServiceTestSuite) TestSubmit_CancelledMidFlight_DiscardsResult() {
	ctx := context.Background()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.batch, nil).Once()
	s.mockSubRepo.On("HasInFlightSubmission", ctx, s.batchID, s.connectionID).Return(false, nil).Once()
	s.mockBatchRepo.On("FindSIFContent", ctx, s.batchID).Return(s.content, nil).Once()
	s.mockSubRepo.On("SaveSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Once()
	s.mockFactory.On("For", *s.connection).Return(s.mockConnector, nil).Once()
	s.mockSubRepo.On("UpdateSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Once()
	s.mockConnector.On("Transmit", mock.Anything, mock.AnythingOfType("ports.SubmissionPayload")).
		Return(ports.TransmitResult{Accepted: true, BankReference: "ENBD-42"}, nil).Once()
	cancelled := &domain.Submission{State: domain.SubmissionCancelled}
	s.mockSubRepo.On("FindSubmissionByID", ctx, mock.AnythingOfType("string")).Return(cancelled, nil).Once()

	sub, err := s.service.Submit(ctx, s.batchID, s.connectionID, domain.SubmissionNew, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.SubmissionCancelled, sub.State)
	s.Empty(sub.BankReference)
	s.mockLifecycle.AssertNotCalled(s.T(), "MarkBatchSubmitted", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubmissionServiceTestSuite) TestRetry_ExhaustedBudget() {
	ctx := context.Background()
	subID := uuid.NewString()
	exhausted := &domain.Submission{
		SubmissionID: subID,
		BatchID:      s.batchID,
		ConnectionID: s.connectionID,
		State:        domain.SubmissionDraft,
		LastError:    "timeout",
		RetryCount:   3,
		MaxRetries:   3,
	}
	s.mockSubRepo.On("FindSubmissionByID", ctx, subID).Return(exhausted, nil).Times(2)

	_, err := s.service.Retry(ctx, subID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrRetryExhausted)
}

func (s *SubmissionServiceTestSuite) TestRetry_NotAFailedDraft() {
	ctx := context.Background()
	subID := uuid.NewString()
	processing := &domain.Submission{
		SubmissionID: subID,
		BatchID:      s.batchID,
		ConnectionID: s.connectionID,
		State:        domain.SubmissionProcessing,
		RetryCount:   0,
		MaxRetries:   3,
	}
	s.mockSubRepo.On("FindSubmissionByID", ctx, subID).Return(processing, nil).Times(2)

	_, err := s.service.Retry(ctx, subID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStateTransition)
}

func (s *SubmissionServiceTestSuite) TestCheckStatus_SettledSuccess() {
	ctx := context.Background()
	subID := uuid.NewString()
	processing := &domain.Submission{
		SubmissionID:  subID,
		BatchID:       s.batchID,
		ConnectionID:  s.connectionID,
		Type:          domain.SubmissionNew,
		State:         domain.SubmissionProcessing,
		BankReference: "ENBD-42",
		MaxRetries:    3,
	}
	s.mockSubRepo.On("FindSubmissionByID", ctx, subID).Return(processing, nil).Once()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockFactory.On("For", *s.connection).Return(s.mockConnector, nil).Once()
	s.mockConnector.On("CheckStatus", mock.Anything, "ENBD-42").
		Return(ports.StatusResult{Settled: true, Success: true, ResponseCode: "000"}, nil).Once()
	s.mockSubRepo.On("UpdateSubmission", ctx, mock.AnythingOfType("domain.Submission")).Return(nil).Once()
	s.mockLifecycle.On("MarkBatchProcessed", ctx, s.batchID, s.actor).Return(nil).Once()

	sub, err := s.service.CheckStatus(ctx, subID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.SubmissionSuccess, sub.State)
	s.NotNil(sub.ProcessingEnd)
	s.mockLifecycle.AssertExpectations(s.T())
}

func (s *SubmissionServiceTestSuite) TestCheckStatus_PollFailureKeepsProcessing() {
	ctx := context.Background()
	subID := uuid.NewString()
	processing := &domain.Submission{
		SubmissionID:  subID,
		BatchID:       s.batchID,
		ConnectionID:  s.connectionID,
		State:         domain.SubmissionProcessing,
		BankReference: "ENBD-42",
	}
	s.mockSubRepo.On("FindSubmissionByID", ctx, subID).Return(processing, nil).Once()
	s.mockConnRepo.On("FindConnectionByID", ctx, s.connectionID).Return(s.connection, nil).Once()
	s.mockFactory.On("For", *s.connection).Return(s.mockConnector, nil).Once()
	s.mockConnector.On("CheckStatus", mock.Anything, "ENBD-42").
		Return(ports.StatusResult{}, errors.New("gateway timeout")).Once()

	sub, err := s.service.CheckStatus(ctx, subID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.SubmissionProcessing, sub.State)
	s.mockSubRepo.AssertNotCalled(s.T(), "UpdateSubmission", mock.Anything, mock.Anything)
}

func (s *SubmissionServiceTestSuite) TestCancel_TerminalSubmission() {
	ctx := context.Background()
	subID := uuid.NewString()
	done := &domain.Submission{SubmissionID: subID, State: domain.SubmissionSuccess}
	s.mockSubRepo.On("FindSubmissionByID", ctx, subID).Return(done, nil).Once()

	err := s.service.Cancel(ctx, subID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStateTransition)
}

func TestSubmissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}
