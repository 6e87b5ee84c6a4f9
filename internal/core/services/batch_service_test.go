package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/core/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

type BatchServiceTestSuite struct {
	suite.Suite
	mockBatchRepo      *MockBatchRepository
	mockResultRepo     *MockResultRepository
	mockComplianceRepo *MockComplianceRepository
	mockPayroll        *MockPayrollSource
	mockBankAccounts   *MockBankAccountSource
	service            portssvc.BatchSvcFacade

	batchID string
	actor   string
}

func (s *BatchServiceTestSuite) SetupTest() {
	s.mockBatchRepo = new(MockBatchRepository)
	s.mockResultRepo = new(MockResultRepository)
	s.mockComplianceRepo = new(MockComplianceRepository)
	s.mockPayroll = new(MockPayrollSource)
	s.mockBankAccounts = new(MockBankAccountSource)
	s.service = services.NewBatchService(
		s.mockBatchRepo,
		s.mockResultRepo,
		s.mockComplianceRepo,
		s.mockPayroll,
		s.mockBankAccounts,
		metrics.NewRegistry(),
	)
	s.batchID = uuid.NewString()
	s.actor = uuid.NewString()
}

func (s *BatchServiceTestSuite) validBatch(state domain.BatchState) *domain.WpsBatch {
	return &domain.WpsBatch{
		BatchID:         s.batchID,
		Reference:       "WPS/2026/AB12CD34",
		EmployerID:      "201234567890123",
		EmployerRouting: "102310101",
		EmployerAccount: "AE070331234567890123456",
		Period:          domain.Period{Month: 7, Year: 2026},
		SalaryDate:      time.Date(2026, 7, 28, 0, 0, 0, 0, time.UTC),
		FileType:        domain.FileTypeSIF,
		State:           state,
		Lines: []domain.WpsLine{
			{
				LineID:        uuid.NewString(),
				BatchID:       s.batchID,
				EmployeeID:    "EMP-001",
				EmiratesID:    "784199012345678",
				BankCode:      "102320101",
				AccountNumber: "1012003456789",
				DaysWorked:    30,
				BasicSalary:   decimal.NewFromInt(5000),
				NetSalary:     decimal.NewFromInt(5000),
			},
		},
	}
}

func (s *BatchServiceTestSuite) TestCreateBatch_InvalidPeriod() {
	ctx := context.Background()
	req := dto.CreateBatchRequest{
		EmployerID:      "201234567890123",
		EmployerRouting: "102310101",
		EmployerAccount: "AE070331234567890123456",
		Month:           13,
		Year:            2026,
		SalaryDate:      time.Now(),
	}

	_, err := s.service.CreateBatch(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBatchRepo.AssertNotCalled(s.T(), "SaveBatch", mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestCreateBatch_Defaults() {
	ctx := context.Background()
	req := dto.CreateBatchRequest{
		EmployerID:      "201234567890123",
		EmployerRouting: "102310101",
		EmployerAccount: "AE070331234567890123456",
		Month:           7,
		Year:            2026,
		SalaryDate:      time.Date(2026, 7, 28, 0, 0, 0, 0, time.UTC),
	}
	s.mockBatchRepo.On("SaveBatch", ctx, mock.AnythingOfType("domain.WpsBatch")).Return(nil).Once()

	batch, err := s.service.CreateBatch(ctx, req, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.BatchDraft, batch.State)
	s.Equal(domain.FileTypeSIF, batch.FileType)
	s.NotEmpty(batch.BatchID)
	s.NotEmpty(batch.Reference)
	s.Equal(s.actor, batch.CreatedBy)
}

func (s *BatchServiceTestSuite) TestAssembleLines_NotDraft() {
	ctx := context.Background()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.validBatch(domain.BatchGenerated), nil).Once()

	_, err := s.service.AssembleLines(ctx, s.batchID, domain.EmployerScope{CompanyID: "CO-1"}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStateTransition)
}

func (s *BatchServiceTestSuite) TestAssembleLines_MissingBankAccountKeepsLine() {
	ctx := context.Background()
	scope := domain.EmployerScope{CompanyID: "CO-1"}
	batch := s.validBatch(domain.BatchDraft)
	batch.Lines = nil
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(batch, nil).Once()

	figures := []domain.PayrollFigures{
		{
			EmployeeID: "EMP-001",
			EmiratesID: "784199012345678",
			DaysWorked: 30,
			Basic:      decimal.NewFromInt(4000),
			Housing:    decimal.NewFromInt(1000),
		},
		{
			EmployeeID:   "EMP-002",
			LabourCardNo: "12345678901234",
			Basic:        decimal.NewFromInt(3000),
		},
	}
	s.mockPayroll.On("ListEligiblePayroll", ctx, scope, batch.Period).Return(figures, nil).Once()
	s.mockBankAccounts.On("FindBankAccount", ctx, "EMP-001").
		Return(&domain.EmployeeBankAccount{EmployeeID: "EMP-001", BankCode: "102320101", AccountNumber: "1012003456789"}, nil).Once()
	s.mockBankAccounts.On("FindBankAccount", ctx, "EMP-002").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockBatchRepo.On("ReplaceLines", ctx, s.batchID, mock.AnythingOfType("[]domain.WpsLine")).Return(nil).Once()

	result, err := s.service.AssembleLines(ctx, s.batchID, scope, s.actor)

	s.Require().NoError(err)
	s.Require().Len(result.Lines, 2)

	s.Equal("102320101", result.Lines[0].BankCode)
	s.True(result.Lines[0].NetSalary.Equal(decimal.NewFromInt(5000)))

	// The employee without an account still gets a line so validation can
	// name exactly who needs bank details.
	s.Empty(result.Lines[1].BankCode)
	s.Empty(result.Lines[1].AccountNumber)
	s.True(result.Lines[1].NetSalary.Equal(decimal.NewFromInt(3000)))
	// Unspecified day counts fall back to the conventional full month.
	s.Equal(30, result.Lines[1].DaysWorked)
}

func (s *BatchServiceTestSuite) TestGenerateSIF_NeverValidated() {
	ctx := context.Background()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.validBatch(domain.BatchDraft), nil).Once()
	s.mockResultRepo.On("FindLatestResultByBatch", ctx, s.batchID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GenerateSIF(ctx, s.batchID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidationBlocked)
}

func (s *BatchServiceTestSuite) TestGenerateSIF_BlockedByErrorFailures() {
	ctx := context.Background()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.validBatch(domain.BatchDraft), nil).Once()
	blocked := &domain.ValidationResult{CanSubmit: false, Failed: 2}
	s.mockResultRepo.On("FindLatestResultByBatch", ctx, s.batchID).Return(blocked, nil).Once()

	_, err := s.service.GenerateSIF(ctx, s.batchID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidationBlocked)
	s.mockBatchRepo.AssertNotCalled(s.T(), "StoreSIFContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestGenerateSIF_Success() {
	ctx := context.Background()
	batch := s.validBatch(domain.BatchDraft)
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(batch, nil).Once()
	admissible := &domain.ValidationResult{CanSubmit: true}
	s.mockResultRepo.On("FindLatestResultByBatch", ctx, s.batchID).Return(admissible, nil).Once()
	s.mockBatchRepo.On("StoreSIFContent", ctx, s.batchID, "WPS_201234567890123_202607.SIF", mock.AnythingOfType("[]uint8")).Return(nil).Once()
	s.mockBatchRepo.On("UpdateBatchState", ctx, s.batchID, domain.BatchGenerated, s.actor).Return(nil).Once()

	result, err := s.service.GenerateSIF(ctx, s.batchID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.BatchGenerated, result.State)
	s.Equal("WPS_201234567890123_202607.SIF", result.SIFFilename)
}

func (s *BatchServiceTestSuite) TestResetBatchToDraft_OnlyFromRejectedOrCancelled() {
	ctx := context.Background()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.validBatch(domain.BatchSubmitted), nil).Once()

	err := s.service.ResetBatchToDraft(ctx, s.batchID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrStateTransition)
}

func (s *BatchServiceTestSuite) TestResetBatchToDraft_DiscardsFile() {
	ctx := context.Background()
	rejected := s.validBatch(domain.BatchRejected)
	rejected.SIFFilename = "WPS_201234567890123_202607.SIF"
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(rejected, nil).Once()
	s.mockBatchRepo.On("StoreSIFContent", ctx, s.batchID, "", []byte(nil)).Return(nil).Once()
	s.mockBatchRepo.On("UpdateBatchState", ctx, s.batchID, domain.BatchDraft, s.actor).Return(nil).Once()

	err := s.service.ResetBatchToDraft(ctx, s.batchID, s.actor)

	s.Require().NoError(err)
	s.mockBatchRepo.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestMarkBatchProcessed_WritesComplianceRecord() {
	ctx := context.Background()
	s.mockBatchRepo.On("FindBatchByID", ctx, s.batchID).Return(s.validBatch(domain.BatchSubmitted), nil).Once()
	s.mockBatchRepo.On("UpdateBatchState", ctx, s.batchID, domain.BatchProcessed, s.actor).Return(nil).Once()
	s.mockComplianceRepo.On("SaveComplianceRecord", ctx, mock.MatchedBy(func(r domain.ComplianceRecord) bool {
		return r.BatchID == s.batchID && r.EmployeesPaid == 1 && r.TotalSalaryPaid.Equal(decimal.NewFromInt(5000))
	})).Return(nil).Once()

	err := s.service.MarkBatchProcessed(ctx, s.batchID, s.actor)

	s.Require().NoError(err)
	s.mockComplianceRepo.AssertExpectations(s.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
