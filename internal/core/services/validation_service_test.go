package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/core/services"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

type ValidationServiceTestSuite struct {
	suite.Suite
	mockBatchRepo  *MockBatchRepository
	mockRuleRepo   *MockRuleRepository
	mockResultRepo *MockResultRepository
	mockBankRepo   *MockBankRepository
	service        portssvc.ValidationSvcFacade

	batchID string
	actor   string
}

func (s *ValidationServiceTestSuite) SetupTest() {
	s.mockBatchRepo = new(MockBatchRepository)
	s.mockRuleRepo = new(MockRuleRepository)
	s.mockResultRepo = new(MockResultRepository)
	s.mockBankRepo = new(MockBankRepository)
	s.service = services.NewValidationService(
		s.mockBatchRepo,
		s.mockRuleRepo,
		s.mockResultRepo,
		services.NewBankReferenceResolver(s.mockBankRepo),
		metrics.NewRegistry(),
	)
	s.batchID = uuid.NewString()
	s.actor = uuid.NewString()
}

func (s *ValidationServiceTestSuite) batchWithLines(lines ...domain.WpsLine) *domain.WpsBatch {
	for i := range lines {
		lines[i].BatchID = s.batchID
		if lines[i].LineID == "" {
			lines[i].LineID = uuid.NewString()
		}
	}
	return &domain.WpsBatch{
		BatchID:         s.batchID,
		Reference:       "WPS/2026/AB12CD34",
		EmployerID:      "201234567890123",
		EmployerRouting: "102310101",
		EmployerAccount: "AE070331234567890123456",
		Period:          domain.Period{Month: 7, Year: 2026},
		FileType:        domain.FileTypeSIF,
		State:           domain.BatchDraft,
		Lines:           lines,
	}
}

func (s *ValidationServiceTestSuite) expectRules(rulesByScope map[domain.RuleScope][]domain.ValidationRule) {
	for _, scope := range []domain.RuleScope{
		domain.ScopeFile, domain.ScopeLine, domain.ScopeEmployee, domain.ScopeBankAccount,
	} {
		s.mockRuleRepo.On("ListActiveRules", mock.Anything, scope).
			Return(rulesByScope[scope], nil)
	}
}

func errorRule(code string, ruleType domain.RuleType, field string, params domain.RuleParams) domain.ValidationRule {
	return domain.ValidationRule{
		RuleID:   uuid.NewString(),
		Code:     code,
		Name:     code,
		Type:     ruleType,
		Scope:    domain.ScopeLine,
		Field:    field,
		Params:   params,
		Severity: domain.SeverityError,
		Message:  code + " failed",
		Active:   true,
	}
}

func (s *ValidationServiceTestSuite) TestValidateBatch_NetMismatchBlocksSubmission() {
	line := domain.WpsLine{
		EmployeeID:    "EMP-001",
		EmiratesID:    "784199012345678",
		BankCode:      "102320101",
		AccountNumber: "1012003456789",
		DaysWorked:    30,
		BasicSalary:   decimal.NewFromInt(5000),
		// Net disagrees with the components.
		NetSalary: decimal.NewFromInt(4000),
	}
	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(line), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeLine: {
			errorRule("NET_RECON", domain.RuleCalculation, "",
				domain.RuleParams{Check: "net_reconciliation"}),
		},
	})

	var saved domain.ValidationResult
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.MatchedBy(func(r domain.ValidationResult) bool {
		saved = r
		return true
	})).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.Equal(domain.ValidationInvalid, result.Status)
	s.False(result.CanSubmit)
	s.Equal(1, result.Failed)
	s.Equal("NET_RECON failed", result.Lines[0].Message)
	s.Equal("EMP-001", result.Lines[0].EmployeeID)
	s.Equal(result.ResultID, saved.ResultID)
	s.mockResultRepo.AssertExpectations(s.T())
}

func (s *ValidationServiceTestSuite) TestValidateBatch_WarningsDoNotBlock() {
	min := 1000.0
	warn := errorRule("MIN_WAGE", domain.RuleBusiness, "",
		domain.RuleParams{Check: "minimum_wage", Min: &min})
	warn.Severity = domain.SeverityWarning

	line := domain.WpsLine{
		EmployeeID:  "EMP-001",
		EmiratesID:  "784199012345678",
		DaysWorked:  30,
		BasicSalary: decimal.NewFromInt(500),
		NetSalary:   decimal.NewFromInt(500),
	}
	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(line), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeLine: {warn},
	})
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.Equal(domain.ValidationWarning, result.Status)
	s.True(result.CanSubmit)
	s.Equal(1, result.Warnings)
	s.Equal(0, result.Failed)
}

func (s *ValidationServiceTestSuite) TestValidateBatch_UniqueCatchesDuplicateEmployees() {
	rule := errorRule("DUP_EMP", domain.RuleUnique, "employee_wps_id", domain.RuleParams{})
	lineA := domain.WpsLine{
		EmployeeID: "EMP-001",
		EmiratesID: "784199012345678",
		DaysWorked: 30, BasicSalary: decimal.NewFromInt(3000), NetSalary: decimal.NewFromInt(3000),
	}
	lineB := lineA
	lineB.EmployeeID = "EMP-002"

	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(lineA, lineB), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeEmployee: {rule},
	})
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.False(result.CanSubmit)
	// Both lines share the Emirates ID, so both fail.
	s.Equal(2, result.Failed)
}

func (s *ValidationServiceTestSuite) TestValidateBatch_UniqueRuleOverManyLines() {
	rule := errorRule("DUP_EMP", domain.RuleUnique, "employee_wps_id", domain.RuleParams{})
	rule.Scope = domain.ScopeEmployee

	// Enough lines that the per-line checks genuinely overlap in time.
	lines := make([]domain.WpsLine, 200)
	for i := range lines {
		lines[i] = domain.WpsLine{
			EmployeeID:  fmt.Sprintf("EMP-%03d", i),
			EmiratesID:  fmt.Sprintf("7841990000%05d", i),
			DaysWorked:  30,
			BasicSalary: decimal.NewFromInt(3000),
			NetSalary:   decimal.NewFromInt(3000),
		}
	}
	lines[199].EmiratesID = lines[0].EmiratesID

	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(lines...), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeEmployee: {rule},
	})
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.False(result.CanSubmit)
	s.Equal(2, result.Failed)
	failed := map[string]bool{}
	for _, rl := range result.Lines {
		failed[rl.EmployeeID] = true
	}
	s.True(failed["EMP-000"])
	s.True(failed["EMP-199"])
}

func (s *ValidationServiceTestSuite) TestValidateBatch_ReferenceUsesBankRegistry() {
	rule := errorRule("BANK_KNOWN", domain.RuleReference, "bank_code",
		domain.RuleParams{ReferenceSet: "wps_enabled_banks"})
	rule.Scope = domain.ScopeBankAccount

	line := domain.WpsLine{
		EmployeeID: "EMP-001",
		EmiratesID: "784199012345678",
		BankCode:   "999999999",
		DaysWorked: 30, BasicSalary: decimal.NewFromInt(3000), NetSalary: decimal.NewFromInt(3000),
	}
	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(line), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeBankAccount: {rule},
	})
	s.mockBankRepo.On("FindBankByRoutingCode", mock.Anything, "999999999").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.False(result.CanSubmit)
	s.mockBankRepo.AssertExpectations(s.T())
}

func (s *ValidationServiceTestSuite) TestValidateBatch_FileRulesRecordPassesToo() {
	rule := errorRule("EMP_EID_FORMAT", domain.RuleFormat, "employer_eid",
		domain.RuleParams{Pattern: `^\d{15}$`})
	rule.Scope = domain.ScopeFile

	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(), nil)
	s.expectRules(map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeFile: {rule},
	})
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.NoError(err)
	s.Equal(domain.ValidationValid, result.Status)
	s.True(result.CanSubmit)
	// Passing file rules are recorded, unlike passing line rules.
	s.Len(result.Lines, 1)
	s.True(result.Lines[0].Passed)
	s.Empty(result.Lines[0].Message)
}

func (s *ValidationServiceTestSuite) TestValidateBatch_RepeatRunsYieldIdenticalContent() {
	min := 100.0
	rules := map[domain.RuleScope][]domain.ValidationRule{
		domain.ScopeLine: {
			errorRule("NET_RECON", domain.RuleCalculation, "",
				domain.RuleParams{Check: "net_reconciliation"}),
			errorRule("NET_RANGE", domain.RuleRange, "net_salary",
				domain.RuleParams{Min: &min}),
		},
	}

	lineA := domain.WpsLine{
		EmployeeID: "EMP-001", EmiratesID: "784199000000001",
		DaysWorked: 30, BasicSalary: decimal.NewFromInt(3000), NetSalary: decimal.NewFromInt(50),
	}
	lineB := domain.WpsLine{
		EmployeeID: "EMP-002", EmiratesID: "784199000000002",
		DaysWorked: 30, BasicSalary: decimal.NewFromInt(4000), NetSalary: decimal.NewFromInt(20),
	}

	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(lineA, lineB), nil)
	s.expectRules(rules)
	s.mockResultRepo.On("SaveResult", mock.Anything, mock.Anything).Return(nil).Times(2)

	first, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)
	s.NoError(err)
	second, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)
	s.NoError(err)

	s.Equal(first.Status, second.Status)
	s.Equal(first.Failed, second.Failed)
	s.Require().Len(second.Lines, len(first.Lines))
	for i := range first.Lines {
		s.Equal(first.Lines[i].RuleCode, second.Lines[i].RuleCode)
		s.Equal(first.Lines[i].EmployeeID, second.Lines[i].EmployeeID)
		s.Equal(first.Lines[i].Passed, second.Lines[i].Passed)
	}
}

func (s *ValidationServiceTestSuite) TestValidateBatch_BadRulePatternSurfaces() {
	rule := errorRule("BAD_RE", domain.RuleFormat, "iban", domain.RuleParams{Pattern: "("})

	s.mockBatchRepo.On("FindBatchByID", mock.Anything, s.batchID).
		Return(s.batchWithLines(), nil)
	s.mockRuleRepo.On("ListActiveRules", mock.Anything, domain.ScopeFile).
		Return([]domain.ValidationRule(nil), nil)
	s.mockRuleRepo.On("ListActiveRules", mock.Anything, domain.ScopeLine).
		Return([]domain.ValidationRule{rule}, nil)

	_, err := s.service.ValidateBatch(context.Background(), s.batchID, s.actor)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockResultRepo.AssertNotCalled(s.T(), "SaveResult")
}

func TestValidationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationServiceTestSuite))
}
