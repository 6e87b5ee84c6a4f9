package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/core/ports"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
)

// --- Mock BatchRepository ---
type MockBatchRepository struct {
	mock.Mock
}

var _ portsrepo.BatchRepositoryFacade = (*MockBatchRepository)(nil)

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.WpsBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WpsBatch), args.Error(1)
}

func (m *MockBatchRepository) ListBatches(ctx context.Context, limit, offset int) ([]domain.WpsBatch, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WpsBatch), args.Error(1)
}

func (m *MockBatchRepository) FindSIFContent(ctx context.Context, batchID string) ([]byte, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBatchRepository) SaveBatch(ctx context.Context, batch domain.WpsBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) UpdateBatchState(ctx context.Context, batchID string, state domain.BatchState, actor string) error {
	args := m.Called(ctx, batchID, state, actor)
	return args.Error(0)
}

func (m *MockBatchRepository) ReplaceLines(ctx context.Context, batchID string, lines []domain.WpsLine) error {
	args := m.Called(ctx, batchID, lines)
	return args.Error(0)
}

func (m *MockBatchRepository) StoreSIFContent(ctx context.Context, batchID string, filename string, content []byte) error {
	args := m.Called(ctx, batchID, filename, content)
	return args.Error(0)
}

func (m *MockBatchRepository) UpdateLinePaymentStatus(ctx context.Context, lineID string, status domain.PaymentStatus) error {
	args := m.Called(ctx, lineID, status)
	return args.Error(0)
}

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

var _ portsrepo.RuleRepositoryFacade = (*MockRuleRepository)(nil)

func (m *MockRuleRepository) ListActiveRules(ctx context.Context, scope domain.RuleScope) ([]domain.ValidationRule, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context) ([]domain.ValidationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ValidationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, rule domain.ValidationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

// --- Mock ResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

var _ portsrepo.ResultRepositoryFacade = (*MockResultRepository)(nil)

func (m *MockResultRepository) FindResultByID(ctx context.Context, resultID string) (*domain.ValidationResult, error) {
	args := m.Called(ctx, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

func (m *MockResultRepository) FindLatestResultByBatch(ctx context.Context, batchID string) (*domain.ValidationResult, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

func (m *MockResultRepository) ListResultsByBatch(ctx context.Context, batchID string) ([]domain.ValidationResult, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationResult), args.Error(1)
}

func (m *MockResultRepository) SaveResult(ctx context.Context, result domain.ValidationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- Mock BankRepository ---
type MockBankRepository struct {
	mock.Mock
}

var _ portsrepo.BankRepositoryFacade = (*MockBankRepository)(nil)

func (m *MockBankRepository) FindBankByID(ctx context.Context, bankID string) (*domain.Bank, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) FindBankByRoutingCode(ctx context.Context, routingCode string) (*domain.Bank, error) {
	args := m.Called(ctx, routingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) ListBanks(ctx context.Context, wpsOnly bool) ([]domain.Bank, error) {
	args := m.Called(ctx, wpsOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bank), args.Error(1)
}

func (m *MockBankRepository) SaveBank(ctx context.Context, bank domain.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockBankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

// --- Mock ConnectionRepository ---
type MockConnectionRepository struct {
	mock.Mock
}

var _ portsrepo.ConnectionRepositoryFacade = (*MockConnectionRepository)(nil)

func (m *MockConnectionRepository) FindConnectionByID(ctx context.Context, connectionID string) (*domain.BankConnection, error) {
	args := m.Called(ctx, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankConnection), args.Error(1)
}

func (m *MockConnectionRepository) ListConnections(ctx context.Context) ([]domain.BankConnection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankConnection), args.Error(1)
}

func (m *MockConnectionRepository) SaveConnection(ctx context.Context, conn domain.BankConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) UpdateConnection(ctx context.Context, conn domain.BankConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) UpdateConnectionState(ctx context.Context, connectionID string, state domain.ConnectionState, actor string) error {
	args := m.Called(ctx, connectionID, state, actor)
	return args.Error(0)
}

// --- Mock SubmissionRepository ---
type MockSubmissionRepository struct {
	mock.Mock
}

var _ portsrepo.SubmissionRepositoryFacade = (*MockSubmissionRepository)(nil)

func (m *MockSubmissionRepository) FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListSubmissionsByBatch(ctx context.Context, batchID string) ([]domain.Submission, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) HasInFlightSubmission(ctx context.Context, batchID, connectionID string) (bool, error) {
	args := m.Called(ctx, batchID, connectionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) UpdateSubmission(ctx context.Context, sub domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// --- Mock ComplianceRepository ---
type MockComplianceRepository struct {
	mock.Mock
}

var _ portsrepo.ComplianceRepositoryFacade = (*MockComplianceRepository)(nil)

func (m *MockComplianceRepository) SaveComplianceRecord(ctx context.Context, record domain.ComplianceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockComplianceRepository) ListComplianceRecords(ctx context.Context, year int) ([]domain.ComplianceRecord, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceRecord), args.Error(1)
}

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsByBatch(ctx context.Context, batchID string) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// --- Mock payroll and bank account sources ---
type MockPayrollSource struct {
	mock.Mock
}

var _ portsrepo.PayrollSource = (*MockPayrollSource)(nil)

func (m *MockPayrollSource) ListEligiblePayroll(ctx context.Context, scope domain.EmployerScope, period domain.Period) ([]domain.PayrollFigures, error) {
	args := m.Called(ctx, scope, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollFigures), args.Error(1)
}

type MockBankAccountSource struct {
	mock.Mock
}

var _ portsrepo.BankAccountSource = (*MockBankAccountSource)(nil)

func (m *MockBankAccountSource) FindBankAccount(ctx context.Context, employeeID string) (*domain.EmployeeBankAccount, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeBankAccount), args.Error(1)
}

// --- Mock connector and factory ---
type MockConnector struct {
	mock.Mock
}

var _ ports.Connector = (*MockConnector)(nil)

func (m *MockConnector) Transmit(ctx context.Context, payload ports.SubmissionPayload) (ports.TransmitResult, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(ports.TransmitResult), args.Error(1)
}

func (m *MockConnector) CheckStatus(ctx context.Context, bankReference string) (ports.StatusResult, error) {
	args := m.Called(ctx, bankReference)
	return args.Get(0).(ports.StatusResult), args.Error(1)
}

func (m *MockConnector) Test(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockConnectorFactory struct {
	mock.Mock
}

var _ ports.ConnectorFactory = (*MockConnectorFactory)(nil)

func (m *MockConnectorFactory) For(conn domain.BankConnection) (ports.Connector, error) {
	args := m.Called(conn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Connector), args.Error(1)
}

// --- Mock batch lifecycle ---
type MockBatchLifecycle struct {
	mock.Mock
}

var _ portssvc.BatchLifecycleSvc = (*MockBatchLifecycle)(nil)

func (m *MockBatchLifecycle) MarkBatchSubmitted(ctx context.Context, batchID string, actor string) error {
	args := m.Called(ctx, batchID, actor)
	return args.Error(0)
}

func (m *MockBatchLifecycle) MarkBatchProcessed(ctx context.Context, batchID string, actor string) error {
	args := m.Called(ctx, batchID, actor)
	return args.Error(0)
}

func (m *MockBatchLifecycle) MarkBatchRejected(ctx context.Context, batchID string, actor string) error {
	args := m.Called(ctx, batchID, actor)
	return args.Error(0)
}
