package repositories

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// PayrollSource supplies resolved payroll figures for eligible employees
// (active contract, within the employer scope). Payroll calculation itself is
// an external collaborator; this port only reads its output.
type PayrollSource interface {
	ListEligiblePayroll(ctx context.Context, scope domain.EmployerScope, period domain.Period) ([]domain.PayrollFigures, error)
}

// BankAccountSource resolves an employee's WPS banking identifiers.
// Returns apperrors.ErrNotFound when the employee has no usable account; the
// assembler then emits a line with empty bank fields rather than skipping.
type BankAccountSource interface {
	FindBankAccount(ctx context.Context, employeeID string) (*domain.EmployeeBankAccount, error)
}
