package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
)

// PgxPayrollSource reads resolved payroll figures from the payroll_entries
// table, which an upstream payroll run populates per employee and period.
type PgxPayrollSource struct {
	BaseRepository
}

// newPgxPayrollSource creates the payroll figures source.
func newPgxPayrollSource(pool *pgxpool.Pool) portsrepo.PayrollSource {
	return &PgxPayrollSource{BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollSource = (*PgxPayrollSource)(nil)

func (r *PgxPayrollSource) ListEligiblePayroll(ctx context.Context, scope domain.EmployerScope, period domain.Period) ([]domain.PayrollFigures, error) {
	query := `
		SELECT employee_id, employee_name,
			COALESCE(emirates_id, ''), COALESCE(labour_card_no, ''), days_worked,
			basic_salary, housing_allowance, transport_allowance, other_allowance,
			overtime, leave_salary, deductions
		FROM payroll_entries
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3 AND contract_active
			AND (cardinality($4::text[]) = 0 OR employee_id = ANY($4))
		ORDER BY employee_id;
	`
	ids := scope.EmployeeIDs
	if ids == nil {
		ids = []string{}
	}
	rows, err := r.Pool.Query(ctx, query, scope.CompanyID, period.Month, period.Year, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll entries for company %s: %w", scope.CompanyID, err)
	}
	defer rows.Close()

	var figures []domain.PayrollFigures
	for rows.Next() {
		var f domain.PayrollFigures
		if err := rows.Scan(
			&f.EmployeeID, &f.EmployeeName,
			&f.EmiratesID, &f.LabourCardNo, &f.DaysWorked,
			&f.Basic, &f.Housing, &f.Transport, &f.Other,
			&f.Overtime, &f.Leave, &f.Deductions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		figures = append(figures, f)
	}
	return figures, rows.Err()
}

// PgxBankAccountSource resolves employee banking identifiers from the
// employee_bank_accounts table, preferring the account flagged primary.
type PgxBankAccountSource struct {
	BaseRepository
}

// newPgxBankAccountSource creates the employee bank account source.
func newPgxBankAccountSource(pool *pgxpool.Pool) portsrepo.BankAccountSource {
	return &PgxBankAccountSource{BaseRepository{Pool: pool}}
}

var _ portsrepo.BankAccountSource = (*PgxBankAccountSource)(nil)

func (r *PgxBankAccountSource) FindBankAccount(ctx context.Context, employeeID string) (*domain.EmployeeBankAccount, error) {
	query := `
		SELECT employee_id, bank_code, COALESCE(account_number, ''), COALESCE(iban, '')
		FROM employee_bank_accounts
		WHERE employee_id = $1 AND active
		ORDER BY is_primary DESC, created_at DESC
		LIMIT 1;
	`
	var account domain.EmployeeBankAccount
	err := r.Pool.QueryRow(ctx, query, employeeID).Scan(
		&account.EmployeeID, &account.BankCode, &account.AccountNumber, &account.IBAN,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active bank account for employee %s", apperrors.ErrNotFound, employeeID)
		}
		return nil, fmt.Errorf("failed to find bank account for employee %s: %w", employeeID, err)
	}
	return &account, nil
}
