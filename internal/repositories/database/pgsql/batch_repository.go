package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
	"github.com/mtc-jordan/tazweed-wps/internal/utils/mapping"
)

type PgxBatchRepository struct {
	BaseRepository
}

// newPgxBatchRepository creates a new repository for WPS batch data.
func newPgxBatchRepository(pool *pgxpool.Pool) portsrepo.BatchRepositoryFacade {
	return &PgxBatchRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BatchRepositoryFacade = (*PgxBatchRepository)(nil)

const batchColumns = `batch_id, reference, employer_id, employer_routing, employer_account,
	period_month, period_year, salary_date, file_type, state,
	COALESCE(sif_filename, ''), COALESCE(notes, ''),
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, batch_id, employee_id,
	COALESCE(emirates_id, ''), COALESCE(labour_card_no, ''),
	COALESCE(bank_code, ''), COALESCE(account_number, ''), COALESCE(iban, ''),
	days_worked, payment_status,
	basic_salary, housing_allowance, transport_allowance, other_allowance,
	overtime, leave_salary, deductions, net_salary`

func scanBatch(row pgx.Row) (*models.WpsBatch, error) {
	var m models.WpsBatch
	err := row.Scan(
		&m.BatchID, &m.Reference, &m.EmployerID, &m.EmployerRouting, &m.EmployerAccount,
		&m.PeriodMonth, &m.PeriodYear, &m.SalaryDate, &m.FileType, &m.State,
		&m.SIFFilename, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanLine(rows pgx.Rows) (*models.WpsLine, error) {
	var m models.WpsLine
	err := rows.Scan(
		&m.LineID, &m.BatchID, &m.EmployeeID,
		&m.EmiratesID, &m.LabourCardNo,
		&m.BankCode, &m.AccountNumber, &m.IBAN,
		&m.DaysWorked, &m.PaymentStatus,
		&m.BasicSalary, &m.HousingAllowance, &m.TransportAllowance, &m.OtherAllowance,
		&m.Overtime, &m.LeaveSalary, &m.Deductions, &m.NetSalary,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxBatchRepository) findLines(ctx context.Context, batchID string) ([]domain.WpsLine, error) {
	query := `SELECT ` + lineColumns + ` FROM wps_lines WHERE batch_id = $1 ORDER BY employee_id`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var lines []domain.WpsLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line for batch %s: %w", batchID, err)
		}
		lines = append(lines, mapping.ToDomainLine(*m))
	}
	return lines, rows.Err()
}

func (r *PgxBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.WpsBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM wps_batches WHERE batch_id = $1`
	m, err := scanBatch(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}

	batch := mapping.ToDomainBatch(*m)
	lines, err := r.findLines(ctx, batchID)
	if err != nil {
		return nil, err
	}
	batch.Lines = lines
	return &batch, nil
}

func (r *PgxBatchRepository) ListBatches(ctx context.Context, limit, offset int) ([]domain.WpsBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM wps_batches ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.WpsBatch
	for rows.Next() {
		m, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, mapping.ToDomainBatch(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Listings need totals, which are derived from lines.
	for i := range batches {
		lines, err := r.findLines(ctx, batches[i].BatchID)
		if err != nil {
			return nil, err
		}
		batches[i].Lines = lines
	}
	return batches, nil
}

func (r *PgxBatchRepository) FindSIFContent(ctx context.Context, batchID string) ([]byte, error) {
	var content []byte
	err := r.Pool.QueryRow(ctx, `SELECT sif_content FROM wps_batches WHERE batch_id = $1`, batchID).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("failed to read SIF content for batch %s: %w", batchID, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: no SIF content stored for batch %s", apperrors.ErrNotFound, batchID)
	}
	return content, nil
}

func (r *PgxBatchRepository) SaveBatch(ctx context.Context, batch domain.WpsBatch) error {
	m := mapping.ToModelBatch(batch)
	query := `
		INSERT INTO wps_batches (batch_id, reference, employer_id, employer_routing, employer_account,
			period_month, period_year, salary_date, file_type, state, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BatchID, m.Reference, m.EmployerID, m.EmployerRouting, m.EmployerAccount,
		m.PeriodMonth, m.PeriodYear, m.SalaryDate, m.FileType, m.State, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: batch %s already exists", apperrors.ErrDuplicate, m.BatchID)
		}
		return fmt.Errorf("failed to save batch %s: %w", m.BatchID, err)
	}
	return nil
}

func (r *PgxBatchRepository) UpdateBatchState(ctx context.Context, batchID string, state domain.BatchState, actor string) error {
	query := `UPDATE wps_batches SET state = $1, last_updated_at = $2, last_updated_by = $3 WHERE batch_id = $4`
	tag, err := r.Pool.Exec(ctx, query, string(state), time.Now().UTC(), actor, batchID)
	if err != nil {
		return fmt.Errorf("failed to update state of batch %s: %w", batchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
	}
	return nil
}

// ReplaceLines swaps the full line set inside one transaction so a reader
// never observes a half-assembled batch.
func (r *PgxBatchRepository) ReplaceLines(ctx context.Context, batchID string, lines []domain.WpsLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM wps_lines WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("failed to clear lines of batch %s: %w", batchID, err)
	}

	query := `
		INSERT INTO wps_lines (line_id, batch_id, employee_id, emirates_id, labour_card_no,
			bank_code, account_number, iban, days_worked, payment_status,
			basic_salary, housing_allowance, transport_allowance, other_allowance,
			overtime, leave_salary, deductions, net_salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		if _, err := tx.Exec(ctx, query,
			m.LineID, m.BatchID, m.EmployeeID, m.EmiratesID, m.LabourCardNo,
			m.BankCode, m.AccountNumber, m.IBAN, m.DaysWorked, m.PaymentStatus,
			m.BasicSalary, m.HousingAllowance, m.TransportAllowance, m.OtherAllowance,
			m.Overtime, m.LeaveSalary, m.Deductions, m.NetSalary,
		); err != nil {
			return fmt.Errorf("failed to insert line %s: %w", m.LineID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxBatchRepository) StoreSIFContent(ctx context.Context, batchID string, filename string, content []byte) error {
	query := `UPDATE wps_batches SET sif_filename = NULLIF($1, ''), sif_content = $2, last_updated_at = $3 WHERE batch_id = $4`
	tag, err := r.Pool.Exec(ctx, query, filename, content, time.Now().UTC(), batchID)
	if err != nil {
		return fmt.Errorf("failed to store SIF content for batch %s: %w", batchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
	}
	return nil
}

func (r *PgxBatchRepository) UpdateLinePaymentStatus(ctx context.Context, lineID string, status domain.PaymentStatus) error {
	query := `UPDATE wps_lines SET payment_status = $1 WHERE line_id = $2`
	tag, err := r.Pool.Exec(ctx, query, string(status), lineID)
	if err != nil {
		return fmt.Errorf("failed to update payment status of line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: line %s", apperrors.ErrNotFound, lineID)
	}
	return nil
}
