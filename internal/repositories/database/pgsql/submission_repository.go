package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
	"github.com/mtc-jordan/tazweed-wps/internal/utils/mapping"
)

type PgxSubmissionRepository struct {
	BaseRepository
}

// newPgxSubmissionRepository creates a new repository for submission records.
func newPgxSubmissionRepository(pool *pgxpool.Pool) portsrepo.SubmissionRepositoryFacade {
	return &PgxSubmissionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SubmissionRepositoryFacade = (*PgxSubmissionRepository)(nil)

const submissionColumns = `submission_id, reference, batch_id, connection_id, submission_type, state,
	file_name, file_hash, file_size,
	COALESCE(bank_reference, ''), COALESCE(bank_response_code, ''), COALESCE(bank_response_message, ''),
	retry_count, max_retries, COALESCE(last_error, ''),
	submitted_at, processing_start, processing_end,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var m models.Submission
	err := row.Scan(
		&m.SubmissionID, &m.Reference, &m.BatchID, &m.ConnectionID, &m.Type, &m.State,
		&m.FileName, &m.FileHash, &m.FileSize,
		&m.BankReference, &m.BankResponseCode, &m.BankResponseMessage,
		&m.RetryCount, &m.MaxRetries, &m.LastError,
		&m.SubmittedAt, &m.ProcessingStart, &m.ProcessingEnd,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxSubmissionRepository) FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE submission_id = $1`
	m, err := scanSubmission(r.Pool.QueryRow(ctx, query, submissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: submission %s", apperrors.ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("failed to find submission %s: %w", submissionID, err)
	}
	sub := mapping.ToDomainSubmission(*m)
	return &sub, nil
}

func (r *PgxSubmissionRepository) ListSubmissionsByBatch(ctx context.Context, batchID string) ([]domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE batch_id = $1 ORDER BY created_at DESC`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		m, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, mapping.ToDomainSubmission(*m))
	}
	return subs, rows.Err()
}

func (r *PgxSubmissionRepository) HasInFlightSubmission(ctx context.Context, batchID, connectionID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM submissions
			WHERE batch_id = $1 AND connection_id = $2
				AND state NOT IN ('SUCCESS', 'FAILED', 'CANCELLED')
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, batchID, connectionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check in-flight submissions for batch %s: %w", batchID, err)
	}
	return exists, nil
}

func (r *PgxSubmissionRepository) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	m := mapping.ToModelSubmission(sub)
	query := `
		INSERT INTO submissions (submission_id, reference, batch_id, connection_id, submission_type, state,
			file_name, file_hash, file_size, retry_count, max_retries,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SubmissionID, m.Reference, m.BatchID, m.ConnectionID, m.Type, m.State,
		m.FileName, m.FileHash, m.FileSize, m.RetryCount, m.MaxRetries,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: submission %s already exists", apperrors.ErrDuplicate, m.SubmissionID)
		}
		return fmt.Errorf("failed to save submission %s: %w", m.SubmissionID, err)
	}
	return nil
}

func (r *PgxSubmissionRepository) UpdateSubmission(ctx context.Context, sub domain.Submission) error {
	m := mapping.ToModelSubmission(sub)
	query := `
		UPDATE submissions
		SET state = $1,
			bank_reference = NULLIF($2, ''), bank_response_code = NULLIF($3, ''),
			bank_response_message = NULLIF($4, ''),
			retry_count = $5, last_error = NULLIF($6, ''),
			submitted_at = $7, processing_start = $8, processing_end = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE submission_id = $12;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.State,
		m.BankReference, m.BankResponseCode, m.BankResponseMessage,
		m.RetryCount, m.LastError,
		m.SubmittedAt, m.ProcessingStart, m.ProcessingEnd,
		m.LastUpdatedAt, m.LastUpdatedBy, m.SubmissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission %s: %w", m.SubmissionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: submission %s", apperrors.ErrNotFound, m.SubmissionID)
	}
	return nil
}

type PgxComplianceRepository struct {
	BaseRepository
}

// newPgxComplianceRepository creates a new repository for compliance records.
func newPgxComplianceRepository(pool *pgxpool.Pool) portsrepo.ComplianceRepositoryFacade {
	return &PgxComplianceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ComplianceRepositoryFacade = (*PgxComplianceRepository)(nil)

func (r *PgxComplianceRepository) SaveComplianceRecord(ctx context.Context, record domain.ComplianceRecord) error {
	m := mapping.ToModelComplianceRecord(record)
	query := `
		INSERT INTO compliance_records (record_id, period_month, period_year, batch_id,
			total_employees, employees_paid, employees_not_paid, total_salary_due, total_salary_paid,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (period_month, period_year, batch_id) DO UPDATE
		SET total_employees = EXCLUDED.total_employees,
			employees_paid = EXCLUDED.employees_paid,
			employees_not_paid = EXCLUDED.employees_not_paid,
			total_salary_due = EXCLUDED.total_salary_due,
			total_salary_paid = EXCLUDED.total_salary_paid,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RecordID, m.PeriodMonth, m.PeriodYear, m.BatchID,
		m.TotalEmployees, m.EmployeesPaid, m.EmployeesNotPaid, m.TotalSalaryDue, m.TotalSalaryPaid,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save compliance record for batch %s: %w", m.BatchID, err)
	}
	return nil
}

func (r *PgxComplianceRepository) ListComplianceRecords(ctx context.Context, year int) ([]domain.ComplianceRecord, error) {
	query := `
		SELECT record_id, period_month, period_year, batch_id,
			total_employees, employees_paid, employees_not_paid, total_salary_due, total_salary_paid,
			created_at, created_by, last_updated_at, last_updated_by
		FROM compliance_records WHERE period_year = $1 ORDER BY period_month;
	`
	rows, err := r.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance records for %d: %w", year, err)
	}
	defer rows.Close()

	var records []domain.ComplianceRecord
	for rows.Next() {
		var m models.ComplianceRecord
		if err := rows.Scan(
			&m.RecordID, &m.PeriodMonth, &m.PeriodYear, &m.BatchID,
			&m.TotalEmployees, &m.EmployeesPaid, &m.EmployeesNotPaid, &m.TotalSalaryDue, &m.TotalSalaryPaid,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan compliance record: %w", err)
		}
		records = append(records, mapping.ToDomainComplianceRecord(m))
	}
	return records, rows.Err()
}

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation runs.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, batch_id, run_at, state,
	total_employees, matched, unmatched, total_wps, total_bank, difference,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (*models.Reconciliation, error) {
	var m models.Reconciliation
	err := row.Scan(
		&m.ReconciliationID, &m.BatchID, &m.RunAt, &m.State,
		&m.TotalEmployees, &m.Matched, &m.Unmatched, &m.TotalWps, &m.TotalBank, &m.Difference,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxReconciliationRepository) findReconciliationLines(ctx context.Context, reconciliationID string) ([]domain.ReconciliationLine, error) {
	query := `
		SELECT reconciliation_id, line_id, employee_id, wps_amount, bank_amount, state
		FROM reconciliation_lines WHERE reconciliation_id = $1 ORDER BY employee_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation lines for %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	var lines []domain.ReconciliationLine
	for rows.Next() {
		var m models.ReconciliationLine
		if err := rows.Scan(&m.ReconciliationID, &m.LineID, &m.EmployeeID, &m.WpsAmount, &m.BankAmount, &m.State); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation line: %w", err)
		}
		lines = append(lines, mapping.ToDomainReconciliationLine(m))
	}
	return lines, rows.Err()
}

func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1`
	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reconciliation %s", apperrors.ErrNotFound, reconciliationID)
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	recon := mapping.ToDomainReconciliation(*m)
	lines, err := r.findReconciliationLines(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	recon.Lines = lines
	return &recon, nil
}

func (r *PgxReconciliationRepository) ListReconciliationsByBatch(ctx context.Context, batchID string) ([]domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE batch_id = $1 ORDER BY run_at DESC`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var recons []domain.Reconciliation
	for rows.Next() {
		m, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation: %w", err)
		}
		recons = append(recons, mapping.ToDomainReconciliation(*m))
	}
	return recons, rows.Err()
}

func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliation(rec)
	headerQuery := `
		INSERT INTO reconciliations (reconciliation_id, batch_id, run_at, state,
			total_employees, matched, unmatched, total_wps, total_bank, difference,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	if _, err := tx.Exec(ctx, headerQuery,
		m.ReconciliationID, m.BatchID, m.RunAt, m.State,
		m.TotalEmployees, m.Matched, m.Unmatched, m.TotalWps, m.TotalBank, m.Difference,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}

	lineQuery := `
		INSERT INTO reconciliation_lines (reconciliation_id, line_id, employee_id, wps_amount, bank_amount, state)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range rec.Lines {
		lm := mapping.ToModelReconciliationLine(rec.ReconciliationID, line)
		if _, err := tx.Exec(ctx, lineQuery,
			lm.ReconciliationID, lm.LineID, lm.EmployeeID, lm.WpsAmount, lm.BankAmount, lm.State,
		); err != nil {
			return fmt.Errorf("failed to save reconciliation line for %s: %w", lm.EmployeeID, err)
		}
	}

	return r.Commit(ctx, tx)
}
