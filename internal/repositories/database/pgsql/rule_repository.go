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

type PgxRuleRepository struct {
	BaseRepository
}

// newPgxRuleRepository creates a new repository for validation rule data.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

const ruleColumns = `rule_id, code, name, sequence, rule_type, scope,
	COALESCE(field_name, ''), params, severity, message, COALESCE(help_text, ''), active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row pgx.Row) (*models.ValidationRule, error) {
	var m models.ValidationRule
	err := row.Scan(
		&m.RuleID, &m.Code, &m.Name, &m.Sequence, &m.Type, &m.Scope,
		&m.Field, &m.Params, &m.Severity, &m.Message, &m.HelpText, &m.Active,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxRuleRepository) ListActiveRules(ctx context.Context, scope domain.RuleScope) ([]domain.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE active AND scope = $1 ORDER BY sequence, code`
	rows, err := r.Pool.Query(ctx, query, string(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules for scope %s: %w", scope, err)
	}
	defer rows.Close()

	var rules []domain.ValidationRule
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule, err := mapping.ToDomainRule(*m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE rule_id = $1`
	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rule %s", apperrors.ErrNotFound, ruleID)
		}
		return nil, fmt.Errorf("failed to find rule %s: %w", ruleID, err)
	}
	rule, err := mapping.ToDomainRule(*m)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *PgxRuleRepository) ListRules(ctx context.Context) ([]domain.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules ORDER BY scope, sequence, code`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ValidationRule
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule, err := mapping.ToDomainRule(*m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ValidationRule) error {
	m, err := mapping.ToModelRule(rule)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO validation_rules (rule_id, code, name, sequence, rule_type, scope,
			field_name, params, severity, message, help_text, active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15, $16);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RuleID, m.Code, m.Name, m.Sequence, m.Type, m.Scope,
		m.Field, m.Params, m.Severity, m.Message, m.HelpText, m.Active,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rule code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save rule %s: %w", m.Code, err)
	}
	return nil
}

func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.ValidationRule) error {
	m, err := mapping.ToModelRule(rule)
	if err != nil {
		return err
	}
	query := `
		UPDATE validation_rules
		SET name = $1, sequence = $2, params = $3, severity = $4, message = $5,
			help_text = NULLIF($6, ''), active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE rule_id = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Sequence, m.Params, m.Severity, m.Message,
		m.HelpText, m.Active, m.LastUpdatedAt, m.LastUpdatedBy, m.RuleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule %s: %w", m.RuleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: rule %s", apperrors.ErrNotFound, m.RuleID)
	}
	return nil
}

// PgxResultRepository persists validation results. Runs are append-only; a
// result row is never updated after its lines are written.
type PgxResultRepository struct {
	BaseRepository
}

// newPgxResultRepository creates a new repository for validation result data.
func newPgxResultRepository(pool *pgxpool.Pool) portsrepo.ResultRepositoryFacade {
	return &PgxResultRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ResultRepositoryFacade = (*PgxResultRepository)(nil)

const resultColumns = `result_id, batch_id, validated_at, validated_by,
	total_rules, passed, failed, warnings, status, can_submit`

func scanResult(row pgx.Row) (*models.ValidationResult, error) {
	var m models.ValidationResult
	err := row.Scan(
		&m.ResultID, &m.BatchID, &m.ValidatedAt, &m.ValidatedBy,
		&m.TotalRules, &m.Passed, &m.Failed, &m.Warnings, &m.Status, &m.CanSubmit,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxResultRepository) findResultLines(ctx context.Context, resultID string) ([]domain.ValidationResultLine, error) {
	query := `
		SELECT result_id, rule_id, rule_code, rule_name, COALESCE(field_name, ''),
			passed, severity, COALESCE(message, ''), COALESCE(help_text, ''),
			COALESCE(line_id, ''), COALESCE(employee_id, ''), COALESCE(employee_name, '')
		FROM validation_result_lines WHERE result_id = $1 ORDER BY rule_code, employee_id;
	`
	rows, err := r.Pool.Query(ctx, query, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to query result lines for %s: %w", resultID, err)
	}
	defer rows.Close()

	var lines []domain.ValidationResultLine
	for rows.Next() {
		var m models.ValidationResultLine
		if err := rows.Scan(
			&m.ResultID, &m.RuleID, &m.RuleCode, &m.RuleName, &m.Field,
			&m.Passed, &m.Severity, &m.Message, &m.HelpText,
			&m.LineID, &m.EmployeeID, &m.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result line: %w", err)
		}
		lines = append(lines, mapping.ToDomainResultLine(m))
	}
	return lines, rows.Err()
}

func (r *PgxResultRepository) FindResultByID(ctx context.Context, resultID string) (*domain.ValidationResult, error) {
	query := `SELECT ` + resultColumns + ` FROM validation_results WHERE result_id = $1`
	m, err := scanResult(r.Pool.QueryRow(ctx, query, resultID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: validation result %s", apperrors.ErrNotFound, resultID)
		}
		return nil, fmt.Errorf("failed to find validation result %s: %w", resultID, err)
	}

	result := mapping.ToDomainResult(*m)
	lines, err := r.findResultLines(ctx, resultID)
	if err != nil {
		return nil, err
	}
	result.Lines = lines
	return &result, nil
}

func (r *PgxResultRepository) FindLatestResultByBatch(ctx context.Context, batchID string) (*domain.ValidationResult, error) {
	query := `SELECT ` + resultColumns + ` FROM validation_results WHERE batch_id = $1 ORDER BY validated_at DESC LIMIT 1`
	m, err := scanResult(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no validation result for batch %s", apperrors.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("failed to find latest result for batch %s: %w", batchID, err)
	}
	result := mapping.ToDomainResult(*m)
	return &result, nil
}

func (r *PgxResultRepository) ListResultsByBatch(ctx context.Context, batchID string) ([]domain.ValidationResult, error) {
	query := `SELECT ` + resultColumns + ` FROM validation_results WHERE batch_id = $1 ORDER BY validated_at DESC`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var results []domain.ValidationResult
	for rows.Next() {
		m, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, mapping.ToDomainResult(*m))
	}
	return results, rows.Err()
}

func (r *PgxResultRepository) SaveResult(ctx context.Context, result domain.ValidationResult) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelResult(result)
	headerQuery := `
		INSERT INTO validation_results (result_id, batch_id, validated_at, validated_by,
			total_rules, passed, failed, warnings, status, can_submit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, headerQuery,
		m.ResultID, m.BatchID, m.ValidatedAt, m.ValidatedBy,
		m.TotalRules, m.Passed, m.Failed, m.Warnings, m.Status, m.CanSubmit,
	); err != nil {
		return fmt.Errorf("failed to save validation result %s: %w", m.ResultID, err)
	}

	lineQuery := `
		INSERT INTO validation_result_lines (result_id, rule_id, rule_code, rule_name, field_name,
			passed, severity, message, help_text, line_id, employee_id, employee_name)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''));
	`
	for _, line := range result.Lines {
		lm := mapping.ToModelResultLine(result.ResultID, line)
		if _, err := tx.Exec(ctx, lineQuery,
			lm.ResultID, lm.RuleID, lm.RuleCode, lm.RuleName, lm.Field,
			lm.Passed, lm.Severity, lm.Message, lm.HelpText,
			lm.LineID, lm.EmployeeID, lm.EmployeeName,
		); err != nil {
			return fmt.Errorf("failed to save result line for rule %s: %w", lm.RuleCode, err)
		}
	}

	return r.Commit(ctx, tx)
}
