package repositories

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// RuleReader is the single way rules enter the validation engine, so rules
// can be edited without code changes.
type RuleReader interface {
	// ListActiveRules retrieves the active rules for a scope, in sequence order.
	ListActiveRules(ctx context.Context, scope domain.RuleScope) ([]domain.ValidationRule, error)

	// FindRuleByID retrieves one rule.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error)

	// ListRules retrieves all rules regardless of state.
	ListRules(ctx context.Context) ([]domain.ValidationRule, error)
}

// RuleWriter defines write operations for validation rules. Edits take effect
// on the next evaluation run, never mid-evaluation.
type RuleWriter interface {
	SaveRule(ctx context.Context, rule domain.ValidationRule) error
	UpdateRule(ctx context.Context, rule domain.ValidationRule) error
}

// RuleRepositoryFacade combines rule repository interfaces.
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}

// ResultWriter persists validation results. History is retained for audit.
type ResultWriter interface {
	SaveResult(ctx context.Context, result domain.ValidationResult) error
}

// ResultReader defines read operations for validation results.
type ResultReader interface {
	FindResultByID(ctx context.Context, resultID string) (*domain.ValidationResult, error)

	// FindLatestResultByBatch returns the most recent result for a batch, or
	// apperrors.ErrNotFound when the batch was never validated.
	FindLatestResultByBatch(ctx context.Context, batchID string) (*domain.ValidationResult, error)

	ListResultsByBatch(ctx context.Context, batchID string) ([]domain.ValidationResult, error)
}

// ResultRepositoryFacade combines validation result repository interfaces.
type ResultRepositoryFacade interface {
	ResultReader
	ResultWriter
}
