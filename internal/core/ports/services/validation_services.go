package services

import (
	"context"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
)

// ValidationSvcFacade runs the rule engine over batches and serves result history.
type ValidationSvcFacade interface {
	// ValidateBatch evaluates all active rules against the batch and persists
	// the result. Running it twice on an unchanged batch yields identical content.
	ValidateBatch(ctx context.Context, batchID string, actor string) (*domain.ValidationResult, error)

	// GetResult retrieves one validation result with its lines.
	GetResult(ctx context.Context, resultID string) (*domain.ValidationResult, error)

	// ListResults retrieves a batch's validation history, newest first.
	ListResults(ctx context.Context, batchID string) ([]domain.ValidationResult, error)
}

// RuleSvcFacade manages the declarative rule set.
type RuleSvcFacade interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest, actor string) (*domain.ValidationRule, error)
	UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest, actor string) (*domain.ValidationRule, error)
	GetRule(ctx context.Context, ruleID string) (*domain.ValidationRule, error)
	ListRules(ctx context.Context) ([]domain.ValidationRule, error)
}
