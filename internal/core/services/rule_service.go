package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/dto"
)

type ruleService struct {
	ruleRepo portsrepo.RuleRepositoryFacade
	now      func() time.Time
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade) portssvc.RuleSvcFacade {
	return &ruleService{ruleRepo: ruleRepo, now: time.Now}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

func (s *ruleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, actor string) (*domain.ValidationRule, error) {
	rule := domain.ValidationRule{
		RuleID:   uuid.NewString(),
		Code:     req.Code,
		Name:     req.Name,
		Sequence: req.Sequence,
		Type:     domain.RuleType(req.Type),
		Scope:    domain.RuleScope(req.Scope),
		Field:    req.Field,
		Params:   req.Params,
		Severity: domain.Severity(req.Severity),
		Message:  req.Message,
		HelpText: req.HelpText,
		Active:   true,
	}
	if err := validateRuleConfig(rule); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rule.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}
	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest, actor string) (*domain.ValidationRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Sequence != nil {
		rule.Sequence = *req.Sequence
	}
	if req.Params != nil {
		rule.Params = *req.Params
	}
	if req.Severity != nil {
		rule.Severity = domain.Severity(*req.Severity)
	}
	if req.Message != nil {
		rule.Message = *req.Message
	}
	if req.HelpText != nil {
		rule.HelpText = *req.HelpText
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := validateRuleConfig(*rule); err != nil {
		return nil, err
	}

	rule.LastUpdatedAt = s.now().UTC()
	rule.LastUpdatedBy = actor
	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) GetRule(ctx context.Context, ruleID string) (*domain.ValidationRule, error) {
	return s.ruleRepo.FindRuleByID(ctx, ruleID)
}

func (s *ruleService) ListRules(ctx context.Context) ([]domain.ValidationRule, error) {
	return s.ruleRepo.ListRules(ctx)
}

// validateRuleConfig rejects configurations the engine could not evaluate,
// so a bad rule fails loudly at save time instead of silently at run time.
func validateRuleConfig(rule domain.ValidationRule) error {
	switch rule.Type {
	case domain.RuleFormat:
		if rule.Field == "" {
			return fmt.Errorf("%w: FORMAT rule %s needs a target field", apperrors.ErrValidation, rule.Code)
		}
		if rule.Params.Pattern == "" && len(rule.Params.AllowedValues) == 0 {
			return fmt.Errorf("%w: FORMAT rule %s needs a pattern or allowed values", apperrors.ErrValidation, rule.Code)
		}
		if rule.Params.Pattern != "" {
			if _, err := regexp.Compile(rule.Params.Pattern); err != nil {
				return fmt.Errorf("%w: rule %s pattern: %v", apperrors.ErrValidation, rule.Code, err)
			}
		}
	case domain.RuleRange:
		if rule.Field == "" {
			return fmt.Errorf("%w: RANGE rule %s needs a target field", apperrors.ErrValidation, rule.Code)
		}
		if rule.Params.Min == nil && rule.Params.Max == nil {
			return fmt.Errorf("%w: RANGE rule %s needs a min or max bound", apperrors.ErrValidation, rule.Code)
		}
	case domain.RuleRequired, domain.RuleUnique:
		if rule.Field == "" {
			return fmt.Errorf("%w: %s rule %s needs a target field", apperrors.ErrValidation, rule.Type, rule.Code)
		}
	case domain.RuleReference:
		if rule.Field == "" || rule.Params.ReferenceSet == "" {
			return fmt.Errorf("%w: REFERENCE rule %s needs a field and a reference set", apperrors.ErrValidation, rule.Code)
		}
	case domain.RuleCalculation, domain.RuleBusiness, domain.RuleCompliance:
		if rule.Params.Check == "" {
			return fmt.Errorf("%w: %s rule %s needs a check key", apperrors.ErrValidation, rule.Type, rule.Code)
		}
	default:
		return fmt.Errorf("%w: unknown rule type %q", apperrors.ErrValidation, rule.Type)
	}
	return nil
}
