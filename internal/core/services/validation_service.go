package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	portssvc "github.com/mtc-jordan/tazweed-wps/internal/core/ports/services"
	"github.com/mtc-jordan/tazweed-wps/internal/middleware"
	"github.com/mtc-jordan/tazweed-wps/internal/platform/metrics"
)

// validationService runs the declarative rule engine over batches.
type validationService struct {
	batchRepo  portsrepo.BatchRepositoryFacade
	ruleRepo   portsrepo.RuleRepositoryFacade
	resultRepo portsrepo.ResultRepositoryFacade
	resolver   ReferenceResolver
	metrics    *metrics.Registry
	now        func() time.Time
}

// NewValidationService creates a new ValidationService.
func NewValidationService(
	batchRepo portsrepo.BatchRepositoryFacade,
	ruleRepo portsrepo.RuleRepositoryFacade,
	resultRepo portsrepo.ResultRepositoryFacade,
	resolver ReferenceResolver,
	reg *metrics.Registry,
) portssvc.ValidationSvcFacade {
	return &validationService{
		batchRepo:  batchRepo,
		ruleRepo:   ruleRepo,
		resultRepo: resultRepo,
		resolver:   resolver,
		metrics:    reg,
		now:        time.Now,
	}
}

var _ portssvc.ValidationSvcFacade = (*validationService)(nil)

// compiledRule pairs a rule with its lowered checker.
type compiledRule struct {
	rule    domain.ValidationRule
	checker checker
}

// ValidateBatch evaluates all active rules against the batch, persists the
// result and returns it. File-scoped rules record every outcome; line-scoped
// rules record failures only, which keeps result size proportional to problems.
func (s *validationService) ValidateBatch(ctx context.Context, batchID string, actor string) (*domain.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	fileRules, err := s.compiledRules(ctx, domain.ScopeFile)
	if err != nil {
		return nil, err
	}
	lineRules, err := s.lineScopedRules(ctx)
	if err != nil {
		return nil, err
	}

	env := &evalEnv{batch: batch, resolver: s.resolver}

	result := domain.ValidationResult{
		ResultID:    uuid.NewString(),
		BatchID:     batchID,
		ValidatedAt: s.now().UTC(),
		ValidatedBy: actor,
	}

	// File rules run once, sequentially, against the shared header.
	header := fileRecord{batch}
	for _, cr := range fileRules {
		passed, err := cr.checker.check(ctx, header, env)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", cr.rule.Code, err)
		}
		result.Lines = append(result.Lines, resultLine(&cr.rule, passed, "", nil))
	}

	// Line rules are independent per line; evaluate concurrently and merge in
	// stable line order so repeated runs yield identical results.
	perLine := make([][]domain.ValidationResultLine, len(batch.Lines))
	g, gctx := errgroup.WithContext(ctx)
	for i := range batch.Lines {
		i := i
		g.Go(func() error {
			line := &batch.Lines[i]
			rec := lineRecord{line}
			for _, cr := range lineRules {
				passed, err := cr.checker.check(gctx, rec, env)
				if err != nil {
					return fmt.Errorf("rule %s on line %s: %w", cr.rule.Code, line.LineID, err)
				}
				if !passed {
					perLine[i] = append(perLine[i], resultLine(&cr.rule, false, line.LineID, line))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, lines := range perLine {
		result.Lines = append(result.Lines, lines...)
	}

	result.Finalize()

	if err := s.resultRepo.SaveResult(ctx, result); err != nil {
		return nil, err
	}

	s.metrics.ValidationRunsTotal.WithLabelValues(string(result.Status)).Inc()
	logger.Info("Batch validated",
		slog.String("batch_id", batchID),
		slog.String("status", string(result.Status)),
		slog.Int("failed", result.Failed),
		slog.Int("warnings", result.Warnings),
	)
	return &result, nil
}

// lineScopedRules merges the scopes that evaluate per line: LINE itself plus
// the EMPLOYEE and BANK_ACCOUNT scopes, which target line fields.
func (s *validationService) lineScopedRules(ctx context.Context) ([]compiledRule, error) {
	var all []compiledRule
	for _, scope := range []domain.RuleScope{domain.ScopeLine, domain.ScopeEmployee, domain.ScopeBankAccount} {
		rules, err := s.compiledRules(ctx, scope)
		if err != nil {
			return nil, err
		}
		all = append(all, rules...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].rule.Sequence < all[j].rule.Sequence
	})
	return all, nil
}

func (s *validationService) compiledRules(ctx context.Context, scope domain.RuleScope) ([]compiledRule, error) {
	rules, err := s.ruleRepo.ListActiveRules(ctx, scope)
	if err != nil {
		return nil, err
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		c, err := compileRule(&rule)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		compiled = append(compiled, compiledRule{rule: rule, checker: c})
	}
	return compiled, nil
}

func resultLine(rule *domain.ValidationRule, passed bool, lineID string, line *domain.WpsLine) domain.ValidationResultLine {
	rl := domain.ValidationResultLine{
		RuleID:   rule.RuleID,
		RuleCode: rule.Code,
		RuleName: rule.Name,
		Field:    rule.Field,
		Passed:   passed,
		Severity: rule.Severity,
		LineID:   lineID,
	}
	if !passed {
		rl.Message = rule.Message
		rl.HelpText = rule.HelpText
	}
	if line != nil {
		rl.EmployeeID = line.EmployeeID
	}
	return rl
}

func (s *validationService) GetResult(ctx context.Context, resultID string) (*domain.ValidationResult, error) {
	return s.resultRepo.FindResultByID(ctx, resultID)
}

func (s *validationService) ListResults(ctx context.Context, batchID string) ([]domain.ValidationResult, error) {
	return s.resultRepo.ListResultsByBatch(ctx, batchID)
}

// bankReferenceResolver serves the engine's reference collections from the
// WPS bank registry.
type bankReferenceResolver struct {
	bankRepo portsrepo.BankRepositoryFacade
}

// NewBankReferenceResolver builds the registry-backed resolver.
func NewBankReferenceResolver(bankRepo portsrepo.BankRepositoryFacade) ReferenceResolver {
	return &bankReferenceResolver{bankRepo: bankRepo}
}

func (r *bankReferenceResolver) Exists(ctx context.Context, set, value string) (bool, error) {
	switch set {
	case RefSetWPSBanks, RefSetWPSEnabledBanks:
		bank, err := r.bankRepo.FindBankByRoutingCode(ctx, value)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if set == RefSetWPSEnabledBanks {
			return bank.Active && bank.WPSEnabled, nil
		}
		return bank.Active, nil
	}
	// Unknown collections resolve to "present" so a stale rule cannot wedge filings.
	return true, nil
}
