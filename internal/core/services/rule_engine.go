package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// ReferenceResolver answers whether a value exists in a named reference
// collection. It is the only way REFERENCE and COMPLIANCE rules see data
// outside the batch under evaluation.
type ReferenceResolver interface {
	Exists(ctx context.Context, set, value string) (bool, error)
}

// Reference collection names understood by the engine.
const (
	RefSetWPSBanks        = "wps_banks"
	RefSetWPSEnabledBanks = "wps_enabled_banks"
)

// Check keys for CALCULATION / BUSINESS / COMPLIANCE rules.
const (
	CheckNetReconciliation = "net_reconciliation"
	CheckMinimumWage       = "minimum_wage"
	CheckWPSEnabledBank    = "wps_enabled_bank"
)

// record exposes a validated object's fields by their configured names.
type record interface {
	field(name string) (any, bool)
}

// lineRecord adapts a WpsLine. Field names follow the rule configuration
// vocabulary carried over from the original filings.
type lineRecord struct {
	line *domain.WpsLine
}

func (r lineRecord) field(name string) (any, bool) {
	switch name {
	case "employee_eid":
		return r.line.EmiratesID, true
	case "labour_card_no":
		return r.line.LabourCardNo, true
	case "employee_wps_id":
		return r.line.WPSIdentifier(), true
	case "bank_code":
		return r.line.BankCode, true
	case "account_number":
		return r.line.AccountNumber, true
	case "iban":
		return r.line.IBAN, true
	case "bank_account":
		return r.line.BankAccount(), true
	case "days_worked":
		return r.line.DaysWorked, true
	case "basic_salary":
		return r.line.BasicSalary, true
	case "housing_allowance":
		return r.line.HousingAllowance, true
	case "transport_allowance":
		return r.line.TransportAllowance, true
	case "other_allowance":
		return r.line.OtherAllowance, true
	case "overtime":
		return r.line.Overtime, true
	case "leave_salary":
		return r.line.LeaveSalary, true
	case "deductions":
		return r.line.Deductions, true
	case "net_salary":
		return r.line.NetSalary, true
	}
	return nil, false
}

// fileRecord adapts the batch header.
type fileRecord struct {
	batch *domain.WpsBatch
}

func (r fileRecord) field(name string) (any, bool) {
	switch name {
	case "employer_eid":
		return r.batch.EmployerID, true
	case "employer_bank_code":
		return r.batch.EmployerRouting, true
	case "employer_account":
		return r.batch.EmployerAccount, true
	case "period_month":
		return r.batch.Period.Month, true
	case "period_year":
		return r.batch.Period.Year, true
	case "employee_count":
		return len(r.batch.Lines), true
	}
	return nil, false
}

// evalEnv is the shared context one evaluation run sees. Rule definitions
// never change mid-run; the count cache is guarded because line checks run
// concurrently.
type evalEnv struct {
	batch    *domain.WpsBatch
	resolver ReferenceResolver

	// lazily built per-field value counts for UNIQUE checks
	countsMu sync.Mutex
	counts   map[string]map[string]int
}

func (e *evalEnv) fieldCounts(field string) map[string]int {
	e.countsMu.Lock()
	defer e.countsMu.Unlock()
	if e.counts == nil {
		e.counts = make(map[string]map[string]int)
	}
	if c, ok := e.counts[field]; ok {
		return c
	}
	c := make(map[string]int)
	for i := range e.batch.Lines {
		if v, ok := (lineRecord{&e.batch.Lines[i]}).field(field); ok {
			if s := stringify(v); s != "" {
				c[s]++
			}
		}
	}
	e.counts[field] = c
	return c
}

// checker is one compiled rule: a pure predicate over (record, env).
type checker interface {
	check(ctx context.Context, rec record, env *evalEnv) (bool, error)
}

// compileRule lowers a declarative rule into its checker. Unparseable
// configuration is a compile error; it surfaces before any record is judged.
func compileRule(rule *domain.ValidationRule) (checker, error) {
	switch rule.Type {
	case domain.RuleRequired:
		return requiredChecker{field: rule.Field}, nil
	case domain.RuleFormat:
		var re *regexp.Regexp
		if rule.Params.Pattern != "" {
			compiled, err := regexp.Compile(rule.Params.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %s: bad pattern: %w", rule.Code, err)
			}
			re = compiled
		}
		allowed := make(map[string]struct{}, len(rule.Params.AllowedValues))
		for _, v := range rule.Params.AllowedValues {
			allowed[v] = struct{}{}
		}
		return formatChecker{field: rule.Field, pattern: re, allowed: allowed}, nil
	case domain.RuleRange:
		return rangeChecker{field: rule.Field, min: rule.Params.Min, max: rule.Params.Max}, nil
	case domain.RuleUnique:
		return uniqueChecker{field: rule.Field}, nil
	case domain.RuleReference:
		return referenceChecker{field: rule.Field, set: rule.Params.ReferenceSet}, nil
	case domain.RuleCalculation, domain.RuleBusiness, domain.RuleCompliance:
		return derivedChecker{key: rule.Params.Check, min: rule.Params.Min}, nil
	}
	return nil, fmt.Errorf("rule %s: unknown rule type %q", rule.Code, rule.Type)
}

type requiredChecker struct {
	field string
}

func (c requiredChecker) check(_ context.Context, rec record, _ *evalEnv) (bool, error) {
	v, ok := rec.field(c.field)
	if !ok {
		return true, nil
	}
	switch t := v.(type) {
	case string:
		return t != "", nil
	case int:
		return t != 0, nil
	case decimal.Decimal:
		return !t.IsZero(), nil
	}
	return v != nil, nil
}

type formatChecker struct {
	field   string
	pattern *regexp.Regexp
	allowed map[string]struct{}
}

func (c formatChecker) check(_ context.Context, rec record, _ *evalEnv) (bool, error) {
	v, ok := rec.field(c.field)
	if !ok {
		return true, nil
	}
	s := stringify(v)
	if s == "" {
		// Presence is the REQUIRED rule's concern.
		return true, nil
	}
	if c.pattern != nil && !c.pattern.MatchString(s) {
		return false, nil
	}
	if len(c.allowed) > 0 {
		if _, ok := c.allowed[s]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type rangeChecker struct {
	field    string
	min, max *float64
}

func (c rangeChecker) check(_ context.Context, rec record, _ *evalEnv) (bool, error) {
	v, ok := rec.field(c.field)
	if !ok {
		return true, nil
	}
	n, ok := toDecimal(v)
	if !ok {
		return true, nil
	}
	if c.min != nil && n.LessThan(decimal.NewFromFloat(*c.min)) {
		return false, nil
	}
	if c.max != nil && n.GreaterThan(decimal.NewFromFloat(*c.max)) {
		return false, nil
	}
	return true, nil
}

type uniqueChecker struct {
	field string
}

func (c uniqueChecker) check(_ context.Context, rec record, env *evalEnv) (bool, error) {
	v, ok := rec.field(c.field)
	if !ok {
		return true, nil
	}
	s := stringify(v)
	if s == "" {
		return true, nil
	}
	return env.fieldCounts(c.field)[s] <= 1, nil
}

type referenceChecker struct {
	field string
	set   string
}

func (c referenceChecker) check(ctx context.Context, rec record, env *evalEnv) (bool, error) {
	if c.set == "" || env.resolver == nil {
		return true, nil
	}
	v, ok := rec.field(c.field)
	if !ok {
		return true, nil
	}
	s := stringify(v)
	if s == "" {
		return true, nil
	}
	return env.resolver.Exists(ctx, c.set, s)
}

// derivedChecker dispatches CALCULATION / BUSINESS / COMPLIANCE rules by check key.
type derivedChecker struct {
	key string
	min *float64
}

func (c derivedChecker) check(ctx context.Context, rec record, env *evalEnv) (bool, error) {
	lr, isLine := rec.(lineRecord)
	switch c.key {
	case CheckNetReconciliation:
		if !isLine {
			return true, nil
		}
		return lr.line.NetReconciles(), nil
	case CheckMinimumWage:
		if !isLine || c.min == nil {
			return true, nil
		}
		return !lr.line.NetSalary.LessThan(decimal.NewFromFloat(*c.min)), nil
	case CheckWPSEnabledBank:
		if !isLine || env.resolver == nil {
			return true, nil
		}
		if lr.line.BankCode == "" {
			return true, nil
		}
		return env.resolver.Exists(ctx, RefSetWPSEnabledBanks, lr.line.BankCode)
	}
	// Unknown check keys pass rather than block a filing on configuration drift.
	return true, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case decimal.Decimal:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case int:
		return decimal.NewFromInt(int64(t)), true
	}
	return decimal.Decimal{}, false
}
