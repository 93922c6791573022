package service

import (
	"errors"

	"fiscal/internal/model"
	"fiscal/internal/repository"

	"github.com/shopspring/decimal"
)

// --- Interface ---

type DeductionService interface {
	// ApplyDeductions evaluates every active deduction rule against each
	// line item. A rule that matches contributes base × rule value where
	// base is the item's expense amount. Matching rules stack: one item
	// can fire several rules, and no overall ceiling is applied.
	ApplyDeductions(items []model.LineItem) ([]model.AppliedRule, error)
	// ApplyCredits does the same for credit rules, but the base is the
	// tax amount owed: credits reduce tax, not the taxable base.
	ApplyCredits(taxAmount decimal.Decimal, items []model.LineItem) ([]model.AppliedRule, error)
}

type deductionService struct {
	store *repository.RuleStore
}

func NewDeductionService(store *repository.RuleStore) DeductionService {
	return &deductionService{store: store}
}

// --- Implementation ---

// ApplyDeductions skips items whose amount is missing or non-numeric and
// keeps going; the skipped items come back as a joined error alongside
// the partial results so the caller can report them.
func (s *deductionService) ApplyDeductions(items []model.LineItem) ([]model.AppliedRule, error) {
	rules := s.store.Active("", model.CategoryDeduction)

	applied := []model.AppliedRule{}
	var errs []error
	for _, item := range items {
		base, err := item.Amount()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		applied = append(applied, applyRules(rules, item, base)...)
	}
	return applied, errors.Join(errs...)
}

func (s *deductionService) ApplyCredits(taxAmount decimal.Decimal, items []model.LineItem) ([]model.AppliedRule, error) {
	rules := s.store.Active("", model.CategoryCredit)

	applied := []model.AppliedRule{}
	for _, item := range items {
		applied = append(applied, applyRules(rules, item, taxAmount)...)
	}
	return applied, nil
}

func applyRules(rules []model.TaxRule, item model.LineItem, base decimal.Decimal) []model.AppliedRule {
	var out []model.AppliedRule
	for _, rule := range rules {
		if !model.MatchesConditions(rule.Conditions, item) {
			continue
		}
		out = append(out, model.AppliedRule{
			Rule:        rule.Name,
			Description: rule.Description,
			Amount:      base.Mul(rule.Value),
			Rate:        rule.Value,
		})
	}
	return out
}
