package service

import (
	"fmt"

	"fiscal/internal/model"
	"fiscal/internal/repository"

	"github.com/shopspring/decimal"
)

// --- Interface ---

type TaxService interface {
	// Calculate computes a single jurisdiction's sales tax on a base
	// amount using the named rate rule. Zero-rated supplies short-circuit
	// to zero tax regardless of the rate.
	Calculate(amount decimal.Decimal, ruleName string, jurisdiction model.Jurisdiction, zeroRated bool) (model.TaxCalculation, error)
	CalculateGST(amount decimal.Decimal, zeroRated bool) (model.TaxCalculation, error)
	CalculateQST(amount decimal.Decimal, zeroRated bool) (model.TaxCalculation, error)
	// CalculateCombined computes GST and QST independently on the same
	// base amount. Tax-on-tax is not modeled.
	CalculateCombined(amount decimal.Decimal, zeroRated bool) (model.CombinedCalculation, error)
}

type taxService struct {
	store *repository.RuleStore
}

func NewTaxService(store *repository.RuleStore) TaxService {
	return &taxService{store: store}
}

// --- Implementation ---

func (s *taxService) Calculate(amount decimal.Decimal, ruleName string, jurisdiction model.Jurisdiction, zeroRated bool) (model.TaxCalculation, error) {
	if zeroRated {
		return model.TaxCalculation{
			BaseAmount:   amount,
			TaxAmount:    decimal.Zero,
			RateApplied:  decimal.Zero,
			Deductions:   []model.AppliedRule{},
			Credits:      []model.AppliedRule{},
			NetAmount:    amount,
			Jurisdiction: jurisdiction,
		}, nil
	}

	rule, err := s.store.Get(ruleName)
	if err != nil {
		return model.TaxCalculation{}, err
	}
	if rule.Category != model.CategoryRate {
		return model.TaxCalculation{}, fmt.Errorf("tax rule %q has category %q, expected %q", ruleName, rule.Category, model.CategoryRate)
	}

	taxAmount := amount.Mul(rule.Value)
	return model.TaxCalculation{
		BaseAmount:   amount,
		TaxAmount:    taxAmount,
		RateApplied:  rule.Value,
		Deductions:   []model.AppliedRule{},
		Credits:      []model.AppliedRule{},
		NetAmount:    amount.Add(taxAmount),
		Jurisdiction: jurisdiction,
	}, nil
}

func (s *taxService) CalculateGST(amount decimal.Decimal, zeroRated bool) (model.TaxCalculation, error) {
	return s.Calculate(amount, repository.GSTRateRule, model.JurisdictionCA, zeroRated)
}

func (s *taxService) CalculateQST(amount decimal.Decimal, zeroRated bool) (model.TaxCalculation, error) {
	return s.Calculate(amount, repository.QSTRateRule, model.JurisdictionQC, zeroRated)
}

func (s *taxService) CalculateCombined(amount decimal.Decimal, zeroRated bool) (model.CombinedCalculation, error) {
	gst, err := s.CalculateGST(amount, zeroRated)
	if err != nil {
		return model.CombinedCalculation{}, err
	}
	qst, err := s.CalculateQST(amount, zeroRated)
	if err != nil {
		return model.CombinedCalculation{}, err
	}

	totalTax := gst.TaxAmount.Add(qst.TaxAmount)
	return model.CombinedCalculation{
		GST:         gst,
		QST:         qst,
		TotalTax:    totalTax,
		TotalAmount: amount.Add(totalTax),
	}, nil
}
