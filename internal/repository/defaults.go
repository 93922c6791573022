package repository

import (
	"time"

	"fiscal/internal/model"

	"github.com/shopspring/decimal"
)

// Well-known rate rule names used by the sales tax calculator.
const (
	GSTRateRule = "TPS_Rate"
	QSTRateRule = "TVQ_Rate"
)

// defaultRules is the built-in Quebec/Canada rule set loaded at store
// initialization. Rates and thresholds reflect the legislation in force;
// rule names are stable identifiers referenced by callers and stored
// exports, so renaming one is a breaking change.
func defaultRules() []model.TaxRule {
	gstEffective := model.NewDate(2008, time.January, 1)
	qstEffective := model.NewDate(2013, time.January, 1)
	thresholdEffective := model.NewDate(2020, time.January, 1)

	return []model.TaxRule{
		{
			Name:          GSTRateRule,
			Description:   "GST rate (federal goods and services tax)",
			Jurisdiction:  model.JurisdictionCA,
			Category:      model.CategoryRate,
			Value:         decimal.RequireFromString("0.05"),
			EffectiveDate: &gstEffective,
			IsActive:      true,
		},
		{
			Name:          QSTRateRule,
			Description:   "QST rate (Quebec sales tax)",
			Jurisdiction:  model.JurisdictionQC,
			Category:      model.CategoryRate,
			Value:         decimal.RequireFromString("0.09975"),
			EffectiveDate: &qstEffective,
			IsActive:      true,
		},
		{
			Name:          "Small_Business_Threshold",
			Description:   "Small supplier threshold for GST registration",
			Jurisdiction:  model.JurisdictionBoth,
			Category:      model.CategoryThreshold,
			Value:         decimal.NewFromInt(30000),
			EffectiveDate: &thresholdEffective,
			IsActive:      true,
		},
		{
			Name:          "QST_Registration_Threshold",
			Description:   "QST registration threshold",
			Jurisdiction:  model.JurisdictionQC,
			Category:      model.CategoryThreshold,
			Value:         decimal.NewFromInt(30000),
			EffectiveDate: &thresholdEffective,
			IsActive:      true,
		},
		{
			Name:         "Business_Expense_Deduction",
			Description:  "Deduction for documented business expenses",
			Jurisdiction: model.JurisdictionBoth,
			Category:     model.CategoryDeduction,
			Value:        decimal.RequireFromString("1.0"),
			Conditions: map[string]model.Condition{
				"expense_type": model.Equals("business"),
				"documented":   model.Equals(true),
			},
			IsActive: true,
		},
		{
			Name:         "Home_Office_Deduction",
			Description:  "Home office expense deduction",
			Jurisdiction: model.JurisdictionBoth,
			Category:     model.CategoryDeduction,
			Value:        decimal.RequireFromString("0.25"),
			Conditions: map[string]model.Condition{
				"home_office_percentage": model.GreaterThan(decimal.Zero),
				"exclusive_use":          model.Equals(true),
			},
			IsActive: true,
		},
		{
			Name:         "SRED_Credit",
			Description:  "Scientific research and experimental development credit",
			Jurisdiction: model.JurisdictionBoth,
			Category:     model.CategoryCredit,
			Value:        decimal.RequireFromString("0.35"),
			Conditions: map[string]model.Condition{
				"sred_eligible": model.Equals(true),
				"documented":    model.Equals(true),
			},
			IsActive: true,
		},
		{
			Name:         "Digital_Media_Credit_QC",
			Description:  "Quebec digital media tax credit",
			Jurisdiction: model.JurisdictionQC,
			Category:     model.CategoryCredit,
			Value:        decimal.RequireFromString("0.24"),
			Conditions: map[string]model.Condition{
				"digital_media_eligible": model.Equals(true),
				"qc_resident":            model.Equals(true),
			},
			IsActive: true,
		},
		{
			Name:         "Tech_Startup_Deduction",
			Description:  "Additional deduction for early-stage technology companies",
			Jurisdiction: model.JurisdictionBoth,
			Category:     model.CategoryDeduction,
			Value:        decimal.RequireFromString("0.15"),
			Conditions: map[string]model.Condition{
				"company_type": model.Equals("tech_startup"),
				"revenue":      model.LessThan(decimal.NewFromInt(100000)),
			},
			IsActive: true,
		},
	}
}
