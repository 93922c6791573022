package model

import "github.com/shopspring/decimal"

// AppliedRule records a single deduction or credit rule firing against a
// line item. One item can produce several of these: matching rules stack.
type AppliedRule struct {
	Rule        string          `json:"rule"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
}

// TaxCalculation is the result of a single-jurisdiction sales tax
// computation. Transient: built per call, never persisted.
// NetAmount = BaseAmount + TaxAmount.
type TaxCalculation struct {
	BaseAmount   decimal.Decimal `json:"base_amount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	RateApplied  decimal.Decimal `json:"rate_applied"`
	Deductions   []AppliedRule   `json:"deductions"`
	Credits      []AppliedRule   `json:"credits"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	Jurisdiction Jurisdiction    `json:"jurisdiction"`
}

// CombinedCalculation carries GST and QST computed independently over the
// same base amount. The taxes are never cascaded: TotalTax is the plain
// sum of both tax amounts and TotalAmount = base + TotalTax.
type CombinedCalculation struct {
	GST         TaxCalculation  `json:"gst"`
	QST         TaxCalculation  `json:"qst"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
