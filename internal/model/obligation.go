package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationType enum constants
const (
	ObligationGSTRemittance = "gst_remittance"
	ObligationQSTRemittance = "qst_remittance"
)

// Obligation is a derived filing/payment requirement produced from
// aggregated calculation results. It has no independent lifecycle and is
// recomputed fresh from the current transaction set on every call.
type Obligation struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Deadline     *Date           `json:"deadline"`
	Jurisdiction Jurisdiction    `json:"jurisdiction"`
	Priority     string          `json:"priority"`
}

// TaxSummary folds a transaction set into period-level remittance figures.
// Remittance = collected − paid per tax type; a negative remittance is a
// refund position, still reported.
type TaxSummary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetIncome       decimal.Decimal `json:"net_income"`
	GSTCollected    decimal.Decimal `json:"gst_collected"`
	GSTPaid         decimal.Decimal `json:"gst_paid"`
	GSTRemittance   decimal.Decimal `json:"gst_remittance"`
	QSTCollected    decimal.Decimal `json:"qst_collected"`
	QSTPaid         decimal.Decimal `json:"qst_paid"`
	QSTRemittance   decimal.Decimal `json:"qst_remittance"`
	TotalRemittance decimal.Decimal `json:"total_tax_remittance"`

	// SkippedTransactions counts records dropped for malformed amounts so
	// data-quality problems surface instead of silently vanishing.
	SkippedTransactions int `json:"skipped_transactions"`
}
