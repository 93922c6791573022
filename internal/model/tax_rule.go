package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction enum constants
type Jurisdiction string

const (
	JurisdictionQC   Jurisdiction = "QC"
	JurisdictionCA   Jurisdiction = "CA"
	JurisdictionBoth Jurisdiction = "both"
)

// Covers reports whether a rule scoped to j applies under the requested
// jurisdiction. A "both" rule applies everywhere.
func (j Jurisdiction) Covers(requested Jurisdiction) bool {
	return j == requested || j == JurisdictionBoth
}

// Category enum constants
type Category string

const (
	CategoryRate      Category = "rate"
	CategoryDeduction Category = "deduction"
	CategoryCredit    Category = "credit"
	CategoryThreshold Category = "threshold"
)

// TaxRule is a named tax policy entry with jurisdiction scope, eligibility
// conditions and a temporal validity window. Value is a rate fraction for
// rate/deduction/credit rules and an amount for threshold rules.
type TaxRule struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Jurisdiction  Jurisdiction         `json:"jurisdiction"`
	Category      Category             `json:"category"`
	Value         decimal.Decimal      `json:"value"`
	Conditions    map[string]Condition `json:"conditions"`
	EffectiveDate *Date                `json:"effective_date"`
	ExpiryDate    *Date                `json:"expiry_date"`
	IsActive      bool                 `json:"is_active"`
}

// ActiveOn reports whether the rule is in force on the given day. The
// validity window is inclusive on both ends; an absent bound is unbounded
// on that side. The manual IsActive flag overrides the dates.
func (r TaxRule) ActiveOn(t time.Time) bool {
	if !r.IsActive {
		return false
	}
	day := DateOf(t)
	if r.EffectiveDate != nil && day.Before(r.EffectiveDate.Time) {
		return false
	}
	if r.ExpiryDate != nil && day.After(r.ExpiryDate.Time) {
		return false
	}
	return true
}
