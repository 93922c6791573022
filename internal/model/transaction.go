package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TransactionRevenue  = "revenue"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// InvalidAmountError reports a monetary value that is absent or does not
// parse as a number. Callers skip the offending record and continue; the
// error keeps enough context to trace it back to the input.
type InvalidAmountError struct {
	Field string
	Value interface{}
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid monetary amount %v for field %q", e.Value, e.Field)
}

// Transaction is an external input record from a transaction source
// (bank feed, payment processor, accounting sync). The engine does not
// validate or clean it beyond parsing the amount; Amount stays loosely
// typed so one malformed record cannot abort a whole batch at decode time.
type Transaction struct {
	Amount   interface{} `json:"amount"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	// Tax amounts as reported by the source, when it itemizes them.
	// The engine computes its own figures and never trusts these.
	GSTAmount interface{} `json:"gst_amount,omitempty"`
	QSTAmount interface{} `json:"qst_amount,omitempty"`
}

// DecimalAmount parses the transaction amount into a fixed-point value.
func (t Transaction) DecimalAmount() (decimal.Decimal, error) {
	return ParseAmount("amount", t.Amount)
}

// LineItem is a free-form expense record. Condition matching reads its
// fields directly; the amount is expected under the "amount" key.
type LineItem map[string]interface{}

// Amount parses the line item's monetary amount.
func (li LineItem) Amount() (decimal.Decimal, error) {
	v, ok := li["amount"]
	if !ok {
		return decimal.Decimal{}, InvalidAmountError{Field: "amount", Value: nil}
	}
	return ParseAmount("amount", v)
}

// ParseAmount coerces a loosely typed monetary value into a decimal.
// Unlike condition matching, numeric strings are accepted here: upstream
// CSV and JSON sources routinely deliver amounts as strings.
func ParseAmount(field string, v interface{}) (decimal.Decimal, error) {
	if d, ok := numericValue(v); ok {
		return d, nil
	}
	if s, ok := v.(string); ok {
		d, err := decimal.NewFromString(s)
		if err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, InvalidAmountError{Field: field, Value: v}
}
