package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// CondOp enum constants
const (
	CondEquals      = "eq"
	CondGreaterThan = "gt"
	CondLessThan    = "lt"
)

// MalformedConditionError reports a constraint string that looks like a
// numeric comparator but whose threshold does not parse.
type MalformedConditionError struct {
	Raw string
}

func (e MalformedConditionError) Error() string {
	return fmt.Sprintf("malformed condition constraint %q: comparator prefix with non-numeric threshold", e.Raw)
}

// Condition is a single field constraint on a rule. The operator is fixed
// at authoring/decode time rather than inferred from string prefixes on
// every evaluation. On the wire it keeps the legacy form: a plain value
// for equality, ">N" / "<N" strings for strict numeric comparators.
type Condition struct {
	Op        string
	Threshold decimal.Decimal // gt / lt only
	Literal   interface{}     // eq only
}

// Equals matches when the record value equals v exactly. Numeric values
// compare numerically regardless of their concrete Go type.
func Equals(v interface{}) Condition {
	return Condition{Op: CondEquals, Literal: v}
}

// GreaterThan matches when the record value is strictly above the threshold.
func GreaterThan(threshold decimal.Decimal) Condition {
	return Condition{Op: CondGreaterThan, Threshold: threshold}
}

// LessThan matches when the record value is strictly below the threshold.
func LessThan(threshold decimal.Decimal) Condition {
	return Condition{Op: CondLessThan, Threshold: threshold}
}

// Matches evaluates the constraint against a single record value.
// Comparators fail on non-numeric values instead of erroring: a record
// that cannot satisfy the constraint simply does not match.
func (c Condition) Matches(value interface{}) bool {
	switch c.Op {
	case CondGreaterThan:
		d, ok := numericValue(value)
		return ok && d.GreaterThan(c.Threshold)
	case CondLessThan:
		d, ok := numericValue(value)
		return ok && d.LessThan(c.Threshold)
	default:
		if want, ok := numericValue(c.Literal); ok {
			got, numeric := numericValue(value)
			return numeric && want.Equal(got)
		}
		return reflect.DeepEqual(c.Literal, value)
	}
}

// MarshalJSON emits the legacy wire form.
func (c Condition) MarshalJSON() ([]byte, error) {
	switch c.Op {
	case CondGreaterThan:
		return json.Marshal(">" + c.Threshold.String())
	case CondLessThan:
		return json.Marshal("<" + c.Threshold.String())
	default:
		return json.Marshal(c.Literal)
	}
}

// UnmarshalJSON decodes the legacy wire form. A string beginning with '>'
// or '<' must carry a numeric threshold; anything else is an equality
// constraint on the literal value. Numbers decode via json.Number so no
// precision is lost on the round trip.
func (c *Condition) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}

	if s, ok := v.(string); ok && len(s) > 1 && (s[0] == '>' || s[0] == '<') {
		threshold, err := decimal.NewFromString(strings.TrimSpace(s[1:]))
		if err != nil {
			return MalformedConditionError{Raw: s}
		}
		if s[0] == '>' {
			*c = GreaterThan(threshold)
		} else {
			*c = LessThan(threshold)
		}
		return nil
	}

	*c = Equals(v)
	return nil
}

// MatchesConditions reports whether a record satisfies every constraint.
// An empty or nil condition set is vacuously satisfied; a field missing
// from the record fails its constraint.
func MatchesConditions(conditions map[string]Condition, record map[string]interface{}) bool {
	for field, cond := range conditions {
		value, ok := record[field]
		if !ok {
			return false
		}
		if !cond.Matches(value) {
			return false
		}
	}
	return true
}

// numericValue coerces the numeric types a record value can arrive as.
// Strings are deliberately excluded: "abc" (or "100") in a record never
// satisfies a numeric comparator.
func numericValue(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Decimal{}, false
	}
}
