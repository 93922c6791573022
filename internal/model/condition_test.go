package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreaterThanIsStrict(t *testing.T) {
	cond := GreaterThan(decimal.NewFromInt(100))

	assert.True(t, cond.Matches(150.0))
	assert.False(t, cond.Matches(100.0), "boundary value must not match a strict comparator")
	assert.False(t, cond.Matches(50.0))
	assert.False(t, cond.Matches("abc"), "non-numeric values never satisfy a comparator")
	assert.False(t, cond.Matches("150"), "numeric strings are not numbers for matching purposes")
}

func TestLessThanIsStrict(t *testing.T) {
	cond := LessThan(decimal.NewFromInt(100000))

	assert.True(t, cond.Matches(50000))
	assert.False(t, cond.Matches(100000))
	assert.False(t, cond.Matches(150000))
	assert.False(t, cond.Matches(nil))
}

func TestEqualsComparesNumbersNumerically(t *testing.T) {
	cond := Equals(json.Number("50"))

	assert.True(t, cond.Matches(50.0), "numeric equality must ignore the concrete Go type")
	assert.True(t, cond.Matches(decimal.NewFromInt(50)))
	assert.False(t, cond.Matches(51.0))
	assert.False(t, cond.Matches("50"), "a string value is not numerically equal to a number")
}

func TestEqualsLiterals(t *testing.T) {
	assert.True(t, Equals("business").Matches("business"))
	assert.False(t, Equals("business").Matches("personal"))
	assert.True(t, Equals(true).Matches(true))
	assert.False(t, Equals(true).Matches(false))
	assert.False(t, Equals(true).Matches("true"))
}

func TestMatchesConditions(t *testing.T) {
	conditions := map[string]Condition{
		"expense_type": Equals("business"),
		"amount":       GreaterThan(decimal.NewFromInt(100)),
	}

	t.Run("all satisfied", func(t *testing.T) {
		assert.True(t, MatchesConditions(conditions, map[string]interface{}{
			"expense_type": "business",
			"amount":       250.0,
		}))
	})

	t.Run("one constraint fails", func(t *testing.T) {
		assert.False(t, MatchesConditions(conditions, map[string]interface{}{
			"expense_type": "business",
			"amount":       50.0,
		}))
	})

	t.Run("missing field fails", func(t *testing.T) {
		assert.False(t, MatchesConditions(conditions, map[string]interface{}{
			"expense_type": "business",
		}))
	})

	t.Run("empty conditions are vacuously satisfied", func(t *testing.T) {
		assert.True(t, MatchesConditions(nil, map[string]interface{}{}))
		assert.True(t, MatchesConditions(map[string]Condition{}, nil))
	})
}

func TestConditionJSONDecode(t *testing.T) {
	var conds map[string]Condition
	payload := `{
		"home_office_percentage": ">0",
		"revenue": "<100000",
		"expense_type": "business",
		"documented": true,
		"employee_count": 5
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &conds))

	assert.Equal(t, CondGreaterThan, conds["home_office_percentage"].Op)
	assert.True(t, conds["home_office_percentage"].Threshold.IsZero())
	assert.Equal(t, CondLessThan, conds["revenue"].Op)
	assert.Equal(t, CondEquals, conds["expense_type"].Op)
	assert.Equal(t, "business", conds["expense_type"].Literal)
	assert.Equal(t, true, conds["documented"].Literal)
	assert.True(t, conds["employee_count"].Matches(5.0))
}

func TestConditionJSONDecodeMalformedComparator(t *testing.T) {
	var cond Condition
	err := json.Unmarshal([]byte(`">abc"`), &cond)
	require.Error(t, err)

	var malformed MalformedConditionError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, ">abc", malformed.Raw)
}

func TestConditionJSONRoundTrip(t *testing.T) {
	original := map[string]Condition{
		"home_office_percentage": GreaterThan(decimal.Zero),
		"revenue":                LessThan(decimal.NewFromInt(100000)),
		"documented":             Equals(true),
		"expense_type":           Equals("business"),
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded map[string]Condition
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	reencoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(reencoded))
}
