package calendar

import (
	"testing"
	"time"

	"fiscal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atDate(cal *Calendar, year int, month time.Month, day int) {
	cal.SetClock(func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, cal.loc)
	})
}

func TestQuarterlyDeadlines(t *testing.T) {
	cal := New()

	quarters := cal.Quarterly(2025)
	require.Len(t, quarters, 4)

	assert.Equal(t, time.April, quarters[0].Date.Month())
	assert.Equal(t, 30, quarters[0].Date.Day())
	for _, q := range quarters {
		assert.Equal(t, TypeQuarterly, q.Type)
		assert.Equal(t, model.JurisdictionBoth, q.Jurisdiction)
		assert.Equal(t, "high", q.Priority)
	}

	// Q4 is due end of January of the following year
	q4 := quarters[3]
	assert.Equal(t, 2026, q4.Date.Year())
	assert.Equal(t, time.January, q4.Date.Month())
	assert.Equal(t, 31, q4.Date.Day())
}

func TestMonthlyLastDay(t *testing.T) {
	cal := New()

	feb := cal.Monthly(2024, time.February)
	require.Len(t, feb, 2)
	assert.Equal(t, 29, feb[1].Date.Day(), "2024 is a leap year")

	apr := cal.Monthly(2025, time.April)
	assert.Equal(t, 30, apr[1].Date.Day())
}

func TestNextForTypeQuarterly(t *testing.T) {
	cal := New()
	atDate(cal, 2025, time.March, 20)

	next := cal.NextForType(TypeQuarterly)
	require.NotNil(t, next)
	assert.Equal(t, 2025, next.Date.Year())
	assert.Equal(t, time.April, next.Date.Month())
	assert.Equal(t, 30, next.Date.Day())
}

func TestNextForTypeCrossesYearEnd(t *testing.T) {
	cal := New()
	atDate(cal, 2025, time.December, 15)

	// The next quarterly filing after mid-December is Q4, due the
	// following January.
	next := cal.NextForType(TypeQuarterly)
	require.NotNil(t, next)
	assert.Equal(t, 2026, next.Date.Year())
	assert.Equal(t, time.January, next.Date.Month())
	assert.Equal(t, 31, next.Date.Day())
}

func TestNextPicksEarliest(t *testing.T) {
	cal := New()
	atDate(cal, 2025, time.March, 20)

	next := cal.Next()
	require.NotNil(t, next)
	// The monthly GST/QST return on March 31 comes before any quarterly
	// or annual deadline.
	assert.Equal(t, TypeMonthly, next.Type)
	assert.Equal(t, time.March, next.Date.Month())
	assert.Equal(t, 31, next.Date.Day())
}

func TestUpcomingWindow(t *testing.T) {
	cal := New()
	atDate(cal, 2025, time.March, 20)

	upcoming := cal.Upcoming(30)
	require.NotEmpty(t, upcoming)
	for i, d := range upcoming {
		assert.False(t, d.Date.Before(time.Date(2025, time.March, 20, 0, 0, 0, 0, cal.loc)))
		if i > 0 {
			assert.False(t, d.Date.Before(upcoming[i-1].Date), "upcoming deadlines are sorted by date")
		}
	}
	// 30 days from March 20 does not reach the April 30 quarterly filing
	for _, d := range upcoming {
		assert.NotEqual(t, TypeQuarterly, d.Type)
	}
}

func TestOverdue(t *testing.T) {
	cal := New()
	atDate(cal, 2025, time.May, 10)

	overdue := cal.Overdue()
	require.NotEmpty(t, overdue)
	names := make([]string, 0, len(overdue))
	for _, d := range overdue {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "GST/QST return Q1 2025")
}
