// Package calendar supplies Quebec/Canada filing deadlines. The engine
// treats it as an opaque "next deadline for tax type X" lookup when
// building obligation records.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"fiscal/internal/model"
)

// DeadlineType enum constants
const (
	TypeQuarterly = "quarterly"
	TypeAnnual    = "annual"
	TypeMonthly   = "monthly"
)

// Deadline is a single fiscal filing or payment due date.
type Deadline struct {
	Name         string             `json:"name"`
	Date         time.Time          `json:"date"`
	Description  string             `json:"description"`
	Type         string             `json:"type"`
	Jurisdiction model.Jurisdiction `json:"jurisdiction"`
	Priority     string             `json:"priority"`
	Automatic    bool               `json:"automatic"`
}

// Calendar computes deadline schedules for a company filing in the
// Montreal timezone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New builds a calendar in the America/Montreal timezone, falling back to
// UTC when tzdata is unavailable.
func New() *Calendar {
	loc, err := time.LoadLocation("America/Montreal")
	if err != nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: time.Now}
}

// SetClock overrides the calendar's current time, for tests.
func (c *Calendar) SetClock(now func() time.Time) {
	c.now = now
}

// Quarterly returns the four GST/QST filing deadlines for a year. Q4 of a
// year falls due at the end of January of the following year.
func (c *Calendar) Quarterly(year int) []Deadline {
	quarters := []struct {
		label string
		due   time.Time
	}{
		{"Q1", time.Date(year, time.April, 30, 0, 0, 0, 0, c.loc)},
		{"Q2", time.Date(year, time.July, 31, 0, 0, 0, 0, c.loc)},
		{"Q3", time.Date(year, time.October, 31, 0, 0, 0, 0, c.loc)},
		{"Q4", time.Date(year+1, time.January, 31, 0, 0, 0, 0, c.loc)},
	}

	out := make([]Deadline, 0, len(quarters))
	for _, q := range quarters {
		out = append(out, Deadline{
			Name:         fmt.Sprintf("GST/QST return %s %d", q.label, year),
			Date:         q.due,
			Description:  fmt.Sprintf("Quarterly GST/QST return for %s %d", q.label, year),
			Type:         TypeQuarterly,
			Jurisdiction: model.JurisdictionBoth,
			Priority:     "high",
			Automatic:    true,
		})
	}
	return out
}

// Annual returns the income tax and annual filing deadlines for a tax
// year. All fall in the following calendar year.
func (c *Calendar) Annual(year int) []Deadline {
	return []Deadline{
		{
			Name:         fmt.Sprintf("T1 income tax return %d", year),
			Date:         time.Date(year+1, time.April, 30, 0, 0, 0, 0, c.loc),
			Description:  "Federal personal income tax return",
			Type:         TypeAnnual,
			Jurisdiction: model.JurisdictionCA,
			Priority:     "high",
		},
		{
			Name:         fmt.Sprintf("TP-1 income tax return %d", year),
			Date:         time.Date(year+1, time.April, 30, 0, 0, 0, 0, c.loc),
			Description:  "Quebec personal income tax return",
			Type:         TypeAnnual,
			Jurisdiction: model.JurisdictionQC,
			Priority:     "high",
		},
		{
			Name:         fmt.Sprintf("Annual GST/QST return %d", year),
			Date:         time.Date(year+1, time.June, 15, 0, 0, 0, 0, c.loc),
			Description:  "Annual GST/QST return, if on an annual filing frequency",
			Type:         TypeAnnual,
			Jurisdiction: model.JurisdictionBoth,
			Priority:     "normal",
			Automatic:    true,
		},
		{
			Name:         fmt.Sprintf("T2 corporate return %d", year),
			Date:         time.Date(year+1, time.June, 15, 0, 0, 0, 0, c.loc),
			Description:  "Federal corporate income tax return",
			Type:         TypeAnnual,
			Jurisdiction: model.JurisdictionCA,
			Priority:     "normal",
		},
	}
}

// Monthly returns the recurring deadlines inside a single month: source
// deduction remittances on the 15th and the monthly GST/QST return on the
// last day of the month.
func (c *Calendar) Monthly(year int, month time.Month) []Deadline {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, c.loc).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 0, -1)

	return []Deadline{
		{
			Name:         fmt.Sprintf("Source deductions %s %d", month, year),
			Date:         time.Date(year, month, 15, 0, 0, 0, 0, c.loc),
			Description:  "Payroll source deduction remittance, if applicable",
			Type:         TypeMonthly,
			Jurisdiction: model.JurisdictionBoth,
			Priority:     "normal",
			Automatic:    true,
		},
		{
			Name:         fmt.Sprintf("Monthly GST/QST return %s %d", month, year),
			Date:         lastDay,
			Description:  "Monthly GST/QST return, if on a monthly filing frequency",
			Type:         TypeMonthly,
			Jurisdiction: model.JurisdictionBoth,
			Priority:     "normal",
			Automatic:    true,
		},
	}
}

// All returns every deadline for a year, sorted by date.
func (c *Calendar) All(year int) []Deadline {
	out := c.Quarterly(year)
	out = append(out, c.Annual(year)...)
	for m := time.January; m <= time.December; m++ {
		out = append(out, c.Monthly(year, m)...)
	}
	sortByDate(out)
	return out
}

// Upcoming returns the deadlines falling within the next daysAhead days.
func (c *Calendar) Upcoming(daysAhead int) []Deadline {
	now := c.now()
	horizon := now.AddDate(0, 0, daysAhead)

	out := []Deadline{}
	for _, d := range c.window(now.Year()) {
		if !d.Date.Before(now) && !d.Date.After(horizon) {
			out = append(out, d)
		}
	}
	sortByDate(out)
	return out
}

// Overdue returns this year's deadlines already in the past.
func (c *Calendar) Overdue() []Deadline {
	now := c.now()

	out := []Deadline{}
	for _, d := range c.All(now.Year()) {
		if d.Date.Before(now) {
			out = append(out, d)
		}
	}
	sortByDate(out)
	return out
}

// Next returns the earliest future deadline, or nil when none remain in
// the lookahead window.
func (c *Calendar) Next() *Deadline {
	return c.NextForType("")
}

// NextForType returns the earliest future deadline of the given type, or
// nil. An empty type matches any deadline.
func (c *Calendar) NextForType(deadlineType string) *Deadline {
	now := c.now()

	var next *Deadline
	for _, d := range c.window(now.Year()) {
		if deadlineType != "" && d.Type != deadlineType {
			continue
		}
		if !d.Date.After(now) {
			continue
		}
		if next == nil || d.Date.Before(next.Date) {
			d := d
			next = &d
		}
	}
	return next
}

// window spans this year and the next so year-end lookups still find the
// January and spring deadlines of the following year.
func (c *Calendar) window(year int) []Deadline {
	return append(c.All(year), c.All(year+1)...)
}

func sortByDate(deadlines []Deadline) {
	sort.Slice(deadlines, func(i, j int) bool { return deadlines[i].Date.Before(deadlines[j].Date) })
}
