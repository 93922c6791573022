package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"fiscal/internal/model"

	"github.com/shopspring/decimal"
)

// RuleStore is the authoritative in-memory registry of tax rules, keyed by
// name. Reads vastly outnumber writes, so a read-write lock guards the map.
// Rules live for the process lifetime; the only persistence is the JSON
// export/import round trip.
type RuleStore struct {
	mu    sync.RWMutex
	rules map[string]model.TaxRule
	now   func() time.Time
}

// NewRuleStore builds a store seeded with the default Quebec/Canada rule
// set (sales tax rates, registration thresholds, business deductions and
// tax credits).
func NewRuleStore() *RuleStore {
	s := NewEmptyRuleStore()
	for _, r := range defaultRules() {
		s.Add(r)
	}
	return s
}

// NewEmptyRuleStore builds a store with no rules, for imports and tests.
func NewEmptyRuleStore() *RuleStore {
	return &RuleStore{
		rules: make(map[string]model.TaxRule),
		now:   time.Now,
	}
}

// SetClock overrides the store's notion of "today" for date-window checks.
func (s *RuleStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Add inserts or overwrites a rule by name. Duplicate names silently
// replace: last write wins.
func (s *RuleStore) Add(rule model.TaxRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.Name] = rule
}

// Get returns the rule with the exact name, or a NotFoundError.
func (s *RuleStore) Get(name string) (model.TaxRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[name]
	if !ok {
		return model.TaxRule{}, NotFoundError{Name: name}
	}
	return rule, nil
}

// All returns every rule, sorted by name.
func (s *RuleStore) All() []model.TaxRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TaxRule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sortByName(out)
	return out
}

// Count returns the number of registered rules.
func (s *RuleStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Active returns the rules in force today, optionally filtered by
// jurisdiction and category. A rule scoped "both" matches any requested
// jurisdiction; empty filters match everything. Results are sorted by
// name so the order is deterministic.
func (s *RuleStore) Active(jurisdiction model.Jurisdiction, category model.Category) []model.TaxRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	out := make([]model.TaxRule, 0, len(s.rules))
	for _, r := range s.rules {
		if !r.ActiveOn(today) {
			continue
		}
		if jurisdiction != "" && !r.Jurisdiction.Covers(jurisdiction) {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	sortByName(out)
	return out
}

// UpdateValue mutates a rule's value (and optionally its effective date)
// in place. Unknown names return a NotFoundError rather than silently
// no-opping, matching the explicit error semantics of Get.
func (s *RuleStore) UpdateValue(name string, value decimal.Decimal, effectiveDate *model.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[name]
	if !ok {
		return NotFoundError{Name: name}
	}
	rule.Value = value
	if effectiveDate != nil {
		rule.EffectiveDate = effectiveDate
	}
	s.rules[name] = rule
	return nil
}

// Export writes the full rule set as a JSON object keyed by rule name.
// Optional dates serialize as ISO-8601 strings or null; the format round
// trips losslessly through Import.
func (s *RuleStore) Export(w io.Writer) error {
	s.mu.RLock()
	snapshot := make(map[string]model.TaxRule, len(s.rules))
	for name, r := range s.rules {
		snapshot[name] = r
	}
	s.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to export tax rules: %w", err)
	}
	return nil
}

// Import reads a JSON rule set and upserts each rule into the registry.
// Existing rules with the same name are replaced; others are untouched.
// A malformed condition constraint aborts the import before any mutation.
func (s *RuleStore) Import(r io.Reader) error {
	var incoming map[string]model.TaxRule
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return fmt.Errorf("failed to import tax rules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rule := range incoming {
		s.rules[rule.Name] = rule
	}
	return nil
}

// ExportFile exports the rule set to a file path.
func (s *RuleStore) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create rules file: %w", err)
	}
	defer f.Close()

	if err := s.Export(f); err != nil {
		return err
	}
	return f.Close()
}

// ImportFile imports a rule set from a file path.
func (s *RuleStore) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()
	return s.Import(f)
}

func sortByName(rules []model.TaxRule) {
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
}
