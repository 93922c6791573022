package service

import (
	"fmt"

	"fiscal/internal/calendar"
	"fiscal/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeadlineSource is the narrow view of the fiscal calendar the aggregator
// needs: the next due date for a filing frequency, or nil when none is
// known.
type DeadlineSource interface {
	NextForType(deadlineType string) *calendar.Deadline
}

// --- Interface ---

type SummaryService interface {
	// Summarize folds a transaction set into period-level remittance
	// figures. Transactions with malformed amounts are skipped and
	// counted; transfers are ignored.
	Summarize(transactions []model.Transaction) (model.TaxSummary, error)
	// DetermineObligations derives remittance obligations from a summary.
	// Obligations are recomputed fresh on every call.
	DetermineObligations(summary model.TaxSummary) []model.Obligation
	// Analyze runs both steps.
	Analyze(transactions []model.Transaction) (model.TaxSummary, []model.Obligation, error)
}

type summaryService struct {
	tax       TaxService
	deadlines DeadlineSource
}

func NewSummaryService(tax TaxService, deadlines DeadlineSource) SummaryService {
	return &summaryService{tax: tax, deadlines: deadlines}
}

// --- Implementation ---

func (s *summaryService) Summarize(transactions []model.Transaction) (model.TaxSummary, error) {
	var summary model.TaxSummary
	summary.TotalRevenue = decimal.Zero
	summary.TotalExpenses = decimal.Zero
	gstCollected, gstPaid := decimal.Zero, decimal.Zero
	qstCollected, qstPaid := decimal.Zero, decimal.Zero

	for _, tx := range transactions {
		amount, err := tx.DecimalAmount()
		if err != nil {
			summary.SkippedTransactions++
			continue
		}

		switch tx.Type {
		case model.TransactionRevenue:
			taxes, err := s.tax.CalculateCombined(amount, false)
			if err != nil {
				return model.TaxSummary{}, fmt.Errorf("failed to compute taxes on revenue: %w", err)
			}
			summary.TotalRevenue = summary.TotalRevenue.Add(amount)
			gstCollected = gstCollected.Add(taxes.GST.TaxAmount)
			qstCollected = qstCollected.Add(taxes.QST.TaxAmount)
		case model.TransactionExpense:
			taxes, err := s.tax.CalculateCombined(amount, false)
			if err != nil {
				return model.TaxSummary{}, fmt.Errorf("failed to compute taxes on expense: %w", err)
			}
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
			gstPaid = gstPaid.Add(taxes.GST.TaxAmount)
			qstPaid = qstPaid.Add(taxes.QST.TaxAmount)
		default:
			// Transfers and unknown types carry no sales tax impact.
		}
	}

	summary.NetIncome = summary.TotalRevenue.Sub(summary.TotalExpenses)
	summary.GSTCollected = gstCollected
	summary.GSTPaid = gstPaid
	summary.GSTRemittance = gstCollected.Sub(gstPaid)
	summary.QSTCollected = qstCollected
	summary.QSTPaid = qstPaid
	summary.QSTRemittance = qstCollected.Sub(qstPaid)
	summary.TotalRemittance = summary.GSTRemittance.Add(summary.QSTRemittance)
	return summary, nil
}

func (s *summaryService) DetermineObligations(summary model.TaxSummary) []model.Obligation {
	obligations := []model.Obligation{}

	if !summary.GSTRemittance.IsZero() {
		obligations = append(obligations, model.Obligation{
			ID:           uuid.New(),
			Type:         model.ObligationGSTRemittance,
			Description:  "GST remittance",
			Amount:       summary.GSTRemittance,
			Deadline:     s.nextFilingDeadline(),
			Jurisdiction: model.JurisdictionCA,
			Priority:     "high",
		})
	}

	if !summary.QSTRemittance.IsZero() {
		obligations = append(obligations, model.Obligation{
			ID:           uuid.New(),
			Type:         model.ObligationQSTRemittance,
			Description:  "QST remittance",
			Amount:       summary.QSTRemittance,
			Deadline:     s.nextFilingDeadline(),
			Jurisdiction: model.JurisdictionQC,
			Priority:     "high",
		})
	}

	return obligations
}

func (s *summaryService) Analyze(transactions []model.Transaction) (model.TaxSummary, []model.Obligation, error) {
	summary, err := s.Summarize(transactions)
	if err != nil {
		return model.TaxSummary{}, nil, err
	}
	return summary, s.DetermineObligations(summary), nil
}

func (s *summaryService) nextFilingDeadline() *model.Date {
	if s.deadlines == nil {
		return nil
	}
	next := s.deadlines.NextForType(calendar.TypeQuarterly)
	if next == nil {
		return nil
	}
	d := model.DateOf(next.Date)
	return &d
}
