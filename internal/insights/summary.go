package insights

import (
	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/model"
)

// Summary holds the headline figures for the insight report.
type Summary struct {
	Totals               Totals
	TotalTransactions    int
	AverageTransaction   decimal.Decimal
	LargestExpense       *model.Transaction
	LargestIncome        *model.Transaction
	MostFrequentMerchant string
	TopExpenseCategory   string
	TopRevenueCategory   string
	HighestNetMonth      string
	HighestNetWeekday    string
}

// Summarize computes the headline insight figures. Empty ledgers produce a
// zero-valued summary; ratios with zero denominators short-circuit to zero.
func Summarize(txns []model.Transaction) Summary {
	s := Summary{Totals: ComputeTotals(txns)}

	var counted int
	var sum decimal.Decimal
	merchantFreq := make(map[string]int)
	for i, tx := range txns {
		if !countable(tx) {
			continue
		}
		counted++
		sum = sum.Add(tx.Amount)

		if tx.Amount.IsPositive() {
			merchantFreq[tx.Description]++
			if s.LargestExpense == nil || tx.Amount.GreaterThan(s.LargestExpense.Amount) {
				s.LargestExpense = &txns[i]
			}
		}
		if tx.Amount.IsNegative() {
			if s.LargestIncome == nil || tx.Amount.LessThan(s.LargestIncome.Amount) {
				s.LargestIncome = &txns[i]
			}
		}
	}
	s.TotalTransactions = counted
	if counted > 0 {
		s.AverageTransaction = sum.Div(decimal.NewFromInt(int64(counted)))
	}

	best := 0
	for _, tx := range txns {
		if n := merchantFreq[tx.Description]; tx.Amount.IsPositive() && countable(tx) && n > best {
			best = n
			s.MostFrequentMerchant = tx.Description
		}
	}

	for _, row := range CategorySummary(txns) {
		if row.Total.IsPositive() && s.TopExpenseCategory == "" {
			s.TopExpenseCategory = row.Category
		}
		if row.Total.IsNegative() {
			// Rows are ranked descending, so the last negative row seen is
			// the largest net income source.
			s.TopRevenueCategory = row.Category
		}
	}

	var bestMonth decimal.Decimal
	for _, row := range MonthlySummary(txns) {
		if s.HighestNetMonth == "" || row.Net.GreaterThan(bestMonth) {
			s.HighestNetMonth = row.Month
			bestMonth = row.Net
		}
	}

	var bestDay decimal.Decimal
	for _, wd := range ByDayOfWeek(txns) {
		if s.HighestNetWeekday == "" || wd.Net.GreaterThan(bestDay) {
			s.HighestNetWeekday = wd.Day.String()
			bestDay = wd.Net
		}
	}
	if counted == 0 {
		s.HighestNetMonth = ""
		s.HighestNetWeekday = ""
	}

	return s
}
