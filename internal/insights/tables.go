package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/model"
)

// TransactionRow is one row of the flat transaction table. Plain data, no
// formatting, so any downstream renderer can consume it.
type TransactionRow struct {
	Date        time.Time
	PostDate    time.Time
	ID          string
	Description string
	Category    string
	Origin      model.Origin
	Amount      decimal.Decimal
}

// TransactionTable flattens the ledger for export.
func TransactionTable(txns []model.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txns))
	for _, tx := range txns {
		rows = append(rows, TransactionRow{
			Date:        tx.TransactionDate,
			PostDate:    tx.PostDate,
			ID:          tx.ID,
			Description: tx.Description,
			Category:    tx.Category,
			Origin:      tx.Origin,
			Amount:      tx.Amount,
		})
	}
	return rows
}

// CategorySummaryRow is one row of the category summary table.
type CategorySummaryRow struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CategorySummary returns per-category net totals and counts, ranked by net
// descending. Net-income categories sort to the bottom rather than being
// mixed into the expense ranking.
func CategorySummary(txns []model.Transaction) []CategorySummaryRow {
	counts := make(map[string]int)
	for _, tx := range txns {
		if countable(tx) {
			counts[tx.Category]++
		}
	}

	net := NetByCategory(txns)
	rows := make([]CategorySummaryRow, 0, len(net))
	for category, total := range net {
		rows = append(rows, CategorySummaryRow{
			Category: category,
			Total:    total,
			Count:    counts[category],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// MonthlySummaryRow is one row of the monthly summary table.
type MonthlySummaryRow struct {
	Month   string
	Expense decimal.Decimal
	Income  decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// MonthlySummary returns per-month totals in chronological order.
func MonthlySummary(txns []model.Transaction) []MonthlySummaryRow {
	byMonth := make(map[string]*MonthlySummaryRow)
	for _, tx := range txns {
		if !countable(tx) {
			continue
		}
		row, ok := byMonth[tx.Month()]
		if !ok {
			row = &MonthlySummaryRow{Month: tx.Month()}
			byMonth[tx.Month()] = row
		}
		switch {
		case tx.Amount.IsPositive():
			row.Expense = row.Expense.Add(tx.Amount)
		case tx.Amount.IsNegative():
			row.Income = row.Income.Add(tx.Amount.Abs())
		}
		row.Net = row.Expense.Sub(row.Income)
		row.Count++
	}

	rows := make([]MonthlySummaryRow, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}
