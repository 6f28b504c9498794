// Package insights computes read-only aggregations over a categorized
// ledger.
//
// All monetary accumulation uses decimal arithmetic with no mid-pipeline
// rounding; formatting is the presentation layer's problem. Credit-card
// payment rows are excluded from every sum here even though the
// canonicalizer already filters them, so one slipping through can never be
// counted as income.
package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/model"
)

// Totals is the ledger-wide expense/income split.
type Totals struct {
	// TotalExpense is the sum of positive amounts.
	TotalExpense decimal.Decimal
	// TotalIncome is the absolute sum of negative amounts, excluding
	// credit-card payment rows.
	TotalIncome decimal.Decimal
	// Net is TotalExpense - TotalIncome.
	Net decimal.Decimal
}

// PeriodUnit selects the grouping granularity for ByPeriod.
type PeriodUnit string

const (
	// PeriodDay groups by calendar date.
	PeriodDay PeriodUnit = "day"
	// PeriodMonth groups by calendar month.
	PeriodMonth PeriodUnit = "month"
)

// countable reports whether a row participates in monetary aggregation.
func countable(tx model.Transaction) bool {
	return tx.Type != model.TypeCreditCardPayment
}

// NetByCategory group-sums amounts by category. A negative net total means
// the category is a net income source; ranked views must surface those
// separately instead of silently netting them against expense categories.
func NetByCategory(txns []model.Transaction) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		if !countable(tx) {
			continue
		}
		net[tx.Category] = net[tx.Category].Add(tx.Amount)
	}
	return net
}

// ComputeTotals splits the ledger into total expense, total income, and net.
// An empty ledger yields zero totals, not an error.
func ComputeTotals(txns []model.Transaction) Totals {
	var t Totals
	for _, tx := range txns {
		if !countable(tx) {
			continue
		}
		switch {
		case tx.Amount.IsPositive():
			t.TotalExpense = t.TotalExpense.Add(tx.Amount)
		case tx.Amount.IsNegative():
			t.TotalIncome = t.TotalIncome.Add(tx.Amount.Abs())
		}
	}
	t.Net = t.TotalExpense.Sub(t.TotalIncome)
	return t
}

// ByPeriod group-sums net amounts by day or month.
func ByPeriod(txns []model.Transaction, unit PeriodUnit) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		if !countable(tx) {
			continue
		}
		var key string
		switch unit {
		case PeriodDay:
			key = tx.TransactionDate.Format("2006-01-02")
		default:
			key = tx.Month()
		}
		net[key] = net[key].Add(tx.Amount)
	}
	return net
}

// WeekdayNet is one day-of-week bucket.
type WeekdayNet struct {
	Day time.Weekday
	Net decimal.Decimal
}

// ByDayOfWeek group-sums net amounts per weekday, Monday through Sunday.
func ByDayOfWeek(txns []model.Transaction) []WeekdayNet {
	sums := make(map[time.Weekday]decimal.Decimal)
	for _, tx := range txns {
		if !countable(tx) {
			continue
		}
		sums[tx.DayOfWeek()] = sums[tx.DayOfWeek()].Add(tx.Amount)
	}

	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	out := make([]WeekdayNet, 0, len(order))
	for _, day := range order {
		out = append(out, WeekdayNet{Day: day, Net: sums[day]})
	}
	return out
}

// MerchantTotal is one merchant's expense total.
type MerchantTotal struct {
	Description string
	Total       decimal.Decimal
	Count       int
}

// TopMerchants ranks merchants by total expense, descending, limited to n.
// Ties keep original ledger order.
func TopMerchants(txns []model.Transaction, n int) []MerchantTotal {
	totals := make(map[string]*MerchantTotal)
	var order []string
	for _, tx := range txns {
		if !countable(tx) || !tx.Amount.IsPositive() {
			continue
		}
		mt, ok := totals[tx.Description]
		if !ok {
			mt = &MerchantTotal{Description: tx.Description}
			totals[tx.Description] = mt
			order = append(order, tx.Description)
		}
		mt.Total = mt.Total.Add(tx.Amount)
		mt.Count++
	}

	ranked := make([]MerchantTotal, 0, len(order))
	for _, desc := range order {
		ranked = append(ranked, *totals[desc])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.GreaterThan(ranked[j].Total)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
