// Package budget projects spending against a date-bounded income window.
//
// A fixed periodic cost (rent) is smoothed linearly across the window
// instead of being attributed to its actual payment dates, so the burndown
// does not jump on the first of the month. The projector is a pure
// calculation: "today" is an input, not a clock read.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/model"
)

// Window is the read-only budget input. It is not derived from the ledger.
type Window struct {
	Start        time.Time
	End          time.Time
	PeriodicCost decimal.Decimal
	IncomeBudget decimal.Decimal
}

// Days returns the inclusive day count between Start and End.
func (w Window) Days() int {
	return int(day(w.End).Sub(day(w.Start)).Hours()/24) + 1
}

// Predicate identifies the periodic cost's literal transactions so their
// actual payments are not double counted against the smooth allocation.
type Predicate func(model.Transaction) bool

// KeywordPredicate matches positive-amount transactions whose description
// contains any of the given keywords, case-insensitively.
func KeywordPredicate(keywords []string) Predicate {
	return func(tx model.Transaction) bool {
		return tx.Amount.IsPositive() && model.ContainsMarker(tx.Description, keywords)
	}
}

// BurndownPoint is one day of the burndown series. ActualRemaining is nil
// for days after "today".
type BurndownPoint struct {
	Date            time.Time
	IdealRemaining  decimal.Decimal
	ActualRemaining *decimal.Decimal
}

// Projection is the full budget state as of "today".
type Projection struct {
	WindowDays    int
	ElapsedDays   int
	RemainingDays int

	DailyPeriodicRate     decimal.Decimal
	AllocatedPeriodicCost decimal.Decimal
	NonPeriodicExpense    decimal.Decimal
	IncomeReceived        decimal.Decimal
	ActualNetSpend        decimal.Decimal
	RemainingBudget       decimal.Decimal
	ProjectedDailyRate    decimal.Decimal
	ProjectedEndTotal     decimal.Decimal

	Series []BurndownPoint
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Project computes the budget burndown for the window given a ledger that
// still contains the periodic cost's actual payments; isPeriodic excludes
// them from direct spend in favor of the smooth allocation.
func Project(txns []model.Transaction, w Window, isPeriodic Predicate, today time.Time) Projection {
	if isPeriodic == nil {
		isPeriodic = func(model.Transaction) bool { return false }
	}

	start, end, now := day(w.Start), day(w.End), day(today)
	windowDays := w.Days()

	elapsed := int(now.Sub(start).Hours()/24) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > windowDays {
		elapsed = windowDays
	}
	remaining := windowDays - elapsed

	p := Projection{
		WindowDays:        windowDays,
		ElapsedDays:       elapsed,
		RemainingDays:     remaining,
		DailyPeriodicRate: w.PeriodicCost.Div(decimal.NewFromInt(int64(windowDays))),
	}
	p.AllocatedPeriodicCost = p.DailyPeriodicRate.Mul(decimal.NewFromInt(int64(elapsed)))

	// Direct spend and income within the window, up to today. Card-payment
	// rows never count; periodic-cost payments count only via the smooth
	// allocation.
	dailyNet := make(map[time.Time]decimal.Decimal)
	for _, tx := range txns {
		d := day(tx.TransactionDate)
		if d.Before(start) || d.After(end) || tx.Type == model.TypeCreditCardPayment {
			continue
		}
		if isPeriodic(tx) {
			continue
		}
		dailyNet[d] = dailyNet[d].Add(tx.Amount)

		if d.After(now) {
			continue
		}
		switch {
		case tx.Amount.IsPositive():
			p.NonPeriodicExpense = p.NonPeriodicExpense.Add(tx.Amount)
		case tx.Amount.IsNegative():
			p.IncomeReceived = p.IncomeReceived.Add(tx.Amount.Abs())
		}
	}

	p.ActualNetSpend = p.NonPeriodicExpense.Add(p.AllocatedPeriodicCost).Sub(p.IncomeReceived)
	p.RemainingBudget = w.IncomeBudget.Sub(p.ActualNetSpend)

	divisor := elapsed
	if divisor < 1 {
		divisor = 1
	}
	p.ProjectedDailyRate = p.ActualNetSpend.Div(decimal.NewFromInt(int64(divisor)))
	p.ProjectedEndTotal = p.ActualNetSpend.Add(p.ProjectedDailyRate.Mul(decimal.NewFromInt(int64(remaining))))

	p.Series = burndown(w, dailyNet, p.DailyPeriodicRate, start, end, now)
	return p
}

// burndown builds the day-indexed remaining-budget series: an ideal linear
// burn and the actual cumulative burn with the smooth allocation applied,
// nil for days still in the future.
func burndown(w Window, dailyNet map[time.Time]decimal.Decimal, dailyRate decimal.Decimal, start, end, now time.Time) []BurndownPoint {
	windowDays := w.Days()
	idealDailyBurn := w.IncomeBudget.Div(decimal.NewFromInt(int64(windowDays)))

	series := make([]BurndownPoint, 0, windowDays)
	running := decimal.Zero
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		daysIn := int(d.Sub(start).Hours() / 24)
		ideal := w.IncomeBudget.Sub(idealDailyBurn.Mul(decimal.NewFromInt(int64(daysIn))))
		if ideal.IsNegative() {
			ideal = decimal.Zero
		}

		point := BurndownPoint{Date: d, IdealRemaining: ideal}
		if !d.After(now) {
			running = running.Add(dailyNet[d]).Add(dailyRate)
			remaining := w.IncomeBudget.Sub(running)
			point.ActualRemaining = &remaining
		}
		series = append(series, point)
	}
	return series
}
