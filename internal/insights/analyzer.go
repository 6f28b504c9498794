package insights

import (
	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/ledger"
)

// Analyzer memoizes aggregations over one ledger. The memo is keyed on the
// ledger revision, so a category override through the ledger invalidates it
// without any coupling between the two packages.
type Analyzer struct {
	led           *ledger.Ledger
	netByCategory map[string]decimal.Decimal
	totals        Totals
	summary       Summary
	rev           uint64
	fresh         bool
}

// NewAnalyzer wraps a ledger for cached aggregation.
func NewAnalyzer(led *ledger.Ledger) *Analyzer {
	return &Analyzer{led: led}
}

func (a *Analyzer) refresh() {
	if a.fresh && a.rev == a.led.Revision() {
		return
	}
	txns := a.led.Transactions()
	a.netByCategory = NetByCategory(txns)
	a.totals = ComputeTotals(txns)
	a.summary = Summarize(txns)
	a.rev = a.led.Revision()
	a.fresh = true
}

// NetByCategory returns the cached per-category net sums.
func (a *Analyzer) NetByCategory() map[string]decimal.Decimal {
	a.refresh()
	return a.netByCategory
}

// Totals returns the cached expense/income split.
func (a *Analyzer) Totals() Totals {
	a.refresh()
	return a.totals
}

// Summary returns the cached headline figures.
func (a *Analyzer) Summary() Summary {
	a.refresh()
	return a.summary
}
