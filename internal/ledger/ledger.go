// Package ledger merges adapter outputs into the canonical ledger.
//
// The canonical ledger is the single merged, sign-normalized transaction
// sequence every aggregation reads from. Combine owns the global
// credit-card-payment exclusion filter so its count can be reported as one
// combined figure rather than per adapter.
package ledger

import (
	"sort"
	"time"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

// CombineOptions controls merging and filtering.
type CombineOptions struct {
	// Start and End bound an optional closed date window applied before the
	// payment filter. A nil bound is open on that side.
	Start *time.Time
	End   *time.Time
	// PaymentMarkers identify credit-card bill-pay descriptions.
	PaymentMarkers []string
}

// OriginStats holds pre/post row counts for one origin.
type OriginStats struct {
	Before int
	After  int
}

// CombineStats reports what Combine kept and dropped.
type CombineStats struct {
	ByOrigin         map[model.Origin]OriginStats
	WindowExcluded   int
	PaymentsExcluded int
}

// Combine concatenates adapter outputs into one ledger: stable sort by
// transaction date (ties keep input order), optional date-window filter,
// then the payment exclusion filter, exactly once, after the merge.
func Combine(batches [][]model.Transaction, opts CombineOptions) (*Ledger, CombineStats) {
	stats := CombineStats{ByOrigin: make(map[model.Origin]OriginStats)}

	var merged []model.Transaction
	for _, batch := range batches {
		for _, tx := range batch {
			s := stats.ByOrigin[tx.Origin]
			s.Before++
			stats.ByOrigin[tx.Origin] = s
			merged = append(merged, tx)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TransactionDate.Before(merged[j].TransactionDate)
	})

	if opts.Start != nil || opts.End != nil {
		kept := merged[:0]
		for _, tx := range merged {
			if inWindow(tx.TransactionDate, opts.Start, opts.End) {
				kept = append(kept, tx)
			} else {
				stats.WindowExcluded++
			}
		}
		merged = kept
	}

	var excluded int
	merged, excluded = FilterPayments(merged, opts.PaymentMarkers)
	stats.PaymentsExcluded = excluded

	for _, tx := range merged {
		s := stats.ByOrigin[tx.Origin]
		s.After++
		stats.ByOrigin[tx.Origin] = s
	}

	if excluded > 0 {
		common.LogInfo("filtered credit card payment transactions", common.Fields{
			"excluded": excluded,
		})
	}

	return New(merged), stats
}

// FilterPayments removes card-origin rows that are negative and match a
// payment marker. Running it on already-filtered input removes nothing.
func FilterPayments(txns []model.Transaction, markers []string) ([]model.Transaction, int) {
	kept := make([]model.Transaction, 0, len(txns))
	removed := 0
	for _, tx := range txns {
		if tx.Origin == model.OriginCard && tx.Amount.IsNegative() &&
			model.ContainsMarker(tx.Description, markers) {
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	return kept, removed
}

func inWindow(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}

// Ledger holds the canonical transaction sequence. It is immutable except
// for category assignment; every category change bumps the revision so
// memoized aggregations know to recompute.
type Ledger struct {
	txns []model.Transaction
	rev  uint64
}

// New wraps a transaction slice in a ledger at revision zero.
func New(txns []model.Transaction) *Ledger {
	return &Ledger{txns: txns}
}

// Transactions returns the ledger rows. Callers must treat the slice as
// read-only; category overrides go through SetCategory.
func (l *Ledger) Transactions() []model.Transaction {
	return l.txns
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// Revision returns a counter that changes whenever a category does.
func (l *Ledger) Revision() uint64 {
	return l.rev
}

// SetCategories replaces every row's category with the output of the
// categorizer stage. The input must be the same rows in the same order.
func (l *Ledger) SetCategories(categorized []model.Transaction) {
	l.txns = categorized
	l.rev++
}

// SetCategory overrides a single transaction's category by id. Any cached
// aggregation keyed on Revision is invalidated by the bump.
func (l *Ledger) SetCategory(id, category string) error {
	for i := range l.txns {
		if l.txns[i].ID == id {
			l.txns[i].Category = category
			l.rev++
			return nil
		}
	}
	return common.ErrTransactionNotFound
}
