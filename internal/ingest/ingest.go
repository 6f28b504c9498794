// Package ingest parses source exports into canonical transactions.
//
// Each adapter owns one native schema: it resolves the columns it needs,
// normalizes the source's sign convention into the canonical one (positive =
// expense, negative = income), and drops rows it cannot parse while counting
// them for the caller. Missing columns are fatal for that file; bad rows are
// not.
package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/model"
)

// Result is the output of one adapter run.
type Result struct {
	Transactions []model.Transaction
	// Skipped counts rows dropped for unparseable dates or amounts.
	Skipped int
}

// dateLayouts are the accepted transaction-date formats, tried in order.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseAmount parses a monetary string, tolerating the decorations peer
// exports add ("+ $1,234.56").
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", "+", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(cleaned)
}

// columnIndex maps resolved header names to their positions.
type columnIndex map[string]int

// resolveColumns locates each wanted header in the CSV header row. Matching
// is exact after trimming. The returned missing list preserves wanted order
// so SchemaError output is deterministic.
func resolveColumns(header []string, wanted map[string]string) (columnIndex, []string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(h)] = i
	}

	idx := make(columnIndex, len(wanted))
	var missing []string
	for _, field := range sortedFields(wanted) {
		name := wanted[field]
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[field] = pos
	}
	return idx, missing
}

// sortedFields returns the semantic field keys in a fixed, readable order.
func sortedFields(wanted map[string]string) []string {
	order := []string{"date", "post_date", "description", "amount", "category",
		"type", "status", "from", "to", "id"}
	fields := make([]string, 0, len(wanted))
	for _, f := range order {
		if _, ok := wanted[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

func (c columnIndex) value(row []string, field string) string {
	pos, ok := c[field]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
