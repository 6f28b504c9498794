package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

// CardColumns names the card export's columns for each semantic field.
type CardColumns struct {
	Date        string
	PostDate    string
	Description string
	Amount      string
	Category    string
}

// DefaultCardColumns matches the card-statement export format.
func DefaultCardColumns() CardColumns {
	return CardColumns{
		Date:        "Trans. Date",
		PostDate:    "Post Date",
		Description: "Description",
		Amount:      "Amount",
		Category:    "Category",
	}
}

// CardAdapter parses card-statement CSV exports.
//
// The card source already uses the canonical sign convention (positive =
// expense), so no inversion is applied. Negative rows whose description
// contains a payment marker are classified as credit-card payments.
type CardAdapter struct {
	columns CardColumns
	markers []string
}

// NewCardAdapter creates a card adapter with the given payment markers.
func NewCardAdapter(markers []string, columns CardColumns) *CardAdapter {
	return &CardAdapter{columns: columns, markers: markers}
}

// Parse reads a card CSV and returns canonical transactions. Rows with
// unparseable dates or amounts are dropped and counted; a missing required
// column aborts the whole file with a SchemaError.
func (a *CardAdapter) Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read card header: %w", err)
	}

	wanted := map[string]string{
		"date":        a.columns.Date,
		"description": a.columns.Description,
		"amount":      a.columns.Amount,
		"category":    a.columns.Category,
	}
	idx, missing := resolveColumns(header, wanted)
	if len(missing) > 0 {
		return Result{}, common.NewSchemaError("card statement", missing...)
	}
	// Post date is optional; it falls back to the transaction date.
	postIdx, _ := resolveColumns(header, map[string]string{"post_date": a.columns.PostDate})

	var result Result
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping malformed card row", common.Fields{"error": err})
			continue
		}

		date, err := parseDate(idx.value(row, "date"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping card row with unparseable date", common.Fields{
				"value": idx.value(row, "date"),
			})
			continue
		}

		amount, err := parseAmount(idx.value(row, "amount"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping card row with non-numeric amount", common.Fields{
				"value": idx.value(row, "amount"),
			})
			continue
		}

		postDate := date
		if raw := postIdx.value(row, "post_date"); raw != "" {
			if parsed, err := parseDate(raw); err == nil {
				postDate = parsed
			}
		}

		description := idx.value(row, "description")
		tx := model.Transaction{
			TransactionDate: date,
			PostDate:        postDate,
			Description:     description,
			SourceCategory:  idx.value(row, "category"),
			Amount:          amount,
			Origin:          model.OriginCard,
			Type:            model.ClassifyType(amount, description, a.markers),
		}
		tx.ID = tx.GenerateID()
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}
