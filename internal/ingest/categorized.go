package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

// CategorizedPeerColumns names the columns of the manual categorizer's
// export, the CSV produced by `tally progress export`.
type CategorizedPeerColumns struct {
	Date        string
	Description string
	Amount      string
	Category    string
	ID          string
}

// DefaultCategorizedPeerColumns matches the progress export format.
func DefaultCategorizedPeerColumns() CategorizedPeerColumns {
	return CategorizedPeerColumns{
		Date:        "Date",
		Description: "Description",
		Amount:      "Amount",
		Category:    "Category",
		ID:          "Original_ID",
	}
}

// CategorizedPeerAdapter parses peer transactions that already carry a
// manually assigned category. Amounts still use the peer-native sign
// convention (positive = income) and are inverted exactly once here.
type CategorizedPeerAdapter struct {
	columns CategorizedPeerColumns
}

// NewCategorizedPeerAdapter creates an adapter for categorized peer exports.
func NewCategorizedPeerAdapter(columns CategorizedPeerColumns) *CategorizedPeerAdapter {
	return &CategorizedPeerAdapter{columns: columns}
}

// Parse reads a categorized peer CSV and returns canonical transactions.
func (a *CategorizedPeerAdapter) Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read categorized peer header: %w", err)
	}

	wanted := map[string]string{
		"date":        a.columns.Date,
		"description": a.columns.Description,
		"amount":      a.columns.Amount,
		"category":    a.columns.Category,
	}
	idx, missing := resolveColumns(header, wanted)
	if len(missing) > 0 {
		return Result{}, common.NewSchemaError("categorized peer export", missing...)
	}
	optional, _ := resolveColumns(header, map[string]string{"id": a.columns.ID})

	var result Result
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping malformed categorized peer row", common.Fields{"error": err})
			continue
		}

		date, err := parseDate(idx.value(row, "date"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping categorized peer row with unparseable date", common.Fields{
				"value": idx.value(row, "date"),
			})
			continue
		}

		native, err := parseAmount(idx.value(row, "amount"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping categorized peer row with non-numeric amount", common.Fields{
				"value": idx.value(row, "amount"),
			})
			continue
		}

		// Native positive = income; flip once into the canonical convention.
		amount := native.Neg()

		tx := model.Transaction{
			TransactionDate: date,
			PostDate:        date,
			ID:              optional.value(row, "id"),
			Description:     idx.value(row, "description"),
			SourceCategory:  idx.value(row, "category"),
			Amount:          amount,
			Origin:          model.OriginPeer,
			Type:            model.ClassifyType(amount, idx.value(row, "description"), nil),
		}
		if tx.ID == "" {
			tx.ID = tx.GenerateID()
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}
