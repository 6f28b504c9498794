package progress

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmaas/tally/internal/model"
)

// Export writes the categorized peer transactions as CSV, one row per peer
// transaction with a recorded assignment. Amounts are written back in the
// peer-native sign convention (positive = income) so the export round-trips
// through the categorized peer adapter.
func (s *Store) Export(ctx context.Context, w io.Writer, txns []model.Transaction) (int, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Description", "Amount", "Category", "Original_ID"}); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}

	written := 0
	for _, tx := range txns {
		if tx.Origin != model.OriginPeer {
			continue
		}
		category, ok := categories[tx.ID]
		if !ok {
			continue
		}
		row := []string{
			tx.TransactionDate.Format("2006-01-02"),
			tx.Description,
			tx.Amount.Neg().String(),
			category,
			tx.ID,
		}
		if err := writer.Write(row); err != nil {
			return written, fmt.Errorf("failed to write export row: %w", err)
		}
		written++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return written, fmt.Errorf("failed to flush export: %w", err)
	}
	return written, nil
}
