package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

// UncategorizedLabel is assigned to peer rows with no stored category.
const UncategorizedLabel = "Uncategorized"

// CategoryLookup resolves a manually assigned category for a peer
// transaction id. It is fed from the categorization progress store.
type CategoryLookup func(id string) (string, bool)

// PeerColumns names the peer-payment statement's columns.
type PeerColumns struct {
	Date   string
	Type   string
	Status string
	Note   string
	From   string
	To     string
	Amount string
	ID     string
}

// DefaultPeerColumns matches the peer-payment statement export format.
func DefaultPeerColumns() PeerColumns {
	return PeerColumns{
		Date:   "Datetime",
		Type:   "Type",
		Status: "Status",
		Note:   "Note",
		From:   "From",
		To:     "To",
		Amount: "Amount (total)",
		ID:     "ID",
	}
}

// PeerAdapter parses raw peer-payment statement exports.
//
// The peer source's native convention is inverted relative to canonical:
// native positive means income. The adapter derives direction by comparing
// the recipient against the configured account owner and applies exactly one
// sign inversion: owner-as-recipient rows become canonical negative (income),
// everything else canonical positive (expense).
type PeerAdapter struct {
	lookup  CategoryLookup
	columns PeerColumns
	owner   string
}

// NewPeerAdapter creates a peer adapter for the given account owner.
// lookup may be nil; rows then keep the UncategorizedLabel source category.
func NewPeerAdapter(owner string, columns PeerColumns, lookup CategoryLookup) *PeerAdapter {
	return &PeerAdapter{columns: columns, owner: owner, lookup: lookup}
}

// Parse reads a peer statement CSV. Only completed payment rows are kept;
// transfers and pending rows are not transactions in the canonical sense.
func (a *PeerAdapter) Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read peer header: %w", err)
	}

	wanted := map[string]string{
		"date":   a.columns.Date,
		"amount": a.columns.Amount,
		"from":   a.columns.From,
		"to":     a.columns.To,
		"id":     a.columns.ID,
	}
	idx, missing := resolveColumns(header, wanted)
	if len(missing) > 0 {
		return Result{}, common.NewSchemaError("peer statement", missing...)
	}
	optional, _ := resolveColumns(header, map[string]string{
		"type":        a.columns.Type,
		"status":      a.columns.Status,
		"description": a.columns.Note,
	})

	var result Result
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping malformed peer row", common.Fields{"error": err})
			continue
		}

		if id := idx.value(row, "id"); id == "" {
			// Statement preamble and balance rows have no id.
			continue
		}
		if txType := optional.value(row, "type"); txType != "" && txType != "Payment" {
			continue
		}
		if status := optional.value(row, "status"); status != "" && status != "Complete" {
			continue
		}

		date, err := parseDate(idx.value(row, "date"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping peer row with unparseable date", common.Fields{
				"value": idx.value(row, "date"),
			})
			continue
		}

		native, err := parseAmount(idx.value(row, "amount"))
		if err != nil {
			result.Skipped++
			common.LogWarn("dropping peer row with non-numeric amount", common.Fields{
				"value": idx.value(row, "amount"),
			})
			continue
		}

		from := idx.value(row, "from")
		to := idx.value(row, "to")

		// Owner as recipient means money arrived: canonical negative.
		var amount decimal.Decimal
		var txType model.TransactionType
		counterparty := to
		if to == a.owner {
			amount = native.Abs().Neg()
			txType = model.TypeCredit
			counterparty = from
		} else {
			amount = native.Abs()
			txType = model.TypeExpense
		}
		if native.IsZero() {
			txType = model.TypeNeutral
		}

		description := optional.value(row, "description")
		if description == "" {
			description = "Peer payment - " + counterparty
		}

		sourceCategory := UncategorizedLabel
		id := idx.value(row, "id")
		if a.lookup != nil {
			if cat, ok := a.lookup(id); ok {
				sourceCategory = cat
			}
		}

		result.Transactions = append(result.Transactions, model.Transaction{
			TransactionDate: date,
			PostDate:        date,
			ID:              id,
			Description:     description,
			SourceCategory:  sourceCategory,
			Amount:          amount,
			Origin:          model.OriginPeer,
			Type:            txType,
		})
	}

	return result, nil
}
