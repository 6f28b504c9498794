package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

const samplePeerCSV = `ID,Datetime,Type,Status,Note,From,To,Amount (total)
3001,2025-06-02 14:30:00,Payment,Complete,June groceries split,Alex Rivera,Jordan Blake,+ $30.00
3002,2025-06-03 09:15:00,Payment,Complete,Concert tickets,Jordan Blake,Sam Ortiz,- $45.00
3003,2025-06-04 18:00:00,Standard Transfer,Issued,,Jordan Blake,,- $100.00
3004,2025-06-05 11:00:00,Payment,Pending,Dinner,Jordan Blake,Alex Rivera,- $20.00
`

func TestPeerAdapter_Parse_SignConvention(t *testing.T) {
	adapter := NewPeerAdapter("Jordan Blake", DefaultPeerColumns(), nil)

	result, err := adapter.Parse(strings.NewReader(samplePeerCSV))
	require.NoError(t, err)
	// Transfer and pending rows are excluded outright.
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, 0, result.Skipped)

	incoming := result.Transactions[0]
	assert.Equal(t, "3001", incoming.ID)
	assert.Equal(t, "June groceries split", incoming.Description)
	// Owner is the recipient: native +30 becomes canonical -30.
	assert.Equal(t, "-30", incoming.Amount.String())
	assert.Equal(t, model.TypeCredit, incoming.Type)
	assert.Equal(t, model.OriginPeer, incoming.Origin)

	outgoing := result.Transactions[1]
	assert.Equal(t, "3002", outgoing.ID)
	// Owner paid someone: canonical positive expense.
	assert.Equal(t, "45", outgoing.Amount.String())
	assert.Equal(t, model.TypeExpense, outgoing.Type)
}

func TestPeerAdapter_Parse_CategoryLookup(t *testing.T) {
	lookup := func(id string) (string, bool) {
		if id == "3001" {
			return "Groceries & Supermarkets", true
		}
		return "", false
	}
	adapter := NewPeerAdapter("Jordan Blake", DefaultPeerColumns(), lookup)

	result, err := adapter.Parse(strings.NewReader(samplePeerCSV))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "Groceries & Supermarkets", result.Transactions[0].SourceCategory)
	assert.Equal(t, UncategorizedLabel, result.Transactions[1].SourceCategory)
}

func TestPeerAdapter_Parse_MissingColumns(t *testing.T) {
	csv := `ID,Datetime,Note
1,2025-06-01,hello
`
	adapter := NewPeerAdapter("Jordan Blake", DefaultPeerColumns(), nil)

	_, err := adapter.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
}

func TestPeerAdapter_Parse_FallbackDescription(t *testing.T) {
	csv := `ID,Datetime,Type,Status,Note,From,To,Amount (total)
4001,2025-06-06 10:00:00,Payment,Complete,,Jordan Blake,Casey Wu,- $12.00
`
	adapter := NewPeerAdapter("Jordan Blake", DefaultPeerColumns(), nil)

	result, err := adapter.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Peer payment - Casey Wu", result.Transactions[0].Description)
}

func TestCategorizedPeerAdapter_Parse(t *testing.T) {
	csv := `Date,Description,Amount,Category,Other_Party,Transaction_Type,Source,Original_ID
2025-06-02,June groceries split,30.00,Groceries & Supermarkets,Alex Rivera,Income,Venmo,3001
2025-06-03,Concert tickets,-45.00,Travel & Entertainment,Sam Ortiz,Expense,Venmo,3002
`
	adapter := NewCategorizedPeerAdapter(DefaultCategorizedPeerColumns())

	result, err := adapter.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	income := result.Transactions[0]
	assert.Equal(t, "3001", income.ID)
	assert.Equal(t, "-30", income.Amount.String(), "native income flips to canonical negative")
	assert.Equal(t, "Groceries & Supermarkets", income.SourceCategory)

	expense := result.Transactions[1]
	assert.Equal(t, "45", expense.Amount.String(), "native expense flips to canonical positive")
	assert.Equal(t, model.TypeExpense, expense.Type)
}
