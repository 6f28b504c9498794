package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

var testMarkers = []string{"INTERNET PAYMENT", "PAYMENT - THANK YOU", "DIRECTPAY"}

const sampleCardCSV = `Trans. Date,Post Date,Description,Amount,Category
06/01/2025,06/02/2025,SAFEWAY #1234 MOUNTAIN VIEW CA,50.00,Supermarkets
06/02/2025,06/03/2025,INTERNET PAYMENT - THANK YOU,-200.00,Payments and Credits
06/03/2025,06/04/2025,AMAZON REFUND,-20.00,Merchandise
06/04/2025,06/05/2025,CARD REPLACEMENT,0.00,Services
`

func TestCardAdapter_Parse(t *testing.T) {
	adapter := NewCardAdapter(testMarkers, DefaultCardColumns())

	result, err := adapter.Parse(strings.NewReader(sampleCardCSV))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)
	assert.Equal(t, 0, result.Skipped)

	grocery := result.Transactions[0]
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), grocery.TransactionDate)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), grocery.PostDate)
	assert.Equal(t, "Supermarkets", grocery.SourceCategory)
	assert.Equal(t, model.OriginCard, grocery.Origin)
	assert.Equal(t, model.TypeExpense, grocery.Type)
	assert.True(t, grocery.Amount.IsPositive(), "card expense keeps canonical positive sign")
	assert.NotEmpty(t, grocery.ID)

	assert.Equal(t, model.TypeCreditCardPayment, result.Transactions[1].Type)
	assert.Equal(t, model.TypeCredit, result.Transactions[2].Type)
	assert.Equal(t, model.TypeNeutral, result.Transactions[3].Type)
}

func TestCardAdapter_Parse_DropsBadRows(t *testing.T) {
	csv := `Trans. Date,Post Date,Description,Amount,Category
not-a-date,06/02/2025,BAD DATE ROW,10.00,Services
06/02/2025,06/03/2025,BAD AMOUNT ROW,ten dollars,Services
06/03/2025,06/04/2025,GOOD ROW,15.00,Services
`
	adapter := NewCardAdapter(testMarkers, DefaultCardColumns())

	result, err := adapter.Parse(strings.NewReader(csv))
	require.NoError(t, err, "bad rows must not abort the parse")
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "GOOD ROW", result.Transactions[0].Description)
}

func TestCardAdapter_Parse_MissingColumns(t *testing.T) {
	csv := `Trans. Date,Description
06/01/2025,NO AMOUNT OR CATEGORY
`
	adapter := NewCardAdapter(testMarkers, DefaultCardColumns())

	_, err := adapter.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)

	var schemaErr *common.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.ElementsMatch(t, []string{"Amount", "Category"}, schemaErr.Missing)
}

func TestCardAdapter_Parse_PostDateDefaultsToTransactionDate(t *testing.T) {
	csv := `Trans. Date,Description,Amount,Category
2025-06-01,NO POST DATE SOURCE,12.50,Services
`
	adapter := NewCardAdapter(testMarkers, DefaultCardColumns())

	result, err := adapter.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	tx := result.Transactions[0]
	assert.Equal(t, tx.TransactionDate, tx.PostDate)
}
