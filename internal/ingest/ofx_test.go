package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaas/tally/internal/model"
)

const sampleCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250615120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20250601120000[0:GMT]
<DTEND>20250614120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250603120000[0:GMT]
<TRNAMT>-25.50
<FITID>2025060301
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250610120000[0:GMT]
<TRNAMT>200.00
<FITID>2025061001
<NAME>INTERNET PAYMENT - THANK YOU
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20250614120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestOFXAdapter_Parse(t *testing.T) {
	adapter := NewOFXAdapter(testMarkers)

	result, err := adapter.Parse(strings.NewReader(sampleCardOFX))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	purchase := result.Transactions[0]
	assert.Equal(t, "2025060301", purchase.ID)
	assert.Equal(t, "STARBUCKS STORE #1234", purchase.Description)
	// OFX debit -25.50 becomes canonical positive 25.5.
	assert.Equal(t, "25.5", purchase.Amount.String())
	assert.Equal(t, model.TypeExpense, purchase.Type)
	assert.Equal(t, model.OriginCard, purchase.Origin)

	payment := result.Transactions[1]
	assert.Equal(t, "-200", payment.Amount.String())
	assert.Equal(t, model.TypeCreditCardPayment, payment.Type)
}

func TestOFXAdapter_Parse_Garbage(t *testing.T) {
	adapter := NewOFXAdapter(testMarkers)

	_, err := adapter.Parse(strings.NewReader("not an ofx file"))
	require.Error(t, err)
}
