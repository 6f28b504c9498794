package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/model"
)

// OFXAdapter parses OFX/QFX card statements.
//
// OFX uses the opposite sign convention to canonical: debits (money out) are
// native-negative. The adapter inverts once so debits become canonical
// positive expenses and credits become canonical negative.
type OFXAdapter struct {
	markers []string
}

// NewOFXAdapter creates an OFX adapter with the given payment markers.
func NewOFXAdapter(markers []string) *OFXAdapter {
	return &OFXAdapter{markers: markers}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files exported by
// banks: leading blank lines, mixed-case SEVERITY values, and SGML-style
// tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// Parse reads an OFX/QFX statement and returns canonical transactions from
// every bank and credit-card statement it contains.
func (a *OFXAdapter) Parse(r io.Reader) (Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var result Result
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				a.append(&result, ofxTx)
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				a.append(&result, ofxTx)
			}
		}
	}

	common.LogInfo("parsed OFX statement", common.Fields{
		"transactions": len(result.Transactions),
	})
	return result, nil
}

func (a *OFXAdapter) append(result *Result, ofxTx ofxgo.Transaction) {
	native := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)
	amount := native.Neg()

	description := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = strings.TrimSpace(string(ofxTx.Payee.Name))
	}
	if description == "" {
		description = strings.TrimSpace(string(ofxTx.Memo))
	}

	tx := model.Transaction{
		TransactionDate: ofxTx.DtPosted.Time,
		PostDate:        ofxTx.DtPosted.Time,
		ID:              string(ofxTx.FiTID),
		Description:     description,
		Amount:          amount,
		Origin:          model.OriginCard,
		Type:            model.ClassifyType(amount, description, a.markers),
	}
	if tx.ID == "" {
		tx.ID = tx.GenerateID()
	}
	result.Transactions = append(result.Transactions, tx)
}
