// Package model defines the core data structures for the tally application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Origin identifies which source adapter produced a transaction.
type Origin string

const (
	// OriginCard marks rows parsed from a card-statement export.
	OriginCard Origin = "card"
	// OriginPeer marks rows parsed from a peer-payment export.
	OriginPeer Origin = "peer"
)

// TransactionType classifies a transaction by its sign and description.
type TransactionType string

const (
	// TypeExpense is any positive-amount transaction.
	TypeExpense TransactionType = "Expense"
	// TypeCreditCardPayment is a negative-amount card row whose description
	// matches a payment marker. Never counted as income.
	TypeCreditCardPayment TransactionType = "CreditCardPayment"
	// TypeCredit is any other negative-amount transaction (refunds, income).
	TypeCredit TransactionType = "Credit"
	// TypeNeutral is a zero-amount transaction: neither expense nor income,
	// it carries a category only.
	TypeNeutral TransactionType = "Neutral"
)

// DefaultPaymentMarkers returns the description substrings that identify
// credit-card bill payments.
func DefaultPaymentMarkers() []string {
	return []string{"INTERNET PAYMENT", "PAYMENT - THANK YOU", "DIRECTPAY"}
}

// Transaction is the canonical unit after normalization.
//
// Amount carries the single canonical sign convention: positive means money
// left the owner's pocket, negative means money entered it. Every adapter
// transforms its native convention into this one before a row enters the
// ledger.
type Transaction struct {
	TransactionDate time.Time
	PostDate        time.Time
	ID              string
	Description     string
	SourceCategory  string
	Category        string
	Amount          decimal.Decimal
	Origin          Origin
	Type            TransactionType
}

// Month returns the calendar month of the transaction date as "2006-01".
// Derived deterministically from TransactionDate; never stored.
func (t Transaction) Month() string {
	return t.TransactionDate.Format("2006-01")
}

// DayOfWeek returns the weekday of the transaction date.
func (t Transaction) DayOfWeek() time.Weekday {
	return t.TransactionDate.Weekday()
}

// GenerateID creates a stable identifier for sources that provide none.
func (t *Transaction) GenerateID() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.TransactionDate.Format("2006-01-02"),
		t.Amount.String(),
		t.Description,
		t.Origin)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}

// ContainsMarker reports whether the description contains any of the given
// payment markers, case-insensitively.
func ContainsMarker(description string, markers []string) bool {
	upper := strings.ToUpper(description)
	for _, m := range markers {
		if m != "" && strings.Contains(upper, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}

// ClassifyType derives the TransactionType from the canonical amount and
// description.
func ClassifyType(amount decimal.Decimal, description string, markers []string) TransactionType {
	switch {
	case amount.IsPositive():
		return TypeExpense
	case amount.IsZero():
		return TypeNeutral
	case ContainsMarker(description, markers):
		return TypeCreditCardPayment
	default:
		return TypeCredit
	}
}
