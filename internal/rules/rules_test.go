package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaas/tally/internal/model"
)

func tx(description, sourceCategory string) model.Transaction {
	return model.Transaction{Description: description, SourceCategory: sourceCategory}
}

func TestApply_DefaultRules(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name           string
		description    string
		sourceCategory string
		want           string
	}{
		{
			name:        "housing literal",
			description: "NASAAMESEXCHANGEL RENT JUNE",
			want:        "Housing",
		},
		{
			name:           "brand keyword beats source category",
			description:    "STARBUCKS #123",
			sourceCategory: "Restaurants",
			want:           "Coffee & Cafes",
		},
		{
			name:           "source category fallback within restaurants rule",
			description:    "LOCAL DINER",
			sourceCategory: "Restaurants",
			want:           "Restaurants & Dining",
		},
		{
			name:        "fast food keyword",
			description: "CHIPOTLE 0455",
			want:        "Restaurants & Dining",
		},
		{
			name:        "education excludes the housing literal",
			description: "NASA GIFT SHOP",
			want:        "Education/Work",
		},
		{
			name:        "housing literal never reaches the education rule",
			description: "NASAAMESEXCHANGEL",
			want:        "Housing",
		},
		{
			name:        "tech subscription",
			description: "OPENAI *CHATGPT SUBSCR",
			want:        "Tech & Software",
		},
		{
			name:        "rideshare",
			description: "UBER TRIP 8841",
			want:        "Transportation",
		},
		{
			name:        "airline",
			description: "UNITED AIRLINES 01672",
			want:        "Air Travel",
		},
		{
			name:        "gas brand",
			description: "CHEVRON 0091823",
			want:        "Gas & Fuel",
		},
		{
			name:           "grocery source category",
			description:    "CORNER MARKET",
			sourceCategory: "Supermarkets",
			want:           "Groceries & Supermarkets",
		},
		{
			name:           "cosmetic rename of travel category",
			description:    "SOME VENUE",
			sourceCategory: "Travel/ Entertainment",
			want:           "Travel & Entertainment",
		},
		{
			name:           "cosmetic rename of rebates category",
			description:    "CASHBACK BONUS",
			sourceCategory: "Awards and Rebate Credits",
			want:           "Cashback & Credits",
		},
		{
			name:           "pass-through of unknown source category",
			description:    "SOMETHING ELSE",
			sourceCategory: "Department Stores",
			want:           "Department Stores",
		},
		{
			name:        "no match and no source category",
			description: "MYSTERY CHARGE",
			want:        DefaultCategory,
		},
		{
			name:        "keyword matching is case-insensitive",
			description: "safeway store 99",
			want:        "Groceries & Supermarkets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tx(tt.description, tt.sourceCategory), rules)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorize_Totality(t *testing.T) {
	txns := []model.Transaction{
		tx("STARBUCKS #123", "Restaurants"),
		tx("LOCAL DINER", "Restaurants"),
		tx("MYSTERY", ""),
		tx("", ""),
	}

	out := Categorize(txns, DefaultRules())

	require.Len(t, out, len(txns))
	for _, got := range out {
		assert.NotEmpty(t, got.Category, "every transaction must end with a category")
	}
	// Input is not mutated.
	for _, in := range txns {
		assert.Empty(t, in.Category)
	}
}

func TestCategorize_BrandPrecedenceScenario(t *testing.T) {
	// Two restaurant-tagged rows: the branded one lands in the coffee
	// category, the generic one falls through to the source-category rule.
	out := Categorize([]model.Transaction{
		tx("STARBUCKS #123", "Restaurants"),
		tx("LOCAL DINER", "Restaurants"),
	}, DefaultRules())

	assert.Equal(t, "Coffee & Cafes", out[0].Category)
	assert.Equal(t, "Restaurants & Dining", out[1].Category)
}

func TestRule_EmptyPredicatesNeverMatch(t *testing.T) {
	empty := Rule{Name: "empty", Category: "X"}
	assert.False(t, empty.Matches(tx("ANYTHING", "Anything")))
}
