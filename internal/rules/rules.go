// Package rules assigns each transaction a semantic category.
//
// Categorization is an ordered list of (predicate, label) pairs evaluated by
// one generic first-match-wins pass. Rule order is the precedence contract:
// identity-specific matches sit above vendor-brand keyword groups, which sit
// above source-category relabeling, with pass-through as the floor. A
// venue-brand keyword therefore beats a blanket source-category match for
// the same transaction.
package rules

import (
	"strings"

	"github.com/dmaas/tally/internal/model"
)

// DefaultCategory is assigned when a transaction matches no rule and its
// source provided no category either.
const DefaultCategory = "Other"

// Rule maps a predicate over description/source-category to a category
// label. A rule matches when any keyword appears in the uppercased
// description or the source category is an exact member of
// SourceCategories, and no exclude keyword is present.
type Rule struct {
	Name             string
	Category         string
	Keywords         []string
	ExcludeKeywords  []string
	SourceCategories []string
}

// Matches reports whether the rule applies to the transaction.
func (r Rule) Matches(tx model.Transaction) bool {
	desc := strings.ToUpper(tx.Description)

	for _, kw := range r.ExcludeKeywords {
		if strings.Contains(desc, strings.ToUpper(kw)) {
			return false
		}
	}

	for _, kw := range r.Keywords {
		if strings.Contains(desc, strings.ToUpper(kw)) {
			return true
		}
	}
	for _, sc := range r.SourceCategories {
		if tx.SourceCategory == sc {
			return true
		}
	}
	return false
}

// Apply evaluates the rules in order against one transaction and returns its
// category. No match falls back to the source category, then DefaultCategory.
// The result is never empty.
func Apply(tx model.Transaction, rules []Rule) string {
	for _, rule := range rules {
		if rule.Matches(tx) {
			return rule.Category
		}
	}
	if tx.SourceCategory != "" {
		return tx.SourceCategory
	}
	return DefaultCategory
}

// Categorize returns a new sequence with every transaction's Category
// assigned. The input is not mutated.
func Categorize(txns []model.Transaction, rules []Rule) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, tx := range txns {
		tx.Category = Apply(tx, rules)
		out[i] = tx
	}
	return out
}
