// Package speechexpense is the public API for parsing spoken expense notes
// into an amount and a category.
//
// Example:
//
//	result := speechexpense.Parse("twenty five dollars for coffee", speechexpense.DefaultCategories())
//	// result.Amount = 25, result.CategoryID = "<food id>", result.SubcategoryID = "<coffee id>"
package speechexpense

import (
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/speechparser"
	"fjacquet/speech-expense/internal/store"
)

type (
	// ParsedExpense is the result of parsing one transcript.
	ParsedExpense = models.ParsedExpense
	// CategoryNode is either a FlatCategory or a NestedCategory.
	CategoryNode = models.CategoryNode
	// FlatCategory is a category that names its parent, if any.
	FlatCategory = models.FlatCategory
	// NestedCategory is a top-level category carrying its subcategories.
	NestedCategory = models.NestedCategory
	// Subcategory is a child of a NestedCategory.
	Subcategory = models.Subcategory
	// Thresholds tunes matching and formatting.
	Thresholds = speechparser.Thresholds
)

// Parse parses a transcript with the default thresholds.
func Parse(sentence string, categories []CategoryNode) ParsedExpense {
	return speechparser.ParseSpeechExpense(sentence, categories)
}

// Parser parses transcripts with custom thresholds. It is safe for
// concurrent use.
type Parser struct {
	inner *speechparser.Parser
}

// NewParser creates a parser. Diagnostics are discarded.
func NewParser(thresholds Thresholds) *Parser {
	return &Parser{inner: speechparser.NewParser(thresholds, logging.NewDiscardLogger())}
}

// DefaultThresholds returns the thresholds Parse uses.
func DefaultThresholds() Thresholds {
	return speechparser.DefaultThresholds()
}

// Parse parses one transcript.
func (p *Parser) Parse(sentence string, categories []CategoryNode) ParsedExpense {
	return p.inner.Parse(sentence, categories)
}

// DefaultCategories returns the built-in expense categories.
func DefaultCategories() []CategoryNode {
	return models.ToNodes(store.DefaultCategories())
}
