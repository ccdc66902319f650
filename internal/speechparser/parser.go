// Package speechparser turns a spoken expense sentence into an amount and a
// category guess.
package speechparser

import (
	"math"
	"strconv"
	"strings"

	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/textutils"
)

// Thresholds tunes matching and amount attribution.
type Thresholds struct {
	// SubcategoryThreshold is the minimum score for a subcategory match.
	SubcategoryThreshold float64
	// CategoryThreshold is the minimum score for a top-level category match.
	CategoryThreshold float64
	// AmbiguityGap is the lead the best candidate needs over the runner-up.
	AmbiguityGap float64
	// ProximityWindow is how many tokens after a keyword a quantity may appear.
	ProximityWindow int
	// DescriptionPrefix is prepended to the transcript in the description.
	DescriptionPrefix string
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SubcategoryThreshold: 0.75,
		CategoryThreshold:    0.80,
		AmbiguityGap:         0.05,
		ProximityWindow:      5,
		DescriptionPrefix:    "[Speech] ",
	}
}

// Parser parses transcripts. It holds no mutable state and is safe for
// concurrent use.
type Parser struct {
	thresholds Thresholds
	logger     logging.Logger
}

// NewParser creates a parser. A nil logger discards diagnostics.
func NewParser(thresholds Thresholds, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Parser{thresholds: thresholds, logger: logger}
}

// Thresholds returns the parser's configuration.
func (p *Parser) Thresholds() Thresholds {
	return p.thresholds
}

var defaultParser = NewParser(DefaultThresholds(), nil)

// ParseSpeechExpense parses a sentence with the default thresholds.
func ParseSpeechExpense(sentence string, categories []models.CategoryNode) models.ParsedExpense {
	return defaultParser.Parse(sentence, categories)
}

// Parse extracts the net amount and the best category match from a sentence.
// It never fails; anything it cannot work out is left empty.
func (p *Parser) Parse(sentence string, categories []models.CategoryNode) models.ParsedExpense {
	index := FlattenCategories(categories)
	return p.ParseIndexed(sentence, index)
}

// ParseIndexed is Parse for callers that flatten the category list once and
// reuse it across many sentences.
func (p *Parser) ParseIndexed(sentence string, index CategoryIndex) models.ParsedExpense {
	log := p.logger.WithField(logging.FieldTranscript, sentence)
	result := models.ParsedExpense{
		Description: p.thresholds.DescriptionPrefix + strings.TrimSpace(sentence),
		Notes:       []string{},
	}

	amounts := classifyAmounts(textutils.Tokenize(sentence), p.thresholds.ProximityWindow)
	if amount, ok := netAmount(amounts); ok {
		result.Amount = &amount
		result.Notes = append(result.Notes, "amount="+formatAmount(amount))
		log.Debug("Classified amounts",
			logging.Field{Key: logging.FieldAmount, Value: amount},
			logging.Field{Key: "amounts", Value: amounts.String()})
	}

	if sub := ChooseBest(sentence, index.Subcategories, p.thresholds.SubcategoryThreshold, p.thresholds.AmbiguityGap); sub.Found() {
		result.SubcategoryID = sub.ID
		result.CategoryID = index.ParentOf(sub.ID)
		log.Debug("Matched subcategory",
			logging.Field{Key: logging.FieldSubcategory, Value: sub.ID},
			logging.Field{Key: logging.FieldCategory, Value: result.CategoryID},
			logging.Field{Key: logging.FieldScore, Value: sub.Score},
			logging.Field{Key: logging.FieldThreshold, Value: p.thresholds.SubcategoryThreshold})
	} else if cat := ChooseBest(sentence, index.Categories, p.thresholds.CategoryThreshold, p.thresholds.AmbiguityGap); cat.Found() {
		result.CategoryID = cat.ID
		log.Debug("Matched category",
			logging.Field{Key: logging.FieldCategory, Value: cat.ID},
			logging.Field{Key: logging.FieldScore, Value: cat.Score},
			logging.Field{Key: logging.FieldThreshold, Value: p.thresholds.CategoryThreshold})
	} else {
		log.Debug("No confident category match",
			logging.Field{Key: logging.FieldThreshold, Value: p.thresholds.CategoryThreshold})
	}

	return result
}

// netAmount is pay minus change. A negative result is flipped to its absolute
// value.
func netAmount(a Amounts) (float64, bool) {
	if a.Pay == nil {
		return 0, false
	}
	amount := *a.Pay
	if a.Change != nil {
		amount -= *a.Change
	}
	if amount < 0 {
		amount = math.Abs(amount)
	}
	return amount, true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
