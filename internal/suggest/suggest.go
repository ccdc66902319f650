// Package suggest proposes close category names for transcripts the parser
// could not categorize, e.g. when speech recognition misspelled a word.
package suggest

import (
	"sort"
	"unicode/utf8"

	"fjacquet/speech-expense/internal/speechparser"
	"fjacquet/speech-expense/internal/textutils"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinScore is the lowest similarity (0-100) worth suggesting.
const MinScore = 70

// minTokenLength skips filler words like "a", "to" and "of".
const minTokenLength = 3

// Suggestion is a candidate category with its similarity score (0-100).
type Suggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Score    int    `json:"score"`
}

// Suggester ranks category names against transcript words.
type Suggester struct {
	candidates []candidate
	limit      int
}

type candidate struct {
	category speechparser.IndexedCategory
	tokens   []string
}

// NewSuggester prepares the candidates of an index. Subcategories come first
// so that, on equal scores, the more specific name wins. A limit of zero or
// less means no limit.
func NewSuggester(index speechparser.CategoryIndex, limit int) *Suggester {
	all := make([]speechparser.IndexedCategory, 0, len(index.Categories)+len(index.Subcategories))
	all = append(all, index.Subcategories...)
	all = append(all, index.Categories...)

	candidates := make([]candidate, 0, len(all))
	for _, c := range all {
		tokens := stemmed(textutils.Tokenize(c.Name))
		if len(tokens) == 0 {
			continue
		}
		candidates = append(candidates, candidate{category: c, tokens: tokens})
	}
	return &Suggester{candidates: candidates, limit: limit}
}

// Suggest returns the categories whose names resemble a word of the
// transcript, best first.
func (s *Suggester) Suggest(transcript string) []Suggestion {
	words := transcriptWords(transcript)
	if len(words) == 0 {
		return nil
	}

	var out []Suggestion
	for _, c := range s.candidates {
		best := 0
		for _, w := range words {
			for _, t := range c.tokens {
				if score := tokenScore(w, t); score > best {
					best = score
				}
			}
		}
		if best >= MinScore {
			out = append(out, Suggestion{ID: c.category.ID, Name: c.category.Name, ParentID: c.category.ParentID, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if s.limit > 0 && len(out) > s.limit {
		out = out[:s.limit]
	}
	return out
}

// tokenScore combines edit distance with subsequence ranking, keeping the
// better of the two.
func tokenScore(word, name string) int {
	if word == name {
		return 100
	}

	maxLen := utf8.RuneCountInString(word)
	if n := utf8.RuneCountInString(name); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	score := 100 * (maxLen - fuzzy.LevenshteinDistance(word, name)) / maxLen

	if rank := fuzzy.RankMatchNormalizedFold(word, name); rank >= 0 {
		if sub := 100 - 100*rank/maxLen; sub > score {
			score = sub
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

func transcriptWords(transcript string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, tok := range stemmed(textutils.Tokenize(transcript)) {
		if utf8.RuneCountInString(tok) < minTokenLength || isQuantity(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		words = append(words, tok)
	}
	return words
}

func stemmed(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "&" || t == "-" {
			continue
		}
		out = append(out, textutils.Stem(t))
	}
	return out
}

func isQuantity(tok string) bool {
	return len(speechparser.ParseNumbers(tok)) > 0
}
