package speechparser

import (
	"strings"

	"fjacquet/speech-expense/internal/textutils"
)

// Amounts holds the paid amount and the change handed back, when heard.
type Amounts struct {
	Pay    *float64
	Change *float64
}

var payWords = map[string]bool{
	"pay": true, "paid": true, "spent": true, "buy": true, "bought": true,
}

// changePhrases are matched word by word against the token stream.
var changePhrases = [][]string{
	{"change"},
	{"refund"},
	{"cashback"},
	{"cash", "back"},
	{"got", "back"},
	{"returned"},
	{"gave", "me", "back"},
}

// ClassifyAmounts splits the quantities of a sentence into the paid amount
// and the change, using the default proximity window.
func ClassifyAmounts(sentence string) Amounts {
	return classifyAmounts(textutils.Tokenize(sentence), DefaultThresholds().ProximityWindow)
}

func classifyAmounts(tokens []string, window int) Amounts {
	numbers := parseNumberTokens(tokens)
	if len(numbers) == 0 {
		return Amounts{}
	}

	payIdx := findPayAnchor(tokens)
	changeIdx := findChangeAnchor(tokens)

	pay := nearestNumberAfter(numbers, payIdx, window)
	if pay == nil {
		pay = firstNumberAsPay(numbers)
	}
	change := nearestNumberAfter(numbers, changeIdx, window)
	if change == nil {
		change = secondNumberAsChange(numbers, changeIdx >= 0)
	}

	return Amounts{Pay: pay, Change: change}
}

func findPayAnchor(tokens []string) int {
	for i, tok := range tokens {
		if payWords[tok] {
			return i
		}
	}
	return -1
}

// findChangeAnchor returns the index of the first token that starts a change
// phrase, or -1. Quantities between the words of a phrase are skipped so that
// "got 10 back" counts as "got back".
func findChangeAnchor(tokens []string) int {
	for i := range tokens {
		for _, phrase := range changePhrases {
			if matchesPhraseAt(tokens, i, phrase) {
				return i
			}
		}
	}
	return -1
}

func matchesPhraseAt(tokens []string, start int, phrase []string) bool {
	if tokens[start] != phrase[0] {
		return false
	}
	pos := start + 1
	for _, word := range phrase[1:] {
		for pos < len(tokens) && tokens[pos] != word && isQuantityToken(tokens[pos]) {
			pos++
		}
		if pos >= len(tokens) || tokens[pos] != word {
			return false
		}
		pos++
	}
	return true
}

// nearestNumberAfter attributes to an anchor the first quantity at or after it
// and no more than window tokens away.
func nearestNumberAfter(numbers []NumberToken, anchor, window int) *float64 {
	if anchor < 0 {
		return nil
	}
	for _, n := range numbers {
		if n.Index >= anchor && n.Index-anchor <= window {
			v := n.Value
			return &v
		}
	}
	return nil
}

// firstNumberAsPay assumes the first quantity mentioned is what was paid.
func firstNumberAsPay(numbers []NumberToken) *float64 {
	if len(numbers) == 0 {
		return nil
	}
	v := numbers[0].Value
	return &v
}

// secondNumberAsChange assumes the second quantity is the change when a change
// phrase was heard without a nearby quantity.
func secondNumberAsChange(numbers []NumberToken, changePhrasePresent bool) *float64 {
	if !changePhrasePresent || len(numbers) < 2 {
		return nil
	}
	v := numbers[1].Value
	return &v
}

// String renders the amounts for debug logging.
func (a Amounts) String() string {
	var b strings.Builder
	b.WriteString("pay=")
	writeOptional(&b, a.Pay)
	b.WriteString(" change=")
	writeOptional(&b, a.Change)
	return b.String()
}

func writeOptional(b *strings.Builder, v *float64) {
	if v == nil {
		b.WriteString("none")
		return
	}
	b.WriteString(formatAmount(*v))
}
