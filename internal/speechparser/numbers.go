package speechparser

import (
	"regexp"
	"sort"
	"strconv"

	"fjacquet/speech-expense/internal/textutils"
)

// NumberToken is a quantity found in a transcript. Index is the position of
// the token where the quantity starts.
type NumberToken struct {
	Index int
	Value float64
}

var digitPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// numberWords is the spoken-number vocabulary. Never modified.
var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100,
}

const numberConnector = "and"

// ParseNumbers returns every digit or spelled-out quantity in the sentence,
// ordered by token position.
func ParseNumbers(sentence string) []NumberToken {
	return parseNumberTokens(textutils.Tokenize(sentence))
}

func parseNumberTokens(tokens []string) []NumberToken {
	numbers := []NumberToken{}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if digitPattern.MatchString(tok) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				numbers = append(numbers, NumberToken{Index: i, Value: v})
			}
			continue
		}

		value, ok := numberWords[tok]
		if !ok {
			continue
		}
		j := i + 1
		for ; j < len(tokens); j++ {
			next := tokens[j]
			if next == numberConnector {
				continue
			}
			v, ok := numberWords[next]
			if !ok {
				break
			}
			if value != 0 && v == 100 {
				value *= 100
			} else {
				value += v
			}
		}
		numbers = append(numbers, NumberToken{Index: i, Value: value})
		i = j - 1
	}

	sort.SliceStable(numbers, func(a, b int) bool {
		return numbers[a].Index < numbers[b].Index
	})
	return numbers
}

// isQuantityToken reports whether a token can be part of a spoken amount.
func isQuantityToken(tok string) bool {
	if digitPattern.MatchString(tok) {
		return true
	}
	_, ok := numberWords[tok]
	return ok
}
