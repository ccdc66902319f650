package speechparser

import (
	"sort"
	"strings"

	"fjacquet/speech-expense/internal/textutils"
)

// Match is the outcome of choosing among candidates. An empty ID means no
// confident match.
type Match struct {
	ID    string
	Score float64
}

// Found reports whether a candidate was selected.
func (m Match) Found() bool {
	return m.ID != ""
}

// ScoreName rates how well a candidate name is mentioned in a sentence, from
// 0 (not at all) to 1 (verbatim).
func ScoreName(sentence, name string) float64 {
	s := textutils.Normalize(sentence)
	t := textutils.Normalize(name)
	if t == "" {
		return 0
	}
	if strings.Contains(s, t) {
		return 1
	}
	if stemmed := textutils.Stem(t); stemmed != t && strings.Contains(s, stemmed) {
		return 0.95
	}

	sentenceTokens := make(map[string]struct{})
	for _, tok := range textutils.Tokenize(s) {
		sentenceTokens[textutils.Stem(tok)] = struct{}{}
	}
	nameTokens := textutils.Tokenize(t)
	if len(nameTokens) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range nameTokens {
		if _, ok := sentenceTokens[textutils.Stem(tok)]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(nameTokens))
}

type scoredCandidate struct {
	id    string
	score float64
}

// ChooseBest scores every candidate and returns the best one, unless it scores
// below threshold or is within gap of the runner-up.
func ChooseBest(sentence string, candidates []IndexedCategory, threshold, gap float64) Match {
	if len(candidates) == 0 {
		return Match{}
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredCandidate{id: c.ID, score: ScoreName(sentence, c.Name)}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	best := scored[0]
	if best.score < threshold {
		return Match{}
	}
	if len(scored) > 1 && best.score-scored[1].score < gap {
		return Match{}
	}
	return Match{ID: best.id, Score: best.score}
}
