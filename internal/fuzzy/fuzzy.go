// Package fuzzy ranks near-miss spellings of option and subcommand names.
// Used by the argx parser to fill ParseError suggestions.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
)

// Matcher ranks candidates by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting at most maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // "-x" style inputs are too short to guess from
	}
}

// Match is a ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// Rank returns the candidates within the distance limit, best first. The
// comparison ignores case and leading dashes, so "--verbse" ranks
// "--verbose". Exact matches are not suggestions and are skipped.
func (m *Matcher) Rank(input string, candidates []string) []Match {
	in := normalize(input)
	if len(in) < m.minLength {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		cand := normalize(c)
		if slices.Equal(cand, in) {
			continue
		}
		d := m.distance(in, cand)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Value: c, Distance: d, Score: score(in, cand, d)})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return matches
}

// Best returns the top-ranked candidate, or "".
func (m *Matcher) Best(input string, candidates []string) string {
	matches := m.Rank(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// Suggest returns up to limit candidates close to input.
func Suggest(input string, candidates []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).Rank(input, candidates)
	out := make([]string, 0, min(len(matches), limit))
	for _, match := range matches[:min(len(matches), limit)] {
		out = append(out, match.Value)
	}
	return out
}

func normalize(s string) []rune {
	return []rune(strings.ToLower(strings.TrimLeft(s, "-")))
}

// score favours small distances, shared prefixes and similar lengths.
func score(a, b []rune, distance int) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	s := 1 - float64(distance)/float64(longest)

	prefix := 0
	for prefix < min(len(a), len(b)) && a[prefix] == b[prefix] {
		prefix++
	}
	s += 0.3 * float64(prefix) / float64(min(len(a), len(b))+1)

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	s += 0.2 * (1 - float64(diff)/float64(longest))

	return min(s, 1)
}

// distance is the Levenshtein distance between a and b, or maxDistance+1
// as soon as it is certain to exceed the limit.
func (m *Matcher) distance(a, b []rune) int {
	limit := m.maxDistance + 1
	if d := len(a) - len(b); d >= limit || -d >= limit {
		return limit
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			sub := prev[j-1]
			if a[j-1] != b[i-1] {
				sub++
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, sub)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin >= limit {
			return limit
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
