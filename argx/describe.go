package argx

import (
	"fmt"
	"slices"
	"strings"
)

// Describe summarizes a candidate set for "should be" messages. Literal and
// typed labels come first in declaration order, followed by the distinct
// labels of patterns and converters. plural reports whether the summary
// names more than one alternative.
func Describe(set CandidateSet) (summary string, plural bool) {
	labels := make([]string, 0, len(set))
	fixed := 0
	for _, c := range set {
		switch c.Kind() {
		case KindLiteral, KindTyped:
			labels = slices.Insert(labels, fixed, c.Label())
			fixed++
		default:
			if !slices.Contains(labels[fixed:], c.Label()) {
				labels = append(labels, c.Label())
			}
		}
	}
	return joinAlternatives(labels), len(labels) > 1
}

// RenderAmbiguous formats the message for a token matching several literals.
// matches is consumed: its last element is the one named after "or".
func RenderAmbiguous(token string, matches []string) string {
	if len(matches) < 2 {
		return fmt.Sprintf(`"%s" is ambiguous, did you mean %s?`, token, joinAlternatives(matches))
	}
	last := matches[len(matches)-1]
	matches = matches[:len(matches)-1]
	return fmt.Sprintf(`"%s" is ambiguous, did you mean %s or %s?`, token, strings.Join(matches, ", "), last)
}

// describeMismatch renders the message for a token no candidate accepts.
func describeMismatch(token string, set CandidateSet) string {
	if len(set) == 0 {
		return fmt.Sprintf(`"%s": cannot accept any argument`, token)
	}
	summary, plural := Describe(set)
	if plural {
		return fmt.Sprintf(`"%s" should be either %s`, token, summary)
	}
	return fmt.Sprintf(`"%s" should be %s`, token, summary)
}
