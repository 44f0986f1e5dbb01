package argx

import "strings"

// OutcomeKind classifies the result of Match.
type OutcomeKind int

const (
	// OutcomeNone means the token was empty and nothing accepted it.
	OutcomeNone OutcomeKind = iota
	// OutcomeUnique carries the resolved value.
	OutcomeUnique
	// OutcomeAmbiguous carries the literals the token is a prefix of. An
	// empty list means nothing matched at all.
	OutcomeAmbiguous
)

// Outcome is the result of matching one token against a CandidateSet.
type Outcome struct {
	Kind    OutcomeKind
	Value   any
	Matches []string
}

// NoMatch reports an ambiguous outcome without any candidate.
func (o Outcome) NoMatch() bool {
	return o.Kind == OutcomeAmbiguous && len(o.Matches) == 0
}

// Match resolves token against set. Candidates are tried in order: the first
// converter that accepts the token, pattern that matches it, typed value
// equal to it or literal spelled exactly like it wins immediately. Literals
// the token is a non-empty prefix of are collected; a single one is a
// unique match and several are ambiguous.
func Match(token string, set CandidateSet) Outcome {
	var prefixed []string
	for _, c := range set {
		if lit, ok := c.(Literal); ok {
			if token == "" || !strings.HasPrefix(string(lit), token) {
				continue
			}
			if len(lit) == len(token) {
				return Outcome{Kind: OutcomeUnique, Value: string(lit)}
			}
			prefixed = append(prefixed, string(lit))
			continue
		}
		if v, err := c.Accept(token); err == nil {
			return Outcome{Kind: OutcomeUnique, Value: v}
		}
	}

	switch {
	case len(prefixed) == 1:
		return Outcome{Kind: OutcomeUnique, Value: prefixed[0]}
	case len(prefixed) > 1:
		return Outcome{Kind: OutcomeAmbiguous, Matches: prefixed}
	case token == "":
		return Outcome{Kind: OutcomeNone}
	default:
		return Outcome{Kind: OutcomeAmbiguous}
	}
}

// Resolve runs Match and turns failures into errors. supplied is false when
// the token was empty and nothing accepted it; the caller then leaves the
// destination untouched.
func Resolve(token string, set CandidateSet) (value any, supplied bool, err error) {
	out := Match(token, set)
	switch out.Kind {
	case OutcomeUnique:
		return out.Value, true, nil
	case OutcomeNone:
		return nil, false, nil
	}

	if out.NoMatch() {
		return nil, false, &ParseError{
			Type:    ErrorTypeNoMatch,
			Message: describeMismatch(token, set),
			Token:   token,
		}
	}
	candidates := append([]string(nil), out.Matches...)
	return nil, false, &ParseError{
		Type:       ErrorTypeAmbiguous,
		Message:    RenderAmbiguous(token, out.Matches),
		Token:      token,
		Candidates: candidates,
	}
}
