package argx

import (
	"fmt"
	"regexp"
)

// patternLabel is how a pattern is described among other candidates.
const patternLabel = "proper string"

var regexpDecl = regexp.MustCompile(`^/(.*)/([a-z]*)$`)

// Pattern is a regular-expression candidate.
type Pattern struct {
	re    *regexp.Regexp
	label string
}

// NewPattern wraps re. The expression is searched, not anchored; use
// ParseRegexp for the anchored "/body/flags" form.
func NewPattern(re *regexp.Regexp) *Pattern {
	return &Pattern{re: re, label: patternLabel}
}

// ParseRegexp compiles a "/body/flags" declaration. The only flag is "i"
// (case-insensitive). The body must match the whole token.
func ParseRegexp(decl string) (*Pattern, error) {
	m := regexpDecl.FindStringSubmatch(decl)
	if m == nil {
		return nil, declarationErrorf(`"%s": not a regular expression`, decl)
	}

	prefix := ""
	for _, flag := range m[2] {
		if flag != 'i' {
			return nil, declarationErrorf(`"%s": unknown flag '%c'`, decl, flag)
		}
		prefix = "(?i)"
	}

	re, err := regexp.Compile(prefix + "^(?:" + m[1] + ")$")
	if err != nil {
		return nil, &DeclarationError{Message: fmt.Sprintf(`"%s": %v`, decl, err)}
	}
	return NewPattern(re), nil
}

// MustRegexp is like ParseRegexp but panics on a malformed declaration.
func MustRegexp(decl string) *Pattern {
	p, err := ParseRegexp(decl)
	if err != nil {
		panic(err)
	}
	return p
}

// Named returns a copy of p described as label.
func (p *Pattern) Named(label string) *Pattern {
	return &Pattern{re: p.re, label: label}
}

// Regexp returns the compiled expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// Kind implements Candidate.
func (p *Pattern) Kind() Kind { return KindPattern }

// Label implements Candidate.
func (p *Pattern) Label() string { return p.label }

// Accept implements Candidate. The value is the text of the first capturing
// group that took part in the match, or the whole token.
func (p *Pattern) Accept(token string) (any, error) {
	loc := p.re.FindStringSubmatchIndex(token)
	if loc == nil {
		return nil, &ConversionError{Name: p.label, Value: token}
	}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return token[loc[i]:loc[i+1]], nil
		}
	}
	return token, nil
}
