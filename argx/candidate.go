package argx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Candidate.
type Kind int

const (
	// KindLiteral is a fixed string matched by exact value or unique prefix.
	KindLiteral Kind = iota
	// KindTyped is a scalar compared after parsing the token as its type.
	KindTyped
	// KindPattern is a regular expression.
	KindPattern
	// KindConverter is a function that accepts or rejects the token.
	KindConverter
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindTyped:
		return "typed"
	case KindPattern:
		return "pattern"
	case KindConverter:
		return "converter"
	default:
		return "unknown"
	}
}

// Candidate is one acceptable shape for a raw argument value.
type Candidate interface {
	Kind() Kind
	// Label is the human-readable name used in error messages.
	Label() string
	// Accept returns the value token resolves to, or an error when the
	// candidate does not fit.
	Accept(token string) (any, error)
}

// CandidateSet is an ordered collection of candidates considered together.
type CandidateSet []Candidate

// errMismatch is returned by literals and typed values that do not equal the token.
var errMismatch = errors.New("candidate does not match")

// Literal is a fixed string.
type Literal string

// Kind implements Candidate.
func (l Literal) Kind() Kind { return KindLiteral }

// Label implements Candidate.
func (l Literal) Label() string { return `"` + string(l) + `"` }

// Accept implements Candidate. Only an exact match is accepted here, prefix
// matching is the matcher's business.
func (l Literal) Accept(token string) (any, error) {
	if token != string(l) {
		return nil, errMismatch
	}
	return string(l), nil
}

// Typed is a comparable scalar. A token matches when it parses as T and the
// parsed value equals the candidate.
type Typed[T comparable] struct {
	value T
	parse func(string) (T, error)
}

// Value returns a typed candidate using parse to interpret tokens.
func Value[T comparable](v T, parse func(string) (T, error)) Typed[T] {
	return Typed[T]{value: v, parse: parse}
}

// Int returns a typed candidate for a decimal integer.
func Int(v int) Typed[int] {
	return Value(v, func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

// Float returns a typed candidate for a floating point number.
func Float(v float64) Typed[float64] {
	return Value(v, func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	})
}

// Kind implements Candidate.
func (t Typed[T]) Kind() Kind { return KindTyped }

// Label implements Candidate.
func (t Typed[T]) Label() string { return fmt.Sprint(t.value) }

// Accept implements Candidate.
func (t Typed[T]) Accept(token string) (any, error) {
	v, err := t.parse(token)
	if err != nil {
		return nil, err
	}
	if v != t.value {
		return nil, errMismatch
	}
	return t.value, nil
}

// Converter is a named function turning a raw string into a value.
type Converter struct {
	name string
	fn   func(string) (any, error)
}

// Convert wraps fn as a converter displayed as name in error messages.
func Convert[T any](name string, fn func(string) (T, error)) *Converter {
	return &Converter{
		name: name,
		fn: func(s string) (any, error) {
			v, err := fn(s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Name returns the display name.
func (c *Converter) Name() string { return c.name }

// Kind implements Candidate.
func (c *Converter) Kind() Kind { return KindConverter }

// Label implements Candidate.
func (c *Converter) Label() string { return c.name }

// Accept implements Candidate. Rejections are always *ConversionError.
func (c *Converter) Accept(token string) (any, error) {
	v, err := c.fn(token)
	if err != nil {
		return nil, c.reject(token, err)
	}
	return v, nil
}

func (c *Converter) reject(token string, err error) *ConversionError {
	var ce *ConversionError
	if errors.As(err, &ce) {
		out := *ce
		if out.Name == "" {
			out.Name = c.name
		}
		if out.Value == "" {
			out.Value = token
		}
		return &out
	}
	return &ConversionError{Name: c.name, Value: token, Err: err}
}

// Set builds a CandidateSet. Strings become literals, ints and float64s
// become typed values, *regexp.Regexp becomes a search pattern and
// candidates are kept as they are. Anything else is a declaration error.
func Set(items ...any) CandidateSet {
	set := make(CandidateSet, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case Candidate:
			set = append(set, v)
		case string:
			set = append(set, Literal(v))
		case int:
			set = append(set, Int(v))
		case float64:
			set = append(set, Float(v))
		case *regexp.Regexp:
			set = append(set, NewPattern(v))
		default:
			panic(declarationErrorf("unsupported candidate %v (%T)", item, item))
		}
	}
	return set
}

// Literals builds a set of literal candidates.
func Literals(names ...string) CandidateSet {
	set := make(CandidateSet, len(names))
	for i, n := range names {
		set[i] = Literal(n)
	}
	return set
}
