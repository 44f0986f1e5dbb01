package argx

import (
	"fmt"
	"slices"
)

// State tells where a destination's value came from.
type State int

const (
	// StateUnset means no default and no token.
	StateUnset State = iota
	// StateDefaulted means the value is a declared or configured default.
	StateDefaulted
	// StateSupplied means the command line set the value.
	StateSupplied
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateDefaulted:
		return "defaulted"
	case StateSupplied:
		return "supplied"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type slot struct {
	value any
	state State
}

// ParseResult holds the parsed values of every command on the invocation
// path. Destinations are shared: a subcommand's value replaces a parent's
// value stored under the same key.
type ParseResult struct {
	values map[string]slot
	path   []string
}

func newParseResult() *ParseResult {
	return &ParseResult{values: make(map[string]slot)}
}

// Get returns the value stored under dest and whether there is one.
func (r *ParseResult) Get(dest string) (any, bool) {
	s, ok := r.values[dest]
	if !ok || s.state == StateUnset {
		return nil, false
	}
	return s.value, true
}

// State returns the state of dest.
func (r *ParseResult) State(dest string) State {
	return r.values[dest].state
}

// Supplied reports whether the command line set dest.
func (r *ParseResult) Supplied(dest string) bool {
	return r.State(dest) == StateSupplied
}

// Subcommands returns the canonical names of the selected subcommands,
// outermost first.
func (r *ParseResult) Subcommands() []string {
	return slices.Clone(r.path)
}

// Keys returns the destinations holding a value, sorted.
func (r *ParseResult) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k, s := range r.values {
		if s.state != StateUnset {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Map returns a copy of every value that is set.
func (r *ParseResult) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, s := range r.values {
		if s.state != StateUnset {
			out[k] = s.value
		}
	}
	return out
}

func (r *ParseResult) set(dest string, v any, state State) {
	r.values[dest] = slot{value: v, state: state}
}

// Lookup returns the value under dest as T.
func Lookup[T any](r *ParseResult, dest string) (T, bool) {
	var zero T
	v, ok := r.Get(dest)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Slice returns a list value under dest with every element as T. It fails
// if any element has another type.
func Slice[T any](r *ParseResult, dest string) ([]T, bool) {
	v, ok := r.Get(dest)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []T:
		return slices.Clone(list), true
	case []any:
		out := make([]T, 0, len(list))
		for _, item := range list {
			t, ok := item.(T)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	}
	return nil, false
}

// String returns the string under dest.
func (r *ParseResult) String(dest string) (string, bool) { return Lookup[string](r, dest) }

// MustString returns the string under dest or defaultValue.
func (r *ParseResult) MustString(dest, defaultValue string) string {
	if s, ok := r.String(dest); ok {
		return s
	}
	return defaultValue
}

// Int returns the int under dest.
func (r *ParseResult) Int(dest string) (int, bool) { return Lookup[int](r, dest) }

// MustInt returns the int under dest or defaultValue.
func (r *ParseResult) MustInt(dest string, defaultValue int) int {
	if n, ok := r.Int(dest); ok {
		return n
	}
	return defaultValue
}

// Bool returns the bool under dest.
func (r *ParseResult) Bool(dest string) (bool, bool) { return Lookup[bool](r, dest) }

// MustBool returns the bool under dest or defaultValue.
func (r *ParseResult) MustBool(dest string, defaultValue bool) bool {
	if b, ok := r.Bool(dest); ok {
		return b
	}
	return defaultValue
}

// StringSlice returns a list of strings under dest.
func (r *ParseResult) StringSlice(dest string) ([]string, bool) { return Slice[string](r, dest) }
