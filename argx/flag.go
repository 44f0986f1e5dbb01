package argx

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Action decides what happens to the destination when a flag is seen.
type Action int

const (
	// ActionStore stores the converted value(s).
	ActionStore Action = iota
	// ActionStoreConst stores the value set with Const.
	ActionStoreConst
	// ActionStoreTrue stores true. The destination stays unset otherwise.
	ActionStoreTrue
	// ActionStoreFalse stores false and defaults to true.
	ActionStoreFalse
	// ActionAppend appends each occurrence to a list, starting from a copy
	// of the default.
	ActionAppend
	// ActionCount counts occurrences.
	ActionCount
	// ActionOnOff registers --no-NAME next to every --NAME; the former
	// stores false and the latter true.
	ActionOnOff
	// ActionBoolean takes an optional on|off word and stores true when the
	// word is omitted.
	ActionBoolean
)

func (a Action) String() string {
	switch a {
	case ActionStore:
		return "store"
	case ActionStoreConst:
		return "store_const"
	case ActionStoreTrue:
		return "store_true"
	case ActionStoreFalse:
		return "store_false"
	case ActionAppend:
		return "append"
	case ActionCount:
		return "count"
	case ActionOnOff:
		return "on-off"
	case ActionBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// takesValues reports whether the action consumes argument tokens.
func (a Action) takesValues() bool {
	switch a {
	case ActionStore, ActionAppend, ActionBoolean:
		return true
	default:
		return false
	}
}

// Nargs is the number of tokens a flag consumes. Positive values are exact
// counts and produce a list; the zero value takes one token and stores it
// as a scalar.
type Nargs int

const (
	// NargsOptional takes zero or one token ("?").
	NargsOptional Nargs = -1
	// NargsZeroOrMore takes any number of tokens ("*").
	NargsZeroOrMore Nargs = -2
	// NargsOneOrMore takes at least one token ("+").
	NargsOneOrMore Nargs = -3
)

// Flag declares an option (names starting with '-') or a positional
// argument. Setters return the flag so declarations chain.
type Flag struct {
	owner    *Command
	options  []string
	name     string
	dest     string
	action   Action
	nargs    Nargs
	typ      Candidate
	choices  CandidateSet
	def      any
	hasDef   bool
	constant any
	metavar  string
	required bool
	help     string
	group    *Group
}

// Dest sets the destination key.
func (f *Flag) Dest(dest string) *Flag {
	if dest == f.dest {
		return f
	}
	f.owner.renameDest(f, dest)
	return f
}

// Action sets the action. ActionOnOff requires a long option and registers
// the --no- variants immediately.
func (f *Flag) Action(a Action) *Flag {
	if f.positional() && !a.takesValues() {
		if a == ActionOnOff {
			panic(declarationErrorf("positional argument cannot be on-off"))
		}
		panic(declarationErrorf("positional argument %s cannot use action %s", f.name, a))
	}
	if f.nargs != 0 && (!a.takesValues() || a == ActionBoolean) {
		panic(declarationErrorf("%s: action %s takes no nargs", f.DisplayName(), a))
	}

	if a == ActionOnOff {
		var negated []string
		for _, opt := range f.options {
			if strings.HasPrefix(opt, "--") && !strings.HasPrefix(opt, "--no-") {
				negated = append(negated, "--no-"+opt[2:])
			}
		}
		if len(negated) == 0 {
			panic(declarationErrorf("on-off type argument requires a long option name"))
		}
		for _, opt := range negated {
			f.owner.registerOption(f, opt)
		}
	}
	f.action = a
	return f
}

// Nargs sets how many tokens the flag consumes.
func (f *Flag) Nargs(n Nargs) *Flag {
	if n < NargsOneOrMore {
		panic(declarationErrorf("%s: invalid nargs %d", f.DisplayName(), int(n)))
	}
	if n != 0 && !f.action.takesValues() {
		panic(declarationErrorf("%s: action %s takes no nargs", f.DisplayName(), f.action))
	}
	if n != 0 && f.action == ActionBoolean {
		panic(declarationErrorf("%s: boolean flags take at most one value", f.DisplayName()))
	}
	f.nargs = n
	return f
}

// Type sets the single candidate every token is converted with.
func (f *Flag) Type(c Candidate) *Flag {
	f.typ = c
	return f
}

// Regexp types the flag with a "/body/flags" pattern. Rejections are
// reported under the metavar, or "string".
func (f *Flag) Regexp(decl string) *Flag {
	return f.Type(MustRegexp(decl))
}

// Choices restricts values to a candidate set, see Set. Literals match by
// unique prefix and the first converter or pattern that accepts a token
// wins. An empty token that nothing accepts leaves the destination alone.
func (f *Flag) Choices(items ...any) *Flag {
	f.choices = Set(items...)
	return f
}

// OneOf is Choices with a prepared set.
func (f *Flag) OneOf(set CandidateSet) *Flag {
	f.choices = slices.Clone(set)
	return f
}

// Default sets the value used when the flag is not given.
func (f *Flag) Default(v any) *Flag {
	f.def, f.hasDef = v, true
	return f
}

// Const sets the value for ActionStoreConst and for NargsOptional options
// given without a value.
func (f *Flag) Const(v any) *Flag {
	f.constant = v
	return f
}

// Metavar sets the display name of the value.
func (f *Flag) Metavar(m string) *Flag {
	f.metavar = m
	return f
}

// Required makes an option mandatory. Positionals are required unless
// their nargs allows zero tokens.
func (f *Flag) Required() *Flag {
	f.required = true
	return f
}

// Help sets the description.
func (f *Flag) Help(h string) *Flag {
	f.help = h
	return f
}

// Key returns the destination key.
func (f *Flag) Key() string { return f.dest }

// Options returns the option strings, empty for positionals.
func (f *Flag) Options() []string { return slices.Clone(f.options) }

// Usage returns the help text.
func (f *Flag) Usage() string { return f.help }

// DisplayName is how errors refer to the flag: "--foo/-f" or the metavar.
func (f *Flag) DisplayName() string {
	if len(f.options) > 0 {
		return strings.Join(f.options, "/")
	}
	return f.displayMetavar()
}

func (f *Flag) positional() bool { return len(f.options) == 0 }

func (f *Flag) displayMetavar() string {
	if f.metavar != "" {
		return f.metavar
	}
	if f.positional() {
		return strings.ToUpper(strings.ReplaceAll(f.name, "_", "-"))
	}
	return ""
}

// groupNames are the names some-of messages use for the flag: every option
// string, else the metavar, else the destination.
func (f *Flag) groupNames() []string {
	if len(f.options) > 0 {
		return slices.Clone(f.options)
	}
	if m := f.displayMetavar(); m != "" {
		return []string{m}
	}
	return []string{f.dest}
}

// bounds returns the token count limits; hi < 0 is unbounded.
func (f *Flag) bounds() (lo, hi int) {
	switch f.action {
	case ActionStoreConst, ActionStoreTrue, ActionStoreFalse, ActionCount, ActionOnOff:
		return 0, 0
	case ActionBoolean:
		return 0, 1
	}
	switch f.nargs {
	case 0:
		return 1, 1
	case NargsOptional:
		return 0, 1
	case NargsZeroOrMore:
		return 0, -1
	case NargsOneOrMore:
		return 1, -1
	default:
		return int(f.nargs), int(f.nargs)
	}
}

// scalar reports whether the flag stores a single value instead of a list.
func (f *Flag) scalar() bool {
	return f.nargs == 0 || f.nargs == NargsOptional
}

func (f *Flag) isRequired() bool {
	if f.positional() {
		lo, _ := f.bounds()
		return lo > 0
	}
	return f.required
}

// declaredDefault is the value a destination holds before any token.
func (f *Flag) declaredDefault() (any, bool) {
	switch {
	case f.hasDef:
		return f.def, true
	case f.action == ActionStoreFalse:
		return true, true
	case f.positional() && f.nargs == NargsZeroOrMore:
		return []any{}, true
	}
	return nil, false
}

func (f *Flag) typeName() string {
	switch t := f.typ.(type) {
	case *Pattern:
		if f.metavar != "" {
			return f.metavar
		}
		return "string"
	case nil:
		return "string"
	default:
		return t.Label()
	}
}

// convert resolves one token. ok is false when an empty token matched
// nothing in the choices.
func (f *Flag) convert(token string) (value any, ok bool, err error) {
	if f.choices != nil {
		return Resolve(token, f.choices)
	}
	if f.typ == nil {
		return token, true, nil
	}

	v, err := f.typ.Accept(token)
	if err != nil {
		msg := fmt.Sprintf("invalid %s value: '%s'", f.typeName(), token)
		var ce *ConversionError
		if errors.As(err, &ce) && ce.Msg != "" {
			msg = ce.Msg
		}
		return nil, false, &ParseError{Type: ErrorTypeInvalidValue, Message: msg, Token: token}
	}
	return v, true, nil
}

// convertAll converts a list of tokens, dropping the ones convert skips.
func (f *Flag) convertAll(tokens []string) ([]any, error) {
	out := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, ok, err := f.convert(tok)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}
