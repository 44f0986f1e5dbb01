package argx

import (
	"regexp"
	"slices"
	"strings"
)

// negativeNumber matches option strings that look like negative numbers.
var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// Command is a parser node: the root program or a subcommand. It owns its
// flags, positionals, groups and at most one subcommand set.
type Command struct {
	name   string
	parent *Command
	help   string

	flags       []*Flag
	positionals []*Flag
	options     map[string]*Flag
	dests       map[string]*Flag
	groups      []*Group
	subs        *SubcommandSet

	// numericOptions is set when an option string looks like a negative
	// number; such tokens are then parsed as options.
	numericOptions bool
}

// New returns the root command of a program.
func New(prog string) *Command {
	return newCommand(prog, nil)
}

func newCommand(name string, parent *Command) *Command {
	return &Command{
		name:    name,
		parent:  parent,
		options: make(map[string]*Flag),
		dests:   make(map[string]*Flag),
	}
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Parent returns the command this one was declared under, nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// Prog returns the declared program path, e.g. "demo epsilon omega".
func (c *Command) Prog() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Prog() + " " + c.name
}

// Help sets the description.
func (c *Command) Help(h string) *Command {
	c.help = h
	return c
}

// Usage returns the description.
func (c *Command) Usage() string { return c.help }

// Flags returns the declared flags and positionals in declaration order.
func (c *Command) Flags() []*Flag { return slices.Clone(c.flags) }

// Lookup returns the flag registered under an exact option string.
func (c *Command) Lookup(option string) *Flag { return c.options[option] }

// Flag declares an option when every name starts with '-', or a positional
// when given a single bare name.
func (c *Command) Flag(names ...string) *Flag {
	if len(names) == 0 {
		panic(declarationErrorf("%s: flag needs a name", c.name))
	}

	if !strings.HasPrefix(names[0], "-") {
		if len(names) > 1 {
			panic(declarationErrorf("%s: positional %s cannot have option strings", c.name, names[0]))
		}
		if c.subs != nil {
			panic(declarationErrorf("%s: positional %s declared after subcommands", c.name, names[0]))
		}
		f := &Flag{owner: c, name: names[0], dest: names[0]}
		c.addFlag(f)
		c.positionals = append(c.positionals, f)
		return f
	}

	for _, n := range names {
		if len(n) < 2 || n[0] != '-' {
			panic(declarationErrorf("%s: invalid option string %q", c.name, n))
		}
	}
	f := &Flag{owner: c, dest: optionDest(names)}
	c.addFlag(f)
	for _, n := range names {
		c.registerOption(f, n)
	}
	return f
}

// optionDest derives the destination from the first long option string, or
// the first short one: "--dry-run" becomes "dry_run".
func optionDest(names []string) string {
	name := names[0]
	for _, n := range names {
		if strings.HasPrefix(n, "--") {
			name = n
			break
		}
	}
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}

func (c *Command) addFlag(f *Flag) {
	if _, dup := c.dests[f.dest]; dup {
		panic(declarationErrorf("%s: duplicate destination %q", c.name, f.dest))
	}
	c.dests[f.dest] = f
	c.flags = append(c.flags, f)
}

func (c *Command) renameDest(f *Flag, dest string) {
	if _, dup := c.dests[dest]; dup {
		panic(declarationErrorf("%s: duplicate destination %q", c.name, dest))
	}
	delete(c.dests, f.dest)
	f.dest = dest
	c.dests[dest] = f
}

// registerOption binds an option string to f. A string already bound to an
// older flag is taken away from it; a flag left without strings is removed.
func (c *Command) registerOption(f *Flag, opt string) {
	if old, ok := c.options[opt]; ok && old != f {
		old.options = slices.DeleteFunc(old.options, func(s string) bool { return s == opt })
		if len(old.options) == 0 {
			c.removeFlag(old)
		}
	}
	if !slices.Contains(f.options, opt) {
		f.options = append(f.options, opt)
	}
	c.options[opt] = f
	if negativeNumber.MatchString(opt) {
		c.numericOptions = true
	}
}

func (c *Command) removeFlag(f *Flag) {
	delete(c.dests, f.dest)
	c.flags = slices.DeleteFunc(c.flags, func(x *Flag) bool { return x == f })
	if f.group != nil {
		f.group.flags = slices.DeleteFunc(f.group.flags, func(x *Flag) bool { return x == f })
	}
}

// longOptions lists the "--" option strings in declaration order.
func (c *Command) longOptions() CandidateSet {
	var set CandidateSet
	for _, f := range c.flags {
		for _, opt := range f.options {
			if strings.HasPrefix(opt, "--") {
				set = append(set, Literal(opt))
			}
		}
	}
	return set
}

// optionNames lists every option string in declaration order.
func (c *Command) optionNames() []string {
	var names []string
	for _, f := range c.flags {
		names = append(names, f.options...)
	}
	return names
}

// looksLikeOption reports whether tok is parsed as an option string rather
// than a positional value.
func (c *Command) looksLikeOption(tok string) bool {
	if tok == "" || tok[0] != '-' {
		return false
	}
	if _, ok := c.options[tok]; ok {
		return true
	}
	if len(tok) == 1 {
		return false
	}
	if name, _, ok := strings.Cut(tok, "="); ok {
		if _, ok := c.options[name]; ok {
			return true
		}
	}
	if negativeNumber.MatchString(tok) && !c.numericOptions {
		return false
	}
	return !strings.Contains(tok, " ")
}

// matchOption finds the flag for an option token. Long options may be
// abbreviated to a unique prefix and carry "=value"; short options may be
// glued to their value. f is nil for unknown options.
func (c *Command) matchOption(tok string) (f *Flag, opt, explicit string, hasExplicit bool, err error) {
	if f := c.options[tok]; f != nil {
		return f, tok, "", false, nil
	}

	name, value, hasEq := strings.Cut(tok, "=")
	if hasEq {
		if f := c.options[name]; f != nil {
			return f, name, value, true, nil
		}
	}

	if strings.HasPrefix(tok, "--") {
		out := Match(name, c.longOptions())
		switch {
		case out.Kind == OutcomeUnique:
			opt := out.Value.(string)
			return c.options[opt], opt, value, hasEq, nil
		case len(out.Matches) > 1:
			candidates := slices.Clone(out.Matches)
			return nil, "", "", false, &ParseError{
				Type:       ErrorTypeAmbiguous,
				Message:    "option " + RenderAmbiguous(name, out.Matches),
				Token:      name,
				Candidates: candidates,
			}
		}
		return nil, "", "", false, nil
	}

	if len(tok) > 2 {
		if f := c.options[tok[:2]]; f != nil {
			return f, tok[:2], tok[2:], true, nil
		}
	}
	return nil, "", "", false, nil
}
