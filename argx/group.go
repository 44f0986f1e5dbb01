package argx

import (
	"fmt"
	"reflect"
)

// Group is a "some of" constraint: at least one member must be given on the
// command line with a value different from its default.
type Group struct {
	title string
	cmd   *Command
	flags []*Flag
}

// SomeOf declares a group on the command. Members are declared through the
// group's Flag method.
func (c *Command) SomeOf(title string) *Group {
	g := &Group{title: title, cmd: c}
	c.groups = append(c.groups, g)
	return g
}

// Title returns the group title.
func (g *Group) Title() string { return g.title }

// Flag declares a member flag on the group's command.
func (g *Group) Flag(names ...string) *Flag {
	f := g.cmd.Flag(names...)
	f.group = g
	g.flags = append(g.flags, f)
	return f
}

// Members returns the member flags in declaration order.
func (g *Group) Members() []*Flag {
	return append([]*Flag(nil), g.flags...)
}

// Check verifies the group against a result. An empty group always passes.
func (g *Group) Check(res *ParseResult) error {
	if len(g.flags) == 0 {
		return nil
	}
	for _, f := range g.flags {
		if g.satisfiedBy(f, res) {
			return nil
		}
	}

	var names []string
	for _, f := range g.flags {
		names = append(names, f.groupNames()...)
	}
	msg := fmt.Sprintf("%s is required", names[0])
	if len(names) > 1 {
		msg = fmt.Sprintf("either %s is required", joinAlternatives(names))
	}
	return &ParseError{Type: ErrorTypeMissingGroup, Message: msg, Candidates: names}
}

func (g *Group) satisfiedBy(f *Flag, res *ParseResult) bool {
	if res.State(f.dest) != StateSupplied {
		return false
	}
	v, _ := res.Get(f.dest)
	def, _ := f.declaredDefault()
	return !reflect.DeepEqual(v, def)
}
