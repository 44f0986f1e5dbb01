package argx

import "slices"

// SubcommandSet maps subcommand names and aliases to command nodes. Several
// keys may lead to the same node; the first key declared for a node is its
// canonical name.
type SubcommandSet struct {
	owner     *Command
	keys      []string
	nodes     map[string]*Command
	canonical map[*Command]string
	optional  bool
	dest      string
}

// Subcommands returns the command's subcommand set, creating it on first
// use. Sets are mandatory unless Optional is called.
func (c *Command) Subcommands() *SubcommandSet {
	if c.subs == nil {
		c.subs = &SubcommandSet{
			owner:     c,
			nodes:     make(map[string]*Command),
			canonical: make(map[*Command]string),
		}
	}
	return c.subs
}

// Add declares a subcommand reachable as name and every alias.
func (s *SubcommandSet) Add(name string, aliases ...string) *Command {
	node := newCommand(name, s.owner)
	s.Attach(node, append([]string{name}, aliases...)...)
	return node
}

// Attach makes node reachable under the given keys. The first key becomes
// canonical unless the node already has a name in this set.
func (s *SubcommandSet) Attach(node *Command, keys ...string) *SubcommandSet {
	if len(keys) == 0 {
		panic(declarationErrorf("%s: subcommand needs a name", s.owner.name))
	}
	for _, k := range keys {
		if k == "" {
			panic(declarationErrorf("%s: empty subcommand name", s.owner.name))
		}
		if _, dup := s.nodes[k]; dup {
			panic(declarationErrorf("%s: conflicting subcommand name %q", s.owner.name, k))
		}
		s.keys = append(s.keys, k)
		s.nodes[k] = node
	}
	if _, ok := s.canonical[node]; !ok {
		s.canonical[node] = keys[0]
	}
	return s
}

// Optional lets the command run without a subcommand.
func (s *SubcommandSet) Optional() *SubcommandSet {
	s.optional = true
	return s
}

// Mandatory requires a subcommand (the default).
func (s *SubcommandSet) Mandatory() *SubcommandSet {
	s.optional = false
	return s
}

// Dest also stores the canonical name of the selected subcommand under dest.
func (s *SubcommandSet) Dest(dest string) *SubcommandSet {
	s.dest = dest
	return s
}

// Keys returns every name and alias in declaration order.
func (s *SubcommandSet) Keys() []string { return slices.Clone(s.keys) }

// Lookup returns the node behind an exact key.
func (s *SubcommandSet) Lookup(key string) *Command { return s.nodes[key] }

// Canonical returns the canonical name of node, or "" if node is not in the set.
func (s *SubcommandSet) Canonical(node *Command) string { return s.canonical[node] }

// Resolve maps a token onto a subcommand. Prefixes shared only by the
// aliases of one node resolve to it; prefixes spanning different nodes are
// ambiguous.
func (s *SubcommandSet) Resolve(token string) (string, *Command, error) {
	set := Literals(s.keys...)
	out := Match(token, set)

	var node *Command
	switch {
	case out.Kind == OutcomeUnique:
		node = s.nodes[out.Value.(string)]
	case len(out.Matches) > 1:
		node = s.nodes[out.Matches[0]]
		for _, m := range out.Matches[1:] {
			if s.nodes[m] != node {
				candidates := slices.Clone(out.Matches)
				return "", nil, &ParseError{
					Type:       ErrorTypeAmbiguous,
					Message:    "subcommand " + RenderAmbiguous(token, out.Matches),
					Token:      token,
					Candidates: candidates,
				}
			}
		}
	default:
		return "", nil, &ParseError{
			Type:    ErrorTypeNoMatch,
			Message: "subcommand " + describeMismatch(token, set),
			Token:   token,
		}
	}
	return s.canonical[node], node, nil
}
