package argx

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/dzonerzy/go-argx/internal/fuzzy"
)

// Parser parses command lines against a command tree. It keeps no state
// between calls and may be shared by goroutines as long as the tree is not
// modified.
type Parser struct {
	root            *Command
	logger          *zap.Logger
	suggestDistance int
	defaults        map[string][]string
}

// NewParser returns a parser for the tree rooted at root.
func NewParser(root *Command, opts ...Option) *Parser {
	p := &Parser{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the command tree with default options.
func (c *Command) Parse(args []string) (*ParseResult, error) {
	return NewParser(c).Parse(args)
}

// Parse parses args (without the program name). Tokens nobody consumed are
// an error.
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	s, err := p.run(args)
	if err != nil {
		return nil, err
	}
	if len(s.extras) > 0 {
		return nil, s.unrecognized()
	}
	return s.res, nil
}

// ParseKnown is like Parse but returns unconsumed tokens instead of failing
// on them.
func (p *Parser) ParseKnown(args []string) (*ParseResult, []string, error) {
	s, err := p.run(args)
	if err != nil {
		return nil, nil, err
	}
	return s.res, s.extras, nil
}

// ParseString splits cmdline with shell quoting rules and parses the words.
func (p *Parser) ParseString(cmdline string) (*ParseResult, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("split command line: %w", err)
	}
	return p.Parse(args)
}

// session is the state of one Parse call.
type session struct {
	p       *Parser
	res     *ParseResult
	extras  []string
	deepest *Command
	prog    string
}

func (p *Parser) run(args []string) (*session, error) {
	s := &session{p: p, res: newParseResult()}
	path, err := s.parseCommand(p.root, args, nil)
	if err != nil {
		return nil, err
	}
	s.res.path = path
	p.logger.Debug("parsed command line",
		zap.Strings("path", path),
		zap.Strings("keys", s.res.Keys()),
		zap.Strings("extras", s.extras))
	return s, nil
}

func (s *session) unrecognized() error {
	label := "unrecognized argument: "
	if len(s.extras) > 1 {
		label = "unrecognized arguments: "
	}
	pe := &ParseError{
		Type:       ErrorTypeUnrecognized,
		Message:    label + strings.Join(s.extras, " "),
		Command:    s.prog,
		Token:      s.extras[0],
		Candidates: slices.Clone(s.extras),
	}
	if s.p.suggestDistance > 0 {
		matcher := fuzzy.NewMatcher(s.p.suggestDistance)
		for _, extra := range s.extras {
			if !strings.HasPrefix(extra, "-") {
				continue
			}
			name, _, _ := strings.Cut(extra, "=")
			if best := matcher.Best(name, s.deepest.optionNames()); best != "" {
				pe.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", best))
			}
		}
	}
	return pe
}

type token struct {
	text   string
	index  int // position in the command's args
	option bool
}

// level parses the arguments of one command on the invocation path.
type level struct {
	s    *session
	cmd  *Command
	path []string
	prog string
	args []string

	toks []token
	// dd is the index in toks of the first token after "--".
	dd int

	pending   []*Flag
	seen      map[*Flag]bool
	invoked   bool
	finalPath []string
}

// parseCommand parses args for cmd. path holds the canonical names of the
// subcommands leading to cmd; the returned path extends it with every
// subcommand selected below.
func (s *session) parseCommand(cmd *Command, args []string, path []string) ([]string, error) {
	l := &level{
		s:         s,
		cmd:       cmd,
		path:      path,
		prog:      strings.Join(append([]string{s.p.root.name}, path...), " "),
		args:      args,
		pending:   slices.Clone(cmd.positionals),
		seen:      make(map[*Flag]bool),
		finalPath: path,
	}
	s.deepest, s.prog = cmd, l.prog

	if err := l.applyDefaults(); err != nil {
		return nil, err
	}
	l.classify()
	if err := l.consume(); err != nil {
		return nil, err
	}
	if err := l.finish(); err != nil {
		return nil, err
	}
	return l.finalPath, nil
}

func (l *level) log() *zap.Logger {
	return l.s.p.logger.With(zap.String("command", l.prog))
}

// fail attaches the command to a parse error.
func (l *level) fail(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Command == "" {
		pe.Command = l.prog
	}
	l.log().Debug("parse failed", zap.Error(err))
	return err
}

func (l *level) applyDefaults() error {
	res := l.s.res
	for _, f := range l.cmd.flags {
		if res.State(f.dest) != StateUnset {
			continue
		}

		key := strings.Join(append(slices.Clone(l.path), f.dest), ".")
		if raw, ok := l.s.p.defaults[key]; ok {
			v, err := f.configValue(raw)
			if err != nil {
				pe := toParseError(err, raw).attribute(f.DisplayName())
				pe.Message = "default for " + pe.Message
				return l.fail(pe)
			}
			res.set(f.dest, v, StateDefaulted)
			l.log().Debug("configured default", zap.String("key", key), zap.Strings("raw", raw))
			continue
		}

		if def, ok := f.declaredDefault(); ok {
			res.set(f.dest, def, StateDefaulted)
		}
	}
	return nil
}

func (l *level) classify() {
	l.dd = -1
	for i, arg := range l.args {
		if l.dd < 0 && arg == "--" {
			l.dd = len(l.toks)
			continue
		}
		l.toks = append(l.toks, token{
			text:   arg,
			index:  i,
			option: l.dd < 0 && l.cmd.looksLikeOption(arg),
		})
	}
	if l.dd < 0 {
		l.dd = len(l.toks)
	}
}

func (l *level) consume() error {
	k := 0
	for k < len(l.toks) && !l.invoked {
		if l.toks[k].option {
			next, err := l.consumeOption(k)
			if err != nil {
				return err
			}
			k = next
			continue
		}

		end := k
		for end < len(l.toks) && !l.toks[end].option {
			end++
		}
		used, err := l.consumePositionals(k, end)
		if err != nil {
			return err
		}
		if l.invoked {
			return nil
		}
		for _, t := range l.toks[used:end] {
			l.s.extras = append(l.s.extras, t.text)
		}
		k = end
	}
	if l.invoked {
		return nil
	}
	_, err := l.consumePositionals(len(l.toks), len(l.toks))
	return err
}

func (l *level) consumeOption(k int) (int, error) {
	text := l.toks[k].text
	f, opt, explicit, hasExplicit, err := l.cmd.matchOption(text)
	if err != nil {
		return 0, l.fail(err)
	}
	if f == nil {
		l.s.extras = append(l.s.extras, text)
		return k + 1, nil
	}

	for {
		lo, hi := f.bounds()
		l.log().Debug("matched option", zap.String("token", text), zap.String("option", opt))

		if !hasExplicit {
			avail := 0
			for j := k + 1; j < len(l.toks) && j < l.dd && !l.toks[j].option; j++ {
				avail++
			}
			if avail < lo {
				return 0, l.fail(missingValues(f).attribute(f.DisplayName()))
			}
			take := avail
			if hi >= 0 {
				take = min(take, hi)
			}
			values := make([]string, take)
			for i := range values {
				values[i] = l.toks[k+1+i].text
			}
			return k + 1 + take, l.apply(f, opt, values)
		}

		if hi != 0 {
			if lo > 1 {
				return 0, l.fail(missingValues(f).attribute(f.DisplayName()))
			}
			return k + 1, l.apply(f, opt, []string{explicit})
		}

		// A zero-argument short option followed by more characters is a
		// cluster of short options: -vvq.
		if len(opt) == 2 && opt[1] != '-' && explicit != "" {
			if err := l.apply(f, opt, nil); err != nil {
				return 0, err
			}
			next := "-" + explicit[:1]
			if g := l.cmd.options[next]; g != nil {
				f, opt = g, next
				explicit = explicit[1:]
				hasExplicit = explicit != ""
				continue
			}
		}
		return 0, l.fail(NewParseError(ErrorTypeInvalidValue,
			fmt.Sprintf("ignored explicit argument '%s'", explicit)).attribute(f.DisplayName()))
	}
}

func missingValues(f *Flag) *ParseError {
	msg := "expected one argument"
	switch {
	case f.nargs == NargsOneOrMore:
		msg = "expected at least one argument"
	case f.nargs == 1:
		msg = "expected 1 argument"
	case f.nargs > 1:
		msg = fmt.Sprintf("expected %d arguments", int(f.nargs))
	}
	return NewParseError(ErrorTypeMissingValue, msg)
}

// slotSpec is a positional or the subcommand slot during allocation.
type slotSpec struct {
	flag   *Flag // nil for the subcommand slot
	lo, hi int
}

func (l *level) specs() []slotSpec {
	specs := make([]slotSpec, 0, len(l.pending)+1)
	for _, f := range l.pending {
		lo, hi := f.bounds()
		specs = append(specs, slotSpec{flag: f, lo: lo, hi: hi})
	}
	if l.cmd.subs != nil && !l.invoked {
		specs = append(specs, slotSpec{lo: 1, hi: -1})
	}
	return specs
}

// allocate splits n tokens over the longest prefix of specs whose minimums
// fit. Earlier slots are greedy but leave enough for the later minimums.
func allocate(specs []slotSpec, n int) []int {
	k, need := 0, 0
	for k < len(specs) && need+specs[k].lo <= n {
		need += specs[k].lo
		k++
	}

	counts := make([]int, k)
	left := n
	for i := range k {
		restMin := 0
		for _, sp := range specs[i+1 : k] {
			restMin += sp.lo
		}
		c := left - restMin
		if specs[i].hi >= 0 {
			c = min(c, specs[i].hi)
		}
		counts[i] = c
		left -= c
	}
	return counts
}

// consumePositionals allocates toks[start:end] to the pending positionals
// and returns the index after the last consumed token. A slot that would
// get nothing at the end of the allocation is kept for later tokens, unless
// the command line is exhausted.
func (l *level) consumePositionals(start, end int) (int, error) {
	specs := l.specs()
	counts := allocate(specs, end-start)
	if end < len(l.toks) {
		for len(counts) > 0 && counts[len(counts)-1] == 0 {
			counts = counts[:len(counts)-1]
		}
	}

	pos := start
	for i, c := range counts {
		sp := specs[i]
		if sp.flag == nil {
			return pos + c, l.invoke(l.toks[pos])
		}

		l.pending = l.pending[1:]
		l.seen[sp.flag] = true
		if c == 0 {
			continue
		}
		values := make([]string, c)
		for j := range values {
			values[j] = l.toks[pos+j].text
		}
		l.log().Debug("allocated positional", zap.String("name", sp.flag.DisplayName()), zap.Strings("values", values))
		if err := l.apply(sp.flag, "", values); err != nil {
			return 0, err
		}
		pos += c
	}
	return pos, nil
}

// invoke resolves a subcommand token and parses everything after it with
// the selected command.
func (l *level) invoke(t token) error {
	subs := l.cmd.subs
	name, node, err := subs.Resolve(t.text)
	if err != nil {
		var pe *ParseError
		if l.s.p.suggestDistance > 0 && errors.As(err, &pe) && pe.Type == ErrorTypeNoMatch {
			if best := fuzzy.NewMatcher(l.s.p.suggestDistance).Best(t.text, subs.keys); best != "" {
				pe.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", best))
			}
		}
		return l.fail(err)
	}

	l.invoked = true
	if subs.dest != "" {
		l.s.res.set(subs.dest, name, StateSupplied)
	}

	path := append(slices.Clone(l.path), name)
	l.log().Debug("resolved subcommand",
		zap.String("token", t.text),
		zap.String("canonical", name),
		zap.Strings("path", path))

	final, err := l.s.parseCommand(node, l.args[t.index+1:], path)
	if err != nil {
		return err
	}
	l.finalPath = final
	return nil
}

func (l *level) finish() error {
	var missing []string
	for _, f := range l.cmd.flags {
		if f.isRequired() && !l.seen[f] {
			missing = append(missing, f.DisplayName())
		}
	}
	if len(missing) > 0 {
		pe := NewParseError(ErrorTypeMissingRequired,
			"the following arguments are required: "+strings.Join(missing, ", "))
		pe.Candidates = missing
		return l.fail(pe)
	}

	for _, g := range l.cmd.groups {
		if err := g.Check(l.s.res); err != nil {
			return l.fail(err)
		}
		l.log().Debug("group satisfied", zap.String("group", g.title))
	}

	if subs := l.cmd.subs; subs != nil && !subs.optional && !l.invoked {
		pe := NewParseError(ErrorTypeMissingSubcommand, "subcommand required")
		pe.Candidates = subs.Keys()
		return l.fail(pe)
	}
	return nil
}

// apply stores the values of one occurrence of f.
func (l *level) apply(f *Flag, opt string, values []string) error {
	l.seen[f] = true
	if err := l.store(f, opt, values); err != nil {
		return l.fail(toParseError(err, values).attribute(f.DisplayName()))
	}
	return nil
}

func (l *level) store(f *Flag, opt string, values []string) error {
	res := l.s.res
	switch f.action {
	case ActionStoreConst:
		res.set(f.dest, f.constant, StateSupplied)
	case ActionStoreTrue:
		res.set(f.dest, true, StateSupplied)
	case ActionStoreFalse:
		res.set(f.dest, false, StateSupplied)
	case ActionCount:
		n, _ := Lookup[int](res, f.dest)
		res.set(f.dest, n+1, StateSupplied)
	case ActionOnOff:
		res.set(f.dest, !strings.HasPrefix(opt, "--no-"), StateSupplied)
	case ActionBoolean:
		b := true
		if len(values) > 0 {
			var err error
			if b, err = parseOnOff(values[0]); err != nil {
				return err
			}
		}
		res.set(f.dest, b, StateSupplied)
	case ActionStore:
		v, ok, err := f.occurrence(values)
		if err != nil {
			return err
		}
		if ok {
			res.set(f.dest, v, StateSupplied)
		}
	case ActionAppend:
		v, ok, err := f.occurrence(values)
		if err != nil || !ok {
			return err
		}
		prev, _ := res.Get(f.dest)
		res.set(f.dest, append(anySlice(prev), v), StateSupplied)
	}
	return nil
}

// occurrence converts the values of one occurrence into what Store keeps
// and Append adds.
func (f *Flag) occurrence(values []string) (any, bool, error) {
	if !f.scalar() {
		list, err := f.convertAll(values)
		return list, err == nil, err
	}
	if len(values) == 0 {
		return f.constant, true, nil
	}
	return f.convert(values[0])
}

// configValue converts a configured default.
func (f *Flag) configValue(raw []string) (any, error) {
	first := ""
	if len(raw) > 0 {
		first = raw[0]
	}

	switch f.action {
	case ActionStoreTrue, ActionStoreFalse, ActionOnOff, ActionBoolean:
		return parseOnOff(first)
	case ActionStoreConst:
		on, err := parseOnOff(first)
		if err != nil || !on {
			return nil, err
		}
		return f.constant, nil
	case ActionCount:
		return parseInteger(first)
	case ActionAppend:
		if f.scalar() {
			return f.convertAll(raw)
		}
		list, err := f.convertAll(raw)
		if err != nil {
			return nil, err
		}
		return []any{list}, nil
	}

	if !f.scalar() {
		return f.convertAll(raw)
	}
	v, _, err := f.convert(first)
	return v, err
}

// anySlice copies a list value so appending never touches a default.
func anySlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if list, ok := v.([]any); ok {
		return slices.Clone(list)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func toParseError(err error, values []string) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	token := ""
	if len(values) > 0 {
		token = values[0]
	}
	return &ParseError{Type: ErrorTypeInvalidValue, Message: err.Error(), Token: token}
}
