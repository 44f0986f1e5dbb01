// Package argx is a command-line parser built around a matching engine.
//
// Every value a flag or positional receives is resolved against an ordered
// CandidateSet: literal strings (matched by unique prefix), typed scalars,
// regular-expression patterns and converter functions. The same engine
// resolves subcommand names, so "ep" selects "epsilon" when nothing else
// starts with "ep", aliases collapse onto their canonical name, and a prefix
// shared by two different subcommands is reported as ambiguous.
//
// A minimal program:
//
//	root := argx.New("tool")
//	root.Flag("--level").Choices("debug", "info", "warn")
//	root.Flag("--retries").Type(argx.Unsigned).Default(3)
//
//	sub := root.Subcommands()
//	sub.Add("serve", "s").Flag("--port").Type(argx.Unsigned)
//	sub.Add("status")
//
//	res, err := root.Parse(os.Args[1:])
//	if err != nil {
//		fmt.Fprintf(os.Stderr, "%s: error: %v\n", argx.Prog(err, "tool"), err)
//		os.Exit(argx.ExitCode(err))
//	}
//	level, _ := argx.Lookup[string](res, "level")
//
// After the token pass every command checks its "some of" groups (at least
// one member must be given) and whether a mandatory subcommand was selected.
// Parsing is all-or-nothing: the first failure is returned as a *ParseError.
package argx
