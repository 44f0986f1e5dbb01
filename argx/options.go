package argx

import (
	"maps"

	"go.uber.org/zap"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing of a parse.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSuggestions enables "Did you mean" suggestions for unknown options and
// mistyped subcommands within maxDistance edits.
func WithSuggestions(maxDistance int) Option {
	return func(p *Parser) {
		p.suggestDistance = maxDistance
	}
}

// WithDefaults supplies default values keyed by destination, prefixed by the
// canonical subcommand path ("epsilon.omega.akarmi"). Values are converted
// like command-line tokens and never count as supplied.
func WithDefaults(values map[string][]string) Option {
	return func(p *Parser) {
		if p.defaults == nil {
			p.defaults = make(map[string][]string, len(values))
		}
		maps.Copy(p.defaults, values)
	}
}
