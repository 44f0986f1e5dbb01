package argx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents parse failure categories.
// The category drives exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeNoMatch           ErrorType = "no_match"
	ErrorTypeAmbiguous         ErrorType = "ambiguous"
	ErrorTypeInvalidValue      ErrorType = "invalid_value"
	ErrorTypeMissingValue      ErrorType = "missing_value"
	ErrorTypeMissingRequired   ErrorType = "missing_required"
	ErrorTypeMissingGroup      ErrorType = "missing_group"
	ErrorTypeMissingSubcommand ErrorType = "missing_subcommand"
	ErrorTypeUnrecognized      ErrorType = "unrecognized"
)

// ParseError is a terminal parsing failure.
type ParseError struct {
	Type    ErrorType
	Message string
	// Argument is the display name of the flag or positional the failure is
	// attributed to ("--foo/-f", "HI-HI-HI"). Empty for command-level failures.
	Argument string
	// Command is the program path of the command being parsed, e.g. "demo epsilon omega".
	Command    string
	Token      string
	Candidates []string
	// Suggestions are filled when the parser runs WithSuggestions.
	Suggestions []string
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(typ ErrorType, message string) *ParseError {
	return &ParseError{Type: typ, Message: message}
}

// WithSuggestion adds a suggestion to the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// attribute prefixes the message with the argument it belongs to.
func (e *ParseError) attribute(name string) *ParseError {
	if name == "" || e.Argument != "" {
		return e
	}
	e.Argument = name
	e.Message = "argument " + name + ": " + e.Message
	return e
}

// Prog returns the program path attached to a *ParseError, or fallback when
// err carries none.
func Prog(err error, fallback string) string {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Command != "" {
		return pe.Command
	}
	return fallback
}

// ConversionError is returned by converters that reject a token. The parser
// turns it into an invalid_value ParseError attributed to the argument.
type ConversionError struct {
	Name  string
	Value string
	// Msg replaces the default "invalid <name> value" text when set.
	Msg string
	Err error
}

func (e *ConversionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s value: '%s'", e.Name, e.Value)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Rejectf returns a conversion error with a custom message. Converters use
// it when the generic "invalid <name> value" text would be unhelpful.
func Rejectf(format string, args ...any) error {
	return &ConversionError{Msg: fmt.Sprintf(format, args...)}
}

// DeclarationError reports a misuse of the declaration API. Declarations
// panic with it, the same way regexp.MustCompile does.
type DeclarationError struct {
	Message string
}

func (e *DeclarationError) Error() string {
	return e.Message
}

func declarationErrorf(format string, args ...any) *DeclarationError {
	return &DeclarationError{Message: fmt.Sprintf(format, args...)}
}

// joinAlternatives renders "A", "A or B", "A, B or C".
func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
