package argx

import (
	"errors"
)

// ExitError requests a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success      int // default: 0
	GeneralError int // default: 1
	UsageError   int // default: 2
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, UsageError: 2}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByType map[ErrorType]int
	defaults    ExitCodeDefaults
}

// NewExitCodeManager returns a manager mapping every parse error to the
// usage code.
func NewExitCodeManager() *ExitCodeManager {
	return &ExitCodeManager{
		codesByType: make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),
	}
}

// DefineType overrides the exit code for one parse error category.
func (e *ExitCodeManager) DefineType(typ ErrorType, code int) *ExitCodeManager {
	e.codesByType[typ] = code
	return e
}

// Default replaces the manager's default codes.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// Resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. ParseError category mapping (DefineType)
//  3. ParseError usage code
//  4. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		if code, ok := e.codesByType[pe.Type]; ok {
			return code
		}
		return e.defaults.UsageError
	}
	return e.defaults.GeneralError
}

// ExitCode resolves err with the default mapping.
func ExitCode(err error) int {
	return NewExitCodeManager().Resolve(err)
}
