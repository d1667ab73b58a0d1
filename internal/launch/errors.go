package launch

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyCommand is returned when there is nothing to run.
	ErrEmptyCommand = errors.New("empty command")
	// ErrInvalidArguments is returned when args, env or a command line
	// cannot be split with shell quoting rules.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrNoTerminal is returned for terminal applications when no terminal
	// is configured.
	ErrNoTerminal = errors.New("no terminal configured, set \"term\" in the config or $TERMINAL")
)

// ExecError describes a failed launch step.
type ExecError struct {
	Op   string // "chdir", "start"
	Argv []string
	Err  error
}

func (e *ExecError) Error() string {
	return e.Op + " " + strings.Join(e.Argv, " ") + ": " + e.Err.Error()
}

func (e *ExecError) Unwrap() error { return e.Err }
