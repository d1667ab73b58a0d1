// Package launch turns a resolved candidate into a running process: it
// applies the extra arguments, environment and working directory typed in
// the query, wraps terminal applications and spawns the child detached from
// the launcher.
package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/mitchellh/go-homedir"

	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/input"
)

// Request is one launch.
type Request struct {
	Argv []string
	// Terminal wraps Argv in the terminal command.
	Terminal bool
	// Input supplies extra args, env vars and a working directory override.
	Input input.Value
	// Dir is the default working directory, used when Input has none.
	Dir string
}

// Launcher spawns processes.
type Launcher struct {
	term    []string
	environ func() []string
}

// New returns a Launcher. term is the terminal prefix, e.g.
// ["foot"] or ["alacritty", "-e"]; it may be empty.
func New(term []string) *Launcher {
	return &Launcher{
		term:    term,
		environ: os.Environ,
	}
}

// Terminal returns the configured terminal prefix.
func (l *Launcher) Terminal() []string { return l.term }

// ResolveTerminal picks the terminal prefix: the configured command line,
// else $TERMINAL followed by "-e".
func ResolveTerminal(configured, envTerminal string) ([]string, error) {
	if configured != "" {
		argv, err := shlex.Split(configured)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", configured, ErrInvalidArguments)
		}
		return argv, nil
	}
	if envTerminal != "" {
		return []string{envTerminal, "-e"}, nil
	}
	return nil, nil
}

// SplitCommand splits a free-text command line.
func SplitCommand(line string) ([]string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", line, ErrInvalidArguments)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// Command builds the exec.Cmd for req without starting it.
func (l *Launcher) Command(req Request) (*exec.Cmd, error) {
	if len(req.Argv) == 0 {
		return nil, ErrEmptyCommand
	}

	argv := append([]string(nil), req.Argv...)
	extra, err := req.Input.SplitArgs()
	if err != nil {
		return nil, fmt.Errorf("args %q: %w", req.Input.Args, ErrInvalidArguments)
	}
	argv = append(argv, extra...)

	if req.Terminal {
		if len(l.term) == 0 {
			return nil, ErrNoTerminal
		}
		argv = append(append([]string(nil), l.term...), argv...)
	}

	env, err := req.Input.SplitEnv()
	if err != nil {
		return nil, fmt.Errorf("env %q: %w", req.Input.EnvVars, ErrInvalidArguments)
	}

	dir := req.Dir
	if req.Input.HasWorkingDir && req.Input.WorkingDir != "" {
		dir = req.Input.WorkingDir
	}
	if dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return nil, &ExecError{Op: "chdir", Argv: argv, Err: err}
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return nil, &ExecError{Op: "chdir", Argv: argv, Err: err}
		}
		if !info.IsDir() {
			return nil, &ExecError{Op: "chdir", Argv: argv, Err: fmt.Errorf("%s is not a directory", expanded)}
		}
		dir = expanded
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(l.environ(), env...)
	}
	detach(cmd)
	return cmd, nil
}

// Start builds and spawns req. The child runs in its own session and is
// reaped in the background, so Start returns as soon as it is running.
func (l *Launcher) Start(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd, err := l.Command(req)
	if err != nil {
		return err
	}

	debug.Log(debug.EXEC, "start: argv=%q dir=%q env+=%q", cmd.Args, cmd.Dir, req.Input.EnvVars)
	if err := cmd.Start(); err != nil {
		return &ExecError{Op: "start", Argv: cmd.Args, Err: err}
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			debug.Log(debug.EXEC, "child %d exited: %v", cmd.Process.Pid, err)
		}
	}()
	return nil
}
