package config

import (
	"os/exec"

	"github.com/justyntemme/quiver/internal/debug"
)

// TerminalInfo represents an available terminal application
type TerminalInfo struct {
	ID      string   // Identifier used in config
	Name    string   // Display name
	Cmd     string   // Command to check if installed
	Exec    []string // Prefix that runs the trailing argv inside the terminal
	Default bool     // True if this is the platform default
}

var lookPath = exec.LookPath

// DetectTerminals returns the installed terminals in order of preference.
// The first one found is marked as default.
func DetectTerminals() []TerminalInfo {
	var installed []TerminalInfo
	for _, term := range terminalCandidates() {
		if _, err := lookPath(term.Cmd); err != nil {
			continue
		}
		term.Default = len(installed) == 0
		installed = append(installed, term)
	}
	return installed
}

// DefaultTerminal returns the launch prefix of the preferred installed
// terminal, or nil when none is found.
func DefaultTerminal() []string {
	for _, t := range DetectTerminals() {
		if t.Default {
			debug.Log(debug.EXEC, "Terminal: detected %s", t.ID)
			return append([]string(nil), t.Exec...)
		}
	}
	return nil
}
