//go:build !linux && !darwin && !windows

package config

func terminalCandidates() []TerminalInfo {
	return []TerminalInfo{
		{ID: "alacritty", Name: "Alacritty", Cmd: "alacritty", Exec: []string{"alacritty", "-e"}},
		{ID: "xterm", Name: "XTerm", Cmd: "xterm", Exec: []string{"xterm", "-e"}},
	}
}
