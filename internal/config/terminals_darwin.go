//go:build darwin

package config

// macOS terminals that accept a command line. Terminal.app and iTerm2
// cannot run an argv directly and are left out.
func terminalCandidates() []TerminalInfo {
	return []TerminalInfo{
		{ID: "wezterm", Name: "WezTerm", Cmd: "wezterm", Exec: []string{"wezterm", "start", "--"}},
		{ID: "kitty", Name: "Kitty", Cmd: "kitty", Exec: []string{"kitty"}},
		{ID: "alacritty", Name: "Alacritty", Cmd: "alacritty", Exec: []string{"alacritty", "-e"}},
	}
}
