//go:build linux

package config

// Popular Linux terminals in order of preference
func terminalCandidates() []TerminalInfo {
	return []TerminalInfo{
		{ID: "foot", Name: "Foot", Cmd: "foot", Exec: []string{"foot"}},
		{ID: "alacritty", Name: "Alacritty", Cmd: "alacritty", Exec: []string{"alacritty", "-e"}},
		{ID: "kitty", Name: "Kitty", Cmd: "kitty", Exec: []string{"kitty"}},
		{ID: "wezterm", Name: "WezTerm", Cmd: "wezterm", Exec: []string{"wezterm", "start", "--"}},
		{ID: "gnome-terminal", Name: "GNOME Terminal", Cmd: "gnome-terminal", Exec: []string{"gnome-terminal", "--"}},
		{ID: "konsole", Name: "Konsole", Cmd: "konsole", Exec: []string{"konsole", "-e"}},
		{ID: "xfce4-terminal", Name: "XFCE Terminal", Cmd: "xfce4-terminal", Exec: []string{"xfce4-terminal", "-x"}},
		{ID: "tilix", Name: "Tilix", Cmd: "tilix", Exec: []string{"tilix", "-e"}},
		{ID: "x-terminal-emulator", Name: "Default Terminal", Cmd: "x-terminal-emulator", Exec: []string{"x-terminal-emulator", "-e"}},
		{ID: "xterm", Name: "XTerm", Cmd: "xterm", Exec: []string{"xterm", "-e"}},
	}
}
