//go:build windows

package config

// Popular Windows terminals in order of preference
func terminalCandidates() []TerminalInfo {
	return []TerminalInfo{
		{ID: "wt", Name: "Windows Terminal", Cmd: "wt.exe", Exec: []string{"wt.exe"}},
		{ID: "wezterm", Name: "WezTerm", Cmd: "wezterm.exe", Exec: []string{"wezterm.exe", "start", "--"}},
		{ID: "alacritty", Name: "Alacritty", Cmd: "alacritty.exe", Exec: []string{"alacritty.exe", "-e"}},
		{ID: "cmd", Name: "Command Prompt", Cmd: "cmd.exe", Exec: []string{"cmd.exe", "/c", "start", "cmd.exe", "/k"}},
	}
}
