//go:build !darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for Linux and Windows
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Exit:         []string{"Escape", "Ctrl+C"},
		Prev:         []string{"Up", "Ctrl+K", "Shift+Tab"},
		Next:         []string{"Down", "Ctrl+J", "Tab"},
		PrevAction:   []string{"Left"},
		NextAction:   []string{"Right"},
		Activate:     []string{"Return", "KPEnter"},
		ActivateFork: []string{"Ctrl+Return"},
		ClearInput:   []string{"Ctrl+]"},
		DeleteWord:   []string{"Ctrl+W", "Ctrl+Backspace"},
		DeleteChar:   []string{"Backspace"},
		PageUp:       []string{"PageUp"},
		PageDown:     []string{"PageDown"},
	}
}
