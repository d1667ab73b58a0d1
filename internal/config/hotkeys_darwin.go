//go:build darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for macOS
// Word deletion follows the Cocoa text field convention (Option+Delete)
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Exit:         []string{"Escape", "Ctrl+C", "Cmd+W"},
		Prev:         []string{"Up", "Ctrl+K", "Shift+Tab"},
		Next:         []string{"Down", "Ctrl+J", "Tab"},
		PrevAction:   []string{"Left"},
		NextAction:   []string{"Right"},
		Activate:     []string{"Return", "KPEnter"},
		ActivateFork: []string{"Cmd+Return"},
		ClearInput:   []string{"Ctrl+]", "Cmd+Backspace"},
		DeleteWord:   []string{"Alt+Backspace", "Ctrl+W"},
		DeleteChar:   []string{"Backspace"},
		PageUp:       []string{"PageUp"},
		PageDown:     []string{"PageDown"},
	}
}
