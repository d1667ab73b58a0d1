package config

import (
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"

	"github.com/justyntemme/quiver/internal/debug"
)

// Hotkey represents a parsed keyboard shortcut
type Hotkey struct {
	Key       key.Name
	Modifiers key.Modifiers
}

// ParseHotkey parses a hotkey string like "Ctrl+Shift+N" into a Hotkey struct
func ParseHotkey(s string) Hotkey {
	if s == "" {
		return Hotkey{}
	}

	var mods key.Modifiers
	var rawKeyPart string

	// "Ctrl++" binds the plus key
	if strings.HasSuffix(s, "++") {
		rawKeyPart = "+"
		s = strings.TrimSuffix(s, "++")
	}

	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= key.ModCtrl
		case "shift":
			mods |= key.ModShift
		case "alt", "option":
			mods |= key.ModAlt
		case "cmd", "command":
			mods |= key.ModCommand
		case "super", "meta", "win", "windows":
			mods |= key.ModSuper
		case "":
		default:
			rawKeyPart = part
		}
	}

	keyName := parseKeyName(rawKeyPart)

	// Gio reports the shifted character for number keys (Shift+1 = "!")
	if mods.Contain(key.ModShift) {
		if shifted, ok := shiftedNumbers[string(keyName)]; ok {
			keyName = key.Name(shifted)
		}
	}

	return Hotkey{Key: keyName, Modifiers: mods}
}

// shiftedNumbers maps number keys to their shifted equivalents (US keyboard layout)
var shiftedNumbers = map[string]string{
	"1": "!", "2": "@", "3": "#", "4": "$", "5": "%",
	"6": "^", "7": "&", "8": "*", "9": "(", "0": ")",
}

// unshiftedNumbers is the reverse mapping for display purposes
var unshiftedNumbers = map[string]string{
	"!": "1", "@": "2", "#": "3", "$": "4", "%": "5",
	"^": "6", "&": "7", "*": "8", "(": "9", ")": "0",
}

// parseKeyName converts a key string to Gio's key.Name
func parseKeyName(s string) key.Name {
	if s == "" {
		return ""
	}
	if len(s) == 1 {
		return key.Name(strings.ToUpper(s))
	}

	switch strings.ToLower(s) {
	case "f1":
		return key.NameF1
	case "f2":
		return key.NameF2
	case "f3":
		return key.NameF3
	case "f4":
		return key.NameF4
	case "f5":
		return key.NameF5
	case "f6":
		return key.NameF6
	case "f7":
		return key.NameF7
	case "f8":
		return key.NameF8
	case "f9":
		return key.NameF9
	case "f10":
		return key.NameF10
	case "f11":
		return key.NameF11
	case "f12":
		return key.NameF12

	case "up", "uparrow":
		return key.NameUpArrow
	case "down", "downarrow":
		return key.NameDownArrow
	case "left", "leftarrow":
		return key.NameLeftArrow
	case "right", "rightarrow":
		return key.NameRightArrow
	case "home":
		return key.NameHome
	case "end":
		return key.NameEnd
	case "pageup", "pgup":
		return key.NamePageUp
	case "pagedown", "pgdn", "pgdown":
		return key.NamePageDown

	case "enter", "return":
		return key.NameReturn
	case "kpenter", "keypadenter":
		return key.NameEnter
	case "tab":
		return key.NameTab
	case "space", "spacebar":
		return key.NameSpace
	case "backspace", "back":
		return key.NameDeleteBackward
	case "delete", "del":
		return key.NameDeleteForward
	case "escape", "esc":
		return key.NameEscape

	default:
		return key.Name(s)
	}
}

// Matches checks if a key event matches this hotkey
// Uses exact matching for modifiers to distinguish between similar hotkeys
// (e.g., Ctrl+Return vs Return)
func (h Hotkey) Matches(k key.Event) bool {
	if h.Key == "" {
		return false
	}
	return k.Name == h.Key && k.Modifiers == h.Modifiers
}

// IsEmpty returns true if the hotkey is not configured
func (h Hotkey) IsEmpty() bool {
	return h.Key == ""
}

// String returns a human-readable representation of the hotkey
func (h Hotkey) String() string {
	if h.Key == "" {
		return ""
	}

	var parts []string
	if h.Modifiers.Contain(key.ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if h.Modifiers.Contain(key.ModCommand) {
		parts = append(parts, "Cmd")
	}
	if h.Modifiers.Contain(key.ModShift) {
		parts = append(parts, "Shift")
	}
	if h.Modifiers.Contain(key.ModAlt) {
		parts = append(parts, "Alt")
	}
	if h.Modifiers.Contain(key.ModSuper) {
		parts = append(parts, "Super")
	}

	keyStr := string(h.Key)
	if h.Modifiers.Contain(key.ModShift) {
		if original, ok := unshiftedNumbers[keyStr]; ok {
			keyStr = original
		}
	}
	parts = append(parts, keyStr)
	return strings.Join(parts, "+")
}

// Filter returns a key.Filter that matches this hotkey
func (h Hotkey) Filter(focus event.Tag) key.Filter {
	return key.Filter{
		Focus:    focus,
		Name:     h.Key,
		Required: h.Modifiers,
	}
}

// Action is a launcher command a hotkey can trigger.
type Action int

const (
	ActionNone Action = iota
	ActionExit
	ActionPrev
	ActionNext
	ActionPrevAction
	ActionNextAction
	ActionActivate
	ActionActivateFork
	ActionClearInput
	ActionDeleteWord
	ActionDeleteChar
	ActionPageUp
	ActionPageDown
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionExit:         "exit",
	ActionPrev:         "prev",
	ActionNext:         "next",
	ActionPrevAction:   "prev_action",
	ActionNextAction:   "next_action",
	ActionActivate:     "activate",
	ActionActivateFork: "activate_fork",
	ActionClearInput:   "clear_input",
	ActionDeleteWord:   "delete_word",
	ActionDeleteChar:   "delete_char",
	ActionPageUp:       "page_up",
	ActionPageDown:     "page_down",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// HotkeysConfig lists the bindings of every action. Each action may have
// several.
type HotkeysConfig struct {
	Exit         []string `json:"exit" mapstructure:"exit"`
	Prev         []string `json:"prev" mapstructure:"prev"`
	Next         []string `json:"next" mapstructure:"next"`
	PrevAction   []string `json:"prev_action" mapstructure:"prev_action"`
	NextAction   []string `json:"next_action" mapstructure:"next_action"`
	Activate     []string `json:"activate" mapstructure:"activate"`
	ActivateFork []string `json:"activate_fork" mapstructure:"activate_fork"`
	ClearInput   []string `json:"clear_input" mapstructure:"clear_input"`
	DeleteWord   []string `json:"delete_word" mapstructure:"delete_word"`
	DeleteChar   []string `json:"delete_char" mapstructure:"delete_char"`
	PageUp       []string `json:"page_up" mapstructure:"page_up"`
	PageDown     []string `json:"page_down" mapstructure:"page_down"`
}

func (c HotkeysConfig) bindings() []struct {
	action Action
	keys   []string
} {
	return []struct {
		action Action
		keys   []string
	}{
		{ActionExit, c.Exit},
		{ActionPrev, c.Prev},
		{ActionNext, c.Next},
		{ActionPrevAction, c.PrevAction},
		{ActionNextAction, c.NextAction},
		{ActionActivate, c.Activate},
		{ActionActivateFork, c.ActivateFork},
		{ActionClearInput, c.ClearInput},
		{ActionDeleteWord, c.DeleteWord},
		{ActionDeleteChar, c.DeleteChar},
		{ActionPageUp, c.PageUp},
		{ActionPageDown, c.PageDown},
	}
}

type binding struct {
	hotkey Hotkey
	action Action
}

// HotkeyMatcher maps key events to actions
type HotkeyMatcher struct {
	bindings []binding
}

// NewHotkeyMatcher creates a matcher from config. When two actions claim
// the same key the one listed first wins.
func NewHotkeyMatcher(cfg HotkeysConfig) *HotkeyMatcher {
	m := &HotkeyMatcher{}
	for _, b := range cfg.bindings() {
		for _, s := range b.keys {
			hk := ParseHotkey(s)
			if hk.IsEmpty() {
				continue
			}
			m.bindings = append(m.bindings, binding{hotkey: hk, action: b.action})
		}
	}
	return m
}

// Match returns the action bound to k.
func (m *HotkeyMatcher) Match(k key.Event) (Action, bool) {
	for _, b := range m.bindings {
		if b.hotkey.Matches(k) {
			debug.Log(debug.HOTKEY, "%s -> %s", b.hotkey, b.action)
			return b.action, true
		}
	}
	return ActionNone, false
}

// Bindings returns the hotkeys bound to a.
func (m *HotkeyMatcher) Bindings(a Action) []Hotkey {
	var out []Hotkey
	for _, b := range m.bindings {
		if b.action == a {
			out = append(out, b.hotkey)
		}
	}
	return out
}

// Filters returns one key.Filter per binding for focus.
func (m *HotkeyMatcher) Filters(focus event.Tag) []event.Filter {
	filters := make([]event.Filter, 0, len(m.bindings))
	for _, b := range m.bindings {
		filters = append(filters, b.hotkey.Filter(focus))
	}
	return filters
}
