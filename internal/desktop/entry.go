// Package desktop reads freedesktop.org desktop entries.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/ini.v1"

	"github.com/justyntemme/quiver/internal/debug"
	qfs "github.com/justyntemme/quiver/internal/fs"
)

const (
	mainSection   = "Desktop Entry"
	actionSection = "Desktop Action "
)

var (
	// ErrHidden marks entries that must not be listed: NoDisplay, Hidden,
	// OnlyShowIn/NotShowIn exclusions and non-Application types.
	ErrHidden = errors.New("desktop: entry is hidden")
	// ErrIncomplete marks entries without Name or Exec.
	ErrIncomplete = errors.New("desktop: entry lacks Name or Exec")
)

// Action is a "Desktop Action" section.
type Action struct {
	ID   string
	Name string
	Exec string
	Icon string
}

// Entry is a parsed application entry.
type Entry struct {
	// ID is the desktop file ID, used as the usage key.
	ID       string
	Path     string
	Name     string
	Keywords []string
	Exec     string
	Icon     string
	// WorkDir is the entry's Path key.
	WorkDir  string
	Terminal bool
	Actions  []Action
}

// MatchText is the text the filter scores: the name followed by keywords.
func (e *Entry) MatchText() string {
	if len(e.Keywords) == 0 {
		return e.Name
	}
	return e.Name + " " + strings.Join(e.Keywords, " ")
}

// Subname returns the name of action n (1-based). n == 0 is the primary
// action and has no subname.
func (e *Entry) Subname(n int) (string, bool) {
	if n < 1 || n > len(e.Actions) {
		return "", false
	}
	return e.Actions[n-1].Name, true
}

// ExecFor returns the Exec line of action n, or of the entry for n == 0.
func (e *Entry) ExecFor(n int) string {
	if n >= 1 && n <= len(e.Actions) {
		return e.Actions[n-1].Exec
	}
	return e.Exec
}

// IconFor returns the icon name of action n, falling back to the entry's.
func (e *Entry) IconFor(n int) string {
	if n >= 1 && n <= len(e.Actions) && e.Actions[n-1].Icon != "" {
		return e.Actions[n-1].Icon
	}
	return e.Icon
}

// Options control which entries are listed.
type Options struct {
	Locale Locale
	// Desktops is $XDG_CURRENT_DESKTOP split on ':'.
	Desktops []string
}

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
	KeyValueDelimiters:      "=",
}

// ParseFile reads one desktop file.
func ParseFile(path, id string, opts Options) (*Entry, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parse(f, path, id, opts)
}

// Parse reads a desktop entry from memory.
func Parse(data []byte, id string, opts Options) (*Entry, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", id, err)
	}
	return parse(f, "", id, opts)
}

func parse(f *ini.File, path, id string, opts Options) (*Entry, error) {
	sec, err := f.GetSection(mainSection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, ErrIncomplete)
	}

	if t := value(sec, "Type"); t != "" && t != "Application" {
		return nil, ErrHidden
	}
	if boolValue(sec, "NoDisplay") || boolValue(sec, "Hidden") {
		return nil, ErrHidden
	}
	if !shownIn(sec, opts.Desktops) {
		return nil, ErrHidden
	}

	keys := opts.Locale.Keys()
	e := &Entry{
		ID:       id,
		Path:     path,
		Name:     localized(sec, "Name", keys),
		Keywords: splitList(localized(sec, "Keywords", keys)),
		Exec:     value(sec, "Exec"),
		Icon:     localized(sec, "Icon", keys),
		WorkDir:  value(sec, "Path"),
		Terminal: boolValue(sec, "Terminal"),
	}
	if e.Name == "" || e.Exec == "" {
		return nil, fmt.Errorf("%s: %w", id, ErrIncomplete)
	}
	e.Actions = parseActions(f, sec, keys)
	return e, nil
}

// parseActions follows the Actions key order. Files without the key list
// their action sections in file order.
func parseActions(f *ini.File, sec *ini.Section, keys []string) []Action {
	var ids []string
	if sec.HasKey("Actions") {
		ids = splitList(value(sec, "Actions"))
	} else {
		for _, s := range f.Sections() {
			if strings.HasPrefix(s.Name(), actionSection) {
				ids = append(ids, strings.TrimPrefix(s.Name(), actionSection))
			}
		}
	}

	var actions []Action
	for _, aid := range ids {
		s, err := f.GetSection(actionSection + aid)
		if err != nil {
			continue
		}
		a := Action{
			ID:   aid,
			Name: localized(s, "Name", keys),
			Exec: value(s, "Exec"),
			Icon: localized(s, "Icon", keys),
		}
		if a.Name == "" || a.Exec == "" {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}

func value(sec *ini.Section, key string) string {
	if !sec.HasKey(key) {
		return ""
	}
	return strings.TrimSpace(sec.Key(key).String())
}

func boolValue(sec *ini.Section, key string) bool {
	return value(sec, key) == "true"
}

func localized(sec *ini.Section, key string, locales []string) string {
	for _, l := range locales {
		if v := value(sec, key+"["+l+"]"); v != "" {
			return v
		}
	}
	return value(sec, key)
}

// splitList splits a ';'-separated string list, honoring "\;" escapes.
func splitList(s string) []string {
	var out []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ';':
			cur.WriteByte(';')
			i++
		case s[i] == ';':
			if cur.Len() > 0 {
				out = append(out, cur.String())
			}
			cur.Reset()
		default:
			cur.WriteByte(s[i])
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func shownIn(sec *ini.Section, desktops []string) bool {
	if only := splitList(value(sec, "OnlyShowIn")); len(only) > 0 {
		if !intersects(only, desktops) {
			return false
		}
	}
	if not := splitList(value(sec, "NotShowIn")); len(not) > 0 {
		if intersects(not, desktops) {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}

// Load parses every file, skipping hidden and broken entries, then sorts by
// name and keeps the first entry of each name.
func Load(ctx context.Context, files []qfs.DesktopFile, opts Options) []*Entry {
	var entries []*Entry
	for _, df := range files {
		if ctx.Err() != nil {
			break
		}
		e, err := ParseFile(df.Path, df.ID, opts)
		if err != nil {
			if !errors.Is(err, ErrHidden) {
				debug.Log(debug.DESKTOP, "skipping %s: %v", df.Path, err)
			}
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	out := entries[:0]
	for i, e := range entries {
		if i > 0 && e.Name == entries[i-1].Name {
			continue
		}
		out = append(out, e)
	}
	debug.Log(debug.DESKTOP, "Load: %d files, %d entries", len(files), len(out))
	return out
}

// ExecArgv splits an Exec line into argv, expanding field codes: %f %F %u
// %U are dropped (no files are passed), %i becomes "--icon <Icon>", %c the
// name, %k the file path and %% a literal percent sign.
func (e *Entry) ExecArgv(action int) ([]string, error) {
	exec := e.ExecFor(action)
	tokens, err := shlex.Split(exec)
	if err != nil {
		return nil, fmt.Errorf("split Exec %q: %w", exec, err)
	}

	argv := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok {
		case "%i":
			if icon := e.IconFor(action); icon != "" {
				argv = append(argv, "--icon", icon)
			}
			continue
		case "%f", "%F", "%u", "%U", "%d", "%D", "%n", "%N", "%v", "%m":
			continue
		}
		if strings.IndexByte(tok, '%') < 0 {
			argv = append(argv, tok)
			continue
		}
		if expanded := e.expandCodes(tok); expanded != "" {
			argv = append(argv, expanded)
		}
	}
	return argv, nil
}

func (e *Entry) expandCodes(tok string) string {
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '%' || i+1 >= len(tok) {
			b.WriteByte(tok[i])
			continue
		}
		i++
		switch tok[i] {
		case '%':
			b.WriteByte('%')
		case 'c':
			b.WriteString(e.Name)
		case 'k':
			b.WriteString(e.Path)
		default:
			// unknown or file codes expand to nothing
		}
	}
	return b.String()
}

// DesktopsFromEnv splits an $XDG_CURRENT_DESKTOP value.
func DesktopsFromEnv(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ":")
}
