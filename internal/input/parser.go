// Package input splits the raw query line into a search string and optional
// launch modifiers:
//
//	[@]search[!!args][#env][~workdir]
//
// Modifiers may appear in any order. Each separator starts a new field that
// runs until the next separator. A repeated field keeps its last value.
// Parsing never fails; an input without separators is all search string.
package input

import (
	"strings"

	"github.com/google/shlex"
)

const (
	exactPrefix = "@"
	argsSep     = "!!"
	envSep      = "#"
	workdirSep  = "~"
)

// Value is a parsed input line. Every string field is a substring of Source.
type Value struct {
	Source       string
	ExactPrefix  bool
	SearchString string

	Args    string
	HasArgs bool

	EnvVars string
	HasEnv  bool

	WorkingDir    string
	HasWorkingDir bool
}

type fieldKind int

const (
	fieldNone fieldKind = iota
	fieldArgs
	fieldEnv
	fieldWorkdir
)

// Parse splits s into its fields.
func Parse(s string) Value {
	v := Value{Source: s}

	rest := s
	if strings.HasPrefix(rest, exactPrefix) {
		v.ExactPrefix = true
		rest = rest[len(exactPrefix):]
	}

	part, kind, rest := nextPart(rest)
	v.SearchString = part

	for kind != fieldNone {
		var next fieldKind
		part, next, rest = nextPart(rest)
		switch kind {
		case fieldArgs:
			v.Args, v.HasArgs = part, true
		case fieldEnv:
			v.EnvVars, v.HasEnv = part, true
		case fieldWorkdir:
			v.WorkingDir, v.HasWorkingDir = part, true
		}
		kind = next
	}
	return v
}

// nextPart returns the text before the earliest separator, the kind of field
// that separator opens, and the remainder after it.
func nextPart(s string) (part string, kind fieldKind, rest string) {
	best, bestLen := -1, 0
	for _, sep := range []struct {
		tok  string
		kind fieldKind
	}{
		{argsSep, fieldArgs},
		{envSep, fieldEnv},
		{workdirSep, fieldWorkdir},
	} {
		if i := strings.Index(s, sep.tok); i >= 0 && (best < 0 || i < best) {
			best, bestLen, kind = i, len(sep.tok), sep.kind
		}
	}
	if best < 0 {
		return s, fieldNone, ""
	}
	return s[:best], kind, s[best+bestLen:]
}

// SplitArgs tokenizes the args field with shell quoting rules.
func (v Value) SplitArgs() ([]string, error) {
	if !v.HasArgs {
		return nil, nil
	}
	return shlex.Split(v.Args)
}

// SplitEnv tokenizes the env field into KEY=VALUE assignments.
func (v Value) SplitEnv() ([]string, error) {
	if !v.HasEnv {
		return nil, nil
	}
	return shlex.Split(v.EnvVars)
}
