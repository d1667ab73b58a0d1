// Package filter scores and orders launcher candidates against a live query.
//
// An empty query yields the unfiltered sentinel: every candidate in source
// order, without scoring. Otherwise each candidate is matched independently
// and only candidates with a match survive, ordered by descending score.
package filter

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"github.com/sahilm/fuzzy"

	"github.com/justyntemme/quiver/internal/debug"
)

func init() {
	// Builds fzf's character class and boundary bonus tables.
	algo.Init("default")
}

// Source is the read-only candidate view consumed by Run. String returns the
// matchable text of candidate i (display name plus any hidden keywords).
// The method set is the same as fuzzy.Source so both algorithms share it.
type Source interface {
	Len() int
	String(i int) string
}

// Algorithm selects the scoring backend.
type Algorithm int

const (
	AlgorithmFZF    Algorithm = iota // fzf's FuzzyMatchV2 (default)
	AlgorithmSimple                  // sahilm/fuzzy, cheaper, no gap penalty
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSimple:
		return "simple"
	default:
		return "fzf"
	}
}

// AlgorithmByName maps a config value to an Algorithm. Unknown names fall
// back to AlgorithmFZF.
func AlgorithmByName(name string) Algorithm {
	switch name {
	case "simple", "sahilm":
		return AlgorithmSimple
	default:
		return AlgorithmFZF
	}
}

// Options tune a single Run.
type Options struct {
	Algorithm Algorithm
	// Exact switches to contiguous substring matching (the "@" input prefix).
	Exact bool
}

// Match is one surviving candidate.
type Match struct {
	Index     int   // position in the Source
	Score     int   // higher is better
	Positions []int // matched rune indices, ascending
}

// Start returns the first matched rune index.
func (m Match) Start() int {
	if len(m.Positions) == 0 {
		return 0
	}
	return m.Positions[0]
}

// Ranges compresses Positions into continuous runs for highlighting.
func (m Match) Ranges() []Range {
	return RangesFromPositions(m.Positions)
}

// Result is either the unfiltered sentinel (all N candidates in order) or an
// explicit ordered list of matches. The zero value is an empty unfiltered
// result.
type Result struct {
	filtered bool
	total    int
	matches  []Match
}

// Unfiltered returns the sentinel for an empty query over n candidates.
func Unfiltered(n int) Result {
	return Result{total: n}
}

// Filtered reports whether the result came from scoring a non-empty query.
func (r Result) Filtered() bool { return r.filtered }

// Len is the number of rows in the filtered view.
func (r Result) Len() int {
	if r.filtered {
		return len(r.matches)
	}
	return r.total
}

// Index maps a filtered-view position back to the Source index. ok is false
// when i is outside the view.
func (r Result) Index(i int) (idx int, ok bool) {
	if i < 0 || i >= r.Len() {
		return 0, false
	}
	if r.filtered {
		return r.matches[i].Index, true
	}
	return i, true
}

// Match returns the scored match at view position i. ok is false for the
// unfiltered sentinel or an out-of-range i.
func (r Result) Match(i int) (Match, bool) {
	if !r.filtered || i < 0 || i >= len(r.matches) {
		return Match{}, false
	}
	return r.matches[i], true
}

// Indices returns the Source indices in view order.
func (r Result) Indices() []int {
	out := make([]int, r.Len())
	for i := range out {
		out[i], _ = r.Index(i)
	}
	return out
}

// Run filters src against query. It never fails: candidates without a match
// are excluded.
func Run(src Source, query string, opts Options) Result {
	if query == "" {
		return Unfiltered(src.Len())
	}

	var matches []Match
	switch {
	case opts.Exact:
		matches = matchFZF(src, query, algo.ExactMatchNaive)
	case opts.Algorithm == AlgorithmSimple:
		matches = matchSimple(src, query)
	default:
		matches = matchFZF(src, query, algo.FuzzyMatchV2)
	}

	sortMatches(matches)

	debug.Log(debug.FILTER, "Run: query=%q algo=%s exact=%v candidates=%d matches=%d",
		query, opts.Algorithm, opts.Exact, src.Len(), len(matches))
	if debug.IsEnabled(debug.FILTER) {
		for _, m := range matches[:min(len(matches), 3)] {
			debug.Log(debug.FILTER, "Run: top %q score=%d", src.String(m.Index), m.Score)
		}
	}
	return Result{filtered: true, total: src.Len(), matches: matches}
}

// sortMatches orders by descending score, then earliest match start, then
// source index so identical queries always produce identical order.
func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.Index < b.Index
	})
}

const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

func matchFZF(src Source, query string, fn algo.Algo) []Match {
	pattern := algo.NormalizeRunes(lowerRunes([]rune(query)))
	slab := util.MakeSlab(slab16Size, slab32Size)

	var matches []Match
	for i := 0; i < src.Len(); i++ {
		// Lowercase rune by rune so positions still index the original text.
		text := string(lowerRunes([]rune(src.String(i))))
		chars := util.ToChars([]byte(text))
		res, pos := fn(true, true, true, &chars, pattern, true, slab)
		if res.Start < 0 || res.Score <= 0 {
			continue
		}

		var positions []int
		if pos != nil && len(*pos) > 0 {
			positions = append(positions, (*pos)...)
			sort.Ints(positions)
		} else {
			// Exact matching reports only the span.
			for p := res.Start; p < res.End; p++ {
				positions = append(positions, p)
			}
		}
		matches = append(matches, Match{Index: i, Score: res.Score, Positions: positions})
	}
	return matches
}

func matchSimple(src Source, query string) []Match {
	found := fuzzy.FindFromNoSort(query, src)
	matches := make([]Match, 0, len(found))
	for _, f := range found {
		matches = append(matches, Match{
			Index:     f.Index,
			Score:     f.Score,
			Positions: byteToRuneIndexes(f.Str, f.MatchedIndexes),
		})
	}
	return matches
}

// byteToRuneIndexes converts ascending byte offsets into rune indices.
func byteToRuneIndexes(s string, byteIdx []int) []int {
	out := make([]int, 0, len(byteIdx))
	runeIdx, next := 0, 0
	for b := range s {
		for next < len(byteIdx) && byteIdx[next] == b {
			out = append(out, runeIdx)
			next++
		}
		runeIdx++
	}
	return out
}

func lowerRunes(rs []rune) []rune {
	for i, r := range rs {
		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				rs[i] = r + 'a' - 'A'
			}
			continue
		}
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
