package filter

// Range is a half-open span [Start, End) of rune indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether rune index i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// RangesFromPositions groups ascending, distinct positions into disjoint
// continuous runs.
func RangesFromPositions(positions []int) []Range {
	var out []Range
	for _, p := range positions {
		if n := len(out); n > 0 && out[n-1].End == p {
			out[n-1].End++
			continue
		}
		out = append(out, Range{Start: p, End: p + 1})
	}
	return out
}

// RangesFromMask recomputes runs from a per-rune match bitmap without
// re-running the matcher.
func RangesFromMask(mask []bool) []Range {
	var out []Range
	for i, on := range mask {
		if !on {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == i {
			out[n-1].End++
			continue
		}
		out = append(out, Range{Start: i, End: i + 1})
	}
	return out
}

// Mask expands ranges into a bitmap of length n. Ranges past n are clipped.
func Mask(ranges []Range, n int) []bool {
	mask := make([]bool, n)
	for _, r := range ranges {
		for i := r.Start; i < r.End && i < n; i++ {
			if i >= 0 {
				mask[i] = true
			}
		}
	}
	return mask
}
