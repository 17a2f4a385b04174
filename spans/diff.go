package spans

// Total returns the number of runes covered by runs.
func Total(runs []StyleRun) int {
	n := 0
	for _, r := range runs {
		n += r.Len
	}
	return n
}

// commonPrefix returns how many leading runes of a and b have equal
// styles.
func commonPrefix(a, b []StyleRun, at func([]StyleRun, int) StyleRun) int {
	i, j := 0, 0
	var ra, rb int // runes left in a[i], b[j]
	if len(a) > 0 {
		ra = at(a, 0).Len
	}
	if len(b) > 0 {
		rb = at(b, 0).Len
	}
	n := 0
	for i < len(a) && j < len(b) {
		switch {
		case ra == 0:
			if i++; i < len(a) {
				ra = at(a, i).Len
			}
			continue
		case rb == 0:
			if j++; j < len(b) {
				rb = at(b, j).Len
			}
			continue
		}
		if !at(a, i).Style.Equal(at(b, j).Style) {
			return n
		}
		step := min(ra, rb)
		n += step
		ra -= step
		rb -= step
	}
	return n
}

func forward(rs []StyleRun, i int) StyleRun  { return rs[i] }
func backward(rs []StyleRun, i int) StyleRun { return rs[len(rs)-1-i] }

// ChangedRegion returns the smallest rune range [start, end) of next
// outside of which next styles text the same as prev, aligning the
// two at both ends. changed is false if next and prev are identical.
// If next is longer, the region spans at least the extra runes; if it
// is shorter, the region may be empty.
func ChangedRegion(prev, next []StyleRun) (start, end int, changed bool) {
	np, nn := Total(prev), Total(next)
	start = commonPrefix(prev, next, forward)
	if start == np && start == nn {
		return 0, 0, false
	}
	suffix := commonPrefix(prev, next, backward)
	// The prefix and suffix may overlap in the shorter list.
	suffix = min(suffix, nn-start, np-start)
	return start, nn - suffix, true
}

// Slice returns the runs covering runes [start, end) of runs, with the
// first and last trimmed to the range.
func Slice(runs []StyleRun, start, end int) []StyleRun {
	var out []StyleRun
	pos := 0
	for _, r := range runs {
		rs, re := pos, pos+r.Len
		pos = re
		if re <= start || r.Len == 0 {
			continue
		}
		if rs >= end {
			break
		}
		if l := min(re, end) - max(rs, start); l > 0 {
			out = append(out, StyleRun{Len: l, Style: r.Style})
		}
	}
	return out
}
