// Package spans converts highlighting into styled runs and speaks the
// span-definition protocol of edwood's per-window spans file.
package spans

import "image/color"

// StyleAttrs holds concrete styling for a span of text.
// The zero value means default styling.
type StyleAttrs struct {
	Fg     color.Color // nil = default foreground
	Bg     color.Color // nil = default background
	Bold   bool
	Italic bool
	Hidden bool
}

func colorEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// Equal reports whether a and b have identical styling.
func (a StyleAttrs) Equal(b StyleAttrs) bool {
	return colorEqual(a.Fg, b.Fg) &&
		colorEqual(a.Bg, b.Bg) &&
		a.Bold == b.Bold &&
		a.Italic == b.Italic &&
		a.Hidden == b.Hidden
}

// IsDefault reports whether a is the default style.
func (a StyleAttrs) IsDefault() bool { return a.Equal(StyleAttrs{}) }

// StyleRun is a contiguous range of runes sharing one style.
type StyleRun struct {
	Len   int // runes, >= 0
	Style StyleAttrs
}

// Store holds the style runs of one buffer in a gap buffer, so that
// edits near the previous edit are cheap. It tracks what a window is
// currently showing between recolorings.
type Store struct {
	runs     []StyleRun // runs[:gap0] and runs[gap1:] are live
	gap0     int
	gap1     int
	totalLen int
}

const minGap = 32

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{runs: make([]StyleRun, minGap), gap1: minGap}
}

// TotalLen returns the number of runes covered by all runs.
func (s *Store) TotalLen() int { return s.totalLen }

// NumRuns returns the number of live runs.
func (s *Store) NumRuns() int { return s.gap0 + len(s.runs) - s.gap1 }

// Clear removes all runs.
func (s *Store) Clear() {
	s.gap0, s.gap1, s.totalLen = 0, len(s.runs), 0
}

// ForEachRun calls fn for each run in order.
func (s *Store) ForEachRun(fn func(StyleRun)) {
	for _, r := range s.runs[:s.gap0] {
		fn(r)
	}
	for _, r := range s.runs[s.gap1:] {
		fn(r)
	}
}

// Runs returns a copy of all runs, or nil if there are none.
func (s *Store) Runs() []StyleRun {
	if s.NumRuns() == 0 {
		return nil
	}
	out := make([]StyleRun, 0, s.NumRuns())
	out = append(out, s.runs[:s.gap0]...)
	return append(out, s.runs[s.gap1:]...)
}

func (s *Store) at(i int) *StyleRun {
	if i >= s.gap0 {
		i += s.gap1 - s.gap0
	}
	return &s.runs[i]
}

// moveGap makes i the first index of the gap.
func (s *Store) moveGap(i int) {
	switch {
	case i < s.gap0:
		n := s.gap0 - i
		copy(s.runs[s.gap1-n:s.gap1], s.runs[i:s.gap0])
		s.gap0, s.gap1 = i, s.gap1-n
	case i > s.gap0:
		n := i - s.gap0
		copy(s.runs[s.gap0:], s.runs[s.gap1:s.gap1+n])
		s.gap0, s.gap1 = i, s.gap1+n
	}
}

// reserve makes room for n more runs in the gap.
func (s *Store) reserve(n int) {
	if s.gap1-s.gap0 >= n {
		return
	}
	grow := max(len(s.runs), n, minGap)
	runs := make([]StyleRun, len(s.runs)+grow)
	copy(runs, s.runs[:s.gap0])
	tail := len(s.runs) - s.gap1
	copy(runs[len(runs)-tail:], s.runs[s.gap1:])
	s.runs, s.gap1 = runs, len(runs)-tail
}

// insertRuns places rs at logical index i.
func (s *Store) insertRuns(i int, rs ...StyleRun) {
	s.moveGap(i)
	s.reserve(len(rs))
	s.gap0 += copy(s.runs[s.gap0:], rs)
}

// removeRuns drops n runs starting at logical index i.
func (s *Store) removeRuns(i, n int) {
	if n <= 0 {
		return
	}
	s.moveGap(i)
	s.gap1 += n
}

// find returns the run containing rune pos and pos's offset within
// it. For pos == TotalLen it returns (NumRuns, 0).
func (s *Store) find(pos int) (int, int) {
	n := s.NumRuns()
	for i := 0; i < n; i++ {
		l := s.at(i).Len
		if pos < l {
			return i, pos
		}
		pos -= l
	}
	return n, 0
}

// split ensures a run boundary at rune pos and returns the index of
// the run starting there.
func (s *Store) split(pos int) int {
	i, off := s.find(pos)
	if off == 0 {
		return i
	}
	r := *s.at(i)
	s.at(i).Len = off
	s.insertRuns(i+1, StyleRun{Len: r.Len - off, Style: r.Style})
	return i + 1
}

// Insert records that length runes were inserted at pos. The new
// text takes the style of the run it extends: the preceding run, or
// the first run when pos is 0.
func (s *Store) Insert(pos, length int) {
	if length <= 0 {
		return
	}
	n := s.NumRuns()
	switch {
	case n == 0:
		s.insertRuns(0, StyleRun{Len: length})
	case pos <= 0:
		s.at(0).Len += length
	case pos >= s.totalLen:
		s.at(n - 1).Len += length
	default:
		i, off := s.find(pos)
		if off == 0 {
			i--
		}
		s.at(i).Len += length
	}
	s.totalLen += length
}

// Delete records that the runes in [pos, pos+length) were deleted.
func (s *Store) Delete(pos, length int) {
	if pos+length > s.totalLen {
		length = s.totalLen - pos
	}
	if length <= 0 {
		return
	}
	first := s.split(pos)
	last := s.split(pos + length)
	s.removeRuns(first, last-first)
	s.totalLen -= length
	s.normalize()
}

// RegionUpdate replaces the styling of the runes starting at offset
// with runs. The region length is the sum of the run lengths.
func (s *Store) RegionUpdate(offset int, runs []StyleRun) {
	n := 0
	for _, r := range runs {
		n += r.Len
	}
	if n == 0 {
		return
	}
	first := s.split(offset)
	last := s.split(offset + n)
	s.removeRuns(first, last-first)
	live := make([]StyleRun, 0, len(runs))
	for _, r := range runs {
		if r.Len > 0 {
			live = append(live, r)
		}
	}
	s.insertRuns(first, live...)
	s.normalize()
	s.totalLen = 0
	s.ForEachRun(func(r StyleRun) { s.totalLen += r.Len })
}

// normalize drops empty runs and merges neighbors with equal styles.
func (s *Store) normalize() {
	i := 0
	for i < s.NumRuns() {
		cur := s.at(i)
		switch {
		case cur.Len == 0:
			s.removeRuns(i, 1)
		case i+1 < s.NumRuns() && s.at(i+1).Style.Equal(cur.Style):
			l := s.at(i + 1).Len
			s.at(i).Len += l
			s.removeRuns(i+1, 1)
		default:
			i++
		}
	}
}
