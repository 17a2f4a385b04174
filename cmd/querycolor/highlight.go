package main

import (
	"image/color"

	"github.com/rjkroege/querycolor/spans"
)

var highlightBg = color.RGBA{R: 0xf0, G: 0xf4, B: 0xff, A: 0xff} // very light blue

// findMatches returns the non-overlapping rune ranges where sel occurs
// in body, other than the selection [selQ0, selQ1) itself.
func findMatches(body, sel []rune, selQ0, selQ1 int) [][2]int {
	var matches [][2]int
	if len(sel) == 0 {
		return nil
	}
outer:
	for i := 0; i+len(sel) <= len(body); i++ {
		for j, r := range sel {
			if body[i+j] != r {
				continue outer
			}
		}
		if i != selQ0 || i+len(sel) != selQ1 {
			matches = append(matches, [2]int{i, i + len(sel)})
		}
		i += len(sel) - 1
	}
	return matches
}

// applyHighlights gives the runes in each highlight range the
// highlight background. Highlights must be sorted and not overlap.
func applyHighlights(runs []spans.StyleRun, highlights [][2]int) []spans.StyleRun {
	if len(highlights) == 0 {
		return runs
	}
	var out []spans.StyleRun
	add := func(n int, st spans.StyleAttrs) {
		if n > 0 {
			out = append(out, spans.StyleRun{Len: n, Style: st})
		}
	}

	h := 0
	pos := 0
	for _, r := range runs {
		end := pos + r.Len
		for h < len(highlights) && highlights[h][1] <= pos {
			h++
		}
		cur := pos
		for k := h; k < len(highlights) && highlights[k][0] < end; k++ {
			hs, he := max(highlights[k][0], pos), min(highlights[k][1], end)
			add(hs-cur, r.Style)
			lit := r.Style
			lit.Bg = highlightBg
			add(he-hs, lit)
			cur = he
		}
		add(end-cur, r.Style)
		pos = end
	}
	return out
}
