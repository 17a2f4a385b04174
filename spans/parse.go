package spans

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses "-" (default, returned as nil), "#rrggbb", or an
// SVG color name such as "teal".
func ParseColor(s string) (color.Color, error) {
	if s == "-" {
		return nil, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("bad color value: %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color value: %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// parseStyle parses "fg [bg] [flags...]", the style part of both a
// span definition and a theme entry.
func parseStyle(fields []string) (StyleAttrs, error) {
	var st StyleAttrs
	if len(fields) == 0 {
		return st, fmt.Errorf("missing color")
	}
	fg, err := ParseColor(fields[0])
	if err != nil {
		return st, err
	}
	st.Fg = fg
	flags := fields[1:]
	if len(flags) > 0 && !isFlag(flags[0]) {
		if st.Bg, err = ParseColor(flags[0]); err != nil {
			return st, err
		}
		flags = flags[1:]
	}
	for _, f := range flags {
		switch f {
		case "bold":
			st.Bold = true
		case "italic":
			st.Italic = true
		case "hidden":
			st.Hidden = true
		default:
			return st, fmt.Errorf("unknown span flag: %q", f)
		}
	}
	return st, nil
}

func isFlag(s string) bool {
	return s == "bold" || s == "italic" || s == "hidden"
}

// ParseSpanDefs parses the lines of one spans-file write. Each line is
//
//	offset length fg-color [bg-color] [flags...]
//
// Spans must be contiguous. It returns the runs and the offset of the
// first one. Spans starting at or past bufLen are dropped and the
// last runs are trimmed to fit, since the writer may have colored a
// stale copy of the body.
func ParseSpanDefs(data string, bufLen int) ([]StyleRun, int, error) {
	lines := strings.Split(data, "\n")
	runs := make([]StyleRun, 0, len(lines))
	regionStart, next := -1, -1

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, 0, fmt.Errorf("bad span format: need at least offset length color")
		}
		offset, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, 0, fmt.Errorf("bad span offset: %q", fields[0])
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, 0, fmt.Errorf("bad span length: %q", fields[1])
		}
		if offset < 0 || length < 0 {
			return nil, 0, fmt.Errorf("negative span offset or length")
		}
		if offset >= bufLen {
			break
		}
		if regionStart == -1 {
			regionStart, next = offset, offset
		}
		if offset != next {
			return nil, 0, fmt.Errorf("spans must be contiguous: expected offset %d, got %d", next, offset)
		}
		next = offset + length

		st, err := parseStyle(fields[2:])
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, StyleRun{Len: length, Style: st})
	}
	if regionStart == -1 {
		regionStart = 0
	}

	excess := next - bufLen
	for i := len(runs) - 1; i >= 0 && excess > 0; i-- {
		cut := min(runs[i].Len, excess)
		runs[i].Len -= cut
		excess -= cut
	}
	for len(runs) > 0 && runs[len(runs)-1].Len == 0 {
		runs = runs[:len(runs)-1]
	}
	return runs, regionStart, nil
}
