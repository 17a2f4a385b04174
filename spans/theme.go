package spans

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/rjkroege/querycolor/highlight"
)

// Theme maps token categories to styles. Categories without an entry
// use the default style.
type Theme struct {
	styles map[highlight.Category]StyleAttrs
}

func hex(v uint32) color.Color {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// DefaultTheme returns the built-in color scheme.
func DefaultTheme() *Theme {
	return &Theme{styles: map[highlight.Category]StyleAttrs{
		highlight.Keyword:  {Fg: hex(0x0000cc), Bold: true}, // blue
		highlight.String:   {Fg: hex(0x008000)},             // green
		highlight.Comment:  {Fg: hex(0x808080)},             // gray
		highlight.Constant: {Fg: hex(0xcc6600)},             // orange
		highlight.Function: {Fg: hex(0x008080)},             // teal
		highlight.Type:     {Fg: hex(0x8000a0)},             // purple
		highlight.Operator: {Fg: hex(0x993300)},
	}}
}

// Style returns the style for c.
func (t *Theme) Style(c highlight.Category) StyleAttrs {
	if t == nil {
		return StyleAttrs{}
	}
	return t.styles[c]
}

// Set replaces the style for c.
func (t *Theme) Set(c highlight.Category, st StyleAttrs) {
	if t.styles == nil {
		t.styles = make(map[highlight.Category]StyleAttrs)
	}
	t.styles[c] = st
}

// ParseTheme reads theme entries from r and applies them on top of
// base, which is not modified. Each non-blank line not starting with
// '#' has the form
//
//	category fg-color [bg-color] [flags...]
//
// where category is a name such as "keyword" or "paren.open".
func ParseTheme(r io.Reader, base *Theme) (*Theme, error) {
	t := &Theme{styles: make(map[highlight.Category]StyleAttrs)}
	if base != nil {
		for c, st := range base.styles {
			t.styles[c] = st
		}
	}
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		c, err := highlight.ParseCategory(fields[0])
		if err != nil {
			return nil, fmt.Errorf("theme line %d: %w", n, err)
		}
		st, err := parseStyle(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("theme line %d: %w", n, err)
		}
		t.styles[c] = st
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading theme: %w", err)
	}
	return t, nil
}
