package spans

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// FormatColor is the inverse of ParseColor for hex and default colors.
func FormatColor(c color.Color) string {
	if c == nil {
		return "-"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func appendDef(b *strings.Builder, offset int, r StyleRun) {
	b.WriteString(strconv.Itoa(offset))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.Len))
	b.WriteByte(' ')
	b.WriteString(FormatColor(r.Style.Fg))
	if r.Style.Bg != nil {
		b.WriteByte(' ')
		b.WriteString(FormatColor(r.Style.Bg))
	}
	if r.Style.Bold {
		b.WriteString(" bold")
	}
	if r.Style.Italic {
		b.WriteString(" italic")
	}
	if r.Style.Hidden {
		b.WriteString(" hidden")
	}
	b.WriteByte('\n')
}

// FormatSpanDefs renders runs as span definitions, the first starting
// at rune offset.
func FormatSpanDefs(offset int, runs []StyleRun) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Len == 0 {
			continue
		}
		appendDef(&b, offset, r)
		offset += r.Len
	}
	return b.String()
}

// ChunkSpanDefs is like FormatSpanDefs but splits the output into
// chunks of at most limit bytes, each holding whole lines, so that each
// chunk can be sent as one write. A single line longer than limit gets
// a chunk of its own.
func ChunkSpanDefs(offset int, runs []StyleRun, limit int) []string {
	var (
		chunks []string
		buf    strings.Builder
		line   strings.Builder
	)
	for _, r := range runs {
		if r.Len == 0 {
			continue
		}
		line.Reset()
		appendDef(&line, offset, r)
		offset += r.Len
		if buf.Len() > 0 && buf.Len()+line.Len() > limit {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(line.String())
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}
