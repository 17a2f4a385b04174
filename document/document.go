// Package document keeps the highlighting of one text buffer, threading
// tokenizer state from line to line and re-tokenizing only what an
// edit can affect.
package document

import (
	"strings"
	"unicode/utf8"

	"github.com/rjkroege/querycolor/highlight"
	"github.com/rjkroege/querycolor/spans"
)

type line struct {
	text  string
	entry highlight.State
	exit  highlight.State
	toks  []highlight.Token
}

// Document is the tokenized form of a buffer. It is not safe for
// concurrent use; keep one per buffer.
type Document struct {
	tok   *highlight.Tokenizer
	lines []line
}

// New returns an empty document highlighted by tok.
func New(tok *highlight.Tokenizer) *Document {
	d := &Document{tok: tok}
	d.SetText("")
	return d
}

// SetText replaces the buffer contents and returns how many lines had
// to be tokenized. Lines at the start and end that are unchanged keep
// their tokens, as long as the state they begin in is also unchanged.
func (d *Document) SetText(text string) int {
	texts := strings.Split(text, "\n")
	old := d.lines

	prefix := 0
	for prefix < len(texts) && prefix < len(old) && texts[prefix] == old[prefix].text {
		prefix++
	}
	suffix := 0
	for suffix < len(texts)-prefix && suffix < len(old)-prefix &&
		texts[len(texts)-1-suffix] == old[len(old)-1-suffix].text {
		suffix++
	}

	lines := make([]line, len(texts))
	copy(lines, old[:prefix])
	st := highlight.Start
	if prefix > 0 {
		st = lines[prefix-1].exit
	}
	n := 0
	for i := prefix; i < len(texts); i++ {
		if j := i - (len(texts) - suffix); j >= 0 {
			// In the unchanged tail: once the entry state agrees, the
			// rest of the old lines are still valid.
			if o := old[len(old)-suffix+j]; o.entry == st {
				copy(lines[i:], old[len(old)-suffix+j:])
				break
			}
		}
		toks, exit := d.tok.Tokenize(texts[i], st)
		lines[i] = line{text: texts[i], entry: st, exit: exit, toks: toks}
		st = exit
		n++
	}
	d.lines = lines
	return n
}

// Text returns the buffer contents.
func (d *Document) Text() string {
	texts := make([]string, len(d.lines))
	for i, l := range d.lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}

// Len returns the number of lines. An empty buffer has one empty line.
func (d *Document) Len() int { return len(d.lines) }

// Line returns the text of line i.
func (d *Document) Line(i int) string { return d.lines[i].text }

// Tokens returns the tokens of line i. The caller must not modify them.
func (d *Document) Tokens(i int) []highlight.Token { return d.lines[i].toks }

// EntryState returns the state line i was tokenized in.
func (d *Document) EntryState(i int) highlight.State { return d.lines[i].entry }

// ExitState returns the state in effect after line i.
func (d *Document) ExitState(i int) highlight.State { return d.lines[i].exit }

// LineAt returns the line holding rune offset q of the text and q's
// column, in runes, within it. Offsets past the end map to the end of
// the last line.
func (d *Document) LineAt(q int) (int, int) {
	for i, l := range d.lines {
		n := utf8.RuneCountInString(l.text)
		if q <= n || i == len(d.lines)-1 {
			return i, min(q, n)
		}
		q -= n + 1
	}
	return 0, 0
}

// StyleRuns styles the whole text with th. Runs are measured in runes;
// newlines take the default style.
func (d *Document) StyleRuns(th *spans.Theme) []spans.StyleRun {
	var runs []spans.StyleRun
	add := func(n int, st spans.StyleAttrs) {
		if n == 0 {
			return
		}
		if k := len(runs) - 1; k >= 0 && runs[k].Style.Equal(st) {
			runs[k].Len += n
			return
		}
		runs = append(runs, spans.StyleRun{Len: n, Style: st})
	}
	for i, l := range d.lines {
		if i > 0 {
			add(1, spans.StyleAttrs{})
		}
		for _, t := range l.toks {
			add(utf8.RuneCountInString(t.Lexeme), th.Style(t.Category))
		}
	}
	return runs
}

// NextLineIndent returns the indentation for a line opened after line
// i: line i's own leading blanks, plus a tab if line i leaves a
// parenthesis open. Parentheses in strings and comments do not count.
func (d *Document) NextLineIndent(i int) string {
	l := d.lines[i]
	indent := l.text[:len(l.text)-len(strings.TrimLeft(l.text, " \t"))]
	depth := 0
	for _, t := range l.toks {
		switch t.Category {
		case highlight.ParenOpen:
			depth++
		case highlight.ParenClose:
			if depth > 0 {
				depth--
			}
		}
	}
	if depth > 0 {
		indent += "\t"
	}
	return indent
}
