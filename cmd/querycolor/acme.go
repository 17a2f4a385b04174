package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"9fans.net/go/acme"
	"9fans.net/go/plan9"
	"9fans.net/go/plan9/client"
	"github.com/spf13/cobra"

	"github.com/rjkroege/querycolor/document"
	"github.com/rjkroege/querycolor/spans"
)

const (
	editDelay = 300 * time.Millisecond
	selDelay  = 100 * time.Millisecond

	// Keep each spans write well under the usual 9P msize (8192+).
	maxChunk = 4000
)

func newAcmeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "acme",
		Short: "Color the edwood window named by $winid and follow its edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAcme(o)
		},
	}
}

// colorer keeps one window colored.
type colorer struct {
	win   *acme.Win
	fsys  *client.Fsys
	id    int
	doc   *document.Document
	theme *spans.Theme
	shown *spans.Store // styling the window has now, as far as we know

	body       []rune // body as of the last recolor; nil once edited
	autoIndent bool
}

func runAcme(o *options) error {
	id, err := getWinID()
	if err != nil {
		return err
	}
	tok, err := o.tokenizer()
	if err != nil {
		return err
	}
	th, err := o.theme()
	if err != nil {
		return err
	}

	win, err := acme.Open(id, nil)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}

	// Open the event file now rather than lazily, then re-enable the
	// file menu so Undo/Redo/Put stay in the tag.
	win.OpenEvent()
	win.Ctl("menu")

	// The spans file is written over raw 9P so writes can be chunked.
	fsys, err := client.MountService("acme")
	if err != nil {
		return fmt.Errorf("mount acme: %w", err)
	}

	c := &colorer{
		win:        win,
		fsys:       fsys,
		id:         id,
		doc:        document.New(tok),
		theme:      th,
		shown:      spans.NewStore(),
		autoIndent: true,
	}
	c.recolor(nil)
	c.eventLoop()
	return nil
}

func getWinID() (int, error) {
	s := os.Getenv("winid")
	if s == "" {
		return 0, fmt.Errorf("$winid not set")
	}
	return strconv.Atoi(s)
}

// recolor re-reads the body, re-tokenizes what changed, and writes
// the part of the styling that differs from what the window shows.
// highlights are rune ranges given a highlight background.
func (c *colorer) recolor(highlights [][2]int) {
	b, err := c.win.ReadAll("body")
	if err != nil {
		warn(fmt.Errorf("read body: %w", err))
		return
	}
	src := string(b)
	c.body = []rune(src)
	n := c.doc.SetText(src)

	runs := c.doc.StyleRuns(c.theme)
	if len(highlights) > 0 {
		runs = applyHighlights(runs, highlights)
	}

	if c.shown.TotalLen() != len(c.body) {
		// Lost track of the window; rewrite all of it.
		logf("resync: shown %d runes, body %d", c.shown.TotalLen(), len(c.body))
		c.shown.Clear()
	}
	start, end, changed := spans.ChangedRegion(c.shown.Runs(), runs)
	if !changed || end <= start {
		logf("recolor: %d lines tokenized, no change", n)
		return
	}
	region := spans.Slice(runs, start, end)
	logf("recolor: %d lines tokenized, rewriting runes [%d,%d)", n, start, end)
	if err := c.writeSpans(start, region); err != nil {
		warn(err)
		c.shown.Clear()
		return
	}
	c.shown.RegionUpdate(start, region)
}

// writeSpans writes runs to the window's spans file, starting at rune
// offset, in chunks of whole span definitions.
func (c *colorer) writeSpans(offset int, runs []spans.StyleRun) error {
	fid, err := c.fsys.Open(fmt.Sprintf("%d/spans", c.id), plan9.OWRITE)
	if err != nil {
		return fmt.Errorf("open spans: %w", err)
	}
	defer fid.Close()

	for _, chunk := range spans.ChunkSpanDefs(offset, runs, maxChunk) {
		if _, err := fid.Write([]byte(chunk)); err != nil {
			return fmt.Errorf("write spans: %w", err)
		}
	}
	return nil
}

// eventLoop follows edits and selections until the window closes.
func (c *colorer) eventLoop() {
	events := c.win.EventChan()
	var (
		editTimer  <-chan time.Time
		selTimer   <-chan time.Time
		lastSel    string
		lastQ0     int
		lastQ1     int
		highlights [][2]int
	)
	edited := func() {
		c.body = nil
		lastSel = ""
		highlights = nil
		editTimer = time.After(editDelay)
	}

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			switch e.C2 {
			case 'I':
				c.shown.Insert(e.Q0, e.Q1-e.Q0)
				if c.autoIndent && e.C1 == 'K' {
					c.handleAutoIndent(e)
				}
				edited()
			case 'D':
				c.shown.Delete(e.Q0, e.Q1-e.Q0)
				edited()
			case 'S':
				if c.body == nil {
					break
				}
				q0, q1 := e.Q0, e.Q1
				if q0 < 0 || q1 > len(c.body) || q0 > q1 {
					break
				}
				sel := string(c.body[q0:q1])
				if utf8.RuneCountInString(sel) >= 2 {
					if sel != lastSel || q0 != lastQ0 || q1 != lastQ1 {
						lastSel, lastQ0, lastQ1 = sel, q0, q1
						highlights = findMatches(c.body, c.body[q0:q1], q0, q1)
						selTimer = time.After(selDelay)
					}
				} else if lastSel != "" {
					lastSel = ""
					highlights = nil
					selTimer = time.After(selDelay)
				}
			case 'x', 'X':
				if strings.TrimRight(string(e.Text), "\n") == "Indent" {
					c.autoIndent = !c.autoIndent
					logf("auto-indent %v", c.autoIndent)
					break
				}
				c.win.WriteEvent(e)
			case 'l', 'L':
				c.win.WriteEvent(e)
			}
		case <-editTimer:
			editTimer = nil
			c.recolor(nil)
		case <-selTimer:
			selTimer = nil
			c.recolor(highlights)
		}
	}
}

// handleAutoIndent indents a freshly typed newline like the line it
// ends, one level deeper after an unclosed parenthesis, and pulls a
// ")" typed on an otherwise blank line back one level.
func (c *colorer) handleAutoIndent(e *acme.Event) {
	text := string(e.Text)
	if !strings.HasSuffix(text, "\n") && text != ")" {
		return
	}
	b, err := c.win.ReadAll("body")
	if err != nil {
		return
	}

	if text == ")" {
		if tab, ok := dedentPos([]rune(string(b)), e.Q1-1); ok {
			c.win.Addr("#%d,#%d", tab, tab+1)
			c.win.Write("data", nil)
		}
		return
	}

	// The document is brought up to date so the indent reflects the
	// tokens of the line just finished.
	c.doc.SetText(string(b))
	line, _ := c.doc.LineAt(e.Q0)
	if indent := c.doc.NextLineIndent(line); indent != "" {
		c.win.Addr("#%d", e.Q1)
		c.win.Write("data", []byte(indent))
	}
}

// dedentPos reports the tab to delete when ")" is typed at paren and
// everything before it on its line is blanks including a tab.
func dedentPos(body []rune, paren int) (int, bool) {
	if paren < 0 || paren >= len(body) {
		return 0, false
	}
	start := paren
	for start > 0 && body[start-1] != '\n' {
		start--
	}
	tab := -1
	for i := start; i < paren; i++ {
		switch body[i] {
		case '\t':
			tab = i
		case ' ':
		default:
			return 0, false
		}
	}
	return tab, tab >= 0
}
