package main

import (
	"fmt"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/rjkroege/querycolor/document"
	"github.com/rjkroege/querycolor/highlight"
	"github.com/rjkroege/querycolor/spans"
)

func newSpansCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "spans [file]",
		Short: "Print span definitions for a file or standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := o.tokenizer()
			if err != nil {
				return err
			}
			th, err := o.theme()
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			doc := document.New(tok)
			doc.SetText(text)
			_, err = fmt.Fprint(cmd.OutOrStdout(), spans.FormatSpanDefs(0, doc.StyleRuns(th)))
			return err
		},
	}
}

// dumpLine is what tokens --dump prints per line.
type dumpLine struct {
	Line   int
	Entry  highlight.State
	Exit   highlight.State
	Tokens []dumpToken
}

type dumpToken struct {
	Category string
	Lexeme   string
	Start    int
	End      int
}

func newTokensCmd(o *options) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a file or standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := o.tokenizer()
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			doc := document.New(tok)
			doc.SetText(text)
			w := cmd.OutOrStdout()

			if dump {
				var lines []dumpLine
				for i := 0; i < doc.Len(); i++ {
					dl := dumpLine{Line: i + 1, Entry: doc.EntryState(i), Exit: doc.ExitState(i)}
					for _, t := range doc.Tokens(i) {
						dl.Tokens = append(dl.Tokens, dumpToken{t.Category.String(), t.Lexeme, t.Start, t.End})
					}
					lines = append(lines, dl)
				}
				opts := litter.Options{StripPackageNames: true, HidePrivateFields: true}
				_, err := fmt.Fprintln(w, opts.Sdump(lines))
				return err
			}

			for i := 0; i < doc.Len(); i++ {
				for _, t := range doc.Tokens(i) {
					fmt.Fprintf(w, "%d:%d-%d %s %q\n", i+1, t.Start, t.End, t.Category, t.Lexeme)
				}
				if entry, exit := doc.EntryState(i), doc.ExitState(i); entry != exit {
					fmt.Fprintf(w, "%d: state %s -> %s\n", i+1, entry, exit)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dump tokens as Go values")
	return cmd
}

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build the grammar and theme and report their shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := o.tokenizer()
			if err != nil {
				return err
			}
			th, err := o.theme()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "grammar %s\n", tok.Name())
			for _, st := range tok.States() {
				fmt.Fprintf(w, "state %s: %d rules, default %s\n", st, tok.NumRules(st), tok.Fallback(st))
			}
			kw := tok.Keywords()
			var counts []string
			for _, c := range []highlight.Category{highlight.Function, highlight.Keyword, highlight.Constant, highlight.Type} {
				counts = append(counts, fmt.Sprintf("%s %d", c, kw.Count(c)))
			}
			fmt.Fprintf(w, "words %d: %s\n", kw.Len(), strings.Join(counts, ", "))

			src := "default"
			if o.themeFile != "" {
				src = o.themeFile
			}
			styled := 0
			for _, c := range highlight.Categories() {
				if !th.Style(c).IsDefault() {
					styled++
				}
			}
			fmt.Fprintf(w, "theme %s: %d styled categories\n", src, styled)
			return nil
		},
	}
}
