// Querycolor syntax-colors Stroom query language text.
//
// Run with no arguments from an edwood window (middle-click
// "querycolor"), it colors the window body through the window's spans
// file and keeps it colored while the body is edited, until the window
// closes. The $winid environment variable, set by edwood for B2
// commands, identifies the window.
//
// The spans and tokens subcommands print the span definitions or the
// tokens for a file, and check validates the grammar and theme.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rjkroege/querycolor/highlight"
	"github.com/rjkroege/querycolor/highlight/stroomql"
	"github.com/rjkroege/querycolor/spans"
)

const version = "querycolor v0.1.0"

var verbose bool

// logf logs only in verbose mode.
func logf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func warn(err error) {
	log.Print(err)
}

// options holds the flags shared by all subcommands.
type options struct {
	themeFile string
	grammar   stroomql.Config
}

func (o *options) tokenizer() (*highlight.Tokenizer, error) {
	if o.grammar == (stroomql.Config{}) {
		return stroomql.Default(), nil
	}
	return stroomql.New(o.grammar)
}

func (o *options) theme() (*spans.Theme, error) {
	if o.themeFile == "" {
		return spans.DefaultTheme(), nil
	}
	f, err := os.Open(o.themeFile)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	defer f.Close()
	th, err := spans.ParseTheme(f, spans.DefaultTheme())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.themeFile, err)
	}
	return th, nil
}

// readInput reads the named file, or in when name is empty or "-".
func readInput(in io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(in)
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "querycolor",
		Short:         "Syntax-color Stroom query language text",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("winid") == "" {
				return cmd.Help()
			}
			return runAcme(o)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.themeFile, "theme", "", "read category styles from `file`")
	pf.BoolVar(&o.grammar.NumericLiterals, "numbers", false, "color numeric literals as constants")
	pf.BoolVar(&o.grammar.DashComments, "dash-comments", false, "treat -- as a line comment")
	pf.BoolVar(&o.grammar.BacktickStrings, "backticks", false, "treat `quoted` text as strings")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newAcmeCmd(o),
		newSpansCmd(o),
		newTokensCmd(o),
		newCheckCmd(o),
	)
	return root
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("querycolor: ")
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
