// Package stroomql defines the highlighting grammar of the Stroom
// query language: SQL-like words, pipe-separated stages, // and /* */
// comments, and single- or double-quoted strings.
package stroomql

import (
	"sync"

	"github.com/rjkroege/querycolor/highlight"
)

// BlockComment is the state inside a /* */ comment.
const BlockComment highlight.State = "blockComment"

var words = highlight.WordSets{
	Keywords: []string{
		"select", "insert", "update", "delete", "from", "where", "and", "or",
		"group", "by", "order", "limit", "offset", "having", "as", "case",
		"when", "then", "else", "end", "type", "left", "right", "join", "on",
		"outer", "desc", "asc", "union", "create", "table", "primary", "key",
		"if", "foreign", "not", "references", "default", "null", "inner",
		"cross", "natural", "database", "drop", "grant",
	},
	Constants: []string{"true", "false"},
	Functions: []string{
		"avg", "count", "first", "last", "max", "min", "sum", "ucase", "lcase",
		"mid", "len", "round", "rank", "now", "format",
		"coalesce", "ifnull", "isnull", "nvl",
	},
	Types: []string{
		"int", "numeric", "decimal", "date", "varchar", "char", "bigint",
		"float", "double", "bit", "binary", "text", "set", "timestamp",
		"money", "real", "number", "integer",
	},
}

var operators = []string{
	"+", "-", "/", "//", "%", "<@>", "@>", "<@", "&", "^", "~",
	"<", ">", "<=", ">=", "=>", "==", "!=", "<>", "=", "*",
}

// Config selects rules that the stock grammar leaves out.
type Config struct {
	NumericLiterals bool // 12, -3.5, 1e9 as Constant
	DashComments    bool // -- to end of line
	BacktickStrings bool // `quoted` names
}

// Grammar returns the rule table for cfg. The zero Config gives the
// stock grammar.
func Grammar(cfg Config) highlight.Grammar {
	start := []highlight.Rule{
		{Kind: highlight.As(highlight.Comment), Regexp: `//.*`},
		{Kind: highlight.As(highlight.Comment), Start: `/\*`, End: `\*/`, Next: BlockComment},
		{Kind: highlight.As(highlight.Punctuation), Regexp: `\|`},
		{Kind: highlight.As(highlight.String), Regexp: `"(?:[^"\\]|\\.)*"`},
		{Kind: highlight.As(highlight.String), Regexp: `'(?:[^'\\]|\\.)*'`},
	}
	if cfg.BacktickStrings {
		start = append(start, highlight.Rule{Kind: highlight.As(highlight.String), Regexp: "`[^`]*`"})
	}
	if cfg.DashComments {
		start = append(start, highlight.Rule{Kind: highlight.As(highlight.Comment), Regexp: `--.*`})
	}
	if cfg.NumericLiterals {
		start = append(start, highlight.Rule{
			Kind:   highlight.As(highlight.Constant),
			Regexp: `[+-]?\d+(?:(?:\.\d*)?(?:[eE][+-]?\d+)?)?\b`,
		})
	}
	start = append(start,
		highlight.Rule{Kind: highlight.Words, Regexp: `[a-zA-Z_$][a-zA-Z0-9_$]*\b`},
		highlight.Rule{Kind: highlight.As(highlight.Operator), Literals: operators},
		highlight.Rule{Kind: highlight.As(highlight.ParenOpen), Regexp: `\(`},
		highlight.Rule{Kind: highlight.As(highlight.ParenClose), Regexp: `\)`},
		highlight.Rule{Kind: highlight.As(highlight.Punctuation), Regexp: `,`},
	)
	return highlight.Grammar{
		Name:   "stroom_query",
		Words:  words,
		States: map[highlight.State][]highlight.Rule{highlight.Start: start},
	}
}

// New compiles the grammar for cfg.
func New(cfg Config) (*highlight.Tokenizer, error) {
	return highlight.Normalize(Grammar(cfg))
}

var stock = sync.OnceValue(func() *highlight.Tokenizer {
	return highlight.MustNormalize(Grammar(Config{}))
})

// Default returns the shared tokenizer for the stock grammar. It is
// compiled on first use.
func Default() *highlight.Tokenizer { return stock() }
