package stroomql

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rjkroege/querycolor/highlight"
)

type tok struct {
	Cat highlight.Category
	Lex string
}

func lex(t *testing.T, tz *highlight.Tokenizer, line string, st highlight.State) ([]tok, highlight.State) {
	t.Helper()
	toks, next := tz.Tokenize(line, st)
	out := make([]tok, len(toks))
	for i, tk := range toks {
		out[i] = tok{tk.Category, tk.Lexeme}
	}
	return out, next
}

func TestKeywordPrecedence(t *testing.T) {
	tests := []struct {
		word string
		want highlight.Category
	}{
		{"count", highlight.Function},
		{"select", highlight.Keyword},
		{"SELECT", highlight.Keyword},
		{"true", highlight.Constant},
		{"varchar", highlight.Type},
		{"myCol123", highlight.Identifier},
		{"$tmp_1", highlight.Identifier},
		{"null", highlight.Keyword},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, _ := lex(t, Default(), tt.word, highlight.Start)
			want := []tok{{tt.want, tt.word}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringLiteralIntegrity(t *testing.T) {
	tests := []string{`"a | b"`, `'a | b'`, `"say \"hi\" | x"`}
	for _, line := range tests {
		got, _ := lex(t, Default(), line, highlight.Start)
		want := []tok{{highlight.String, line}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: (-want +got):\n%s", line, diff)
		}
	}
}

func TestOperatorBoundary(t *testing.T) {
	tests := []struct {
		line string
		op   string
	}{
		{"a<=b", "<="},
		{"a>=b", ">="},
		{"a<>b", "<>"},
		{"a<@>b", "<@>"},
		{"a!=b", "!="},
		{"a=b", "="},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, _ := lex(t, Default(), tt.line, highlight.Start)
			want := []tok{
				{highlight.Identifier, "a"},
				{highlight.Operator, tt.op},
				{highlight.Identifier, "b"},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestBlockCommentAcrossLines(t *testing.T) {
	tz := Default()
	lines := []string{"select /* start", "  | where x = 'y' ", "end */ from t"}

	got, st := lex(t, tz, lines[0], highlight.Start)
	if st != BlockComment {
		t.Fatalf("state after line 1 = %q, want %q", st, BlockComment)
	}
	want := []tok{
		{highlight.Keyword, "select"}, {highlight.Text, " "},
		{highlight.Comment, "/*"}, {highlight.Comment, " start"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("line 1 (-want +got):\n%s", diff)
	}

	// Line 2 in isolation, given the carried state.
	got, st = lex(t, tz, lines[1], BlockComment)
	if st != BlockComment {
		t.Errorf("state after line 2 = %q, want %q", st, BlockComment)
	}
	for _, tk := range got {
		if tk.Cat != highlight.Comment {
			t.Errorf("line 2 token %q is %v, want comment", tk.Lex, tk.Cat)
		}
	}

	got, st = lex(t, tz, lines[2], st)
	if st != highlight.Start {
		t.Errorf("state after line 3 = %q, want start", st)
	}
	want = []tok{
		{highlight.Comment, "end "}, {highlight.Comment, "*/"},
		{highlight.Text, " "}, {highlight.Keyword, "from"},
		{highlight.Text, " "}, {highlight.Identifier, "t"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("line 3 (-want +got):\n%s", diff)
	}
}

func TestQueryLine(t *testing.T) {
	line := `select count(*), max(x) from events // totals`
	got, st := lex(t, Default(), line, highlight.Start)
	want := []tok{
		{highlight.Keyword, "select"}, {highlight.Text, " "},
		{highlight.Function, "count"}, {highlight.ParenOpen, "("},
		{highlight.Operator, "*"}, {highlight.ParenClose, ")"},
		{highlight.Punctuation, ","}, {highlight.Text, " "},
		{highlight.Function, "max"}, {highlight.ParenOpen, "("},
		{highlight.Identifier, "x"}, {highlight.ParenClose, ")"},
		{highlight.Text, " "}, {highlight.Keyword, "from"},
		{highlight.Text, " "}, {highlight.Identifier, "events"},
		{highlight.Text, " "}, {highlight.Comment, "// totals"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if st != highlight.Start {
		t.Errorf("state = %q, want start", st)
	}
}

func TestPipe(t *testing.T) {
	got, _ := lex(t, Default(), "from x | eval", highlight.Start)
	want := []tok{
		{highlight.Keyword, "from"}, {highlight.Text, " "},
		{highlight.Identifier, "x"}, {highlight.Text, " "},
		{highlight.Punctuation, "|"}, {highlight.Text, " "},
		{highlight.Identifier, "eval"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFallback(t *testing.T) {
	line := "a # b ¶"
	got, _ := lex(t, Default(), line, highlight.Start)
	var b strings.Builder
	for _, tk := range got {
		b.WriteString(tk.Lex)
	}
	if b.String() != line {
		t.Fatalf("lexemes join to %q, want %q", b.String(), line)
	}
	for _, tk := range got {
		if (tk.Lex == "#" || tk.Lex == "¶") && tk.Cat != highlight.Text {
			t.Errorf("%q is %v, want text", tk.Lex, tk.Cat)
		}
	}
}

func TestDeterminism(t *testing.T) {
	line := `where name = "x" and n <= 3 /* c */ | limit 10`
	a, sa := Default().Tokenize(line, highlight.Start)
	b, sb := Default().Tokenize(line, highlight.Start)
	if diff := cmp.Diff(a, b); diff != "" || sa != sb {
		t.Errorf("second call differs (state %q vs %q):\n%s", sa, sb, diff)
	}
}

func TestDefaultShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default returned different tokenizers")
	}
	if name := Default().Name(); name != "stroom_query" {
		t.Errorf("Name = %q", name)
	}
}

func TestConfigOptions(t *testing.T) {
	tz, err := New(Config{NumericLiterals: true, DashComments: true, BacktickStrings: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := []struct {
		line string
		want []tok
	}{
		{"12.5", []tok{{highlight.Constant, "12.5"}}},
		{"x -- note", []tok{{highlight.Identifier, "x"}, {highlight.Text, " "}, {highlight.Comment, "-- note"}}},
		{"`my col`", []tok{{highlight.String, "`my col`"}}},
		{"1e9", []tok{{highlight.Constant, "1e9"}}},
	}
	for _, tt := range tests {
		got, _ := lex(t, tz, tt.line, highlight.Start)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: (-want +got):\n%s", tt.line, diff)
		}
	}

	// The stock grammar leaves digits as plain text.
	got, _ := lex(t, Default(), "12", highlight.Start)
	want := []tok{{highlight.Text, "1"}, {highlight.Text, "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stock 12: (-want +got):\n%s", diff)
	}
}

func TestGrammarStates(t *testing.T) {
	got := Default().States()
	want := []highlight.State{BlockComment, highlight.Start}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("States (-want +got):\n%s", diff)
	}
	if c := Default().Fallback(BlockComment); c != highlight.Comment {
		t.Errorf("Fallback(blockComment) = %v", c)
	}
}
