package highlight

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testGrammar is a small language: words, "strings", <, <=, and
// {- -} block comments entering "nested".
func testGrammar() Grammar {
	return Grammar{
		Name: "test",
		Words: WordSets{
			Functions: []string{"len"},
			Keywords:  []string{"if"},
		},
		States: map[State][]Rule{
			Start: {
				{Kind: As(Comment), Start: `\{-`, End: `-\}`, Next: "nested"},
				{Kind: As(String), Regexp: `"[^"]*"`},
				{Kind: Words, Regexp: `[a-z]+`},
				{Kind: As(Operator), Literals: []string{"<", "<="}},
			},
		},
	}
}

type tok struct {
	Cat Category
	Lex string
}

func simplify(toks []Token) []tok {
	out := make([]tok, len(toks))
	for i, t := range toks {
		out[i] = tok{t.Category, t.Lexeme}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tz := MustNormalize(testGrammar())
	tests := []struct {
		name  string
		line  string
		state State
		want  []tok
		next  State
	}{
		{
			name:  "empty",
			line:  "",
			state: Start,
			want:  []tok{},
			next:  Start,
		},
		{
			name:  "words and operators",
			line:  "if len<=x",
			state: Start,
			want: []tok{
				{Keyword, "if"}, {Text, " "}, {Function, "len"},
				{Operator, "<="}, {Identifier, "x"},
			},
			next: Start,
		},
		{
			name:  "unmatched runes one at a time",
			line:  "a  ¤b",
			state: Start,
			want:  []tok{{Identifier, "a"}, {Text, " "}, {Text, " "}, {Text, "¤"}, {Identifier, "b"}},
			next:  Start,
		},
		{
			name:  "comment opens",
			line:  `x {- open`,
			state: Start,
			want:  []tok{{Identifier, "x"}, {Text, " "}, {Comment, "{-"}, {Comment, " open"}},
			next:  "nested",
		},
		{
			name:  "comment continues",
			line:  `still "inside"`,
			state: "nested",
			want:  []tok{{Comment, `still "inside"`}},
			next:  "nested",
		},
		{
			name:  "comment closes",
			line:  `end -} "s"`,
			state: "nested",
			want:  []tok{{Comment, "end "}, {Comment, "-}"}, {Text, " "}, {String, `"s"`}},
			next:  Start,
		},
		{
			name:  "unknown state starts over",
			line:  "if",
			state: "bogus",
			want:  []tok{{Keyword, "if"}},
			next:  Start,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, next := tz.Tokenize(tt.line, tt.state)
			if diff := cmp.Diff(tt.want, simplify(toks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if next != tt.next {
				t.Errorf("next state = %q, want %q", next, tt.next)
			}
		})
	}
}

func TestTokenizeCoverage(t *testing.T) {
	tz := MustNormalize(testGrammar())
	lines := []string{
		"",
		"if x < y",
		`"unterminated`,
		"{- a -} {- b",
		"日本語 <= len",
		"\t\x00\xff",
		strings.Repeat("<", 50),
	}
	for _, line := range lines {
		for _, st := range []State{Start, "nested"} {
			toks, _ := tz.Tokenize(line, st)
			var b strings.Builder
			pos := 0
			for i, tk := range toks {
				if tk.Start != pos {
					t.Errorf("%q/%s: token %d starts at %d, want %d", line, st, i, tk.Start, pos)
				}
				if tk.End <= tk.Start {
					t.Errorf("%q/%s: token %d is empty", line, st, i)
				}
				if line[tk.Start:tk.End] != tk.Lexeme {
					t.Errorf("%q/%s: token %d lexeme %q does not match offsets", line, st, i, tk.Lexeme)
				}
				pos = tk.End
				b.WriteString(tk.Lexeme)
			}
			if b.String() != line {
				t.Errorf("%q/%s: lexemes join to %q", line, st, b.String())
			}
		}
	}
}

func TestTokenizeConcurrent(t *testing.T) {
	tz := MustNormalize(testGrammar())
	want, _ := tz.Tokenize(`if len <= "x" {- c -}`, Start)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, _ := tz.Tokenize(`if len <= "x" {- c -}`, Start)
				if diff := cmp.Diff(want, got); diff != "" {
					errs <- diff
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for diff := range errs {
		t.Errorf("concurrent result differs:\n%s", diff)
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar Grammar
		want    error
		state   State
		rule    int
	}{
		{
			name:    "no start",
			grammar: Grammar{States: map[State][]Rule{"other": {{Kind: As(Text), Regexp: "x"}}}},
			want:    ErrNoStart,
			rule:    -1,
		},
		{
			name:    "no pattern",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Text)}}}},
			want:    ErrBadRule,
			state:   Start,
		},
		{
			name: "two patterns",
			grammar: Grammar{States: map[State][]Rule{Start: {
				{Kind: As(Text), Regexp: "x"},
				{Kind: As(Text), Regexp: "y", Literals: []string{"z"}},
			}}},
			want:  ErrBadRule,
			state: Start,
			rule:  1,
		},
		{
			name:    "half a pair",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Comment), Start: "/*"}}}},
			want:    ErrBadRule,
			state:   Start,
		},
		{
			name:    "bad regexp",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Text), Regexp: "(a"}}}},
			want:    ErrBadPattern,
			state:   Start,
		},
		{
			name:    "stray paren balanced by wrapping",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Text), Regexp: "a)|(b"}}}},
			want:    ErrBadPattern,
			state:   Start,
		},
		{
			name:    "bad end pattern",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Comment), Start: "x", End: "[", Next: "c"}}}},
			want:    ErrBadPattern,
			state:   Start,
		},
		{
			name:    "dangling state",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Text), Regexp: "x", Next: "nowhere"}}}},
			want:    ErrUnknownState,
			state:   Start,
		},
		{
			name: "overlapping words",
			grammar: Grammar{
				Words:  WordSets{Functions: []string{"max"}, Keywords: []string{"max"}},
				States: map[State][]Rule{Start: {{Kind: Words, Regexp: "[a-z]+"}}},
			},
			want: ErrOverlap,
			rule: -1,
		},
		{
			name:    "pair into itself",
			grammar: Grammar{States: map[State][]Rule{Start: {{Kind: As(Comment), Start: "a", End: "b", Next: Start}}}},
			want:    ErrBadRule,
			state:   Start,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz, err := Normalize(tt.grammar)
			if tz != nil {
				t.Error("got a tokenizer from a bad grammar")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("err is %T, want *ConfigError", err)
			}
			if ce.State != tt.state || ce.Rule != tt.rule {
				t.Errorf("error at state %q rule %d, want %q rule %d", ce.State, ce.Rule, tt.state, tt.rule)
			}
		})
	}
}

func TestMustNormalizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNormalize did not panic")
		}
	}()
	MustNormalize(Grammar{})
}

func TestNormalizeGeneratedState(t *testing.T) {
	tz := MustNormalize(Grammar{States: map[State][]Rule{
		Start: {{Kind: As(String), Start: `<<`, End: `>>`}},
	}})
	toks, next := tz.Tokenize("a << b", Start)
	if next != "start.0" {
		t.Fatalf("next = %q, want start.0", next)
	}
	want := []tok{{Text, "a"}, {Text, " "}, {String, "<<"}, {String, " b"}}
	if diff := cmp.Diff(want, simplify(toks)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got := tz.Fallback(next); got != String {
		t.Errorf("Fallback(%q) = %v, want String", next, got)
	}
	if got := tz.States(); !cmp.Equal(got, []State{Start, "start.0"}) {
		t.Errorf("States = %v", got)
	}
	if n := tz.NumRules("start.0"); n != 1 {
		t.Errorf("NumRules(start.0) = %d, want 1", n)
	}
}

func TestExitRulePrecedesStateRules(t *testing.T) {
	// "q" declares its own rules; the exit rule must still win.
	tz := MustNormalize(Grammar{States: map[State][]Rule{
		Start: {{Kind: As(String), Start: `'`, End: `'`, Next: "q"}},
		"q":   {{Kind: As(Operator), Regexp: `[^a-z]`}},
	}})
	toks, next := tz.Tokenize("'ab'", Start)
	want := []tok{{String, "'"}, {String, "ab"}, {String, "'"}}
	if diff := cmp.Diff(want, simplify(toks)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if next != Start {
		t.Errorf("next = %q, want start", next)
	}
}
