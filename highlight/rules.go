package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Configuration errors reported by Normalize, wrapped in a *ConfigError.
var (
	ErrNoStart      = errors.New("grammar has no start state")
	ErrBadRule      = errors.New("malformed rule")
	ErrBadPattern   = errors.New("bad pattern")
	ErrUnknownState = errors.New("unknown state")
	ErrOverlap      = errors.New("word sets overlap")
)

// ConfigError describes a grammar that cannot be compiled.
type ConfigError struct {
	State State // empty if not specific to a state
	Rule  int   // index into the state's rules, or -1
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("highlight: ")
	if e.State != "" {
		fmt.Fprintf(&b, "state %q: ", e.State)
	}
	if e.Rule >= 0 {
		fmt.Fprintf(&b, "rule %d: ", e.Rule)
	}
	b.WriteString(e.Err.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Kind says how a rule's matches are categorized: either a fixed
// Category, or Words, which looks the lexeme up in the grammar's
// word sets.
type Kind struct {
	cat   Category
	words bool
}

// As returns the Kind that always yields c.
func As(c Category) Kind { return Kind{cat: c} }

// Words resolves each match through the Keywords classifier.
var Words = Kind{words: true}

func (k Kind) String() string {
	if k.words {
		return "words"
	}
	return k.cat.String()
}

func (k Kind) resolve(lexeme string, kw *Keywords) Category {
	if k.words {
		return kw.Classify(lexeme)
	}
	return k.cat
}

// Rule is one entry of a state's ordered rule list. Exactly one of
// Regexp, Literals, or the Start/End pair must be set.
//
// A Start/End rule spans lines: Start enters the state Next (a fresh
// state is generated when Next is empty) and End, matched there,
// returns to the state the rule was declared in. Text inside the
// paired state that no rule matches takes the rule's category.
type Rule struct {
	Kind Kind

	Regexp   string   // single-line pattern
	Literals []string // literal alternatives; longer ones are tried first

	Start string
	End   string

	Next State // state to enter after a match
}

func (r Rule) paired() bool { return r.Start != "" || r.End != "" }

func (r Rule) check() string {
	n := 0
	if r.Regexp != "" {
		n++
	}
	if len(r.Literals) > 0 {
		n++
	}
	if r.paired() {
		if r.Start == "" || r.End == "" {
			return "paired rule needs both Start and End"
		}
		n++
	}
	switch {
	case n == 0:
		return "no pattern"
	case n > 1:
		return "more than one pattern form"
	}
	for _, l := range r.Literals {
		if l == "" {
			return "empty literal"
		}
	}
	return ""
}

// Grammar is the raw definition of a highlighted language.
type Grammar struct {
	Name   string
	Words  WordSets
	States map[State][]Rule
}

type rule struct {
	kind Kind
	re   *regexp.Regexp
	next State
}

type state struct {
	rules    []rule
	fallback Category
}

// Tokenizer splits lines into tokens according to a compiled Grammar.
// It is immutable and safe for concurrent use.
type Tokenizer struct {
	name     string
	states   map[State]*state
	keywords *Keywords
}

// New is an alias for Normalize.
func New(g Grammar) (*Tokenizer, error) { return Normalize(g) }

// MustNormalize is like Normalize but panics on error. It is meant
// for grammars defined in Go source.
func MustNormalize(g Grammar) *Tokenizer {
	t, err := Normalize(g)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize compiles g. Patterns are anchored at the cursor, literal
// lists are ordered longest first, and each paired rule is split into
// an enter rule in its own state and an exit rule at the head of the
// state it enters. Any defect in g is reported as a *ConfigError.
func Normalize(g Grammar) (*Tokenizer, error) {
	if _, ok := g.States[Start]; !ok {
		return nil, &ConfigError{Rule: -1, Err: ErrNoStart}
	}
	kw, err := NewKeywords(g.Words)
	if err != nil {
		return nil, err
	}
	t := &Tokenizer{
		name:     g.Name,
		states:   make(map[State]*state, len(g.States)),
		keywords: kw,
	}

	names := make([]State, 0, len(g.States))
	for name := range g.States {
		names = append(names, name)
		t.states[name] = &state{fallback: Text}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	// States entered by paired rules, with their exit rules in
	// declaration order.
	exits := make(map[State][]rule)
	var entered []State

	for _, name := range names {
		for i, r := range g.States[name] {
			if msg := r.check(); msg != "" {
				return nil, &ConfigError{State: name, Rule: i, Err: ErrBadRule, Msg: msg}
			}
			if !r.paired() {
				continue
			}
			target := r.Next
			if target == "" {
				target = State(fmt.Sprintf("%s.%d", name, i))
			}
			if target == name {
				return nil, &ConfigError{State: name, Rule: i, Err: ErrBadRule, Msg: "paired rule cannot enter its own state"}
			}
			st, ok := t.states[target]
			if !ok {
				st = &state{fallback: Text}
				t.states[target] = st
			}
			cat := r.Kind.cat
			if r.Kind.words {
				cat = Identifier
			}
			if _, seen := exits[target]; seen && st.fallback != cat {
				return nil, &ConfigError{State: name, Rule: i, Err: ErrBadRule,
					Msg: fmt.Sprintf("state %q is already a %s region", target, st.fallback)}
			}
			st.fallback = cat
			if _, seen := exits[target]; !seen {
				entered = append(entered, target)
			}
			re, err := compile(r.End)
			if err != nil {
				return nil, &ConfigError{State: name, Rule: i, Err: ErrBadPattern, Msg: err.Error()}
			}
			exits[target] = append(exits[target], rule{kind: r.Kind, re: re, next: name})
		}
	}

	for _, name := range names {
		st := t.states[name]
		for i, r := range g.States[name] {
			var (
				pattern string
				next    = r.Next
			)
			switch {
			case r.paired():
				pattern = r.Start
				if next == "" {
					next = State(fmt.Sprintf("%s.%d", name, i))
				}
			case len(r.Literals) > 0:
				pattern = alternation(r.Literals)
			default:
				pattern = r.Regexp
			}
			if next != "" {
				if _, ok := t.states[next]; !ok {
					return nil, &ConfigError{State: name, Rule: i, Err: ErrUnknownState, Msg: string(next)}
				}
			}
			re, err := compile(pattern)
			if err != nil {
				return nil, &ConfigError{State: name, Rule: i, Err: ErrBadPattern, Msg: err.Error()}
			}
			st.rules = append(st.rules, rule{kind: r.Kind, re: re, next: next})
		}
	}

	for _, target := range entered {
		st := t.states[target]
		st.rules = append(exits[target], st.rules...)
	}
	return t, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	// Check the pattern as written; the wrapped form can hide stray parens.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + pattern + `)`)
}

// alternation builds a pattern matching any of lits, longest first,
// so that "<=" is preferred to "<".
func alternation(lits []string) string {
	sorted := append([]string(nil), lits...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, l := range sorted {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return strings.Join(quoted, "|")
}
