package highlight

import (
	"sort"
	"unicode/utf8"
)

// Tokenize splits line into tokens, starting in state st, and returns
// them with the state to pass when tokenizing the following line.
//
// At each position the active state's rules are tried in order and
// the first one matching a non-empty prefix wins. A rune that no rule
// matches becomes a token of the state's fallback category (Text,
// unless the state was entered by a paired rule). The tokens always
// cover line exactly. An unknown st is treated as Start.
func (t *Tokenizer) Tokenize(line string, st State) ([]Token, State) {
	cur, ok := t.states[st]
	if !ok {
		st, cur = Start, t.states[Start]
	}

	var toks []Token
	pos := 0
	fellBack := false
	for pos < len(line) {
		rest := line[pos:]
		matched := false
		for _, r := range cur.rules {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			end := pos + loc[1]
			toks = append(toks, Token{
				Category: r.kind.resolve(rest[:loc[1]], t.keywords),
				Lexeme:   line[pos:end],
				Start:    pos,
				End:      end,
			})
			pos = end
			if r.next != "" {
				st, cur = r.next, t.states[r.next]
			}
			matched = true
			break
		}
		if matched {
			fellBack = false
			continue
		}

		_, size := utf8.DecodeRuneInString(rest)
		end := pos + size
		if fellBack && cur.fallback != Text {
			// Run on inside a region such as a block comment.
			last := &toks[len(toks)-1]
			last.End = end
			last.Lexeme = line[last.Start:end]
		} else {
			toks = append(toks, Token{Category: cur.fallback, Lexeme: line[pos:end], Start: pos, End: end})
		}
		pos = end
		fellBack = true
	}
	return toks, st
}

// Name returns the grammar's name.
func (t *Tokenizer) Name() string { return t.name }

// Keywords returns the classifier used by Words rules.
func (t *Tokenizer) Keywords() *Keywords { return t.keywords }

// States returns the names of all compiled states, sorted.
func (t *Tokenizer) States() []State {
	names := make([]State, 0, len(t.states))
	for name := range t.states {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Fallback returns the category given to unmatched text in st.
func (t *Tokenizer) Fallback(st State) Category {
	if s, ok := t.states[st]; ok {
		return s.fallback
	}
	return Text
}

// NumRules returns the number of compiled rules in st.
func (t *Tokenizer) NumRules(st State) int {
	if s, ok := t.states[st]; ok {
		return len(s.rules)
	}
	return 0
}
