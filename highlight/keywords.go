package highlight

import "strings"

// WordSets lists the words a Words rule resolves. The four sets must
// be pairwise disjoint, compared case-insensitively.
type WordSets struct {
	Functions []string
	Keywords  []string
	Constants []string
	Types     []string
}

// Keywords maps identifier-shaped words to categories.
type Keywords struct {
	words map[string]Category
}

// NewKeywords builds a classifier from sets. A word appearing in two
// sets is reported as a *ConfigError wrapping ErrOverlap.
func NewKeywords(sets WordSets) (*Keywords, error) {
	k := &Keywords{words: make(map[string]Category)}
	// Checked in priority order: function, keyword, constant, type.
	groups := []struct {
		cat   Category
		words []string
	}{
		{Function, sets.Functions},
		{Keyword, sets.Keywords},
		{Constant, sets.Constants},
		{Type, sets.Types},
	}
	for _, g := range groups {
		for _, w := range g.words {
			lw := strings.ToLower(w)
			if prev, ok := k.words[lw]; ok {
				if prev == g.cat {
					continue
				}
				return nil, &ConfigError{
					Rule: -1,
					Err:  ErrOverlap,
					Msg:  "word " + lw + " is both " + prev.String() + " and " + g.cat.String(),
				}
			}
			k.words[lw] = g.cat
		}
	}
	return k, nil
}

// Classify returns the category of word, or Identifier when word is
// in no set. Lookup ignores case.
func (k *Keywords) Classify(word string) Category {
	if k == nil {
		return Identifier
	}
	if c, ok := k.words[word]; ok {
		return c
	}
	if c, ok := k.words[strings.ToLower(word)]; ok {
		return c
	}
	return Identifier
}

// Len returns the number of distinct words known to k.
func (k *Keywords) Len() int {
	if k == nil {
		return 0
	}
	return len(k.words)
}

// Count returns how many words classify as c.
func (k *Keywords) Count(c Category) int {
	if k == nil {
		return 0
	}
	n := 0
	for _, wc := range k.words {
		if wc == c {
			n++
		}
	}
	return n
}
