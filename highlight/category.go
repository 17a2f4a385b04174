package highlight

import "fmt"

// Category classifies a token for presentation.
type Category uint8

const (
	Text Category = iota // uncategorized text
	Comment
	String
	Keyword
	Function
	Constant
	Type
	Identifier
	Operator
	ParenOpen
	ParenClose
	Punctuation

	numCategories
)

var categoryNames = [...]string{
	Text:        "text",
	Comment:     "comment",
	String:      "string",
	Keyword:     "keyword",
	Function:    "function",
	Constant:    "constant",
	Type:        "type",
	Identifier:  "identifier",
	Operator:    "operator",
	ParenOpen:   "paren.open",
	ParenClose:  "paren.close",
	Punctuation: "punctuation",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Categories returns every category in declaration order.
func Categories() []Category {
	cs := make([]Category, numCategories)
	for i := range cs {
		cs[i] = Category(i)
	}
	return cs
}

// ParseCategory returns the category whose String form is name.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Text, fmt.Errorf("unknown category %q", name)
}
