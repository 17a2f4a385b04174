package highlight

import "fmt"

// Token is a classified span of one line. Start and End are byte
// offsets into the line; End is exclusive.
type Token struct {
	Category Category
	Lexeme   string
	Start    int
	End      int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Category, t.Lexeme, t.Start)
}

// State names the active rule set of a Tokenizer.
type State string

// Start is the state of the first line of every buffer.
const Start State = "start"
