package interp

import (
	"errors"
	"strings"
)

var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits a command line into words. Whitespace separates
// words, double quotes group them, and a '#' at the start of a word
// begins a comment running to the end of the line (which is how the
// "#!ipxe" signature line executes as a no-op).
func Tokenize(line string) ([]string, error) {
	var (
		args   []string
		word   strings.Builder
		inWord bool
		quoted bool
	)

	flush := func() {
		if inWord {
			args = append(args, word.String())
			word.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '"':
			quoted = false
		case quoted:
			word.WriteByte(c)
		case c == '"':
			quoted = true
			inWord = true
		case c == ' ' || c == '\t':
			flush()
		case c == '#' && !inWord:
			return args, nil
		default:
			word.WriteByte(c)
			inWord = true
		}
	}
	if quoted {
		return nil, ErrUnterminatedQuote
	}
	flush()
	return args, nil
}
