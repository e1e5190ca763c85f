package compiler

import "fmt"

// TokenKind identifies the category of a token.
type TokenKind int

const (
	EOS TokenKind = iota // sentinel: read past the end of the stream

	ATOM          // number, constant or symbol text
	STRING        // "..." with the delimiters removed
	COMMENT       // ; to end of line
	PUNCTUATION   // ' ` , ,@ # ~ :
	OPEN_BRACKET  // ( [ {
	CLOSE_BRACKET // ) ] }
)

var tokenKindNames = [...]string{
	EOS:           "EOS",
	ATOM:          "ATOM",
	STRING:        "STRING",
	COMMENT:       "COMMENT",
	PUNCTUATION:   "PUNCTUATION",
	OPEN_BRACKET:  "OPEN-BRACKET",
	CLOSE_BRACKET: "CLOSE-BRACKET",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit produced by the Tokenizer.
//
// A lexical error does not stop the tokenizer from returning a token: Err is set
// and Kind/Lexeme hold whatever was read before the problem was found.
type Token struct {
	Kind   TokenKind
	Lexeme string // source text; string tokens hold the unescaped contents
	Line   int    // 1-based source line
	Column int    // 1-based source column (tabs count as 4)
	Err    *ParseError
}

func (t Token) String() string {
	s := fmt.Sprintf("%-13s %-14q  line %d, column %d", t.Kind, t.Lexeme, t.Line, t.Column)
	if t.Err != nil {
		s += "  error: " + t.Err.Message
	}
	return s
}
