package compiler

import "strings"

// Tokenizer holds all mutable state for a single scan over src. It hands out one
// token per call to Next and never fails: problems are recorded on the token.
type Tokenizer struct {
	d      *Dialect
	src    []rune
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	column int // current 1-based source column
}

// NewTokenizer returns a tokenizer over src using the lexical rules of d.
func NewTokenizer(src string, d *Dialect) *Tokenizer {
	if d == nil {
		d = Default
	}
	return &Tokenizer{d: d, src: []rune(src), line: 1, column: 1}
}

func (t *Tokenizer) atEOS() bool { return t.pos >= len(t.src) }

// AtEnd reports whether only whitespace remains in the stream.
func (t *Tokenizer) AtEnd() bool {
	for i := t.pos; i < len(t.src); i++ {
		if !t.d.isWhitespace(t.src[i]) {
			return false
		}
	}
	return true
}

// peek returns the rune at the current position without advancing.
func (t *Tokenizer) peek() rune {
	if t.atEOS() {
		return 0
	}
	return t.src[t.pos]
}

// pop consumes one rune, keeping line and column up to date.
func (t *Tokenizer) pop() rune {
	r := t.src[t.pos]
	t.pos++
	switch r {
	case '\t':
		t.column += 4
	case '\n':
		t.line++
		t.column = 1
	default:
		t.column++
	}
	return r
}

func (t *Tokenizer) skipWhitespace() {
	for !t.atEOS() && t.d.isWhitespace(t.peek()) {
		t.pop()
	}
}

// eosError reports an unexpected end of stream at the current position.
func (t *Tokenizer) eosError() *ParseError {
	return newParseError(t.line, t.column, "Unexpected end-of-stream", nil)
}

// Next skips whitespace and returns the next token.
func (t *Tokenizer) Next() Token {
	t.skipWhitespace()

	tok := Token{Line: t.line, Column: t.column}
	if t.atEOS() {
		tok.Kind = EOS
		tok.Err = t.eosError()
		return tok
	}

	ch := t.peek()
	s := string(ch)
	switch {
	case ch == t.d.StringDelimiter:
		t.readTo(&tok, STRING, t.d.StringDelimiter, true, false)
	case ch == t.d.CommentStart:
		t.readTo(&tok, COMMENT, '\n', false, true)
	case t.d.isPunctuation(ch):
		t.readPunctuation(&tok)
	case t.d.IsOpen(s):
		tok.Kind = OPEN_BRACKET
		tok.Lexeme = string(t.pop())
	case t.d.IsClose(s):
		tok.Kind = CLOSE_BRACKET
		tok.Lexeme = string(t.pop())
	default:
		t.readAtom(&tok)
	}
	return tok
}

// readTo skips the opening rune and reads until end (excluded) or the end of the
// stream. With escapes, \n and \t are translated and any other escaped rune is
// taken literally. eosOK suppresses the error for a missing end rune.
func (t *Tokenizer) readTo(tok *Token, kind TokenKind, end rune, escapes, eosOK bool) {
	tok.Kind = kind
	var sb strings.Builder
	escaped := false

	t.pop()
	for {
		if t.atEOS() {
			if !eosOK {
				tok.Err = newParseError(tok.Line, tok.Column, "Started reading "+kind.String(), t.eosError())
			}
			break
		}

		r := t.pop()
		if escaped {
			switch r {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == end {
			break
		}
		if escapes && r == t.d.Escape {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	tok.Lexeme = sb.String()
}

// readPunctuation takes the longest configured multi-rune punctuation at the
// current position, or a single rune.
func (t *Tokenizer) readPunctuation(tok *Token) {
	tok.Kind = PUNCTUATION
	rest := string(t.src[t.pos:])
	for _, p := range t.d.LongPunctuation {
		if strings.HasPrefix(rest, p) {
			for range []rune(p) {
				t.pop()
			}
			tok.Lexeme = p
			return
		}
	}
	tok.Lexeme = string(t.pop())
}

// readAtom reads up to whitespace, a close bracket or a comment. A string
// delimiter, open bracket or punctuation rune inside the atom is an error.
func (t *Tokenizer) readAtom(tok *Token) {
	tok.Kind = ATOM
	var sb strings.Builder
	for !t.atEOS() {
		ch := t.peek()
		if t.d.isWhitespace(ch) || t.d.IsClose(string(ch)) || ch == t.d.CommentStart {
			break
		}
		if ch == t.d.StringDelimiter || t.d.IsOpen(string(ch)) || t.d.isPunctuation(ch) {
			tok.Err = newParseError(t.line, t.column,
				"Illegal character "+string(ch)+" encountered.  Missing a space?", nil)
			break
		}
		sb.WriteRune(t.pop())
	}
	tok.Lexeme = sb.String()
}

// Tokenize scans src with the default dialect and returns every token up to the
// end of the stream. Scanning stops after the first token that carries an error.
func Tokenize(src string) []Token {
	return TokenizeWith(Default, src)
}

// TokenizeWith is Tokenize for an explicit dialect.
func TokenizeWith(d *Dialect, src string) []Token {
	t := NewTokenizer(src, d)
	var tokens []Token
	for !t.AtEnd() {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Err != nil {
			break
		}
	}
	return tokens
}
