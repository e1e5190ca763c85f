package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseError is a positioned lexical or structural error. Errors nest: a bracket
// that cannot be closed carries the error that stopped it as Inner.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Inner   *ParseError
}

func newParseError(line, column int, message string, inner *ParseError) *ParseError {
	return &ParseError{Line: line, Column: column, Message: message, Inner: inner}
}

func (e *ParseError) Error() string {
	s := fmt.Sprintf("Line %d, column %d: %s", e.Line, e.Column, e.Message)
	if e.Inner != nil {
		s += "\n" + e.Inner.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error {
	if e.Inner == nil {
		return nil
	}
	return e.Inner
}

// Innermost follows the Inner chain to the error that started it all.
func (e *ParseError) Innermost() *ParseError {
	for e.Inner != nil {
		e = e.Inner
	}
	return e
}

// ParseResult holds the top-level expressions read before the first error.
type ParseResult struct {
	Expressions []Node
	Err         *ParseError
}

// Parser reads nodes from a token stream.
//
// Grammar:
//
//	unit        = expression
//	expression  = list | sugared | STRING | ATOM
//	list        = OPEN_BRACKET expression* CLOSE_BRACKET    (matching bracket)
//	sugared     = PUNCTUATION+ expression                   (configured prefix)
//
// COMMENT tokens are skipped wherever they appear.
type Parser struct {
	d *Dialect
	t *Tokenizer
}

func NewParser(src string, d *Dialect) *Parser {
	if d == nil {
		d = Default
	}
	return &Parser{d: d, t: NewTokenizer(src, d)}
}

// Parse reads src with the default dialect.
func Parse(src string) ParseResult {
	return ParseWith(Default, src)
}

// ParseWith reads src with dialect d.
func ParseWith(d *Dialect, src string) ParseResult {
	return NewParser(src, d).ParseAll()
}

// ParseAll reads top-level units until only whitespace remains. The first error
// ends the read: nothing after it is parsed, and no attempt is made to resynchronise.
func (p *Parser) ParseAll() ParseResult {
	var res ParseResult
	for !p.t.AtEnd() {
		tok := p.t.Next()
		if tok.Kind == COMMENT && tok.Err == nil {
			continue
		}
		n, err := p.readOne(tok)
		if err != nil {
			res.Err = err
			break
		}
		res.Expressions = append(res.Expressions, n)
	}
	return res
}

func bracketError(b Token, side, message string, inner *ParseError) *ParseError {
	return newParseError(b.Line, b.Column, fmt.Sprintf("%s bracket %q %s", side, b.Lexeme, message), inner)
}

// readOne builds one node starting at tok, reading further tokens as needed.
func (p *Parser) readOne(tok Token) (Node, *ParseError) {
	if tok.Err != nil {
		return nil, tok.Err
	}

	switch tok.Kind {
	case OPEN_BRACKET:
		return p.readList(tok)

	case CLOSE_BRACKET:
		return nil, bracketError(tok, "Close", "unexpected.  No matching open bracket.", nil)

	case STRING:
		return &Leaf{Value: StringLiteral(tok.Lexeme), Token: tok}, nil

	case COMMENT:
		return p.readOne(p.t.Next())

	case PUNCTUATION:
		return p.readSugar(tok)
	}

	return &Leaf{Value: p.d.AtomValue(tok.Lexeme), Token: tok}, nil
}

func (p *Parser) readList(open Token) (Node, *ParseError) {
	closer := p.d.Matching(open.Lexeme)
	var elems []Node

	for {
		u := p.t.Next()
		for u.Kind == COMMENT && u.Err == nil {
			u = p.t.Next()
		}
		if u.Err != nil {
			return nil, bracketError(open, "Open", "lacks matching close bracket.", u.Err)
		}
		if u.Kind == CLOSE_BRACKET {
			if u.Lexeme == closer {
				break
			}
			return nil, bracketError(open, "Open", "is closed by a bracket that does not match.",
				bracketError(u, "Close", fmt.Sprintf("does not match open bracket %q.", open.Lexeme), nil))
		}

		n, err := p.readOne(u)
		if err != nil {
			return nil, err
		}
		elems = append(elems, n)
	}

	// [...] and {...} are sugar for (array ...) and (object ...).
	if sym, ok := p.d.BracketSugar[open.Lexeme]; ok {
		head := &Leaf{Value: Symbol(sym), Token: open}
		elems = append([]Node{head}, elems...)
	}
	return &List{Elements: elems, Open: open}, nil
}

// readSugar gathers a punctuation prefix and wraps the expression after it.
func (p *Parser) readSugar(first Token) (Node, *ParseError) {
	prefix := first.Lexeme
	next := p.t.Next()
	for next.Kind == PUNCTUATION && next.Err == nil && p.d.SugarPrefix(prefix+next.Lexeme) {
		prefix += next.Lexeme
		next = p.t.Next()
	}

	sym, ok := p.d.PunctuationSugar[prefix]
	if !ok {
		return nil, newParseError(first.Line, first.Column, fmt.Sprintf("Unrecognised punctuation %q.", prefix), nil)
	}

	follow, err := p.readOne(next)
	if err != nil {
		return nil, err
	}

	head := first
	head.Lexeme = prefix
	return &List{
		Elements: []Node{&Leaf{Value: Symbol(sym), Token: head}, follow},
		Open:     head,
	}, nil
}

// AtomValue resolves atom text with the default dialect.
func AtomValue(text string) Value {
	return Default.AtomValue(text)
}

// AtomValue resolves atom text: a number if it parses as one, else a named
// constant, else a symbol spelled exactly as text.
func (d *Dialect) AtomValue(text string) Value {
	if v, ok := parseNumber(text); ok {
		return Number{Value: v, Text: text}
	}
	if c, ok := d.Constants[text]; ok {
		return c
	}
	return Symbol(text)
}

// parseNumber accepts decimal literals (optionally signed, with fraction and
// exponent) and 0x hexadecimal integers.
func parseNumber(text string) (float64, bool) {
	body := strings.TrimLeft(text, "+-")
	if body == "" || len(text)-len(body) > 1 {
		return 0, false
	}

	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		u, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		v := float64(u)
		if text[0] == '-' {
			v = -v
		}
		return v, true
	}

	if strings.Trim(body, "0123456789.eE+-") != "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Out-of-range literals are still numbers; the target rounds them to Infinity.
		if !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
	}
	return v, true
}
