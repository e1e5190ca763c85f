package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenWant struct {
	kind   TokenKind
	lexeme string
	line   int
	column int
}

func tokensOf(toks []Token) []tokenWant {
	got := make([]tokenWant, len(toks))
	for i, tok := range toks {
		got[i] = tokenWant{tok.Kind, tok.Lexeme, tok.Line, tok.Column}
	}
	return got
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenWant
	}{
		{
			name:  "Empty",
			input: "",
			want:  []tokenWant{},
		},
		{
			name:  "Positions",
			input: "(quick? 123.4 [\"brown [] fox\" jump-ed!\n,",
			want: []tokenWant{
				{OPEN_BRACKET, "(", 1, 1},
				{ATOM, "quick?", 1, 2},
				{ATOM, "123.4", 1, 9},
				{OPEN_BRACKET, "[", 1, 15},
				{STRING, "brown [] fox", 1, 16},
				{ATOM, "jump-ed!", 1, 31},
				{PUNCTUATION, ",", 2, 1},
			},
		},
		{
			name:  "Comments",
			input: "foo;bar\n;goo;zar",
			want: []tokenWant{
				{ATOM, "foo", 1, 1},
				{COMMENT, "bar", 1, 4},
				{COMMENT, "goo;zar", 2, 1},
			},
		},
		{
			name:  "Tabs count four columns",
			input: "\tx\t y",
			want: []tokenWant{
				{ATOM, "x", 1, 5},
				{ATOM, "y", 1, 11},
			},
		},
		{
			name:  "Escapes",
			input: `"a\"b\\c\nd\te\q"`,
			want: []tokenWant{
				{STRING, "a\"b\\c\nd\teq", 1, 1},
			},
		},
		{
			name:  "Long punctuation",
			input: ",@x ,y",
			want: []tokenWant{
				{PUNCTUATION, ",@", 1, 1},
				{ATOM, "x", 1, 3},
				{PUNCTUATION, ",", 1, 5},
				{ATOM, "y", 1, 6},
			},
		},
		{
			name:  "Brackets",
			input: "{[()]}",
			want: []tokenWant{
				{OPEN_BRACKET, "{", 1, 1},
				{OPEN_BRACKET, "[", 1, 2},
				{OPEN_BRACKET, "(", 1, 3},
				{CLOSE_BRACKET, ")", 1, 4},
				{CLOSE_BRACKET, "]", 1, 5},
				{CLOSE_BRACKET, "}", 1, 6},
			},
		},
		{
			name:  "Atom ends at close bracket and comment",
			input: "(a b);c",
			want: []tokenWant{
				{OPEN_BRACKET, "(", 1, 1},
				{ATOM, "a", 1, 2},
				{ATOM, "b", 1, 4},
				{CLOSE_BRACKET, ")", 1, 5},
				{COMMENT, "c", 1, 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.input)
			for _, tok := range toks {
				require.Nil(t, tok.Err, "unexpected error on %v", tok)
			}
			assert.Equal(t, tt.want, tokensOf(toks))
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "Illegal character in atom",
			input:   "ab(c",
			wantErr: "Line 1, column 3: Illegal character ( encountered.  Missing a space?",
		},
		{
			name:    "Quote inside atom",
			input:   `x"y"`,
			wantErr: `Line 1, column 2: Illegal character " encountered.  Missing a space?`,
		},
		{
			name:    "Unterminated string",
			input:   "  \"abc",
			wantErr: "Line 1, column 3: Started reading STRING\nLine 1, column 7: Unexpected end-of-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.input)
			require.NotEmpty(t, toks)
			last := toks[len(toks)-1]
			require.NotNil(t, last.Err)
			assert.Equal(t, tt.wantErr, last.Err.Error())
		})
	}
}

func TestTokenizerEOS(t *testing.T) {
	tz := NewTokenizer("a  ", nil)
	assert.False(t, tz.AtEnd())
	assert.Equal(t, "a", tz.Next().Lexeme)
	assert.True(t, tz.AtEnd())

	eos := tz.Next()
	assert.Equal(t, EOS, eos.Kind)
	require.NotNil(t, eos.Err)
	assert.Equal(t, "Line 1, column 4: Unexpected end-of-stream", eos.Err.Error())
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "OPEN-BRACKET", OPEN_BRACKET.String())
	assert.Equal(t, "TokenKind(42)", TokenKind(42).String())
}
