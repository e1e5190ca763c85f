package compiler

import (
	"fmt"
	"strings"
)

// Form identifies the code generation rule selected by the leading symbol of a list.
type Form int

const (
	FormNone Form = iota // not a special form: operator or procedure call

	FormDeclaration     // var
	FormAssignment      // =
	FormLambda          // fun
	FormSequence        // begin
	FormConditional     // if
	FormWhen            // when
	FormArray           // array
	FormObject          // object
	FormExistence       // exists?
	FormFor             // for
	FormWhile           // while
	FormUntil           // until
	FormQuote           // quote
	FormQuasiquote      // quasiquote
	FormUnquote         // unquote
	FormUnquoteSplicing // unquote-splicing
)

var formNames = [...]string{
	FormNone:            "NONE",
	FormDeclaration:     "DECLARATION",
	FormAssignment:      "ASSIGNMENT",
	FormLambda:          "LAMBDA",
	FormSequence:        "SEQUENCE",
	FormConditional:     "CONDITIONAL",
	FormWhen:            "WHEN",
	FormArray:           "ARRAY",
	FormObject:          "OBJECT",
	FormExistence:       "EXISTENCE",
	FormFor:             "FOR",
	FormWhile:           "WHILE",
	FormUntil:           "UNTIL",
	FormQuote:           "QUOTE",
	FormQuasiquote:      "QUASIQUOTE",
	FormUnquote:         "UNQUOTE",
	FormUnquoteSplicing: "UNQUOTE_SPLICING",
}

func (f Form) String() string {
	if int(f) >= 0 && int(f) < len(formNames) {
		return formNames[f]
	}
	return fmt.Sprintf("Form(%d)", int(f))
}

// Dialect is the table-driven description of the surface syntax and its mapping
// onto the target language. It holds data only; behaviour lives in the tokenizer,
// reader and code generator.
type Dialect struct {
	// Lexical characters
	StringDelimiter rune
	CommentStart    rune
	Escape          rune
	Whitespace      string
	Punctuation     string

	// LongPunctuation lists multi-rune punctuation, longest first.
	LongPunctuation []string

	// Brackets maps each open bracket to its matching close bracket.
	Brackets map[string]string

	// Sugar
	BracketSugar     map[string]string
	PunctuationSugar map[string]string

	SpecialForms    map[string]Form
	Constants       map[string]Value
	BinaryOperators map[string]string
	UnaryOperators  map[string]string
	Comparisons     map[string]string

	// Statements holds head names that are statement-level in the target.
	Statements map[string]bool

	// Reserved holds target reserved words.
	Reserved map[string]bool
}

// Default is the QuasiScript dialect. Treat it as read-only; use NewDialect to
// obtain a copy that can be extended.
var Default = NewDialect()

// NewDialect returns a fresh copy of the QuasiScript dialect.
func NewDialect() *Dialect {
	return &Dialect{
		StringDelimiter: '"',
		CommentStart:    ';',
		Escape:          '\\',
		Whitespace:      " \t\n\r",
		Punctuation:     "'`,@#~:",
		LongPunctuation: []string{",@"},

		Brackets: map[string]string{
			"(": ")",
			"[": "]",
			"{": "}",
		},
		BracketSugar: map[string]string{
			"[": "array",
			"{": "object",
		},
		PunctuationSugar: map[string]string{
			"'":  "quote",
			"`":  "quasiquote",
			",":  "unquote",
			",@": "unquote-splicing",
		},

		SpecialForms: map[string]Form{
			"var":              FormDeclaration,
			"=":                FormAssignment,
			"fun":              FormLambda,
			"begin":            FormSequence,
			"if":               FormConditional,
			"when":             FormWhen,
			"array":            FormArray,
			"object":           FormObject,
			"exists?":          FormExistence,
			"for":              FormFor,
			"while":            FormWhile,
			"until":            FormUntil,
			"quote":            FormQuote,
			"quasiquote":       FormQuasiquote,
			"unquote":          FormUnquote,
			"unquote-splicing": FormUnquoteSplicing,
		},

		Constants: map[string]Value{
			"true":      Boolean(true),
			"false":     Boolean(false),
			"null":      Constant{Name: "null", Literal: "null"},
			"undefined": Constant{Name: "undefined", Literal: "undefined"},
			"NaN":       Constant{Name: "NaN", Literal: "NaN"},
			"Infinity":  Constant{Name: "Infinity", Literal: "Infinity"},
			"-Infinity": Constant{Name: "-Infinity", Literal: "-Infinity"},
		},

		BinaryOperators: map[string]string{
			"+":   "+",
			"-":   "-",
			"*":   "*",
			"/":   "/",
			"and": "&&",
			"or":  "||",
			"mod": "%", // not associative
		},
		UnaryOperators: map[string]string{
			"not": "!",
		},
		Comparisons: map[string]string{
			"equal?":   "===",
			"unequal?": "!==",
			"<":        "<",
			">":        ">",
			"<=":       "<=",
			">=":       ">=",
		},

		Statements: setOf("=", "break", "continue", "delete", "for", "if", "label",
			"return", "var", "while", "begin", "when", "until"),

		Reserved: setOf("break", "case", "catch", "class", "const", "continue",
			"debugger", "default", "delete", "do", "else", "enum", "export", "extends",
			"false", "finally", "for", "function", "if", "implements", "import", "in",
			"instanceof", "interface", "let", "new", "null", "package", "private",
			"protected", "public", "return", "static", "super", "switch", "this",
			"throw", "true", "try", "typeof", "var", "void", "while", "with", "yield"),
	}
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func (d *Dialect) isWhitespace(r rune) bool  { return strings.ContainsRune(d.Whitespace, r) }
func (d *Dialect) isPunctuation(r rune) bool { return strings.ContainsRune(d.Punctuation, r) }

// IsOpen reports whether s is a configured open bracket.
func (d *Dialect) IsOpen(s string) bool {
	_, ok := d.Brackets[s]
	return ok
}

// IsClose reports whether s is a configured close bracket.
func (d *Dialect) IsClose(s string) bool {
	for _, c := range d.Brackets {
		if c == s {
			return true
		}
	}
	return false
}

// Matching returns the close bracket for open, or "" when open is not a bracket.
func (d *Dialect) Matching(open string) string {
	return d.Brackets[open]
}

// SugarPrefix reports whether p begins at least one punctuation-sugar key.
func (d *Dialect) SugarPrefix(p string) bool {
	for k := range d.PunctuationSugar {
		if strings.HasPrefix(k, p) {
			return true
		}
	}
	return false
}

// FormOf returns the special form selected by name, or FormNone.
func (d *Dialect) FormOf(name string) Form {
	return d.SpecialForms[name]
}

// IsStatement reports whether name heads a statement-level form in the target.
func (d *Dialect) IsStatement(name string) bool {
	return d.Statements[name]
}

// Translate returns the target text of an atom.
func (d *Dialect) Translate(v Value) string {
	switch a := v.(type) {
	case Number:
		return a.Text
	case Boolean:
		if a {
			return "true"
		}
		return "false"
	case Constant:
		return a.Literal
	case StringLiteral:
		return quoteTarget(string(a))
	case Symbol:
		return string(a)
	}
	return ""
}

// quoteTarget renders s as a double-quoted target string literal.
func quoteTarget(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
