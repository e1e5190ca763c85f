package compiler

import (
	"strings"
)

// Value is the resolved content of a leaf.
type Value interface {
	atom()
	String() string // surface text, as written by Unparse
}

// Number is a numeric literal; Text is kept so the target sees it as written.
//
//	(+ 1.50 0x1F)
//	   ^^^^ Number{Value: 1.5, Text: "1.50"}
type Number struct {
	Value float64
	Text  string
}

// Boolean is true or false.
type Boolean bool

// Constant is a reserved name with a fixed target literal, e.g. null or NaN.
type Constant struct {
	Name    string
	Literal string
}

// Symbol is any atom that is neither a number nor a constant.
type Symbol string

// StringLiteral holds the unescaped contents of a string token.
type StringLiteral string

func (Number) atom()        {}
func (Boolean) atom()       {}
func (Constant) atom()      {}
func (Symbol) atom()        {}
func (StringLiteral) atom() {}

func (n Number) String() string { return n.Text }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (c Constant) String() string      { return c.Name }
func (s Symbol) String() string        { return string(s) }
func (s StringLiteral) String() string { return quoteSurface(string(s)) }

// Node is a leaf or a list. Every node can report the source position of the
// token it came from.
type Node interface {
	node()
	Pos() (line, column int)
	String() string
}

// Leaf is an atom or string together with its source token.
type Leaf struct {
	Value Value
	Token Token
}

// List is a parenthesised sequence. Open is the bracket that started it; for
// desugared brackets and punctuation it is the sugar token.
//
//	[1 2]
//	^      Open
//	       Elements: Leaf{Symbol("array")}, Leaf{1}, Leaf{2}
type List struct {
	Elements []Node
	Open     Token
}

func (*Leaf) node() {}
func (*List) node() {}

func (l *Leaf) Pos() (int, int) { return l.Token.Line, l.Token.Column }
func (l *List) Pos() (int, int) { return l.Open.Line, l.Open.Column }

func (l *Leaf) String() string { return l.Value.String() }

func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the leading symbol of the list, if it has one.
func (l *List) Head() (Symbol, bool) {
	if len(l.Elements) == 0 {
		return "", false
	}
	return symbolOf(l.Elements[0])
}

// Args returns the elements after the head.
func (l *List) Args() []Node {
	if len(l.Elements) == 0 {
		return nil
	}
	return l.Elements[1:]
}

// symbolOf returns n's symbol when n is a symbol leaf.
func symbolOf(n Node) (Symbol, bool) {
	leaf, ok := n.(*Leaf)
	if !ok {
		return "", false
	}
	sym, ok := leaf.Value.(Symbol)
	return sym, ok
}

// Unparse renders nodes back into surface syntax, one top-level unit per line.
func Unparse(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n")
}

// quoteSurface renders s as a surface string token that reads back as s.
func quoteSurface(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
