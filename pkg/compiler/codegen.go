package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CompileError is a positioned error raised while generating target text.
type CompileError struct {
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// leftmost returns the position of the first token under n.
func leftmost(n Node) (int, int) {
	for {
		l, ok := n.(*List)
		if !ok || len(l.Elements) == 0 {
			return n.Pos()
		}
		n = l.Elements[0]
	}
}

func errorAt(n Node, format string, args ...any) *CompileError {
	line, col := leftmost(n)
	return &CompileError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// ancestor is the chain of enclosing form names, innermost first. Chains are
// never mutated; with returns a new link.
type ancestor struct {
	name   string
	parent *ancestor
}

var rootAncestor = &ancestor{name: "*root*"}

func (a *ancestor) with(name string) *ancestor { return &ancestor{name: name, parent: a} }

// frame is the context a node is generated in.
type frame struct {
	scope  ScopeID
	parent *ancestor
	tail   bool // node ends a lambda body and must yield its value
}

func (f frame) under(name string) frame {
	return frame{scope: f.scope, parent: f.parent.with(name)}
}

// CodeGen walks nodes and emits target source text.
type CodeGen struct {
	d      *Dialect
	scopes *ScopeTable
	w      *writer
}

func NewCodeGen(d *Dialect, scopes *ScopeTable) *CodeGen {
	if d == nil {
		d = Default
	}
	if scopes == nil {
		scopes = NewScopeTable()
	}
	return &CodeGen{d: d, scopes: scopes}
}

// Generate compiles nodes with the default dialect and a fresh scope table.
func Generate(nodes []Node) (string, error) {
	return NewCodeGen(Default, nil).Generate(nodes)
}

// GenerateWith compiles nodes with dialect d, declaring globals into scopes.
func GenerateWith(d *Dialect, scopes *ScopeTable, nodes []Node) (string, error) {
	return NewCodeGen(d, scopes).Generate(nodes)
}

// Generate emits every node as a top-level statement terminated by ";" and a
// newline. The first error stops generation and no text is returned.
func (cg *CodeGen) Generate(nodes []Node) (string, error) {
	cg.w = &writer{}
	top := frame{scope: GlobalScope, parent: rootAncestor}
	for _, n := range nodes {
		if err := cg.gen(n, top); err != nil {
			return "", err
		}
		cg.w.out(";")
		cg.w.newLine()
	}
	return cg.w.String(), nil
}

func (cg *CodeGen) gen(n Node, f frame) error {
	switch n := n.(type) {
	case *Leaf:
		return cg.genLeaf(n, f)
	case *List:
		return cg.genList(n, f)
	}
	return fmt.Errorf("codegen: unknown node %T", n)
}

func (cg *CodeGen) genLeaf(n *Leaf, f frame) error {
	if f.parent.name == "var" {
		if err := cg.declare(n, f.scope); err != nil {
			return err
		}
	}
	cg.w.out(cg.d.Translate(n.Value))
	return nil
}

// statementLevel reports whether f sits directly under the root or a
// statement-level form, where operators need no parentheses.
func (cg *CodeGen) statementLevel(f frame) bool {
	return f.parent == rootAncestor || cg.d.IsStatement(f.parent.name)
}

// statementPosition reports whether a node in f starts a target statement, where
// function and object literals would be misread as a declaration or a block.
func statementPosition(f frame) bool {
	return f.parent == rootAncestor || f.parent.name == "begin"
}

// isExpression reports whether n can be used as a value in the target.
func (cg *CodeGen) isExpression(n Node) bool {
	l, ok := n.(*List)
	if !ok {
		return true
	}
	if len(l.Elements) == 0 {
		return false
	}
	if inner, ok := l.Elements[0].(*List); ok {
		return cg.isExpression(inner)
	}
	if sym, ok := l.Head(); ok && cg.d.IsStatement(string(sym)) {
		return false
	}
	return true
}

func (cg *CodeGen) requireExpression(n Node) error {
	if !cg.isExpression(n) {
		return errorAt(n, "Expression expected, not %s.", n)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// checkArgs enforces an argument count; max < 0 means unbounded.
func checkArgs(op *Leaf, args []Node, min, max int) error {
	n := len(args)
	switch {
	case min == max:
		if n != min {
			return errorAt(op, "%s takes exactly %d %s; %d given.", op, min, plural(min, "argument"), n)
		}
	case max < 0:
		if n < min {
			return errorAt(op, "%s takes at least %d %s; %d given.", op, min, plural(min, "argument"), n)
		}
	default:
		if n < min || n > max {
			return errorAt(op, "%s takes %d to %d arguments; %d given.", op, min, max, n)
		}
	}
	return nil
}

// declare adds a symbol leaf to scope, rejecting illegal names and
// redeclarations within the same scope.
func (cg *CodeGen) declare(n *Leaf, scope ScopeID) error {
	sym, ok := n.Value.(Symbol)
	if !ok || sym == "" || strings.Contains(string(sym), ".") {
		return errorAt(n, "Illegal symbol name %s.", n)
	}
	name := string(sym)
	if cg.d.Reserved[name] {
		return errorAt(n, "%s is a reserved word and cannot be declared.", name)
	}
	line, col := n.Pos()
	if prev, redeclared := cg.scopes.Declare(scope, name, line, col); redeclared {
		return errorAt(n, "Symbol %q was previously declared at line %d, column %d", name, prev.Line, prev.Column)
	}
	return nil
}

func (cg *CodeGen) genList(n *List, f frame) error {
	if len(n.Elements) == 0 {
		return errorAt(n, "Empty list cannot be compiled.")
	}

	head, ok := n.Head()
	if !ok {
		return cg.genCall(n, f)
	}
	op := n.Elements[0].(*Leaf)
	args := n.Args()
	name := string(head)

	switch cg.d.FormOf(name) {
	case FormDeclaration:
		return cg.genDeclaration(op, args, f)
	case FormAssignment:
		return cg.genAssignment(op, args, f)
	case FormLambda:
		return cg.genLambda(op, args, f)
	case FormSequence:
		if err := checkArgs(op, args, 1, -1); err != nil {
			return err
		}
		return cg.genBlock(args, f, f.tail, "")
	case FormConditional:
		return cg.genConditional(op, args, f)
	case FormWhen:
		return cg.genWhen(op, args, f)
	case FormArray:
		return cg.genArray(args, f)
	case FormObject:
		return cg.genObject(op, args, f)
	case FormExistence:
		return cg.genExistence(op, args, f)
	case FormFor:
		return cg.genFor(op, args, f)
	case FormWhile:
		return cg.genWhile(op, args, f, false)
	case FormUntil:
		return cg.genWhile(op, args, f, true)
	case FormQuote, FormQuasiquote:
		if err := checkArgs(op, args, 1, 1); err != nil {
			return err
		}
		return cg.genDatum(args[0], f, cg.d.FormOf(name) == FormQuasiquote)
	case FormUnquote, FormUnquoteSplicing:
		return errorAt(op, "%s is only allowed inside a quasiquoted expression.", name)
	}

	if target, ok := cg.d.BinaryOperators[name]; ok {
		return cg.genBinary(op, target, args, f)
	}
	if target, ok := cg.d.Comparisons[name]; ok {
		if err := checkArgs(op, args, 2, 2); err != nil {
			return err
		}
		return cg.genBinary(op, target, args, f)
	}
	if target, ok := cg.d.UnaryOperators[name]; ok {
		if err := checkArgs(op, args, 1, 1); err != nil {
			return err
		}
		if err := cg.requireExpression(args[0]); err != nil {
			return err
		}
		cg.w.out(target)
		return cg.gen(args[0], f.under(name))
	}
	return cg.genCall(n, f)
}

// isInitializer reports whether n, following a declared name, is its value.
func isInitializer(n Node) bool {
	if _, ok := symbolOf(n); ok {
		return false
	}
	if l, ok := n.(*List); ok {
		if head, ok := l.Head(); ok && head == "=" {
			return false
		}
	}
	return true
}

// genDeclaration emits var with one declarator per name. A declarator is a bare
// symbol, a symbol followed by its initial value, or an assignment list.
//
//	(var a 1 b (= c d 2))  =>  var a = 1, b, c = d = 2
func (cg *CodeGen) genDeclaration(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 1, -1); err != nil {
		return err
	}
	inner := f.under("var")
	cg.w.out("var ")
	for i := 0; i < len(args); i++ {
		if i > 0 {
			cg.w.out(", ")
		}
		switch a := args[i].(type) {
		case *List:
			if head, ok := a.Head(); !ok || head != "=" {
				if len(a.Elements) == 0 {
					return errorAt(a, "Expected operator =, not ().")
				}
				return errorAt(a, "Expected operator =, not %s", a.Elements[0])
			}
			if err := cg.gen(a, inner); err != nil {
				return err
			}
		case *Leaf:
			if err := cg.gen(a, inner); err != nil {
				return err
			}
			if i+1 < len(args) && isInitializer(args[i+1]) {
				i++
				if err := cg.requireExpression(args[i]); err != nil {
					return err
				}
				cg.w.out(" = ")
				if err := cg.gen(args[i], inner.under("=")); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// genAssignment emits a chained assignment. Targets are declared when directly
// under var and must already be declared otherwise.
func (cg *CodeGen) genAssignment(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 2, -1); err != nil {
		return err
	}
	if err := cg.requireExpression(args[len(args)-1]); err != nil {
		return err
	}

	declaring := f.parent.name == "var"
	for _, target := range args[:len(args)-1] {
		leaf, ok := target.(*Leaf)
		if !ok {
			return errorAt(target, "Illegal assignment target %s.", target)
		}
		sym, ok := leaf.Value.(Symbol)
		if !ok {
			return errorAt(leaf, "Illegal assignment target %s.", leaf)
		}
		if declaring {
			if err := cg.declare(leaf, f.scope); err != nil {
				return err
			}
			continue
		}
		base, _, _ := strings.Cut(string(sym), ".")
		if base == "" {
			return errorAt(leaf, "Illegal assignment target %s.", leaf)
		}
		if _, ok := cg.scopes.Lookup(f.scope, base); !ok {
			return errorAt(leaf, "Undeclared variable %s", base)
		}
	}

	inner := f.under("=")
	for i, a := range args {
		if i > 0 {
			cg.w.out(" = ")
		}
		if err := cg.gen(a, inner); err != nil {
			return err
		}
	}
	return nil
}

// genBlock emits body as a braced statement list. With tail set the last element
// yields the value of the enclosing function. prelude, when set, is emitted as the
// first line of the block.
func (cg *CodeGen) genBlock(body []Node, f frame, tail bool, prelude string) error {
	cg.w.out("{ ")
	cg.w.indent()
	if prelude != "" {
		cg.w.out(prelude)
		cg.w.newLine()
	}
	for i, x := range body {
		var err error
		if tail && i == len(body)-1 {
			err = cg.genTail(x, f)
		} else {
			err = cg.gen(x, f.under("begin"))
		}
		if err != nil {
			return err
		}
		cg.w.out(";")
		if i < len(body)-1 {
			cg.w.newLine()
		}
	}
	cg.w.out(" }")
	cg.w.unindent()
	return nil
}

// genTail emits the last element of a function body. Sequences and conditionals
// pass the obligation inward; loops and declarations have no value and are
// emitted as plain statements; everything else is returned.
func (cg *CodeGen) genTail(x Node, f frame) error {
	if l, ok := x.(*List); ok {
		if head, ok := l.Head(); ok {
			switch cg.d.FormOf(string(head)) {
			case FormSequence, FormConditional, FormWhen:
				return cg.genList(l, frame{scope: f.scope, parent: f.parent.with("begin"), tail: true})
			case FormDeclaration, FormFor, FormWhile, FormUntil:
				return cg.gen(x, f.under("begin"))
			}
		}
	}
	cg.w.out("return ")
	return cg.gen(x, f.under("return"))
}

// genConditional emits an if / else if / else chain. Each clause is a list whose
// first element is the test, or else in any clause but the first.
func (cg *CodeGen) genConditional(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 1, -1); err != nil {
		return err
	}
	inner := f.under("if")
	for i, c := range args {
		clause, ok := c.(*List)
		if !ok {
			return errorAt(c, "Clause %d of the if-statement must be a list, not %s.", i+1, c)
		}
		if len(clause.Elements) < 2 {
			return errorAt(clause, "Clause %d of the if-statement needs a test and at least one statement.", i+1)
		}

		test := clause.Elements[0]
		if sym, ok := symbolOf(test); ok && sym == "else" {
			if i == 0 {
				return errorAt(test, "else is not allowed in the first clause of an if-statement.")
			}
			if i < len(args)-1 {
				return errorAt(test, "else must be the last clause of an if-statement.")
			}
		} else {
			if err := cg.requireExpression(test); err != nil {
				return err
			}
			cg.w.out("if (")
			if err := cg.gen(test, inner); err != nil {
				return err
			}
			cg.w.out(") ")
		}

		if err := cg.genBlock(clause.Elements[1:], inner, f.tail, ""); err != nil {
			return err
		}
		if i < len(args)-1 {
			cg.w.newLine()
			cg.w.out("else ")
		}
	}
	return nil
}

func (cg *CodeGen) genWhen(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 2, -1); err != nil {
		return err
	}
	if err := cg.requireExpression(args[0]); err != nil {
		return err
	}
	inner := f.under("when")
	cg.w.out("if (")
	if err := cg.gen(args[0], inner); err != nil {
		return err
	}
	cg.w.out(") ")
	return cg.genBlock(args[1:], inner, f.tail, "")
}

// genLambda emits an anonymous function. Parameters are declared in a new scope;
// a "." before the last parameter collects the remaining arguments into it.
//
//	(fun (a . rest) rest)
//	=> function(a) { var rest = Array.prototype.slice.call(arguments, 1);
//	     return rest; }
func (cg *CodeGen) genLambda(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 2, -1); err != nil {
		return err
	}
	params, ok := args[0].(*List)
	if !ok {
		return errorAt(args[0], "fun expects a parameter list, not %s.", args[0])
	}

	scope := cg.scopes.Open(f.scope)
	var names []string
	prelude := ""
	for i, p := range params.Elements {
		leaf, ok := p.(*Leaf)
		if !ok {
			return errorAt(p, "Illegal parameter %s.", p)
		}
		if sym, ok := leaf.Value.(Symbol); ok && sym == "." {
			rest := params.Elements[i+1:]
			if len(rest) != 1 {
				return errorAt(p, "Exactly one rest parameter must follow \".\".")
			}
			rl, ok := rest[0].(*Leaf)
			if !ok {
				return errorAt(rest[0], "Illegal parameter %s.", rest[0])
			}
			if err := cg.declare(rl, scope); err != nil {
				return err
			}
			prelude = fmt.Sprintf("var %s = Array.prototype.slice.call(arguments, %d);", cg.d.Translate(rl.Value), i)
			break
		}
		if err := cg.declare(leaf, scope); err != nil {
			return err
		}
		names = append(names, cg.d.Translate(leaf.Value))
	}

	wrap := statementPosition(f)
	if wrap {
		cg.w.out("(")
	}
	cg.w.out("function(" + strings.Join(names, ", ") + ") ")
	body := frame{scope: scope, parent: f.parent.with("fun")}
	if err := cg.genBlock(args[1:], body, true, prelude); err != nil {
		return err
	}
	if wrap {
		cg.w.out(")")
	}
	return nil
}

func (cg *CodeGen) genArray(args []Node, f frame) error {
	inner := f.under("array")
	cg.w.out("[")
	for i, a := range args {
		if i > 0 {
			cg.w.out(", ")
		}
		if err := cg.requireExpression(a); err != nil {
			return err
		}
		if err := cg.gen(a, inner); err != nil {
			return err
		}
	}
	cg.w.out("]")
	return nil
}

// isIdentifier reports whether s can be written bare as a target property name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// targetNumber formats x the way the target converts a number to a string.
func targetNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0"
	}
	if abs := math.Abs(x); abs >= 1e21 || abs < 1e-6 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', -1, 64), "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// objectKey renders a key: identifiers bare, unsigned numbers as written,
// anything else as a string literal. name is the property name the key
// denotes in the target.
func (cg *CodeGen) objectKey(n Node) (key, name string, err error) {
	leaf, ok := n.(*Leaf)
	if !ok {
		return "", "", errorAt(n, "Object keys must be atoms, not %s.", n)
	}
	switch v := leaf.Value.(type) {
	case Symbol:
		if isIdentifier(string(v)) && !cg.d.Reserved[string(v)] {
			return string(v), string(v), nil
		}
		return quoteTarget(string(v)), string(v), nil
	case Number:
		name = targetNumber(v.Value)
		if strings.HasPrefix(v.Text, "-") || strings.HasPrefix(v.Text, "+") {
			return quoteTarget(name), name, nil
		}
		return v.Text, name, nil
	case StringLiteral:
		return quoteTarget(string(v)), string(v), nil
	}
	name = cg.d.Translate(leaf.Value)
	return quoteTarget(name), name, nil
}

// genObject emits an object literal from alternating keys and values, one
// property per line.
func (cg *CodeGen) genObject(op *Leaf, args []Node, f frame) error {
	if len(args)%2 != 0 {
		return errorAt(op, "object takes key/value pairs; %d %s given.", len(args), plural(len(args), "argument"))
	}
	wrap := statementPosition(f)
	if wrap {
		cg.w.out("(")
	}
	if len(args) == 0 {
		cg.w.out("{}")
	} else {
		inner := f.under("object")
		seen := make(map[string]bool, len(args)/2)
		cg.w.out("{")
		cg.w.indent()
		cg.w.newLine()
		for i := 0; i < len(args); i += 2 {
			key, name, err := cg.objectKey(args[i])
			if err != nil {
				return err
			}
			if seen[name] {
				return errorAt(args[i], "Duplicate key %s in object.", key)
			}
			seen[name] = true
			if err := cg.requireExpression(args[i+1]); err != nil {
				return err
			}
			cg.w.out(key + ": ")
			if err := cg.gen(args[i+1], inner); err != nil {
				return err
			}
			if i+2 < len(args) {
				cg.w.out(",")
				cg.w.newLine()
			}
		}
		cg.w.unindent()
		cg.w.newLine()
		cg.w.out("}")
	}
	if wrap {
		cg.w.out(")")
	}
	return nil
}

func (cg *CodeGen) genExistence(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 1, 1); err != nil {
		return err
	}
	sym, ok := symbolOf(args[0])
	if !ok {
		return errorAt(args[0], "exists? expects a symbol, not %s.", args[0])
	}
	name := string(sym)
	paren := !cg.statementLevel(f)
	if paren {
		cg.w.out("(")
	}
	cg.w.out(fmt.Sprintf(`typeof %s !== "undefined" && %s !== null`, name, name))
	if paren {
		cg.w.out(")")
	}
	return nil
}

// genFor emits a counting loop over an inclusive range. The loop variable is
// declared in a scope of its own.
//
//	(for i 1 10 body...)  =>  for (var i = 1; i <= 10; i++) { body... }
func (cg *CodeGen) genFor(op *Leaf, args []Node, f frame) error {
	if err := checkArgs(op, args, 4, -1); err != nil {
		return err
	}
	v, ok := args[0].(*Leaf)
	if !ok {
		return errorAt(args[0], "for expects a loop variable, not %s.", args[0])
	}
	scope := cg.scopes.Open(f.scope)
	if err := cg.declare(v, scope); err != nil {
		return err
	}
	for _, bound := range args[1:3] {
		if err := cg.requireExpression(bound); err != nil {
			return err
		}
	}

	name := cg.d.Translate(v.Value)
	inner := frame{scope: scope, parent: f.parent.with("for")}
	cg.w.out("for (var " + name + " = ")
	if err := cg.gen(args[1], inner.under("=")); err != nil {
		return err
	}
	// The end bound is an operand of <=, so operators inside it are parenthesised.
	cg.w.out("; " + name + " <= ")
	if err := cg.gen(args[2], inner.under("<=")); err != nil {
		return err
	}
	cg.w.out("; " + name + "++) ")
	return cg.genBlock(args[3:], inner, false, "")
}

// genWhile emits a while loop; negate turns it into an until loop.
func (cg *CodeGen) genWhile(op *Leaf, args []Node, f frame, negate bool) error {
	if err := checkArgs(op, args, 2, -1); err != nil {
		return err
	}
	if err := cg.requireExpression(args[0]); err != nil {
		return err
	}
	if negate {
		cg.w.out("while (!")
		if err := cg.gen(args[0], f.under("not")); err != nil {
			return err
		}
	} else {
		cg.w.out("while (")
		if err := cg.gen(args[0], f.under("while")); err != nil {
			return err
		}
	}
	cg.w.out(") ")
	return cg.genBlock(args[1:], f.under("while"), false, "")
}

// genBinary emits args joined by target. A lone argument to "-" is negated.
// Parentheses are added unless the expression stands at statement level.
func (cg *CodeGen) genBinary(op *Leaf, target string, args []Node, f frame) error {
	name := op.Value.String()
	paren := !cg.statementLevel(f)
	inner := f.under(name)

	if name == "-" && len(args) == 1 {
		if err := cg.requireExpression(args[0]); err != nil {
			return err
		}
		if paren {
			cg.w.out("(")
		}
		if leaf, ok := args[0].(*Leaf); ok && strings.HasPrefix(cg.d.Translate(leaf.Value), "-") {
			cg.w.out("- ")
		} else {
			cg.w.out("-")
		}
		if err := cg.gen(args[0], inner); err != nil {
			return err
		}
		if paren {
			cg.w.out(")")
		}
		return nil
	}

	if err := checkArgs(op, args, 2, -1); err != nil {
		return err
	}
	for _, a := range args {
		if err := cg.requireExpression(a); err != nil {
			return err
		}
	}
	if paren {
		cg.w.out("(")
	}
	for i, a := range args {
		if i > 0 {
			cg.w.out(" " + target + " ")
		}
		if err := cg.gen(a, inner); err != nil {
			return err
		}
	}
	if paren {
		cg.w.out(")")
	}
	return nil
}

// genCall emits a procedure call. A list in callee position is parenthesised.
func (cg *CodeGen) genCall(n *List, f frame) error {
	callee := n.Elements[0]
	inner := f.under("call")
	switch c := callee.(type) {
	case *Leaf:
		if _, ok := c.Value.(Symbol); !ok {
			return errorAt(c, "%s is not callable.", c)
		}
		cg.w.out(cg.d.Translate(c.Value))
	case *List:
		if err := cg.requireExpression(c); err != nil {
			return err
		}
		cg.w.out("(")
		if err := cg.gen(c, inner); err != nil {
			return err
		}
		cg.w.out(")")
	}

	cg.w.out("(")
	for i, a := range n.Args() {
		if i > 0 {
			cg.w.out(", ")
		}
		if err := cg.requireExpression(a); err != nil {
			return err
		}
		if err := cg.gen(a, inner); err != nil {
			return err
		}
	}
	cg.w.out(")")
	return nil
}

// genDatum emits n as data: symbols become strings and lists become arrays. In a
// quasiquote, unquote inserts a compiled expression and unquote-splicing
// concatenates one into the surrounding list.
func (cg *CodeGen) genDatum(n Node, f frame, quasi bool) error {
	switch n := n.(type) {
	case *Leaf:
		if sym, ok := n.Value.(Symbol); ok {
			cg.w.out(quoteTarget(string(sym)))
		} else {
			cg.w.out(cg.d.Translate(n.Value))
		}
		return nil

	case *List:
		if quasi {
			if head, ok := n.Head(); ok {
				switch cg.d.FormOf(string(head)) {
				case FormUnquote:
					op := n.Elements[0].(*Leaf)
					if err := checkArgs(op, n.Args(), 1, 1); err != nil {
						return err
					}
					if err := cg.requireExpression(n.Args()[0]); err != nil {
						return err
					}
					return cg.gen(n.Args()[0], f.under("unquote"))
				case FormUnquoteSplicing:
					return errorAt(n, "unquote-splicing is only allowed inside a quasiquoted list.")
				}
			}
			if cg.hasSplice(n) {
				return cg.genSplice(n, f)
			}
		}
		cg.w.out("[")
		for i, e := range n.Elements {
			if i > 0 {
				cg.w.out(", ")
			}
			if err := cg.genDatum(e, f, quasi); err != nil {
				return err
			}
		}
		cg.w.out("]")
		return nil
	}
	return fmt.Errorf("codegen: unknown node %T", n)
}

// spliced returns the expression of an unquote-splicing element.
func (cg *CodeGen) spliced(n Node) (*List, bool) {
	l, ok := n.(*List)
	if !ok {
		return nil, false
	}
	head, ok := l.Head()
	return l, ok && cg.d.FormOf(string(head)) == FormUnquoteSplicing
}

func (cg *CodeGen) hasSplice(n *List) bool {
	for _, e := range n.Elements {
		if _, ok := cg.spliced(e); ok {
			return true
		}
	}
	return false
}

// genSplice emits a quasiquoted list holding unquote-splicing elements.
//
//	`(a ,@b c)  =>  [].concat(["a"], b, ["c"])
func (cg *CodeGen) genSplice(n *List, f frame) error {
	cg.w.out("[].concat(")
	for i, e := range n.Elements {
		if i > 0 {
			cg.w.out(", ")
		}
		if l, ok := cg.spliced(e); ok {
			op := l.Elements[0].(*Leaf)
			if err := checkArgs(op, l.Args(), 1, 1); err != nil {
				return err
			}
			if err := cg.requireExpression(l.Args()[0]); err != nil {
				return err
			}
			if err := cg.gen(l.Args()[0], f.under("unquote-splicing")); err != nil {
				return err
			}
			continue
		}
		cg.w.out("[")
		if err := cg.genDatum(e, f, true); err != nil {
			return err
		}
		cg.w.out("]")
	}
	cg.w.out(")")
	return nil
}
