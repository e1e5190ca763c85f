package compiler

import (
	"errors"

	"quasiscript/pkg/logger"
)

// Compile translates src with the default dialect. The error, if any, is a
// *ParseError or a *CompileError.
func Compile(src string) (string, error) {
	return CompileUnit("<input>", src)
}

// CompileUnit is Compile with a unit name attached to log records.
func CompileUnit(name, src string) (string, error) {
	return compileWith(Default, NewScopeTable(), name, src)
}

func compileWith(d *Dialect, scopes *ScopeTable, name, src string) (string, error) {
	logger.LogPhase(name, "read")
	res := ParseWith(d, src)
	if res.Err != nil {
		logError("read", name, res.Err)
		return "", res.Err
	}
	logger.LogParsing(name, len(res.Expressions))

	logger.LogPhase(name, "generate")
	out, err := GenerateWith(d, scopes, res.Expressions)
	if err != nil {
		logError("generate", name, err)
		return "", err
	}
	logger.LogCodeGen(name, len(out))
	return out, nil
}

func logError(phase, name string, err error) {
	var pe *ParseError
	var ce *CompileError
	switch {
	case errors.As(err, &pe):
		inner := pe.Innermost()
		logger.LogError(phase, name, inner.Line, inner.Column, inner.Message)
	case errors.As(err, &ce):
		logger.LogError(phase, name, ce.Line, ce.Column, ce.Message)
	default:
		logger.LogError(phase, name, 0, 0, err.Error())
	}
}

// Session compiles a sequence of units that share one global scope, so a name
// declared by one unit is visible to the next. A unit that fails leaves the
// scope as it was.
type Session struct {
	d      *Dialect
	scopes *ScopeTable
	units  int
}

func NewSession(d *Dialect) *Session {
	if d == nil {
		d = Default
	}
	return &Session{d: d, scopes: NewScopeTable()}
}

// Compile translates one unit.
func (s *Session) Compile(name, src string) (string, error) {
	scratch := s.scopes.Clone()
	out, err := compileWith(s.d, scratch, name, src)
	if err != nil {
		return "", err
	}
	s.scopes = scratch
	s.units++
	return out, nil
}

// Declared reports whether name is declared in the session's global scope.
func (s *Session) Declared(name string) bool {
	_, ok := s.scopes.Lookup(GlobalScope, name)
	return ok
}

// Units returns the number of units compiled successfully.
func (s *Session) Units() int { return s.units }

// Scopes returns a dump of the session's scope table.
func (s *Session) Scopes() string { return s.scopes.String() }
