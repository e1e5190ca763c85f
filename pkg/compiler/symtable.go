package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeID indexes a scope in a ScopeTable.
type ScopeID int

const (
	NoScope     ScopeID = -1
	GlobalScope ScopeID = 0
)

// Declaration records where a name was declared.
type Declaration struct {
	Name   string
	Line   int
	Column int
}

type scope struct {
	parent ScopeID
	names  map[string]Declaration
}

// ScopeTable tracks compile-time declarations. Scopes live in one slice and refer
// to their parent by index; lookups walk outward until NoScope.
type ScopeTable struct {
	scopes []scope
}

// NewScopeTable returns a table holding only the global scope.
func NewScopeTable() *ScopeTable {
	return &ScopeTable{scopes: []scope{{parent: NoScope, names: make(map[string]Declaration)}}}
}

// Open creates a child scope of parent.
func (s *ScopeTable) Open(parent ScopeID) ScopeID {
	s.scopes = append(s.scopes, scope{parent: parent, names: make(map[string]Declaration)})
	return ScopeID(len(s.scopes) - 1)
}

// Parent returns the enclosing scope of id, or NoScope.
func (s *ScopeTable) Parent(id ScopeID) ScopeID {
	return s.scopes[id].parent
}

// Declare adds name to scope id. If name is already declared in that same scope the
// earlier declaration is returned with redeclared set and the table is unchanged.
func (s *ScopeTable) Declare(id ScopeID, name string, line, column int) (prev Declaration, redeclared bool) {
	names := s.scopes[id].names
	if d, ok := names[name]; ok {
		return d, true
	}
	names[name] = Declaration{Name: name, Line: line, Column: column}
	return Declaration{}, false
}

// Lookup finds name in scope id or any of its ancestors.
func (s *ScopeTable) Lookup(id ScopeID, name string) (Declaration, bool) {
	for id != NoScope {
		if d, ok := s.scopes[id].names[name]; ok {
			return d, true
		}
		id = s.scopes[id].parent
	}
	return Declaration{}, false
}

// Len returns the number of scopes.
func (s *ScopeTable) Len() int { return len(s.scopes) }

// Clone returns a deep copy of the table.
func (s *ScopeTable) Clone() *ScopeTable {
	c := &ScopeTable{scopes: make([]scope, len(s.scopes))}
	for i, sc := range s.scopes {
		names := make(map[string]Declaration, len(sc.names))
		for k, v := range sc.names {
			names[k] = v
		}
		c.scopes[i] = scope{parent: sc.parent, names: names}
	}
	return c
}

// String returns a deterministically ordered dump of the table.
func (s *ScopeTable) String() string {
	var sb strings.Builder
	for i, sc := range s.scopes {
		if i == int(GlobalScope) {
			sb.WriteString("Global:\n")
		} else {
			fmt.Fprintf(&sb, "Scope %d (parent %d):\n", i, sc.parent)
		}
		if len(sc.names) == 0 {
			sb.WriteString("  (empty)\n")
			continue
		}
		names := make([]string, 0, len(sc.names))
		for name := range sc.names {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d := sc.names[name]
			fmt.Fprintf(&sb, "  %-20s  line %d, column %d\n", name, d.Line, d.Column)
		}
	}
	return sb.String()
}
