package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTable(t *testing.T) {
	t.Run("DeclareAndLookup", func(t *testing.T) {
		s := NewScopeTable()
		_, redeclared := s.Declare(GlobalScope, "x", 1, 6)
		require.False(t, redeclared)

		d, ok := s.Lookup(GlobalScope, "x")
		require.True(t, ok)
		assert.Equal(t, Declaration{Name: "x", Line: 1, Column: 6}, d)

		_, ok = s.Lookup(GlobalScope, "y")
		assert.False(t, ok)
	})

	t.Run("Redeclaration", func(t *testing.T) {
		s := NewScopeTable()
		s.Declare(GlobalScope, "x", 1, 6)
		prev, redeclared := s.Declare(GlobalScope, "x", 3, 2)
		require.True(t, redeclared)
		assert.Equal(t, 1, prev.Line)
		assert.Equal(t, 6, prev.Column)

		d, _ := s.Lookup(GlobalScope, "x")
		assert.Equal(t, 1, d.Line, "first declaration is kept")
	})

	t.Run("NestedScopes", func(t *testing.T) {
		s := NewScopeTable()
		s.Declare(GlobalScope, "g", 1, 1)
		fn := s.Open(GlobalScope)
		loop := s.Open(fn)
		s.Declare(fn, "p", 2, 1)

		_, redeclared := s.Declare(loop, "g", 3, 1)
		assert.False(t, redeclared, "shadowing an outer name is allowed")

		d, ok := s.Lookup(loop, "g")
		require.True(t, ok)
		assert.Equal(t, 3, d.Line, "innermost declaration wins")

		_, ok = s.Lookup(loop, "p")
		assert.True(t, ok)
		_, ok = s.Lookup(GlobalScope, "p")
		assert.False(t, ok)

		assert.Equal(t, fn, s.Parent(loop))
		assert.Equal(t, NoScope, s.Parent(GlobalScope))
		assert.Equal(t, 3, s.Len())
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		s := NewScopeTable()
		s.Declare(GlobalScope, "a", 1, 1)
		c := s.Clone()
		c.Declare(GlobalScope, "b", 2, 1)
		c.Open(GlobalScope)

		_, ok := s.Lookup(GlobalScope, "b")
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
		_, ok = c.Lookup(GlobalScope, "a")
		assert.True(t, ok)
	})

	t.Run("String", func(t *testing.T) {
		s := NewScopeTable()
		s.Declare(GlobalScope, "zeta", 1, 1)
		s.Declare(GlobalScope, "alpha", 2, 5)
		s.Open(GlobalScope)

		dump := s.String()
		assert.Contains(t, dump, "Global:\n")
		assert.Contains(t, dump, "Scope 1 (parent 0):\n  (empty)\n")
		assert.Less(t, strings.Index(dump, "alpha"), strings.Index(dump, "zeta"))
		assert.Contains(t, dump, "line 2, column 5")
	})
}
