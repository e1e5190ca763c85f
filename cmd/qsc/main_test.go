package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateBuiltIn(t *testing.T) {
	r := translate("<built-in>", testSource)
	require.NoError(t, r.err)
	assert.Contains(t, r.code, "var sqr = function(x) { return x * x; };")
	assert.Contains(t, r.code, "var xs = [1, 2, 3];")
	assert.Contains(t, r.ast, "(var xs (array 1 2 3))")
	assert.Contains(t, r.scopes, "sqr")

	var buf bytes.Buffer
	r.print(&buf)
	assert.Contains(t, buf.String(), "Generated code")
}

func TestTranslateError(t *testing.T) {
	r := translate("bad", "(= y 1)")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "Undeclared variable y")

	var buf bytes.Buffer
	r.print(&buf)
	assert.NotContains(t, buf.String(), "Generated code")
}

func TestTranslateAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{"(var a 1)", "(var b 2)", "(var c 3)"} {
		p := filepath.Join(dir, string(rune('a'+i))+".qs")
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		paths = append(paths, p)
	}

	reports, err := translateAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "var a = 1;\n", reports[0].code)
	assert.Equal(t, "var b = 2;\n", reports[1].code)
	assert.Equal(t, "var c = 3;\n", reports[2].code)
}

func TestTranslateAllMissingFile(t *testing.T) {
	_, err := translateAll(context.Background(), []string{filepath.Join(t.TempDir(), "nope.qs")})
	assert.Error(t, err)
}
