package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"prog.qs", "prog.js"},
		{"dir/prog.qs", "dir/prog.js"},
		{"prog", "prog.js"},
		{"a.b/prog.lisp", "a.b/prog.js"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetPath(tt.in, ".js"))
		})
	}
}

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("x/../prog.qs")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(full))
	assert.Equal(t, "prog.qs", filepath.Base(full))
	assert.Equal(t, filepath.Dir(full), dir)
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit"+SourceExt)
	require.NoError(t, os.WriteFile(path, []byte("(+ 1 2)"), 0o644))

	src, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", src)

	_, err = ReadSource(filepath.Join(t.TempDir(), "missing.qs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
