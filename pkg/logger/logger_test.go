package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitText(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelDebug, Format: "text", Output: &buf}))

	LogParsing("unit-1", 3)
	assert.Contains(t, buf.String(), "Reading complete")
	assert.Contains(t, buf.String(), "unit=unit-1")
	assert.Contains(t, buf.String(), "expressions=3")
}

func TestInitJSON(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelInfo, Format: "json", Output: &buf}))

	LogError("codegen", "repl", 2, 7, "Undeclared variable y")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Translation error", rec["msg"])
	assert.Equal(t, "codegen", rec["phase"])
	assert.EqualValues(t, 2, rec["line"])
	assert.EqualValues(t, 7, rec["column"])
}

func TestLevelFilters(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelWarn, Output: &buf}))

	LogLexing("a", 10)
	assert.Empty(t, buf.String())
	LogRun("a", errors.New("boom"))
	assert.Contains(t, buf.String(), "Run failed")
}

func TestUnknownFormat(t *testing.T) {
	defer Reset()
	assert.Error(t, Init(Config{Format: "xml"}))
}

func TestNoLoggerIsSilent(t *testing.T) {
	Reset()
	assert.NotPanics(t, func() {
		Info("nothing")
		LogPhase("u", "read")
	})
}

func TestLogFileClosedOnReinit(t *testing.T) {
	defer Reset()
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	require.NoError(t, Init(Config{Level: LevelDebug, LogFile: first}))
	old := logFile
	require.NotNil(t, old)

	LogRun("a.qs", nil)
	require.NoError(t, Init(Config{Level: LevelInfo, LogFile: filepath.Join(dir, "second.log")}))
	_, err := old.Write([]byte("x"))
	assert.True(t, errors.Is(err, os.ErrClosed))
	assert.NotSame(t, old, logFile)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.qs")
}

func TestResetClosesLogFile(t *testing.T) {
	require.NoError(t, Init(Config{LogFile: filepath.Join(t.TempDir(), "qs.log")}))
	f := logFile
	Reset()
	assert.Nil(t, logFile)
	_, err := f.Write([]byte("x"))
	assert.True(t, errors.Is(err, os.ErrClosed))
}

func TestFailedInitKeepsLogFile(t *testing.T) {
	defer Reset()
	require.NoError(t, Init(Config{LogFile: filepath.Join(t.TempDir(), "qs.log")}))
	f := logFile
	assert.Error(t, Init(Config{Format: "xml"}))
	assert.Same(t, f, logFile)
}

func TestInitDev(t *testing.T) {
	defer Reset()
	InitDev()
	require.NotNil(t, defaultLogger)
	assert.True(t, defaultLogger.Enabled(context.Background(), slog.LevelDebug))
	assert.Nil(t, logFile)
}
