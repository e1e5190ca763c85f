package main

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quasiscript/pkg/compiler"
)

type fakePrompter struct {
	lines   []string
	prompts []string
}

func (f *fakePrompter) Prompt(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func TestReadUnit(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		prompts []string
	}{
		{"single line", []string{"(+ 1 2)"}, "(+ 1 2)", []string{promptMain}},
		{"backslash continues", []string{`(+ 1 \`, "2)"}, "(+ 1 \n2)", []string{promptMain, promptCont}},
		{"open bracket continues", []string{"(var x", "1)"}, "(var x\n1)", []string{promptMain, promptCont}},
		{"open string continues", []string{`(var s "a`, `b")`}, "(var s \"a\nb\")", []string{promptMain, promptCont}},
		{"stray close does not continue", []string{")"}, ")", []string{promptMain}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePrompter{lines: tt.lines}
			got, ok := readUnit(p)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompts, p.prompts)
		})
	}
}

func TestReadUnitEOF(t *testing.T) {
	_, ok := readUnit(&fakePrompter{})
	assert.False(t, ok)
}

func TestEvaluatorPersists(t *testing.T) {
	var out bytes.Buffer
	ev := newEvaluator(&out, time.Second)
	ctx := context.Background()

	code, v, err := ev.eval(ctx, "(var sqr (fun (x) (* x x)))")
	require.NoError(t, err)
	assert.Equal(t, "var sqr = function(x) { return x * x; };\n", code)
	assert.Nil(t, v)

	_, v, err = ev.eval(ctx, "(sqr 5)")
	require.NoError(t, err)
	assert.EqualValues(t, 25, v)

	_, _, err = ev.eval(ctx, "(console.log \"hi\")")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out.String())
}

func TestEvaluatorCompileErrorKeepsSession(t *testing.T) {
	ev := newEvaluator(io.Discard, time.Second)
	ctx := context.Background()

	_, _, err := ev.eval(ctx, "(var a 1) (var a 2)")
	var ce *compiler.CompileError
	require.ErrorAs(t, err, &ce)

	// The failed unit declared nothing.
	_, _, err = ev.eval(ctx, "(var a 3)")
	require.NoError(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "undefined", formatValue(nil))
	assert.Equal(t, `"hi"`, formatValue("hi"))
	assert.Equal(t, "25", formatValue(int64(25)))
}
