// Package jsvm executes translated QuasiScript with an embedded JavaScript engine.
package jsvm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"

	"quasiscript/pkg/compiler"
	"quasiscript/pkg/logger"
)

// Runner owns one JavaScript runtime. Globals defined by one Run are visible to
// the next. A Runner must not be used from more than one goroutine at a time.
type Runner struct {
	vm      *goja.Runtime
	out     io.Writer
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sends console.log output to w (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithTimeout bounds every Run; zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func New(opts ...Option) *Runner {
	r := &Runner{vm: goja.New(), out: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	r.installConsole()
	return r
}

func (r *Runner) installConsole() {
	console := r.vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		fmt.Fprintln(r.out, strings.Join(parts, " "))
		return goja.Undefined()
	})
	_ = r.vm.Set("console", console)
}

// Run evaluates code and returns the exported value of its last statement, or
// nil when that value is undefined. Cancelling ctx interrupts the script.
func (r *Runner) Run(ctx context.Context, code string) (any, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.vm.ClearInterrupt()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	v, err := r.vm.RunString(code)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("jsvm: interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("jsvm: %w", err)
	}
	if v == nil || goja.IsUndefined(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Eval translates src as a self-contained unit and runs the result.
func (r *Runner) Eval(ctx context.Context, src string) (any, error) {
	code, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	v, err := r.Run(ctx, code)
	logger.LogRun("<eval>", err)
	return v, err
}
