// Command repl is an interactive QuasiScript prompt. Each unit is translated,
// the generated code is shown, and the result of running it is printed.
// Definitions persist between units.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"quasiscript/pkg/compiler"
	"quasiscript/pkg/jsvm"
	"quasiscript/pkg/logger"
)

const (
	historyFile = ".quasiscript_history"
	promptMain  = "qs> "
	promptCont  = "... "
	banner      = "QuasiScript. Type :quit to exit; end a line with \\ to continue it."
)

func red(s string) string    { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string  { return "\x1b[32m" + s + "\x1b[0m" }
func yellow(s string) string { return "\x1b[33m" + s + "\x1b[0m" }

// prompter is the part of liner.State the reader needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// incomplete reports whether src stops in the middle of a unit, so that more
// input should be read before translating it.
func incomplete(src string) bool {
	res := compiler.Parse(src)
	if res.Err == nil {
		return false
	}
	return res.Err.Innermost().Message == "Unexpected end-of-stream"
}

// readUnit reads lines until they form a unit. A line ending in a backslash, or
// input with unclosed brackets or strings, continues on the next line.
func readUnit(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if strings.HasSuffix(line, `\`) {
			b.WriteString(strings.TrimSuffix(line, `\`))
			continue
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) != "" && incomplete(src) {
			continue
		}
		return src, true
	}
}

// evaluator translates units in one session and runs them in one runtime.
type evaluator struct {
	sess   *compiler.Session
	runner *jsvm.Runner
	units  int
}

func newEvaluator(out io.Writer, timeout time.Duration) *evaluator {
	return &evaluator{
		sess:   compiler.NewSession(nil),
		runner: jsvm.New(jsvm.WithOutput(out), jsvm.WithTimeout(timeout)),
	}
}

// eval translates and runs src, returning the generated code and the value.
func (e *evaluator) eval(ctx context.Context, src string) (string, any, error) {
	e.units++
	name := fmt.Sprintf("repl-%d", e.units)
	code, err := e.sess.Compile(name, src)
	if err != nil {
		return "", nil, err
	}
	v, err := e.runner.Run(ctx, code)
	logger.LogRun(name, err)
	return code, v, err
}

func formatValue(v any) string {
	if v == nil {
		return "undefined"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

func run(timeout time.Duration) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ev := newEvaluator(os.Stdout, timeout)
	for {
		src, ok := readUnit(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		code, v, err := ev.eval(context.Background(), src)
		if code != "" {
			fmt.Print(yellow(code))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(green(formatValue(v)))
	}
}

func main() {
	verbose := flag.Bool("v", false, "log translation phases to stderr")
	timeout := flag.Duration("timeout", 5*time.Second, "time limit for running one unit")
	flag.Parse()

	cfg := logger.DefaultConfig()
	if *verbose {
		cfg.Level = logger.LevelDebug
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
	os.Exit(run(*timeout))
}
