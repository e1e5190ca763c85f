// Command qsc prints the tokens, reader output and generated code for each
// QuasiScript file named on the command line. Files are translated concurrently
// and reported in argument order.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"quasiscript/pkg/compiler"
	"quasiscript/pkg/logger"
	"quasiscript/pkg/utils"
)

const testSource = `(var sqr (fun (x) (* x x)))
(var xs [1 2 3])
(sqr (+ 1 4))
`

// report is everything qsc prints for one unit.
type report struct {
	name   string
	src    string
	tokens []compiler.Token
	ast    string
	code   string
	scopes string
	err    error
}

func translate(name, src string) report {
	r := report{name: name, src: src}
	d := compiler.Default

	r.tokens = compiler.TokenizeWith(d, src)
	logger.LogLexing(name, len(r.tokens))

	res := compiler.ParseWith(d, src)
	if res.Err != nil {
		r.err = fmt.Errorf("read error: %w", res.Err)
		return r
	}
	r.ast = compiler.Unparse(res.Expressions)

	scopes := compiler.NewScopeTable()
	code, err := compiler.GenerateWith(d, scopes, res.Expressions)
	if err != nil {
		r.err = fmt.Errorf("codegen error: %w", err)
		return r
	}
	r.code = code
	r.scopes = scopes.String()
	return r
}

func (r report) print(w io.Writer) {
	fmt.Fprintf(w, "== %s\n", r.name)
	fmt.Fprintf(w, "Source:\n%s\n", r.src)

	fmt.Fprintf(w, "Tokens (%d)\n", len(r.tokens))
	for _, tok := range r.tokens {
		fmt.Fprintln(w, " ", tok)
	}
	fmt.Fprintln(w)

	if r.err != nil {
		fmt.Fprintln(w, r.err)
		return
	}

	fmt.Fprintln(w, "AST")
	fmt.Fprintln(w, r.ast)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Generated code")
	fmt.Fprint(w, r.code)
	fmt.Fprintln(w)
	fmt.Fprint(w, r.scopes)
}

// translateAll translates every file concurrently, one generator per file.
func translateAll(ctx context.Context, paths []string) ([]report, error) {
	reports := make([]report, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.LogFileProcessing(path)
			src, err := utils.ReadSource(path)
			if err != nil {
				return err
			}
			reports[i] = translate(path, src)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func main() {
	verbose := flag.Bool("v", false, "log translation phases to stderr")
	flag.Parse()

	cfg := logger.DefaultConfig()
	if *verbose {
		cfg.Level = logger.LevelDebug
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		r := translate("<built-in>", testSource)
		r.print(os.Stdout)
		if r.err != nil {
			os.Exit(1)
		}
		return
	}

	reports, err := translateAll(context.Background(), flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
	failed := false
	for _, r := range reports {
		r.print(os.Stdout)
		failed = failed || r.err != nil
	}
	if failed {
		os.Exit(1)
	}
}
