package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quasiscript/pkg/compiler"
	"quasiscript/pkg/jsvm"
	"quasiscript/pkg/logger"
	"quasiscript/pkg/utils"
)

func main() {
	inPath := flag.String("in", "", "input QuasiScript file path")
	outPath := flag.String("out", "", "output JavaScript file path (default: input with .js extension)")
	runProgram := flag.Bool("run", false, "run the generated code and print its value")
	timeout := flag.Duration("timeout", 10*time.Second, "time limit for -run")
	verbose := flag.Bool("v", false, "log translation phases")
	logFormat := flag.String("log-format", "text", "log format: text or json")
	dev := flag.Bool("dev", false, "development logging: debug level with source locations")
	flag.Parse()

	if *dev {
		logger.InitDev()
	} else {
		cfg := logger.DefaultConfig()
		cfg.Format = *logFormat
		if *verbose {
			cfg.Level = logger.LevelDebug
		}
		if err := logger.Init(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "invalid logging configuration:", err)
			os.Exit(2)
		}
	}
	defer logger.Reset()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in <file.qs>")
		flag.Usage()
		os.Exit(2)
	}

	output := *outPath
	if output == "" {
		output = utils.TargetPath(*inPath, ".js")
	}

	code, err := translateFile(*inPath, output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("translated %s -> %s\n", *inPath, output)

	if !*runProgram {
		return
	}
	v, err := jsvm.New(jsvm.WithTimeout(*timeout)).Run(context.Background(), code)
	logger.LogRun(*inPath, err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", output, err)
		os.Exit(1)
	}
	if v != nil {
		fmt.Println(v)
	}
}

// translateFile compiles inPath and writes the result to outPath.
func translateFile(inPath, outPath string) (string, error) {
	logger.LogFileProcessing(inPath)
	src, err := utils.ReadSource(inPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	code, err := compiler.CompileUnit(inPath, src)
	if err != nil {
		return "", fmt.Errorf("translation failed:\n%w", err)
	}
	if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file %q: %w", outPath, err)
	}
	return code, nil
}
