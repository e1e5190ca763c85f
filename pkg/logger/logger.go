// Package logger provides structured logging for the QuasiScript tools.
// Nothing is logged until Init is called.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger *slog.Logger
	logFile       *os.File // set when Init opened Config.LogFile
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

// Init installs the global logger. A LogFile, when set, takes precedence over
// Output; a log file opened by an earlier Init is closed.
func Init(cfg Config) error {
	if cfg.Format != "json" && cfg.Format != "text" && cfg.Format != "" {
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	output := cfg.Output
	var file *os.File
	if cfg.LogFile != "" {
		var err error
		file, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	closeLogFile()
	logFile = file
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return nil
}

// InitDev initializes logging for development (debug level, text format)
func InitDev() {
	_ = Init(Config{
		Level:     LevelDebug,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: true,
	})
}

// Reset discards the global logger and closes its log file; later calls log
// nothing.
func Reset() {
	closeLogFile()
	defaultLogger = nil
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// Translator-specific helpers

// LogPhase logs the start of a translation phase for unit.
func LogPhase(unit, phase string) {
	Debug("Starting phase", "unit", unit, "phase", phase)
}

// LogLexing logs tokenizer activity
func LogLexing(unit string, tokenCount int) {
	Debug("Tokenizing complete", "unit", unit, "tokens", tokenCount)
}

// LogParsing logs reader activity
func LogParsing(unit string, nodeCount int) {
	Debug("Reading complete", "unit", unit, "expressions", nodeCount)
}

// LogCodeGen logs code generation
func LogCodeGen(unit string, bytes int) {
	Debug("Code generation complete", "unit", unit, "bytes", bytes)
}

// LogError logs a translation error
func LogError(phase, unit string, line, column int, msg string) {
	Error("Translation error",
		"phase", phase,
		"unit", unit,
		"line", line,
		"column", column,
		"message", msg)
}

// LogFileProcessing logs file processing start
func LogFileProcessing(file string) {
	Info("Processing file", "file", file)
}

// LogRun logs the outcome of executing translated code.
func LogRun(unit string, err error) {
	if err != nil {
		Warn("Run failed", "unit", unit, "error", err)
		return
	}
	Debug("Run complete", "unit", unit)
}
