// Package main implements the loxi interpreter entry point.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/you-not-fish/loxi/internal/config"
	"github.com/you-not-fish/loxi/internal/driver"
	"github.com/you-not-fish/loxi/internal/syntax"
	"github.com/you-not-fish/loxi/internal/value"
)

// Interpreter flags
var (
	configPath = flag.String("config", "", "Config file (default: ./"+config.FileName+" when present)")
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text, sexpr or json)")
	trace      = flag.Bool("trace", false, "Output phase timing trace on stderr")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("loxi version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(driver.ExitOK)
	}

	args := flag.Args()
	if len(args) > 1 {
		usage()
		os.Exit(driver.ExitUsage)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxi: %v\n", err)
		os.Exit(driver.ExitUsage)
	}

	if *emitTokens || *emitAST {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "error: no input file")
			usage()
			os.Exit(driver.ExitUsage)
		}
		if *emitTokens {
			os.Exit(runEmitTokens(args[0]))
		}
		os.Exit(runEmitAST(args[0], cfg, *astFormat))
	}

	opts := driver.Options{
		Config: cfg,
		Color:  useColor(cfg.REPL.Color, os.Stderr),
	}
	if *trace {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if len(args) == 1 {
		os.Exit(driver.New(opts).RunFile(args[0]))
	}
	os.Exit(runREPL(cfg, opts))
}

func usage() {
	fmt.Fprintf(os.Stderr, "loxi %s\n\n", Version)
	fmt.Fprintf(os.Stderr, "Usage: loxi [options] [script]\n\n")
	fmt.Fprintf(os.Stderr, "Without a script, loxi starts an interactive prompt.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

// loadConfig reads the config file at path. An empty path falls back
// to loxi.yml in the working directory, then to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, ok := config.Find(".")
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	return config.Load(path)
}

// useColor decides whether diagnostics written to f are colored.
func useColor(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string, cfg *config.Config, format string) int {
	switch format {
	case "text", "sexpr", "json":
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", format)
		return driver.ExitUsage
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return driver.ExitIOErr
	}

	var errs []string
	errh := func(tok syntax.Token, msg string) {
		errs = append(errs, syntax.FormatError(tok, msg))
	}

	toks, _ := syntax.ScanTokens(string(src), errh)
	var stmts []syntax.Stmt
	if len(errs) == 0 {
		p := syntax.NewParser(toks, errh)
		p.SetSynchronize(cfg.Parser.Synchronize)
		p.SetMaxErrors(cfg.Parser.MaxErrors)
		stmts = p.Parse()
	}

	// Print errors first
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}

	switch format {
	case "json":
		if err := syntax.FprintProgramJSON(os.Stdout, stmts); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return driver.ExitIOErr
		}
	case "sexpr":
		for _, s := range stmts {
			fmt.Println(syntax.Sexpr(s))
		}
	default:
		syntax.FprintProgram(os.Stdout, stmts)
	}

	if len(errs) > 0 {
		return driver.ExitDataErr
	}
	return driver.ExitOK
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return driver.ExitIOErr
	}

	var errors []string
	errh := func(tok syntax.Token, msg string) {
		errors = append(errors, fmt.Sprintf("%s: %s", filename, syntax.FormatError(tok, msg)))
	}

	toks, _ := syntax.ScanTokens(string(src), errh)

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for _, tok := range toks {
		fmt.Printf("%-20s %-12s %s\n", tok.Pos, tok.Kind, formatLiteral(tok))
	}

	if len(errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		return driver.ExitDataErr
	}

	return driver.ExitOK
}

// formatLiteral formats the literal of tok for display, escaping
// special characters in strings. Tokens without a literal show their
// lexeme.
func formatLiteral(tok syntax.Token) string {
	switch lit := tok.Literal.(type) {
	case value.String:
		return quote(string(lit))
	case value.Number:
		return lit.String()
	}
	if tok.Kind == syntax.EOF {
		return ""
	}
	return tok.Lexeme
}

func quote(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}
