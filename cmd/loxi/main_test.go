package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/you-not-fish/loxi/internal/config"
	"github.com/you-not-fish/loxi/internal/driver"
)

func TestRunEmitTokensOutputsTable(t *testing.T) {
	filename := writeTempLoxFile(t, "let s = \"a\\b\";\nprint(s + 1.5);\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != driver.ExitOK {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "POSITION") || !strings.Contains(lines[0], "LITERAL") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, `"a\\b"`) {
		t.Fatalf("string literal not escaped:\n%s", out)
	}
	if !strings.Contains(out, "1.5") {
		t.Fatalf("number literal missing:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-1], "EOF") {
		t.Fatalf("last token is not EOF:\n%s", out)
	}
}

func TestRunEmitTokensReportsErrors(t *testing.T) {
	filename := writeTempLoxFile(t, "let x = @;\n")
	code, out, _ := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != driver.ExitDataErr {
		t.Fatalf("runEmitTokens exit=%d, want %d", code, driver.ExitDataErr)
	}
	if !strings.Contains(out, "Errors:") || !strings.Contains(out, "[line 1] Error") {
		t.Fatalf("errors section missing:\n%s", out)
	}
}

func TestRunEmitTokensMissingFile(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runEmitTokens(filepath.Join(t.TempDir(), "missing.lox"))
	})
	if code != driver.ExitIOErr {
		t.Fatalf("exit=%d, want %d", code, driver.ExitIOErr)
	}
	if !strings.Contains(errOut, "error:") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunEmitASTFormats(t *testing.T) {
	filename := writeTempLoxFile(t, "let x = 1 + 2 * 3;\n")

	tests := []struct {
		format string
		want   string
	}{
		{"text", "VarStmt 1:1 x"},
		{"sexpr", "(let x (+ 1 (* 2 3)))"},
		{"json", `"type": "VarStmt"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			code, out, errOut := captureOutput(t, func() int {
				return runEmitAST(filename, config.Default(), tt.format)
			})
			if code != driver.ExitOK {
				t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRunEmitASTJSONIsValid(t *testing.T) {
	filename := writeTempLoxFile(t, "print(\"hi\");\nwhile (false) {}\n")
	code, out, _ := captureOutput(t, func() int {
		return runEmitAST(filename, config.Default(), "json")
	})
	if code != driver.ExitOK {
		t.Fatalf("exit=%d", code)
	}
	var stmts []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &stmts); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
}

func TestRunEmitASTSyntaxErrors(t *testing.T) {
	filename := writeTempLoxFile(t, "let = 1;\nprint(2);\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename, config.Default(), "sexpr")
	})
	if code != driver.ExitDataErr {
		t.Fatalf("exit=%d, want %d", code, driver.ExitDataErr)
	}
	if !strings.Contains(errOut, "[line 1] Error at '=': Expected variable name.") {
		t.Fatalf("stderr = %q", errOut)
	}
	if !strings.Contains(out, "(print 2)") {
		t.Fatalf("statement after the error was not recovered:\n%s", out)
	}
}

func TestRunEmitASTUnknownFormat(t *testing.T) {
	filename := writeTempLoxFile(t, "print(1);\n")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitAST(filename, config.Default(), "yaml")
	})
	if code != driver.ExitUsage {
		t.Fatalf("exit=%d, want %d", code, driver.ExitUsage)
	}
	if !strings.Contains(errOut, `unknown AST format "yaml"`) {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte("interpreter:\n  eager_ternary: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Interpreter.EagerTernary {
		t.Fatal("eager_ternary not loaded")
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !useColor(config.ColorAlways, f) {
		t.Error("always: want color")
	}
	if useColor(config.ColorNever, f) {
		t.Error("never: want no color")
	}
	if useColor(config.ColorAuto, f) {
		t.Error("auto on a regular file: want no color")
	}
}

// scriptedInput feeds fixed lines to the REPL, then reports end of input.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func newTestREPL(stdout, stderr *bytes.Buffer) *repl {
	return &repl{
		runner: driver.New(driver.Options{Stdout: stdout, Stderr: stderr}),
		out:    stdout,
		prompt: "> ",
	}
}

func TestREPLKeepsGlobals(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	in := &scriptedInput{lines: []string{
		"let a = 1;",
		"a = a + 41;",
		"print(a);",
	}}
	r.loop(in)

	if stderr.Len() != 0 {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if got := stdout.String(); got != "42\n\n" {
		t.Fatalf("stdout = %q, want %q", got, "42\n\n")
	}
}

func TestREPLContinuesAfterErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	in := &scriptedInput{lines: []string{
		"print(-\"x\");",
		"let = ;",
		"print(1);",
	}}
	r.loop(in)

	errs := stderr.String()
	if !strings.Contains(errs, "Operand must be a number.") {
		t.Errorf("missing runtime error: %q", errs)
	}
	if !strings.Contains(errs, "Expected variable name.") {
		t.Errorf("missing syntax error: %q", errs)
	}
	if !strings.HasPrefix(stdout.String(), "1\n") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestREPLContinuationLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	in := &scriptedInput{lines: []string{
		"{",
		"  let x = 2;",
		"  print(x * 3);",
		"}",
		"print(\"a",
		"b\");",
	}}
	r.loop(in)

	if stderr.Len() != 0 {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if got, want := stdout.String(), "6\na\nb\n\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	want := []string{"> ", ". ", ". ", ". ", "> ", ". ", "> "}
	if strings.Join(in.prompts, "|") != strings.Join(want, "|") {
		t.Fatalf("prompts = %q, want %q", in.prompts, want)
	}
}

func TestREPLBlankLineSubmitsIncompleteInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	in := &scriptedInput{lines: []string{
		"print(1",
		"",
		"print(2);",
	}}
	r.loop(in)

	if !strings.Contains(stderr.String(), "Error at end: Expected ')' after value.") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "2\n") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestREPLCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	in := &scriptedInput{lines: []string{
		"let name = \"lox\";",
		"let later;",
		":env",
		":help",
		":bogus",
		":quit",
		"print(1);",
	}}
	r.loop(in)

	out := stdout.String()
	for _, want := range []string{
		"later = <unassigned>\nname = \"lox\"\n",
		":quit    Exit the REPL",
		"unknown command :bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "1\n") {
		t.Errorf("input after :quit was run:\n%s", out)
	}
	if len(in.lines) != 1 {
		t.Errorf("REPL read past :quit, %d lines left", len(in.lines))
	}
}

func TestREPLCtrlCDiscardsInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestREPL(&stdout, &stderr)
	var history []string
	r.onLine = func(src string) { history = append(history, src) }
	in := &scriptedInput{lines: []string{
		"print(",
		"^C",
		"print(3);",
	}}
	r.loop(in)

	if stderr.Len() != 0 {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if got := stdout.String(); got != "3\n\n" {
		t.Fatalf("stdout = %q", got)
	}
	if len(history) != 1 || history[0] != "print(3);" {
		t.Fatalf("history = %q", history)
	}
}

func TestContinuationPrompt(t *testing.T) {
	tests := map[string]string{
		"> ":    ". ",
		"lox> ": ".... ",
		">>":    "..",
		"":      "",
		"   ":   "   ",
	}
	for in, want := range tests {
		if got := continuationPrompt(in); got != want {
			t.Errorf("continuationPrompt(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeTempLoxFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.lox")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
