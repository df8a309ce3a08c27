package driver

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/loxi/internal/config"
	"github.com/you-not-fish/loxi/internal/value"
)

func newRunner(cfg *config.Config) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := New(Options{Config: cfg, Stdout: &stdout, Stderr: &stderr})
	return r, &stdout, &stderr
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantCode   int
		wantOut    string
		wantStderr string
	}{
		{"ok", "print(1 + 2);", ExitOK, "3\n", ""},
		{"empty", "", ExitOK, "", ""},
		{"unexpected_char", "print(1); @", ExitDataErr, "", "[line 1] Error at '@': Unexpected character.\n"},
		{"unterminated_string", "print(\"abc);", ExitDataErr, "", "[line 1] Error at end: Unterminated string.\n"},
		{"syntax", "print(1 +);", ExitDataErr, "", "[line 1] Error at ')': Expected expression.\n"},
		{"runtime", "print(1);\nprint(-\"x\");\nprint(2);", ExitSoftware, "1\n", "[line 2] Error at '-': Operand must be a number.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newRunner(nil)
			if code := r.Run("test.lox", tt.src); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestLexicalErrorsSkipLaterPhases(t *testing.T) {
	// The syntax error and the print are never reached.
	r, stdout, _ := newRunner(nil)
	code := r.Run("test.lox", "print(1); # print(2 +);")
	if code != ExitDataErr {
		t.Errorf("exit code = %d, want %d", code, ExitDataErr)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
	if r.Reporter().Count() != 1 {
		t.Errorf("diagnostics = %d, want 1", r.Reporter().Count())
	}
}

func TestSyntaxErrorRecoveryFollowsConfig(t *testing.T) {
	src := "let = 1;\nprint(;\nprint(3);"

	r, _, stderr := newRunner(nil)
	r.Run("test.lox", src)
	if got := strings.Count(stderr.String(), "\n"); got != 2 {
		t.Errorf("synchronizing parser reported %d errors, want 2:\n%s", got, stderr.String())
	}

	cfg := config.Default()
	cfg.Parser.Synchronize = false
	r, _, stderr = newRunner(cfg)
	r.Run("test.lox", src)
	if got := strings.Count(stderr.String(), "\n"); got != 1 {
		t.Errorf("legacy parser reported %d errors, want 1:\n%s", got, stderr.String())
	}
}

func TestEagerTernaryFollowsConfig(t *testing.T) {
	src := "let n = 0; print(true ? 1 : (n = 2)); print(n);"

	r, stdout, _ := newRunner(nil)
	r.Run("test.lox", src)
	if stdout.String() != "1\n0\n" {
		t.Errorf("lazy output = %q", stdout.String())
	}

	cfg := config.Default()
	cfg.Interpreter.EagerTernary = true
	r, stdout, _ = newRunner(cfg)
	r.Run("test.lox", src)
	if stdout.String() != "1\n2\n" {
		t.Errorf("eager output = %q", stdout.String())
	}
}

func TestRunPersistsGlobals(t *testing.T) {
	r, stdout, _ := newRunner(nil)

	if code := r.Run("repl", "let x = 40;"); code != ExitOK {
		t.Fatalf("first run exit code = %d", code)
	}
	if code := r.Run("repl", "print(y);"); code != ExitSoftware {
		t.Fatalf("second run exit code = %d, want %d", code, ExitSoftware)
	}
	// A failed line leaves the flags set only until the next Run.
	if code := r.Run("repl", "x = x + 2; print(x);"); code != ExitOK {
		t.Fatalf("third run exit code = %d", code)
	}
	if stdout.String() != "42\n" {
		t.Errorf("stdout = %q, want 42", stdout.String())
	}
	if v, ok := r.Globals().Lookup("x"); !ok || v != value.Number(42) {
		t.Errorf("x = %v, %v", v, ok)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lox")
	if err := os.WriteFile(path, []byte(`print("hello");`), 0644); err != nil {
		t.Fatal(err)
	}

	r, stdout, _ := newRunner(nil)
	if code := r.RunFile(path); code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if stdout.String() != "hello\n" {
		t.Errorf("stdout = %q", stdout.String())
	}

	r, _, stderr := newRunner(nil)
	if code := r.RunFile(filepath.Join(dir, "missing.lox")); code != ExitIOErr {
		t.Errorf("exit code = %d, want %d", code, ExitIOErr)
	}
	if !strings.HasPrefix(stderr.String(), "loxi: ") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, true)
	if rep.ExitCode() != ExitOK {
		t.Errorf("initial ExitCode() = %d", rep.ExitCode())
	}

	r := New(Options{Stdout: &bytes.Buffer{}, Stderr: &buf, Color: true})
	r.Run("test.lox", "print(x);")
	if !strings.HasPrefix(buf.String(), "\x1b[31m[line 1]") || !strings.HasSuffix(buf.String(), "\x1b[0m\n") {
		t.Errorf("colored output = %q", buf.String())
	}

	rep.HadError = true
	rep.HadRuntimeError = true
	if rep.ExitCode() != ExitDataErr {
		t.Errorf("ExitCode() = %d, want %d", rep.ExitCode(), ExitDataErr)
	}
	rep.Reset()
	if rep.HadError || rep.HadRuntimeError || rep.ExitCode() != ExitOK {
		t.Error("Reset() did not clear the flags")
	}
}

func TestTrace(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New(Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Logger: logger})
	r.Run("prog.lox", "print(1);")

	got := logs.String()
	for _, want := range []string{"msg=scan", "source=prog.lox", `size="9 B"`, "tokens=6", "msg=parse", "stmts=1", "msg=interpret", "ok=true", "msg=exec"} {
		if !strings.Contains(got, want) {
			t.Errorf("trace missing %q:\n%s", want, got)
		}
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"", false},
		{"print(1);", false},
		{"print(1)", true},
		{"{ let a = 1;", true},
		{"if (x)", true},
		{`print("abc`, true},
		{"print(1 +);", false},
		{"@", false},
		{"let x = 1; }", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := Incomplete(tt.src); got != tt.want {
				t.Errorf("Incomplete(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}
