// Package config loads loxi.yml, the optional interpreter configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "loxi.yml"

// Config is the parsed contents of loxi.yml.
type Config struct {
	Parser      ParserConfig      `yaml:"parser"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	REPL        REPLConfig        `yaml:"repl"`
}

// ParserConfig controls syntax error recovery.
type ParserConfig struct {
	// Synchronize makes the parser recover at statement boundaries and
	// report every independent syntax error. When false the first error
	// ends the parse.
	Synchronize bool `yaml:"synchronize"`
	MaxErrors   int  `yaml:"max_errors"`
}

// InterpreterConfig controls evaluation.
type InterpreterConfig struct {
	// EagerTernary evaluates both branches of c ? a : b.
	EagerTernary bool `yaml:"eager_ternary"`
}

// REPLConfig controls the interactive prompt.
type REPLConfig struct {
	Prompt      string    `yaml:"prompt"`
	HistoryFile string    `yaml:"history_file"` // empty disables history
	Color       ColorMode `yaml:"color"`
}

// ColorMode selects when diagnostics are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the color mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			Synchronize: true,
			MaxErrors:   10,
		},
		REPL: REPLConfig{
			Prompt:      "> ",
			HistoryFile: "~/.loxi_history",
			Color:       ColorAuto,
		},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the configuration file at path. Settings the
// file leaves out keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	return Decode(file, path)
}

// Decode reads a configuration from r. The name is used in errors.
// An empty document yields the defaults.
func Decode(r io.Reader, name string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := Default()
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the path of loxi.yml in dir, if it exists.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Parser.MaxErrors < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("parser.max_errors must be at least 1, got %d", c.Parser.MaxErrors))
	}
	if !c.REPL.Color.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("repl.color has unsupported value %q (want auto, always or never)", c.REPL.Color))
	}
	if strings.ContainsAny(c.REPL.Prompt, "\n\r") {
		errs.Issues = append(errs.Issues, "repl.prompt must be a single line")
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// HistoryPath returns the REPL history file with a leading ~ expanded
// to the home directory. It returns "" when history is disabled.
func (c *Config) HistoryPath() string {
	path := c.REPL.HistoryFile
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
