package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/loxi/internal/config"
	"github.com/you-not-fish/loxi/internal/driver"
)

const replHelp = `Commands:
  :env     Show global variables
  :help    Show this help
  :quit    Exit the REPL
`

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// runREPL runs the interactive prompt until end of input or :quit.
func runREPL(cfg *config.Config, opts driver.Options) int {
	fmt.Printf("loxi %s\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := cfg.HistoryPath(); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	r := &repl{
		runner: driver.New(opts),
		out:    os.Stdout,
		prompt: cfg.REPL.Prompt,
		onLine: func(src string) { ln.AppendHistory(strings.ReplaceAll(src, "\n", " ")) },
	}
	r.loop(ln)
	return driver.ExitOK
}

type repl struct {
	runner *driver.Runner
	out    io.Writer
	prompt string
	onLine func(src string) // called for every submitted non-command input
}

// loop reads and runs inputs until end of input or :quit. Errors in
// one input are reported and do not end the session.
func (r *repl) loop(in prompter) {
	for {
		src, ok := r.read(in)
		if !ok {
			fmt.Fprintln(r.out)
			return
		}

		line := strings.TrimSpace(src)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if r.command(line) {
				return
			}
			continue
		}

		if r.onLine != nil {
			r.onLine(src)
		}
		r.runner.Run("<stdin>", src)
	}
}

// command runs a REPL command and reports whether the session ends.
func (r *repl) command(line string) (quit bool) {
	switch strings.ToLower(line) {
	case ":quit", ":q", ":exit":
		return true
	case ":env":
		fmt.Fprint(r.out, r.runner.Globals().String())
	case ":help":
		fmt.Fprint(r.out, replHelp)
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for commands.\n", line)
	}
	return false
}

// read collects one input, prompting for continuation lines while the
// source ends in the middle of a statement. An empty continuation line
// submits what was typed so far. It returns false at end of input.
func (r *repl) read(in prompter) (string, bool) {
	var b strings.Builder

	for {
		prompt := r.prompt
		if b.Len() > 0 {
			prompt = continuationPrompt(r.prompt)
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !driver.Incomplete(src) {
			return src, true
		}
	}
}

// continuationPrompt is a prompt of the same width as prompt made of dots.
func continuationPrompt(prompt string) string {
	trimmed := strings.TrimRight(prompt, " ")
	if trimmed == "" {
		return prompt
	}
	return strings.Repeat(".", len(trimmed)) + prompt[len(trimmed):]
}
