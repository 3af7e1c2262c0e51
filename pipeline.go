// pipeline.go — the four-stage driver: tokenize, parse, check, interpret.
//
// Run is what embedders call. Lex and parse failures abort immediately with
// the positioned error. Type diagnostics are collected exhaustively; whether
// a non-empty list stops the run is a policy choice carried in RunConfig
// (gating is the default). Runtime errors propagate out of the evaluator.
package boba

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// RunConfig controls how Run treats diagnostics and where program I/O goes.
type RunConfig struct {
	// GateOnTypeErrors stops the run before evaluation when the checker
	// reports anything. When false the diagnostics are still written to
	// Diag, but the program runs anyway.
	GateOnTypeErrors bool

	// Stdout receives output/outputf/output& text. Defaults to os.Stdout.
	Stdout io.Writer

	// Stdin feeds input/inputf. Defaults to os.Stdin.
	Stdin io.Reader

	// Diag receives non-gating type diagnostics. Defaults to os.Stderr.
	Diag io.Writer
}

// DefaultRunConfig gates on type errors and wires the standard streams.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		GateOnTypeErrors: true,
		Stdout:           os.Stdout,
		Stdin:            os.Stdin,
		Diag:             os.Stderr,
	}
}

// TypeErrorList is the checker's findings promoted to an error when the run
// is gated. The Error text carries only the first finding, matching the
// one-diagnostic exit contract; All holds the full list.
type TypeErrorList struct {
	All []string
}

func (e *TypeErrorList) Error() string {
	if len(e.All) == 0 {
		return "type error"
	}
	return fmt.Sprintf("Type error: %s", e.All[0])
}

// Run executes src through the whole pipeline.
func Run(src string, cfg RunConfig) error {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Diag == nil {
		cfg.Diag = os.Stderr
	}

	prog, err := ParseSource(src)
	if err != nil {
		return err
	}

	if diags := CheckTypes(prog); len(diags) > 0 {
		if cfg.GateOnTypeErrors {
			return &TypeErrorList{All: diags}
		}
		for _, d := range diags {
			fmt.Fprintf(cfg.Diag, "Type error: %s\n", d)
		}
	}

	return NewInterpreter(cfg.Stdout, cfg.Stdin).Interpret(prog)
}

// Check runs only the front half of the pipeline and returns the checker's
// diagnostics. A lex or parse failure comes back as err with no diagnostics.
func Check(src string) ([]string, error) {
	prog, err := ParseSource(src)
	if err != nil {
		return nil, err
	}
	return CheckTypes(prog), nil
}

// RunString is Run with default configuration except output captured to a
// string; handy for tests and embedding.
func RunString(src string) (string, error) {
	var out strings.Builder
	cfg := DefaultRunConfig()
	cfg.Stdout = &out
	cfg.Stdin = strings.NewReader("")
	cfg.Diag = io.Discard
	err := Run(src, cfg)
	return out.String(), err
}
