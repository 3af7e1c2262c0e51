package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	boba "github.com/omakase-sh/boba-lang"
)

const (
	appName     = "boba"
	historyFile = ".boba_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Boba %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", boba.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(boba.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		// Bare "boba file.bb" runs the file.
		if strings.HasPrefix(cmd, "-") {
			fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
			usage()
			os.Exit(2)
		}
		os.Exit(cmdRun(os.Args[1:]))
	}
}

func usage() {
	fmt.Printf(`Boba %s (built %s)

Usage:
  %s run <file.bb>     Run a program.
  %s check <file.bb>   Type-check without running; print every diagnostic.
  %s repl              Start the REPL.
  %s version           Print the compiled version.

Running "%s <file.bb>" is shorthand for "%s run <file.bb>".
`, boba.Version, boba.BuildDate, appName, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: No file specified")
		fmt.Fprintf(os.Stderr, "Usage: %s run <FILE> or %s <FILE>\n", appName, appName)
		return 1
	}
	file := args[0]

	src, ok := readSource(file)
	if !ok {
		return 1
	}

	cfg := boba.DefaultRunConfig()
	if proj, _, err := boba.FindProjectConfig(filepath.Dir(file)); err == nil {
		cfg.GateOnTypeErrors = proj.GateOnTypeErrors
	}

	fmt.Printf("Running Boba program: %s\n", file)
	if err := boba.Run(src, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", boba.WrapErrorWithName(err, file, src))
		return 1
	}
	fmt.Println("Program executed successfully")
	return 0
}

func readSource(file string) (string, bool) {
	if _, err := os.Stat(file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: File '%s' not found\n", file)
		return "", false
	}
	if filepath.Ext(file) != ".bb" {
		fmt.Fprintln(os.Stderr, "Warning: File does not have .bb extension")
	}
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return "", false
	}
	return string(src), true
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s check <file.bb>\n", appName)
		return 2
	}
	file := args[0]
	src, ok := readSource(file)
	if !ok {
		return 1
	}

	diags, err := boba.Check(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, boba.WrapErrorWithName(err, file, src).Error())
		return 1
	}
	for _, d := range diags {
		fmt.Printf("Type error: %s\n", d)
	}
	if len(diags) > 0 {
		return 1
	}
	fmt.Printf("%s: no type errors\n", file)
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
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
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
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

	sess := boba.NewSession(os.Stdout, os.Stdin)

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		v, err := sess.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(boba.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(blue(boba.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the buffer parses, so braces can
// span physical lines at the REPL. Any non-incomplete parse error hands the
// buffer back for a real diagnostic.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := boba.ParseSource(src)
		if perr == nil {
			return src, true
		}
		if boba.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
