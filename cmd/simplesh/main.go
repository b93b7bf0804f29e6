// Command simplesh is an interactive Unix-style shell: it reads a
// command line, parses it into an AST, and runs that tree over a
// POSIX process/file-descriptor environment.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/JuanjoMorell/simplesh/internal/shlog"
	"github.com/JuanjoMorell/simplesh/interp"
	"github.com/JuanjoMorell/simplesh/parser"
	"github.com/JuanjoMorell/simplesh/psplit"
	"github.com/JuanjoMorell/simplesh/syntax"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == interp.ReexecFlag {
		os.Exit(runReexec(os.Args[2]))
	}
	if len(os.Args) > 1 && os.Args[1] == psplit.WorkerFlag {
		os.Exit(runPsplitWorker(os.Args[2:]))
	}

	var debug int
	var help bool
	pflag.IntVarP(&debug, "debug", "d", 0, "debug bitmask (1: command echo, 2: trace)")
	pflag.BoolVarP(&help, "help", "h", false, "show usage")
	pflag.Parse()
	if help {
		fmt.Fprintln(os.Stdout, "uso: simplesh [-d N] [-h]")
		return
	}

	log := shlog.New(debug)

	exe, err := os.Executable()
	if err != nil {
		log.Fatalf("simplesh: %v", err)
	}

	os.Unsetenv("OLDPWD")

	// Block SIGINT process-wide (spec.md §4.7 step 2): routing it to an
	// unread channel is the Go analogue of sigprocmask(SIG_BLOCK), since
	// Go has no scoped signal mask. SIGQUIT is ignored outright, matching
	// SIG_IGN.
	signal.Ignore(syscall.SIGQUIT)
	sigint := make(chan os.Signal, 8)
	signal.Notify(sigint, syscall.SIGINT)

	jobs := interp.NewJobs()
	defer jobs.Close()

	runner := interp.New(jobs, log, exe)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		runInteractive(runner, log, debug)
		return
	}
	runScript(runner, log, debug, os.Stdin)
}

// runReexec parses and runs a single already-unparsed subtree, the
// fork analogue for a compound or builtin command spec.md requires to
// execute in an isolated child process (interp.ReexecFlag).
func runReexec(line string) int {
	log := shlog.New(0)
	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cmd, err := parser.Parse([]byte(line))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	syntax.NullTerminate(cmd, []byte(line))

	jobs := interp.NewJobs()
	defer jobs.Close()
	runner := interp.New(jobs, log, exe)
	if err := runner.Run(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPsplitWorker(argv []string) int {
	if err := psplit.RunWorker(argv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runInteractive(runner *interp.Runner, log *logrus.Logger, debug int) {
	rl, err := readline.New("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer rl.Close()

	for {
		rl.SetPrompt(prompt())
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		runLine(runner, log, debug, line)
	}
}

// runScript handles the non-interactive case (piped or redirected
// stdin): readline is a terminal line editor, so a plain scanner reads
// the command stream instead, matching spec.md §3's carve-out of the
// prompt provider as an interactive-only collaborator.
func runScript(runner *interp.Runner, log *logrus.Logger, debug int, stdin *os.File) {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		runLine(runner, log, debug, line)
	}
}

func runLine(runner *interp.Runner, log *logrus.Logger, debug int, line string) {
	src := []byte(line)
	cmd, err := parser.Parse(src)
	if err != nil {
		var tooMany *parser.MaxArgsError
		if errors.As(err, &tooMany) {
			// spec.md §4.2: exceeding MaxArgs is fatal to the whole
			// shell, not a recoverable syntax error to re-prompt past.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		return
	}
	syntax.NullTerminate(cmd, src)

	if shlog.Echo(debug) {
		log.Infof("%s", syntax.Sprint(cmd))
	}

	if err := runner.Run(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// prompt renders "<username>@<basename-of-cwd>> " (spec.md §7).
func prompt() string {
	name := "?"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	base := "?"
	if wd, err := os.Getwd(); err == nil {
		base = filepath.Base(wd)
	}
	return fmt.Sprintf("%s@%s> ", name, base)
}
