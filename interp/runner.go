// Package interp implements simplesh's tree-walking executor: it maps
// each syntax.Cmd node onto process creation, file-descriptor plumbing,
// and waiting (spec.md §4.3).
package interp

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/JuanjoMorell/simplesh/syntax"
)

// ReexecFlag is the hidden flag cmd/simplesh recognizes to run a single
// already-unparsed subtree and exit. It is the Go analogue of simplesh
// forking and recursing into run_cmd inside the child: since Go cannot
// fork arbitrary in-flight code, a compound subtree or a builtin that
// spec.md requires to run in an isolated child process is instead
// handed to a fresh invocation of this same binary.
const ReexecFlag = "-x"

// Runner walks a syntax.Cmd tree and executes it.
type Runner struct {
	Jobs *Jobs
	Log  *logrus.Logger

	exe string
}

// New builds a Runner. exe is the absolute path to the running binary,
// used to re-exec this program for forked compound/builtin subtrees.
func New(jobs *Jobs, log *logrus.Logger, exe string) *Runner {
	return &Runner{Jobs: jobs, Log: log, exe: exe}
}

// Run executes cmd against the shell's own stdio.
func (r *Runner) Run(cmd syntax.Cmd) error {
	return r.run(cmd, os.Stdin, os.Stdout, os.Stderr)
}

func (r *Runner) run(cmd syntax.Cmd, stdin, stdout, stderr *os.File) error {
	r.Log.Tracef("run: %s", syntax.Sprint(cmd))

	switch c := cmd.(type) {
	case *syntax.ExecCmd:
		return r.runExec(c, stdin, stdout, stderr)
	case *syntax.RedirCmd:
		return r.runRedir(c, stdin, stdout, stderr)
	case *syntax.ListCmd:
		if err := r.run(c.Left, stdin, stdout, stderr); err != nil {
			return err
		}
		return r.run(c.Right, stdin, stdout, stderr)
	case *syntax.PipeCmd:
		return r.runPipe(c, stdin, stdout, stderr)
	case *syntax.BackCmd:
		return r.runBack(c, stdin, stdout, stderr)
	case *syntax.SubshellCmd:
		return r.runSubshell(c, stdin, stdout, stderr)
	default:
		return fmt.Errorf("interp: unknown cmd node %T", cmd)
	}
}

func (r *Runner) runExec(c *syntax.ExecCmd, stdin, stdout, stderr *os.File) error {
	argv := c.Argv()
	if len(argv) == 0 || argv[0] == "" {
		// simplesh: argv[0] == NULL exits the current context with success.
		return nil
	}
	if IsBuiltin(argv[0]) {
		return r.runBuiltin(argv, stdin, stdout, stderr)
	}

	child, err := r.spawnExternal(argv, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "no se encontró el comando '%s'\n", argv[0])
		return nil
	}
	_ = child.Wait()
	return nil
}

func (r *Runner) runRedir(c *syntax.RedirCmd, stdin, stdout, stderr *os.File) error {
	if inner, ok := c.Cmd.(*syntax.ExecCmd); ok && isBuiltinExec(inner) {
		f, err := os.OpenFile(c.File.Text, c.Flags, c.Mode)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer f.Close()

		in, out, errw := stdin, stdout, stderr
		switch c.FD {
		case 0:
			in = f
		case 1:
			out = f
		}
		// The in-process path never touches the shell's real stdio, so
		// there is nothing to save and restore the way simplesh's dup2
		// dance does: the builtin simply writes to f directly.
		return r.runBuiltin(inner.Argv(), in, out, errw)
	}

	f, err := os.OpenFile(c.File.Text, c.Flags, c.Mode)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	in, out, errw := stdin, stdout, stderr
	switch c.FD {
	case 0:
		in = f
	case 1:
		out = f
	}

	child, err := r.spawn(c.Cmd, in, out, errw)
	f.Close()
	if err != nil {
		return err
	}
	_ = child.Wait()
	return nil
}

func (r *Runner) runPipe(c *syntax.PipeCmd, stdin, stdout, stderr *os.File) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("pipe: %w", err)
	}

	left, err := r.spawn(c.Left, stdin, pw, stderr)
	if err != nil {
		pr.Close()
		pw.Close()
		return err
	}
	right, err := r.spawn(c.Right, pr, stdout, stderr)
	pw.Close()
	pr.Close()
	if err != nil {
		_ = left.Wait()
		return err
	}

	_ = left.Wait()
	_ = right.Wait()
	return nil
}

func (r *Runner) runBack(c *syntax.BackCmd, stdin, stdout, stderr *os.File) error {
	pid, inserted, err := r.Jobs.AddSpawned(func() (int, error) {
		ch, err := r.spawn(c.Cmd, stdin, stdout, stderr)
		if err != nil {
			return 0, err
		}
		return ch.Pid(), nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "[%d]\n", pid)
	if !inserted {
		r.Log.Warnf("bjobs: registry full, PID %d untracked", pid)
	}
	// Do not wait: the SIGCHLD reaper (Jobs.reap) reclaims the exit
	// status and prints the completion notice asynchronously.
	return nil
}

func (r *Runner) runSubshell(c *syntax.SubshellCmd, stdin, stdout, stderr *os.File) error {
	child, err := r.spawn(c.Cmd, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	_ = child.Wait()
	return nil
}

// child abstracts a forked-off process so that both a plain external
// command and a self-reexec'd subtree can be waited on uniformly.
type child struct {
	cmd *exec.Cmd
}

func (c *child) Pid() int { return c.cmd.Process.Pid }

func (c *child) Wait() error { return c.cmd.Wait() }

func isBuiltinExec(e *syntax.ExecCmd) bool {
	return len(e.Args) > 0 && IsBuiltin(e.Args[0].Text)
}

// spawn forks cmd into its own process: a plain external command is
// execvp'd directly, while a builtin or any compound node is realized
// by re-exec'ing this binary on cmd's unparsed text, since Go cannot
// fork into the middle of the running program.
func (r *Runner) spawn(cmd syntax.Cmd, stdin, stdout, stderr *os.File) (*child, error) {
	if e, ok := cmd.(*syntax.ExecCmd); ok && !isBuiltinExec(e) {
		argv := e.Argv()
		if len(argv) == 0 || argv[0] == "" {
			return r.spawnSelf("true", stdin, stdout, stderr)
		}
		return r.spawnExternal(argv, stdin, stdout, stderr)
	}
	return r.spawnSelf(syntax.Unparse(cmd), stdin, stdout, stderr)
}

func (r *Runner) spawnExternal(argv []string, stdin, stdout, stderr *os.File) (*child, error) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, err
	}
	ecmd := exec.Command(path, argv[1:]...)
	ecmd.Stdin, ecmd.Stdout, ecmd.Stderr = stdin, stdout, stderr
	if err := ecmd.Start(); err != nil {
		return nil, fmt.Errorf("fork: %w", err)
	}
	return &child{cmd: ecmd}, nil
}

func (r *Runner) spawnSelf(line string, stdin, stdout, stderr *os.File) (*child, error) {
	ecmd := exec.Command(r.exe, ReexecFlag, line)
	ecmd.Stdin, ecmd.Stdout, ecmd.Stderr = stdin, stdout, stderr
	if err := ecmd.Start(); err != nil {
		return nil, fmt.Errorf("fork: %w", err)
	}
	return &child{cmd: ecmd}, nil
}
