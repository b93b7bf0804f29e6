package interp

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/JuanjoMorell/simplesh/psplit"
)

// builtinNames lists every command simplesh handles in-process instead
// of via execvp (spec.md §4.5).
var builtinNames = map[string]bool{
	"exit":   true,
	"cwd":    true,
	"cd":     true,
	"psplit": true,
	"bjobs":  true,
}

// IsBuiltin reports whether name is resolved in-process rather than
// looked up on PATH.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

func (r *Runner) runBuiltin(argv []string, stdin, stdout, stderr *os.File) error {
	switch argv[0] {
	case "exit":
		return r.builtinExit(argv, stdout)
	case "cwd":
		return r.builtinCwd(argv, stdout)
	case "cd":
		return r.builtinCd(argv, stderr)
	case "psplit":
		return r.builtinPsplit(argv, stdin, stdout, stderr)
	case "bjobs":
		return r.builtinBjobs(argv, stdout, stderr)
	default:
		return fmt.Errorf("interp: %q is not a builtin", argv[0])
	}
}

func (r *Runner) builtinExit(argv []string, stdout *os.File) error {
	if len(argv) > 1 {
		fmt.Fprintln(stdout, "exit: demasiados argumentos")
		return nil
	}
	os.Exit(0)
	return nil
}

func (r *Runner) builtinCwd(argv []string, stdout *os.File) error {
	if len(argv) > 1 {
		fmt.Fprintln(stdout, "cwd: demasiados argumentos")
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		r.Log.Fatalf("cwd: %v", err)
	}
	fmt.Fprintf(stdout, "cwd: %s\n", wd)
	return nil
}

// builtinCd implements cd's three-argument forms. spec.md §5 (from
// original_source/simplesh.c's cd builtin) requires $OLDPWD to be
// captured from the pre-chdir directory even when the chdir itself
// fails, so callers relying on `cd - ` after a failed `cd` still see
// where they actually are.
func (r *Runner) builtinCd(argv []string, stderr *os.File) error {
	if len(argv) > 2 {
		fmt.Fprintln(stderr, "cd: demasiados argumentos")
		return nil
	}

	prev, err := os.Getwd()
	if err != nil {
		r.Log.Fatalf("cd: %v", err)
	}

	var target string
	switch {
	case len(argv) == 1:
		target = os.Getenv("HOME")
	case argv[1] == "-":
		old := os.Getenv("OLDPWD")
		if old == "" {
			fmt.Fprintln(stderr, "cd: OLDPWD no establecido")
			return nil
		}
		target = old
	default:
		target = argv[1]
	}

	err = os.Chdir(target)
	os.Setenv("OLDPWD", prev)
	if err != nil {
		fmt.Fprintf(stderr, "cd: %s: %v\n", target, err)
	}
	return nil
}

func (r *Runner) builtinBjobs(argv []string, stdout, stderr *os.File) error {
	fs := pflag.NewFlagSet("bjobs", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	kill := fs.BoolP("kill", "k", false, "terminate every background job")
	help := fs.BoolP("help", "h", false, "show usage")
	if err := fs.Parse(argv[1:]); err != nil {
		return nil
	}
	if *help {
		fmt.Fprintln(stdout, "uso: bjobs [-k]")
		return nil
	}
	if *kill {
		r.Jobs.KillAll()
		return nil
	}
	for _, pid := range r.Jobs.List() {
		fmt.Fprintf(stdout, "[%d]\n", pid)
	}
	return nil
}

func (r *Runner) builtinPsplit(argv []string, stdin, stdout, stderr *os.File) error {
	return psplit.Run(argv[1:], stdin, stdout, stderr)
}
