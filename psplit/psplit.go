package psplit

import (
	"fmt"
	"io"
	"os"
)

// Run is the psplit built-in's entry point, invoked in-process by the
// shell (spec.md §4.4): parse flags, pick stdin or the positional input
// paths, and dispatch to the sequential chunker or the worker pool.
func Run(argv []string, stdin, stdout, stderr *os.File) error {
	opts, help, err := ParseArgs(argv, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return nil
	}
	if help {
		fmt.Fprintln(stdout, "uso: psplit [-l N | -b N] [-s N] [-p N] [fichero...]")
		return nil
	}

	if len(opts.Inputs) == 0 {
		if err := chunk("stdin", stdin, opts); err != nil {
			fmt.Fprintf(stderr, "psplit: stdin: %v\n", err)
		}
		return nil
	}

	if len(opts.Inputs) == 1 || opts.Procs <= 1 {
		for _, in := range opts.Inputs {
			if err := processPath(in, opts); err != nil {
				fmt.Fprintf(stderr, "psplit: %s: %v\n", in, err)
			}
		}
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		// No re-exec target: degrade to sequential rather than failing
		// the whole built-in.
		for _, in := range opts.Inputs {
			if err := processPath(in, opts); err != nil {
				fmt.Fprintf(stderr, "psplit: %s: %v\n", in, err)
			}
		}
		return nil
	}

	var errw io.Writer = stderr
	runPool(exe, opts.Inputs, opts, errw)
	return nil
}
