package psplit

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
)

// WorkerFlag is the hidden flag cmd/simplesh recognizes to run a single
// psplit worker and exit. Each worker opens one input path and runs the
// chosen chunker; re-exec is the Go substitute for the original's
// fork-then-chunk-in-the-child loop, since a worker's job (stream a
// file through a chunker) has to run as an independent OS process for
// the pool's bounded-concurrency accounting to mean anything.
const WorkerFlag = "--psplit-worker"

// runPool processes inputs with up to opts.Procs concurrent workers
// (spec.md §4.4). With one input or PROCS == 1 it falls back to
// sequential, in-process chunking.
func runPool(exe string, inputs []string, opts *Options, errw io.Writer) {
	if opts.Procs <= 1 || len(inputs) <= 1 {
		for _, in := range inputs {
			if err := processPath(in, opts); err != nil {
				fmt.Fprintf(errw, "psplit: %s: %v\n", in, err)
			}
		}
		return
	}

	inflight := map[int]*exec.Cmd{}
	next := 0

	spawn := func(path string) {
		cmd := exec.Command(exe, workerArgs(opts, path)...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(errw, "psplit: %s: %v\n", path, err)
			return
		}
		inflight[cmd.Process.Pid] = cmd
	}

	// waitSmallest waits on the numerically-smallest in-flight PID, the
	// source's tie-break (spec.md §4.4 policy note). It only ever waits
	// on a PID this pool itself started, so it can never race a
	// foreground or background wait elsewhere in the shell.
	waitSmallest := func() {
		if len(inflight) == 0 {
			return
		}
		pids := make([]int, 0, len(inflight))
		for p := range inflight {
			pids = append(pids, p)
		}
		sort.Ints(pids)
		smallest := pids[0]
		cmd := inflight[smallest]
		delete(inflight, smallest)
		_ = cmd.Wait()
	}

	for next < len(inputs) {
		for len(inflight) < opts.Procs && next < len(inputs) {
			spawn(inputs[next])
			next++
		}
		waitSmallest()
	}
	for len(inflight) > 0 {
		waitSmallest()
	}
}

func workerArgs(opts *Options, path string) []string {
	args := []string{WorkerFlag}
	if opts.LineMode() {
		args = append(args, "-l", strconv.Itoa(opts.Lines))
	} else {
		args = append(args, "-b", strconv.Itoa(opts.Bytes))
	}
	args = append(args, "-s", strconv.Itoa(opts.BSize), path)
	return args
}

// RunWorker is cmd/simplesh's entry point for WorkerFlag: parse the
// re-exec'd flags and chunk exactly one input file, then return for the
// caller to os.Exit.
func RunWorker(argv []string) error {
	opts, help, err := ParseArgs(argv, io.Discard)
	if err != nil {
		return err
	}
	if help {
		return nil
	}
	if len(opts.Inputs) != 1 {
		return fmt.Errorf("psplit: worker expects exactly one input path, got %d", len(opts.Inputs))
	}
	return processPath(opts.Inputs[0], opts)
}

func processPath(path string, opts *Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return chunk(path, f, opts)
}
