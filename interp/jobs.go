package interp

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// NumBGSlots is the fixed capacity of the background-job registry
// (spec.md §3.2).
const NumBGSlots = 8

// Jobs is the fixed-size background-job registry: a table mapping slot
// index to PID, 0 meaning empty. It is shared between whatever goroutine
// launches a background command and the SIGCHLD reaper goroutine, so all
// access goes through mu.
//
// spec.md's C source blocks SIGCHLD around the registry to stop the
// async handler from reaping a child before its slot is inserted. Go's
// signal delivery can't be masked around an arbitrary critical section
// the way sigprocmask can (spec.md §9's own note anticipates this for
// "runtimes that multiplex signals"): instead the reaper here only ever
// calls Wait4 on PIDs it finds already sitting in the table, and the
// spawn-then-register step for a background command goes through
// AddSpawned, which holds mu for the whole spawn+insert sequence so the
// reaper (reapOnce also takes mu) can never observe a child that has
// already exited but isn't registered yet.
type Jobs struct {
	mu   sync.Mutex
	pids [NumBGSlots]int

	sigc chan os.Signal
	done chan struct{}

	// Notices receives the stdout the reaper writes background completion
	// notices to. Defaults to os.Stdout.
	Notices io.Writer
}

// NewJobs creates a registry and starts its SIGCHLD reaper goroutine.
func NewJobs() *Jobs {
	j := &Jobs{
		sigc:    make(chan os.Signal, 64),
		done:    make(chan struct{}),
		Notices: os.Stdout,
	}
	signal.Notify(j.sigc, unix.SIGCHLD)
	go j.reap()
	return j
}

// Close stops the reaper goroutine.
func (j *Jobs) Close() {
	signal.Stop(j.sigc)
	close(j.done)
}

// Add inserts pid into the first empty slot (spec.md §3.2). It reports
// whether a slot was available.
func (j *Jobs) Add(pid int) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.addLocked(pid)
}

func (j *Jobs) addLocked(pid int) bool {
	for i, p := range j.pids {
		if p == 0 {
			j.pids[i] = pid
			return true
		}
	}
	return false
}

// AddSpawned runs spawn and registers the PID it returns without ever
// releasing the registry lock in between, closing the window spec.md
// §4.3's Background bullet calls out ("insert the PID ... so a SIGCHLD
// cannot observe a child not yet in the registry"): reapOnce also
// takes mu before scanning, so even if the child exits and its SIGCHLD
// is handled immediately, the reaper blocks on mu until this critical
// section finishes and the PID is already present in the table by the
// time it gets to look.
func (j *Jobs) AddSpawned(spawn func() (int, error)) (pid int, inserted bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	pid, err = spawn()
	if err != nil {
		return 0, false, err
	}
	return pid, j.addLocked(pid), nil
}

// List returns the currently active background PIDs in slot order, for
// the bjobs builtin.
func (j *Jobs) List() []int {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []int
	for _, p := range j.pids {
		if p != 0 {
			out = append(out, p)
		}
	}
	return out
}

// KillAll sends SIGKILL to every registered job, for `bjobs -k`.
func (j *Jobs) KillAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, p := range j.pids {
		if p != 0 {
			_ = unix.Kill(p, unix.SIGKILL)
		}
	}
}

// reap consumes SIGCHLD notifications and, for each PID already present
// in the registry, reaps it with a non-blocking Wait4 and writes its
// completion notice.
func (j *Jobs) reap() {
	for {
		select {
		case <-j.done:
			return
		case <-j.sigc:
			j.reapOnce()
		}
	}
}

func (j *Jobs) reapOnce() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, pid := range j.pids {
		if pid == 0 {
			continue
		}
		var status unix.WaitStatus
		got, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
		if err != nil || got != pid {
			continue
		}
		j.pids[i] = 0
		fmt.Fprintf(j.Notices, "[%d]", pid)
	}
}
