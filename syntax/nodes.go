package syntax

import (
	"fmt"
	"os"
)

// MaxArgs bounds the number of arguments (including argv[0]) an ExecCmd
// may carry, matching simplesh's MAX_ARGS.
const MaxArgs = 16

// Cmd is a node of the simplesh command tree (spec.md §3.1). Unlike the
// C source's tagged structs reached through forced casts, each variant
// here is its own type satisfying this marker interface.
type Cmd interface {
	cmdNode()
}

// Word is a single argument or redirection filename: a (Start,End) view
// into the line buffer the parser was given, materialized into Text by
// NullTerminate once parsing finishes.
type Word struct {
	Start, End int
	Text       string
}

// ExecCmd is a command name plus its arguments, argv[0] included.
type ExecCmd struct {
	Args []*Word
}

func (*ExecCmd) cmdNode() {}

// Argv returns the materialized argument strings. NullTerminate must
// have run first.
func (e *ExecCmd) Argv() []string {
	argv := make([]string, len(e.Args))
	for i, w := range e.Args {
		argv[i] = w.Text
	}
	return argv
}

// RedirKind identifies which of the three redirection operators built a
// RedirCmd.
type RedirKind int

const (
	RedirIn     RedirKind = iota // <
	RedirOut                     // >
	RedirAppend                  // >>
)

// RedirCmd wraps Cmd with one input/output redirection. Stacked
// redirections nest as RedirCmd(RedirCmd(...)), innermost first in
// parse order but outermost in the resulting tree (spec.md §3.1).
type RedirCmd struct {
	Cmd   Cmd
	File  *Word
	Kind  RedirKind
	Flags int
	Mode  os.FileMode
	FD    int // target descriptor: 0 for <, 1 for > and >>
}

func (*RedirCmd) cmdNode() {}

// NewRedir builds a RedirCmd with the exact (flags, mode, fd) triple
// spec.md §3.1 assigns to each operator.
func NewRedir(kind RedirKind, inner Cmd, file *Word) *RedirCmd {
	r := &RedirCmd{Cmd: inner, File: file, Kind: kind}
	switch kind {
	case RedirIn:
		r.Flags = os.O_RDONLY
		r.FD = 0
	case RedirOut:
		r.Flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		r.Mode = 0o700
		r.FD = 1
	case RedirAppend:
		r.Flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		r.Mode = 0o700
		r.FD = 1
	default:
		panic(fmt.Sprintf("syntax: unknown redirection kind %d", kind))
	}
	return r
}

// PipeCmd connects Left's stdout to Right's stdin.
type PipeCmd struct {
	Left, Right Cmd
}

func (*PipeCmd) cmdNode() {}

// ListCmd runs Left to completion, then Right.
type ListCmd struct {
	Left, Right Cmd
}

func (*ListCmd) cmdNode() {}

// BackCmd runs Cmd without the shell waiting for it.
type BackCmd struct {
	Cmd Cmd
}

func (*BackCmd) cmdNode() {}

// SubshellCmd runs Cmd in a forked child, even when Cmd would otherwise
// run in-process (e.g. a lone builtin).
type SubshellCmd struct {
	Cmd Cmd
}

func (*SubshellCmd) cmdNode() {}

// NullTerminate materializes every Word.Text from buf. It is the
// Go-idiomatic analogue of simplesh's null-terminate pass: since Go
// strings are immutable there is no NUL byte to poke in place, so this
// walk copies each (Start,End) view out of buf once, after which the
// AST no longer depends on buf staying alive.
func NullTerminate(cmd Cmd, buf []byte) {
	if cmd == nil {
		return
	}
	switch c := cmd.(type) {
	case *ExecCmd:
		for _, w := range c.Args {
			w.Text = string(buf[w.Start:w.End])
		}
	case *RedirCmd:
		NullTerminate(c.Cmd, buf)
		c.File.Text = string(buf[c.File.Start:c.File.End])
	case *PipeCmd:
		NullTerminate(c.Left, buf)
		NullTerminate(c.Right, buf)
	case *ListCmd:
		NullTerminate(c.Left, buf)
		NullTerminate(c.Right, buf)
	case *BackCmd:
		NullTerminate(c.Cmd, buf)
	case *SubshellCmd:
		NullTerminate(c.Cmd, buf)
	default:
		panic(fmt.Sprintf("syntax: unknown cmd node %T", cmd))
	}
}

// IsEmptyExec reports whether cmd is an ExecCmd with no arguments, the
// condition the parser treats as "no command found" on either side of
// ';' or '|'.
func IsEmptyExec(cmd Cmd) bool {
	e, ok := cmd.(*ExecCmd)
	return ok && len(e.Args) == 0
}
