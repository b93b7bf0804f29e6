// Package psplit implements the psplit built-in: a streaming byte- or
// line-based file splitter driven by a bounded worker-process pool
// (spec.md §4.4).
package psplit

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	defaultBytes  = 1024
	defaultBSize  = 1024
	maxBSize      = 1048576
	defaultProcs  = 1
)

// Options holds one invocation's parsed flags. A fresh FlagSet backs
// every call (see ParseArgs), the Go-idiomatic substitute for resetting
// optind between getopt calls in the original.
type Options struct {
	Lines  int
	Bytes  int
	BSize  int
	Procs  int
	Inputs []string

	lineSet bool
	byteSet bool
}

// usageError is returned for conditions spec.md treats as a non-fatal
// user error: print a message and return from the builtin untouched.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// ParseArgs parses argv (excluding the "psplit" program name) into
// Options. help reports a bare -h invocation; the caller prints usage
// and returns without treating it as an error.
func ParseArgs(argv []string, usage io.Writer) (opts *Options, help bool, err error) {
	fs := pflag.NewFlagSet("psplit", pflag.ContinueOnError)
	fs.SetOutput(usage)

	lines := fs.IntP("lines", "l", 0, "lines per output file")
	bytesFlag := fs.IntP("bytes", "b", defaultBytes, "bytes per output file")
	bsize := fs.IntP("bufsize", "s", defaultBSize, "read buffer size")
	procs := fs.IntP("procs", "p", defaultProcs, "max concurrent workers")
	h := fs.BoolP("help", "h", false, "show usage")

	if err := fs.Parse(argv); err != nil {
		return nil, false, &usageError{msg: err.Error()}
	}
	if *h {
		return nil, true, nil
	}

	o := &Options{
		Lines:   *lines,
		Bytes:   *bytesFlag,
		BSize:   *bsize,
		Procs:   *procs,
		Inputs:  fs.Args(),
		lineSet: fs.Changed("lines"),
		byteSet: fs.Changed("bytes"),
	}

	if o.lineSet && o.byteSet {
		return nil, false, &usageError{msg: "psplit: -l y -b son incompatibles"}
	}
	if o.BSize < 1 || o.BSize > maxBSize {
		return nil, false, &usageError{msg: fmt.Sprintf("psplit: -s fuera de rango [1,%d]", maxBSize)}
	}
	if o.Procs < 1 {
		return nil, false, &usageError{msg: "psplit: -p debe ser >= 1"}
	}

	return o, false, nil
}

// LineMode reports whether the engine should chunk by line count
// rather than by byte count.
func (o *Options) LineMode() bool { return o.lineSet }
