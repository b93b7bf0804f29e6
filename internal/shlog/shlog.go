// Package shlog wires simplesh's -d bitmask debug level onto a
// logrus.Logger, replacing the original's DPRINTF/DBLOCK macros.
package shlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Debug bits, spec.md §7: bit 0 is command echo, bit 1 is trace.
const (
	BitCommandEcho = 1 << 0
	BitTrace       = 1 << 1
)

// New builds a logger for debug bitmask level. Command-echo-only levels
// map to Info (the AST pretty-print in main's loop), the trace bit maps
// to Trace (every executor step), and errors always log regardless of
// level.
func New(level int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case level&BitTrace != 0:
		log.SetLevel(logrus.TraceLevel)
	case level&BitCommandEcho != 0:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// Echo reports whether the command-echo bit is set.
func Echo(level int) bool { return level&BitCommandEcho != 0 }
