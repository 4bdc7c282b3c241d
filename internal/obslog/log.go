// Package obslog wires the runtimes' execution tracing to
// github.com/joeycumines/logiface, backed by github.com/joeycumines/stumpy.
// The core never chooses where trace output goes — by default it is
// discarded, exactly as spec.md §5 requires ("the core never blocks,
// never does I/O"); a host opts in with New(w).
package obslog

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured tracer passed into a machine's execution.
type Logger = logiface.Logger[*stumpy.Event]

// New builds a Logger writing newline-delimited JSON to w. Pass
// io.Discard (the default) to disable tracing entirely at negligible
// cost.
func New(w io.Writer) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
	)
}

// Discard is the zero-cost default tracer.
var Discard = New(io.Discard)
