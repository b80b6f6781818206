package jitcore

import (
	"fmt"
	"io"
)

// Level is the diagnostics sink's verbosity threshold.
type Level int

const (
	LevelSilent Level = iota
	LevelWarn
	LevelVerbose
)

// Diagnostics is the core's "side channel": a single-line
// warning naming the failing instruction or invariant violation,
// written only when verbosity is enabled. It never affects
// CompilationStatus.Success itself — callers set that directly — it
// only records why.
type Diagnostics struct {
	level Level
	out   io.Writer
}

// NewDiagnostics returns a sink writing to out at the given level. A nil
// out is replaced with io.Discard so callers never need a nil check.
func NewDiagnostics(out io.Writer, level Level) *Diagnostics {
	if out == nil {
		out = io.Discard
	}
	return &Diagnostics{level: level, out: out}
}

// Warnf writes a single-line warning if the sink's level is at least
// LevelWarn.
func (d *Diagnostics) Warnf(format string, args ...any) {
	if d == nil || d.level < LevelWarn {
		return
	}
	fmt.Fprintf(d.out, "JIT warning: "+format+"\n", args...)
}

// Tracef writes a single-line trace message only at LevelVerbose.
func (d *Diagnostics) Tracef(format string, args ...any) {
	if d == nil || d.level < LevelVerbose {
		return
	}
	fmt.Fprintf(d.out, "JIT trace: "+format+"\n", args...)
}
