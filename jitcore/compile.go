// Package jitcore translates a single method's bytecode into native
// Go source text, one basic block at a time, bailing out to the
// interpreter wherever the translation can't proceed.
package jitcore

import (
	"fmt"
	"io"

	"github.com/wudi/heyjit/bytecode"
)

// Compile translates body into a standalone native procedure named
// funcName, written to sink as Go source text. It reports whether the whole method translated
// cleanly; a false result still produces a closed procedure ending in
// the cancel landing pad, since every opcode arm that can't be emitted
// marks the status failed without aborting the output. The body of such
// a procedure is not guaranteed to be valid: a stack overflow, for
// instance, leaves an out-of-range stack index in it.
//
// diag may be nil, in which case failures are silent beyond the
// returned bool.
func Compile(sink io.Writer, body bytecode.MethodBody, funcName string, diag *Diagnostics) (bool, error) {
	e := NewEmitter(sink)
	status := NewCompilationStatus(body.EncodedSize())

	e.Prologue(funcName, body.StackMax)
	CompileInsns(e, body, 0, 0, status, diag)
	e.Cancel(body.StackMax)
	e.Epilogue()

	if e.Err() != nil {
		return false, fmt.Errorf("jitcore: writing emitted source: %w", e.Err())
	}
	return status.Success, nil
}
