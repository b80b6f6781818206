package jitcore

import "github.com/wudi/heyjit/bytecode"

// CompileInsns walks the instruction stream starting at pos, translating
// each reachable instruction exactly once. At a conditional branch it
// recurses into the fall-through arm with a BranchState of its own and
// then continues this traversal at the taken target. stackSize
// seeds the BranchState this traversal starts with — callers at a
// branch join pass the stack depth observed at the fork.
//
// Traversal stops when it falls off the end of the stream, lands on an
// offset already visited (a join point reached from two directions), a
// translated instruction sets FinishP (a terminal instruction), or the
// simulated stack depth exceeds body.StackMax — the last of which also
// fails the whole compilation, since it means the emitted text would
// index its fixed-size stack array out of bounds.
func CompileInsns(e *Emitter, body bytecode.MethodBody, stackSize, pos int, status *CompilationStatus, diag *Diagnostics) {
	b := &BranchState{StackSize: stackSize}

	for pos < body.EncodedSize() && !status.Visited(pos) && !b.FinishP {
		inst, ok := body.At(pos)
		if !ok {
			return
		}

		status.MarkVisited(pos)
		e.Label(pos, inst.Op.Mnemonic())

		pos = translateInstruction(e, body, pos, status, b, diag)

		if b.StackSize > body.StackMax {
			diag.Warnf("JIT stack overflow: stack_size %d exceeds stack_max %d", b.StackSize, body.StackMax)
			status.Fail()
			return
		}
	}
}
