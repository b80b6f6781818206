package jitcore

import (
	"github.com/wudi/heyjit/bytecode"
)

// translateInstruction emits one instruction's body and updates b's
// simulated stack accordingly. It returns the offset the
// driver should continue from.
//
// Every arm first emits the "cfp->pc" assignment (step 1), then the
// translated body (step 2), then updates b.StackSize by the opcode's
// net stack effect (step 3). Terminal and branch opcodes additionally
// control b.FinishP and the returned next offset (steps 4-6).
func translateInstruction(e *Emitter, body bytecode.MethodBody, offset int, status *CompilationStatus, b *BranchState, diag *Diagnostics) int {
	inst, _ := body.At(offset)
	next := offset + 1

	e.SetPC(offset)

	switch inst.Op {
	case bytecode.OP_NOP:
		// nothing to emit

	case bytecode.OP_POP:
		b.Pop()

	case bytecode.OP_DUP:
		dst := b.Push()
		e.CopySlot(dst, dst-1)

	case bytecode.OP_SWAP:
		e.Swap(b.Top(), b.Top()-1)

	case bytecode.OP_TOPN:
		n := int(inst.Immediate)
		src := b.StackSize - n
		dst := b.Push()
		e.CopySlot(dst, src)

	case bytecode.OP_SETN:
		n := int(inst.Immediate)
		e.IndexAssign(b.StackSize-1-n, b.Top())

	case bytecode.OP_ADJUST_STACK:
		b.Adjust(-int(inst.Immediate))

	case bytecode.OP_PUSH_NULL:
		e.PushNull(b.Push())

	case bytecode.OP_PUSH_SELF:
		e.PushSelf(b.Push())

	case bytecode.OP_PUSH_INT:
		e.PushInt(b.Push(), inst.Immediate)

	case bytecode.OP_PUSH_OBJECT, bytecode.OP_PUSH_STRING:
		e.PushConstant(b.Push(), inst.ConstRef)

	case bytecode.OP_FETCH_R:
		e.LoadLocal(b.Push(), inst.LocalIndex, inst.EnvLevel)

	case bytecode.OP_FETCH_W:
		e.StoreLocal(b.Pop(), inst.LocalIndex, inst.EnvLevel)

	case bytecode.OP_ADD:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedAdd(recv, obj)"))
	case bytecode.OP_SUB:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedSub(recv, obj)"))
	case bytecode.OP_MUL:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedMul(recv, obj)"))
	case bytecode.OP_DIV:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedDiv(recv, obj)"))
	case bytecode.OP_MOD:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedMod(recv, obj)"))
	case bytecode.OP_IS_EQUAL:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedEq(recv, obj)"))
	case bytecode.OP_IS_NOT_EQUAL:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedNeq(recv, obj)"))
	case bytecode.OP_IS_SMALLER:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedLt(recv, obj)"))
	case bytecode.OP_IS_SMALLER_OR_EQUAL:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedLe(recv, obj)"))
	case bytecode.OP_IS_GREATER:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedGt(recv, obj)"))
	case bytecode.OP_IS_GREATER_OR_EQUAL:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedGe(recv, obj)"))
	case bytecode.OP_FETCH_DIM_R:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 2, "runtime.OptimizedAref(recv, obj)"))
	case bytecode.OP_FETCH_DIM_W:
		b.Adjust(e.OptimizedCallWithFallback(b.StackSize, 3, "runtime.OptimizedAset(recv, obj, obj2)"))

	case bytecode.OP_INIT_FCALL:
		e.DeclareCalling(offset)
		b.OpenCallSite(offset)

	case bytecode.OP_SEND_VAL:
		// Argument already produced by a preceding push opcode; this
		// opcode only marks the call site boundary in the source
		// instruction stream, so it has no effect on the symbolic
		// stack or the emitted text.

	case bytecode.OP_DO_FCALL:
		callOffset, ok := b.CloseCallSite()
		if !ok {
			// No matching OP_INIT_FCALL was seen on this branch; fall
			// back to this instruction's own offset so the emitted
			// text at least references a consistent (if unbound) name.
			callOffset = offset
		}
		argc := inst.Call.Argc
		recvPos := b.StackSize - 1 - argc
		e.printf("\tcalling_%d.Argc = %d\n", callOffset, argc)
		e.printf("\truntime.ResolveMethod(0x%x, 0x%x, stack[%d])\n", inst.Call.CallInfoRef, inst.Call.InlineCache, recvPos)
		e.BlitArgs(argc+1, recvPos)
		e.CallSite(inst.Call.CallInfoRef, inst.Call.InlineCache, recvPos)
		b.Adjust(-argc)

	case bytecode.OP_SWITCH_LONG:
		e.CaseDispatchExpander(b.Pop(), inst.CaseMap)

	case bytecode.OP_GET_INLINE_CACHE:
		e.InlineCacheProbe(b.StackSize, inst.ConstRef, inst.JumpTarget)
		b.Push()

	case bytecode.OP_SET_INLINE_CACHE:
		e.InlineCacheUpdate(inst.ConstRef, b.Top())

	case bytecode.OP_RETURN:
		if b.StackSize != 1 {
			diag.Warnf("Unexpected JIT stack_size on leave: %d", b.StackSize)
			status.Fail()
		}
		e.Return(b.Top())
		b.FinishP = true

	case bytecode.OP_THROW:
		e.ThrowValue(b.Pop(), inst.Immediate)
		b.FinishP = true

	case bytecode.OP_JMP:
		next = inst.JumpTarget
		e.CheckSignals()
		e.Goto(next)

	case bytecode.OP_JMPZ, bytecode.OP_JMPNZ:
		cond := b.Pop()
		if inst.Op == bytecode.OP_JMPZ {
			e.printf("\tif !runtime.Truthy(stack[%d]) {\n", cond)
		} else {
			e.printf("\tif runtime.Truthy(stack[%d]) {\n", cond)
		}
		e.printf("\t")
		e.CheckSignals()
		e.printf("\t")
		e.Goto(inst.JumpTarget)
		e.printf("\t}\n")
		CompileInsns(e, body, b.StackSize, offset+1, status, diag)
		next = inst.JumpTarget

	default:
		diag.Warnf("Failed to compile instruction: %s", inst.Op.Mnemonic())
		status.Fail()
	}

	// If next is already compiled, the straight-line body above won't
	// fall into it in the emitted text, so it needs an explicit goto.
	// Same for an unconditional jump, whose "next" is the target
	// itself.
	if status.Success && next < body.EncodedSize() && status.Visited(next) {
		e.Goto(next)
	}

	return next
}
