package jitcore

import (
	"fmt"
	"io"
	"sort"
)

// Emitter is an append-only sink of native-source text. It never
// buffers beyond what a single Fprintf call needs, and it never
// validates what it's given — callers are responsible for well-formed
// output.
type Emitter struct {
	w   io.Writer
	err error
}

// NewEmitter wraps w as an Emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Err returns the first write error the Emitter encountered, if any.
// Sink failure is the caller's problem, not the Emitter's; Compile
// surfaces it rather than silently losing it.
func (e *Emitter) Err() error {
	return e.err
}

func (e *Emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, err := fmt.Fprintf(e.w, format, args...)
	if err != nil {
		e.err = err
	}
}

// Label emits the per-offset label every reachable instruction starts
// with, annotated with its mnemonic for readability.
func (e *Emitter) Label(offset int, mnemonic string) {
	e.printf("\nlabel_%d: // %s\n", offset, mnemonic)
}

// Goto emits an unconditional jump to offset's label.
func (e *Emitter) Goto(offset int) {
	e.printf("\tgoto label_%d\n", offset)
}

// SetPC emits the "cfp->pc = <literal>" idiom every opcode arm starts
// with, so catch-table lookup and cancellation land on a consistent
// interpreter position.
func (e *Emitter) SetPC(offset int) {
	e.printf("\tframe.PC = %d\n", offset)
}

// CheckSignals emits the interrupt-check call the driver places before
// every taken branch, mirroring RUBY_VM_CHECK_INTS in the instruction
// set this was adapted from.
func (e *Emitter) CheckSignals() {
	e.printf("\truntime.CheckSignals(th)\n")
}

// LoadLocal emits the "local load" idiom: read through the captured
// environment chain at envLevel hops, local slot localIndex, landing in
// stack[pushPos]. Increments the dynamic-lookup debug counter when
// envLevel > 0, mirroring the "dynamic" lookup debug counter.
func (e *Emitter) LoadLocal(pushPos int, localIndex, envLevel uint32) {
	e.printf("\tstack[%d] = runtime.FetchLocal(frame, %d, %d)\n", pushPos, envLevel, localIndex)
	e.printf("\truntime.DebugCounterInc(\"lvar_get\")\n")
	if envLevel > 0 {
		e.printf("\truntime.DebugCounterInc(\"lvar_get_dynamic\")\n")
	}
}

// StoreLocal emits the matching "local store" idiom, sourcing from
// stack[popPos].
func (e *Emitter) StoreLocal(popPos int, localIndex, envLevel uint32) {
	e.printf("\truntime.StoreLocal(frame, %d, %d, stack[%d])\n", envLevel, localIndex, popPos)
	e.printf("\truntime.DebugCounterInc(\"lvar_set\")\n")
	if envLevel > 0 {
		e.printf("\truntime.DebugCounterInc(\"lvar_set_dynamic\")\n")
	}
}

// BlitArgs emits the linear copy of stack[base..base+argc) onto the
// real VM stack, advancing its pointer — used immediately before any
// send that may transition control into the interpreter.
func (e *Emitter) BlitArgs(argc, base int) {
	for i := 0; i < argc; i++ {
		e.printf("\truntime.PushArg(th, stack[%d])\n", base+i)
	}
}

// CallSite emits a method-dispatch call through the cached entry: a
// check for the "fast path declined" sentinel that falls back to the
// full interpreter with the FINISH frame flag set, and storage of the
// result into stack[resultIndex].
func (e *Emitter) CallSite(callInfoRef, inlineCacheRef uint64, resultIndex int) {
	e.printf("\t{\n")
	e.printf("\t\tv := runtime.CallCached(th, frame, 0x%x, 0x%x)\n", callInfoRef, inlineCacheRef)
	e.printf("\t\tif values.IsUndef(v) {\n")
	e.printf("\t\t\tframe.SetFinish(true)\n")
	e.printf("\t\t\tv = runtime.VMExec(th)\n")
	e.printf("\t\t}\n")
	e.printf("\t\tstack[%d] = v\n", resultIndex)
	e.printf("\t}\n")
}

// OptimizedCallWithFallback emits the specialised fast path for an
// operator opcode (arithmetic, comparison, indexing): the fast-path
// call via expr, and an IsUndef branch that restores the real VM stack
// pointer to the precise depth at this site and jumps to the shared
// cancel label. Returns the net stack delta (1 - argc) the caller
// should apply to BranchState.StackSize.
func (e *Emitter) OptimizedCallWithFallback(stackSize, argc int, expr string) int {
	recvPos := stackSize - argc
	e.printf("\t{\n")
	e.printf("\t\trecv := stack[%d]\n", recvPos)
	if argc >= 2 {
		e.printf("\t\tobj := stack[%d]\n", recvPos+1)
	}
	if argc >= 3 {
		e.printf("\t\tobj2 := stack[%d]\n", recvPos+2)
	}
	e.printf("\t\tresult := %s\n", expr)
	e.printf("\t\tif values.IsUndef(result) {\n")
	e.printf("\t\t\tth.RestoreStackPointer(frame, %d)\n", stackSize+1)
	e.printf("\t\t\tgoto cancel\n")
	e.printf("\t\t}\n")
	e.printf("\t\tstack[%d] = result\n", recvPos)
	e.printf("\t}\n")
	return 1 - argc
}

// CaseDispatchExpander emits a dense switch over a literal-key ->
// target-offset mapping, each case a goto to that offset's label.
// Iterates keys in sorted order so repeated compiles of the same input
// byte-for-byte match.
func (e *Emitter) CaseDispatchExpander(dispatchPos int, caseMap map[int64]int) {
	e.printf("\tswitch runtime.CaseDispatch(stack[%d]) {\n", dispatchPos)
	keys := make([]int64, 0, len(caseMap))
	for k := range caseMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		e.printf("\tcase %d:\n", k)
		e.printf("\t\tgoto label_%d\n", caseMap[k])
	}
	e.printf("\t}\n")
}

// CopySlot emits a plain slot-to-slot copy, the idiom behind dup/topn/
// reput/setn-style opcodes.
func (e *Emitter) CopySlot(dst, src int) {
	e.printf("\tstack[%d] = stack[%d]\n", dst, src)
}

// Swap emits the three-line swap idiom for the two given slots.
func (e *Emitter) Swap(a, b int) {
	e.printf("\t{\n")
	e.printf("\t\ttmp := stack[%d]\n", a)
	e.printf("\t\tstack[%d] = stack[%d]\n", a, b)
	e.printf("\t\tstack[%d] = tmp\n", b)
	e.printf("\t}\n")
}

func (e *Emitter) PushNull(pos int) { e.printf("\tstack[%d] = values.NewNull()\n", pos) }
func (e *Emitter) PushSelf(pos int) { e.printf("\tstack[%d] = frame.Self\n", pos) }
func (e *Emitter) PushInt(pos int, v int64) {
	e.printf("\tstack[%d] = values.NewInt(%d)\n", pos, v)
}
func (e *Emitter) PushConstant(pos int, ref uint64) {
	e.printf("\tstack[%d] = runtime.ResurrectConstant(0x%x)\n", pos, ref)
}

// DeclareCalling emits the per-call-site "calling" descriptor a
// multi-opcode call sequence (init/send/do-call) threads through,
// matching the `opt_send_without_block`-style "declare `calling`" step.
func (e *Emitter) DeclareCalling(offset int) {
	e.printf("\tvar calling_%d runtime.Calling\n", offset)
	e.printf("\tcalling_%d.BlockHandler = runtime.BlockHandlerNone\n", offset)
}

// IndexAssign emits "stack[dst] = stack[src]" used by setn, whose dst is
// below the current top rather than the next free slot.
func (e *Emitter) IndexAssign(dst, src int) {
	e.CopySlot(dst, src)
}

// Return emits the terminal "pop the frame and return the single
// remaining value" idiom for `leave`.
func (e *Emitter) Return(pos int) {
	e.printf("\truntime.PopFrame(th, frame)\n")
	e.printf("\treturn stack[%d]\n", pos)
}

// ThrowValue emits the terminal throw idiom.
func (e *Emitter) ThrowValue(pos int, reason int64) {
	e.printf("\truntime.Throw(th, frame, %d, stack[%d])\n", reason, pos)
}

// InlineCacheProbe emits the guard opcode's cache probe and conditional
// skip to the filled-cache landing label.
func (e *Emitter) InlineCacheProbe(pushPos int, constRef uint64, hitTarget int) {
	e.printf("\tstack[%d] = runtime.ICProbe(0x%x, frame)\n", pushPos, constRef)
	e.printf("\tif !values.IsUndef(stack[%d]) {\n", pushPos)
	e.printf("\t\tgoto label_%d\n", hitTarget)
	e.printf("\t}\n")
}

// InlineCacheUpdate emits the cache-fill idiom for setinlinecache.
func (e *Emitter) InlineCacheUpdate(constRef uint64, pos int) {
	e.printf("\truntime.ICUpdate(0x%x, stack[%d], frame)\n", constRef, pos)
}

// Cancel emits the shared bailout landing pad: every slot of the
// simulated stack array, live or not, is spilled back to the real VM stack above the environment
// pointer, then the sentinel is returned so the caller resumes in the
// interpreter at the frame's current PC.
func (e *Emitter) Cancel(stackMax int) {
	e.printf("\ncancel:\n")
	for i := 0; i < stackMax; i++ {
		e.printf("\truntime.SpillToFrame(frame, %d, stack[%d])\n", i+1, i)
	}
	e.printf("\treturn values.Undef()\n")
}

// Prologue emits the native procedure header: signature, and the
// contiguous simulated-stack array when the method needs one.
func (e *Emitter) Prologue(funcName string, stackMax int) {
	e.printf("func %s(th *runtime.Thread, frame *runtime.Frame) *values.Value {\n", funcName)
	if stackMax > 0 {
		e.printf("\tvar stack [%d]*values.Value\n", stackMax)
	}
}

// Epilogue closes the procedure body opened by Prologue.
func (e *Emitter) Epilogue() {
	e.printf("}\n")
}
