// Package runtime names the functions and types the text jitcore emits
// calls by name: local-variable access, the method-dispatch cache,
// inline caches, the optimised-operator fast paths, and the frame
// bookkeeping around them. Every function here always takes the branch
// that defers to a full interpreter — none of them carries out the
// operation it names. That makes a built plugin link and run, but
// running one never does anything a real embedding interpreter
// wouldn't immediately override by supplying its own Thread and Frame
// plumbing in place of this package's.
package runtime

import "github.com/wudi/heyjit/values"

// Thread is the per-execution-context handle emitted procedures carry
// alongside a Frame. It holds no state of its own here; a real
// embedding interpreter's thread type plays this role in practice.
type Thread struct{}

// RestoreStackPointer resets the real operand stack to depth slots
// above frame's environment pointer, undoing whatever an optimised
// call path pushed before declining.
func (th *Thread) RestoreStackPointer(frame *Frame, depth int) {}

// Frame is one call frame: the PC an emitted procedure keeps current as
// it runs, the receiver for self-opcodes, and the finish flag a
// declined call site sets before falling back to VMExec.
type Frame struct {
	PC     int
	Self   *values.Value
	finish bool
}

// SetFinish marks frame as the outermost frame a resumed interpreter
// call should return from, used when a call site declines its cached
// fast path mid-method.
func (f *Frame) SetFinish(v bool) { f.finish = v }

// Calling is the per-call-site descriptor an init/send/do-call sequence
// threads through, naming the block handler (if any) and the argument
// count filled in once every argument has been pushed.
type Calling struct {
	Argc         int
	BlockHandler int
}

// BlockHandlerNone is the sentinel Calling.BlockHandler takes when a
// call site passes no block.
const BlockHandlerNone = 0

// FetchLocal reads localIndex at envLevel hops up frame's captured
// environment chain.
func FetchLocal(frame *Frame, envLevel, localIndex uint32) *values.Value {
	return values.NewNull()
}

// StoreLocal writes v into localIndex at envLevel hops up frame's
// captured environment chain.
func StoreLocal(frame *Frame, envLevel, localIndex uint32, v *values.Value) {}

// DebugCounterInc increments the named debug counter.
func DebugCounterInc(name string) {}

// CheckSignals polls for a pending interrupt, called before every taken
// branch so a long-running compiled loop stays interruptible.
func CheckSignals(th *Thread) {}

// PushArg pushes v onto the real VM stack ahead of a pending call.
func PushArg(th *Thread, v *values.Value) {}

// ResolveMethod refreshes the inline cache at inlineCacheRef for a call
// described by callInfoRef against recv's class, called before the
// cached dispatch it guards.
func ResolveMethod(callInfoRef, inlineCacheRef uint64, recv *values.Value) {}

// CallCached dispatches through the inline cache at inlineCacheRef,
// returning the fast-path-declined sentinel when the cache can't
// service the call without falling back to VMExec.
func CallCached(th *Thread, frame *Frame, callInfoRef, inlineCacheRef uint64) *values.Value {
	return values.Undef()
}

// VMExec resumes the full interpreter from th's current frame, used
// whenever a compiled procedure's fast path declines.
func VMExec(th *Thread) *values.Value {
	return values.NewNull()
}

// PopFrame pops frame off th's call stack, the last step before a
// compiled procedure returns.
func PopFrame(th *Thread, frame *Frame) {}

// Throw raises reason as an exception carrying v, unwinding frame.
func Throw(th *Thread, frame *Frame, reason int64, v *values.Value) {}

// ResurrectConstant reproduces the literal value stored at ref in the
// constant pool.
func ResurrectConstant(ref uint64) *values.Value {
	return values.NewNull()
}

// ICProbe reads the inline cache at constRef, returning the cached
// value or the fast-path-declined sentinel on a miss.
func ICProbe(constRef uint64, frame *Frame) *values.Value {
	return values.Undef()
}

// ICUpdate fills the inline cache at constRef with v.
func ICUpdate(constRef uint64, v *values.Value, frame *Frame) {}

// SpillToFrame writes one live simulated-stack slot back to the real VM
// stack at frame's environment pointer plus index, used by the shared
// cancel landing pad every compiled procedure falls back to.
func SpillToFrame(frame *Frame, index int, v *values.Value) {}

// CaseDispatch maps v to the literal key a switch/case-dispatch opcode
// was compiled against.
func CaseDispatch(v *values.Value) int64 {
	return 0
}

// Truthy reports whether v is truthy by the embedding language's rules.
func Truthy(v *values.Value) bool {
	return false
}

// OptimizedAdd is the fast path for the add opcode; declines to the
// sentinel whenever recv/obj aren't a type pair it can compute on
// directly.
func OptimizedAdd(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedSub is OptimizedAdd's subtraction counterpart.
func OptimizedSub(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedMul is OptimizedAdd's multiplication counterpart.
func OptimizedMul(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedDiv is OptimizedAdd's division counterpart.
func OptimizedDiv(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedMod is OptimizedAdd's modulo counterpart.
func OptimizedMod(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedEq is the fast path for an equality comparison.
func OptimizedEq(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedNeq is OptimizedEq's inverse.
func OptimizedNeq(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedLt is the fast path for a less-than comparison.
func OptimizedLt(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedLe is the fast path for a less-than-or-equal comparison.
func OptimizedLe(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedGt is the fast path for a greater-than comparison.
func OptimizedGt(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedGe is the fast path for a greater-than-or-equal comparison.
func OptimizedGe(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedAref is the fast path for an indexed read.
func OptimizedAref(recv, obj *values.Value) *values.Value { return values.Undef() }

// OptimizedAset is the fast path for an indexed write.
func OptimizedAset(recv, obj, obj2 *values.Value) *values.Value { return values.Undef() }
