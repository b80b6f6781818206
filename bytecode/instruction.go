package bytecode

// CallInfo is the inline-cache-bearing call-site descriptor a send-family
// instruction carries: a literal call-info pointer and a literal
// inline-cache pointer, both opaque to the JIT — it only ever echoes
// them back into emitted text verbatim.
type CallInfo struct {
	CallInfoRef  uint64
	InlineCache  uint64
	Argc         int
}

// Instruction is one slot of the method's instruction stream. Unlike a
// packed, variable-width bytecode encoding, offsets here are simply
// indices into Instructions, which preserves every invariant stated in
// terms of "offset" while making each instruction fixed-width and
// directly addressable.
type Instruction struct {
	Op Opcode

	// Local-variable / env-walk operands.
	LocalIndex uint32
	EnvLevel   uint32

	// Literal/constant operands, rendered as opaque literals in the
	// emitted text (the runtime owns their real representation).
	ConstRef uint64

	// Immediate operands (topn/setn/adjuststack counts, throw reason,
	// small integer literal).
	Immediate int64

	// Jump target, as an absolute instruction index (not a relative
	// offset) — resolved once by the encoder producing the stream.
	JumpTarget int

	// Call-site metadata for send-family opcodes.
	Call CallInfo

	// Case map for opt_case_dispatch: literal key -> absolute target
	// index. Order is made deterministic by the translator, not by
	// iteration order of this map.
	CaseMap map[int64]int
}

// MethodBody is the JIT's sole input: one method's instruction stream
// plus the declared stack bound the stack simulator and driver need.
type MethodBody struct {
	Instructions []Instruction
	StackMax     int
}

// EncodedSize is the instruction stream's length in words — here,
// simply the instruction count, since each Instruction already
// represents one fully-decoded logical instruction.
func (b MethodBody) EncodedSize() int {
	return len(b.Instructions)
}

// At returns the instruction at offset, and whether offset is in range.
func (b MethodBody) At(offset int) (Instruction, bool) {
	if offset < 0 || offset >= len(b.Instructions) {
		return Instruction{}, false
	}
	return b.Instructions[offset], true
}
