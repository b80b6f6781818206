// Package bytecode holds the frozen, VM-owned opcode metadata the JIT
// core treats as a read-only lookup: mnemonics, instruction length in
// words, and operand-kind metadata for diagnostics.
package bytecode

import "fmt"

// Opcode identifies a single instruction in the stream.
type Opcode byte

const (
	OP_NOP Opcode = iota

	// Stack manipulation (inline, no runtime helper call).
	OP_POP
	OP_DUP
	OP_SWAP
	OP_TOPN
	OP_SETN
	OP_ADJUST_STACK
	OP_PUSH_NULL
	OP_PUSH_SELF
	OP_PUSH_INT

	// Local-variable access, walked through env_level hops.
	OP_FETCH_R
	OP_FETCH_W

	// Literal/constant resurrection.
	OP_PUSH_OBJECT
	OP_PUSH_STRING

	// Optimised arithmetic / comparison, all inline-cache-aware with
	// fallback to the interpreter.
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_IS_EQUAL
	OP_IS_NOT_EQUAL
	OP_IS_SMALLER
	OP_IS_SMALLER_OR_EQUAL
	OP_IS_GREATER
	OP_IS_GREATER_OR_EQUAL
	OP_FETCH_DIM_R
	OP_FETCH_DIM_W

	// Control flow.
	OP_JMP
	OP_JMPZ
	OP_JMPNZ
	OP_SWITCH_LONG

	// Inline-cache guard.
	OP_GET_INLINE_CACHE
	OP_SET_INLINE_CACHE

	// Calls.
	OP_INIT_FCALL
	OP_SEND_VAL
	OP_DO_FCALL

	// Terminal instructions.
	OP_RETURN
	OP_THROW

	// Deliberately unsupported: left in the table so the translator can
	// name them in its "unsupported opcode" diagnostic, matching the
	// commented-out arms of the instruction set this was adapted from
	// (block-parameter access, class declaration, and run-once
	// initialisation). The JIT never emits code for these; they always
	// fall through to the interpreter.
	OP_GET_BLOCK_PARAM
	OP_SET_BLOCK_PARAM
	OP_DEFINE_CLASS
	OP_ONCE
)

// OperandKind describes what a raw operand word means, for diagnostics
// only — the translator already knows each opcode's operand shape by
// construction.
type OperandKind byte

const (
	OperandNone OperandKind = iota
	OperandImmediate
	OperandLocalIndex
	OperandEnvLevel
	OperandConstRef
	OperandJumpOffset
	OperandCaseMap
	OperandCallInfo
)

// Descriptor is the static metadata the opcode table hands back for a
// given Opcode: the printable mnemonic, the instruction's length in
// words (including the opcode word itself), and the kind of each
// operand word, for human-readable diagnostics.
type Descriptor struct {
	Mnemonic string
	Length   int
	Operands []OperandKind
}

// table is the frozen, process-lifetime opcode table. It is never
// mutated after init.
var table = map[Opcode]Descriptor{
	OP_NOP:           {"nop", 1, nil},
	OP_POP:           {"pop", 1, nil},
	OP_DUP:           {"dup", 1, nil},
	OP_SWAP:          {"swap", 1, nil},
	OP_TOPN:          {"topn", 2, []OperandKind{OperandImmediate}},
	OP_SETN:          {"setn", 2, []OperandKind{OperandImmediate}},
	OP_ADJUST_STACK:  {"adjuststack", 2, []OperandKind{OperandImmediate}},
	OP_PUSH_NULL:     {"putnil", 1, nil},
	OP_PUSH_SELF:     {"putself", 1, nil},
	OP_PUSH_INT:      {"putobject_int", 2, []OperandKind{OperandImmediate}},
	OP_FETCH_R:       {"getlocal", 3, []OperandKind{OperandLocalIndex, OperandEnvLevel}},
	OP_FETCH_W:       {"setlocal", 3, []OperandKind{OperandLocalIndex, OperandEnvLevel}},
	OP_PUSH_OBJECT:   {"putobject", 2, []OperandKind{OperandConstRef}},
	OP_PUSH_STRING:   {"putstring", 2, []OperandKind{OperandConstRef}},
	OP_ADD:           {"opt_plus", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_SUB:           {"opt_minus", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_MUL:           {"opt_mult", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_DIV:           {"opt_div", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_MOD:           {"opt_mod", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_EQUAL:      {"opt_eq", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_NOT_EQUAL:  {"opt_neq", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_SMALLER:    {"opt_lt", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_SMALLER_OR_EQUAL: {"opt_le", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_GREATER:          {"opt_gt", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_IS_GREATER_OR_EQUAL: {"opt_ge", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_FETCH_DIM_R:   {"opt_aref", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_FETCH_DIM_W:   {"opt_aset", 3, []OperandKind{OperandCallInfo, OperandCallInfo}},
	OP_JMP:           {"jump", 2, []OperandKind{OperandJumpOffset}},
	OP_JMPZ:          {"branchunless", 2, []OperandKind{OperandJumpOffset}},
	OP_JMPNZ:         {"branchif", 2, []OperandKind{OperandJumpOffset}},
	OP_SWITCH_LONG:   {"opt_case_dispatch", 2, []OperandKind{OperandCaseMap}},
	OP_GET_INLINE_CACHE: {"getinlinecache", 3, []OperandKind{OperandJumpOffset, OperandConstRef}},
	OP_SET_INLINE_CACHE: {"setinlinecache", 2, []OperandKind{OperandConstRef}},
	OP_INIT_FCALL:    {"init_fcall", 2, []OperandKind{OperandCallInfo}},
	OP_SEND_VAL:      {"send_val", 1, nil},
	OP_DO_FCALL:      {"opt_send_without_block", 2, []OperandKind{OperandCallInfo}},
	OP_RETURN:        {"leave", 1, nil},
	OP_THROW:         {"throw", 2, []OperandKind{OperandImmediate}},

	OP_GET_BLOCK_PARAM: {"getblockparam", 3, []OperandKind{OperandLocalIndex, OperandEnvLevel}},
	OP_SET_BLOCK_PARAM: {"setblockparam", 3, []OperandKind{OperandLocalIndex, OperandEnvLevel}},
	OP_DEFINE_CLASS:    {"defineclass", 2, []OperandKind{OperandConstRef}},
	OP_ONCE:            {"once", 2, []OperandKind{OperandConstRef}},
}

// Lookup returns the descriptor for op and whether it is known. Unknown
// opcodes (values never assigned a table entry, e.g. corrupted input)
// come back with the zero Descriptor and ok=false.
func Lookup(op Opcode) (Descriptor, bool) {
	d, ok := table[op]
	return d, ok
}

// Mnemonic returns op's printable name, or "UNKNOWN" if op isn't in the
// table — used in diagnostics so a bad opcode value never panics.
func (op Opcode) Mnemonic() string {
	if d, ok := table[op]; ok {
		return d.Mnemonic
	}
	return "UNKNOWN"
}

func (op Opcode) String() string {
	return op.Mnemonic()
}

func (k OperandKind) String() string {
	switch k {
	case OperandNone:
		return "none"
	case OperandImmediate:
		return "imm"
	case OperandLocalIndex:
		return "local"
	case OperandEnvLevel:
		return "env_level"
	case OperandConstRef:
		return "const"
	case OperandJumpOffset:
		return "jump"
	case OperandCaseMap:
		return "case_map"
	case OperandCallInfo:
		return "call_info"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}
