package jitcore

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wudi/heyjit/bytecode"
)

func mustCompile(t *testing.T, body bytecode.MethodBody) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	var diagBuf bytes.Buffer
	ok, err := Compile(&buf, body, "jit_test_fn", NewDiagnostics(&diagBuf, LevelVerbose))
	require.NoError(t, err)
	return buf.String(), ok
}

func TestPutnilLeave(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 1,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_NULL},
			{Op: bytecode.OP_RETURN},
		},
	}
	out, ok := mustCompile(t, body)
	require.True(t, ok)
	require.Contains(t, out, "values.NewNull()")
	require.Contains(t, out, "return stack[0]")
	require.Contains(t, out, "func jit_test_fn(")
	require.Contains(t, out, "cancel:")
}

func TestTwoLiteralsOptPlusLeave(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 2,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_INT, Immediate: 1},
			{Op: bytecode.OP_PUSH_INT, Immediate: 2},
			{Op: bytecode.OP_ADD},
			{Op: bytecode.OP_RETURN},
		},
	}
	out, ok := mustCompile(t, body)
	require.True(t, ok)
	require.Contains(t, out, "runtime.OptimizedAdd(recv, obj)")
	require.Contains(t, out, "goto cancel")
}

func TestBranchJoinStackBalance(t *testing.T) {
	// getlocal 0; branchunless L2; putnil; jump L3; L2: putself; L3: leave
	body := bytecode.MethodBody{
		StackMax: 1,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_FETCH_R, LocalIndex: 0, EnvLevel: 0},
			{Op: bytecode.OP_JMPZ, JumpTarget: 4},
			{Op: bytecode.OP_PUSH_NULL},
			{Op: bytecode.OP_JMP, JumpTarget: 5},
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_RETURN},
		},
	}
	out, ok := mustCompile(t, body)
	require.True(t, ok)
	require.Contains(t, out, "label_2")
	require.Contains(t, out, "label_3")
	require.Contains(t, out, "runtime.FetchLocal(frame, 0, 0)")
}

func TestCallSequence(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 2,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_INIT_FCALL},
			{Op: bytecode.OP_PUSH_INT, Immediate: 7},
			{Op: bytecode.OP_SEND_VAL},
			{Op: bytecode.OP_DO_FCALL, Call: bytecode.CallInfo{CallInfoRef: 0x10, InlineCache: 0x20, Argc: 1}},
			{Op: bytecode.OP_RETURN},
		},
	}
	out, ok := mustCompile(t, body)
	require.True(t, ok)
	require.Contains(t, out, "runtime.Calling")
	require.Contains(t, out, "runtime.CallCached(th, frame, 0x10, 0x20)")

	// OP_INIT_FCALL sits at offset 1, OP_DO_FCALL at offset 4 — the
	// declared "calling" descriptor and the one DO_FCALL fills in must
	// name the same variable despite the offset mismatch.
	require.Contains(t, out, "var calling_1 runtime.Calling")
	require.Contains(t, out, "calling_1.Argc = 1")
	require.NotContains(t, out, "calling_4")
}

func TestNestedCallSequencesKeepTheirOwnCallingDescriptor(t *testing.T) {
	// f(g()) — two independent init/send/do-call sequences in flight,
	// innermost completing first.
	body := bytecode.MethodBody{
		StackMax: 3,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_INIT_FCALL}, // offset 1: outer call "f"
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_INIT_FCALL}, // offset 3: inner call "g"
			{Op: bytecode.OP_SEND_VAL},
			{Op: bytecode.OP_DO_FCALL, Call: bytecode.CallInfo{CallInfoRef: 0x1, InlineCache: 0x2, Argc: 0}}, // offset 5: closes "g"
			{Op: bytecode.OP_SEND_VAL},
			{Op: bytecode.OP_DO_FCALL, Call: bytecode.CallInfo{CallInfoRef: 0x3, InlineCache: 0x4, Argc: 1}}, // offset 7: closes "f"
			{Op: bytecode.OP_RETURN},
		},
	}
	out, ok := mustCompile(t, body)
	require.True(t, ok)
	require.Contains(t, out, "var calling_1 runtime.Calling")
	require.Contains(t, out, "var calling_3 runtime.Calling")
	require.Contains(t, out, "calling_3.Argc = 0")
	require.Contains(t, out, "calling_1.Argc = 1")
}

func TestStackOverflowFailsCompilation(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 1,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_NULL},
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_RETURN},
		},
	}
	var buf, diagBuf bytes.Buffer
	ok, err := Compile(&buf, body, "jit_test_fn", NewDiagnostics(&diagBuf, LevelWarn))
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, diagBuf.String(), "stack overflow")
	require.Contains(t, buf.String(), "func jit_test_fn(")
	require.Contains(t, buf.String(), "cancel:")
}

func TestUnknownOpcodeFailsButStillEmitsCompleteOutput(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 1,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_GET_BLOCK_PARAM, LocalIndex: 0, EnvLevel: 0},
			{Op: bytecode.OP_RETURN},
		},
	}
	var buf, diagBuf bytes.Buffer
	ok, err := Compile(&buf, body, "jit_test_fn", NewDiagnostics(&diagBuf, LevelWarn))
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, diagBuf.String(), "getblockparam")
	require.Contains(t, buf.String(), "func jit_test_fn(")
	require.Contains(t, buf.String(), "cancel:")
}

func TestLeaveWithWrongStackSizeWarns(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 2,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_PUSH_NULL},
			{Op: bytecode.OP_PUSH_SELF},
			{Op: bytecode.OP_RETURN},
		},
	}
	var buf, diagBuf bytes.Buffer
	ok, err := Compile(&buf, body, "jit_test_fn", NewDiagnostics(&diagBuf, LevelWarn))
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, strings.Contains(diagBuf.String(), "Unexpected JIT stack_size on leave: 2"))
}

func TestVisitIdempotence(t *testing.T) {
	body := bytecode.MethodBody{
		StackMax: 1,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_FETCH_R, LocalIndex: 0},
			{Op: bytecode.OP_JMPZ, JumpTarget: 1},
			{Op: bytecode.OP_RETURN},
		},
	}
	out, _ := mustCompile(t, body)
	require.Equal(t, 1, strings.Count(out, "label_1:"))
}
