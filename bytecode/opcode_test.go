package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownOpcode(t *testing.T) {
	d, ok := Lookup(OP_ADD)
	require.True(t, ok)
	require.Equal(t, "opt_plus", d.Mnemonic)
	require.Equal(t, 3, d.Length)
}

func TestLookupUnknownOpcode(t *testing.T) {
	_, ok := Lookup(Opcode(0xFF))
	require.False(t, ok)
}

func TestMnemonicNeverPanicsOnUnknownOpcode(t *testing.T) {
	require.Equal(t, "UNKNOWN", Opcode(0xFF).Mnemonic())
}

func TestEveryDescribedOpcodeHasAPositiveLength(t *testing.T) {
	for op, d := range table {
		require.Greaterf(t, d.Length, 0, "opcode %s has non-positive length", op)
		require.Lenf(t, d.Operands, d.Length-1, "opcode %s operand count doesn't match its length", op)
	}
}

func TestMethodBodyAt(t *testing.T) {
	body := MethodBody{Instructions: []Instruction{{Op: OP_PUSH_NULL}, {Op: OP_RETURN}}, StackMax: 1}

	require.Equal(t, 2, body.EncodedSize())

	inst, ok := body.At(1)
	require.True(t, ok)
	require.Equal(t, OP_RETURN, inst.Op)

	_, ok = body.At(2)
	require.False(t, ok)

	_, ok = body.At(-1)
	require.False(t, ok)
}
