package invocationpolicy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordCallCrossesThresholdExactlyOnce(t *testing.T) {
	d := NewDetector(3)
	k := Key{FuncName: "add", InstructionSum: 0xabc}

	require.False(t, d.RecordCall(k))
	require.False(t, d.RecordCall(k))
	require.True(t, d.RecordCall(k))
	require.False(t, d.RecordCall(k))
	require.Equal(t, int64(4), d.CallCount(k))
}

func TestDistinctInstructionSumsGetDistinctCounters(t *testing.T) {
	d := NewDetector(2)
	a := Key{FuncName: "add", InstructionSum: 1}
	b := Key{FuncName: "add", InstructionSum: 2}

	d.RecordCall(a)
	require.Equal(t, int64(0), d.CallCount(b))
}

func TestForgetResetsCounter(t *testing.T) {
	d := NewDetector(1)
	k := Key{FuncName: "add", InstructionSum: 1}
	d.RecordCall(k)
	d.Forget(k)
	require.Equal(t, int64(0), d.CallCount(k))
}
