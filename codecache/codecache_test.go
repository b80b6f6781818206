package codecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreAndLookup(t *testing.T) {
	c := New(2)
	now := time.Unix(0, 0)
	gen := c.Store("add", "/tmp/add.go", "/tmp/add.so", "JIT_add", now)

	found, ok := c.Lookup("add")
	require.True(t, ok)
	require.Equal(t, gen.ID, found.ID)
	require.Equal(t, "/tmp/add.so", found.PluginPath)
}

func TestStoreEvictsOldestWhenFull(t *testing.T) {
	c := New(1)
	now := time.Unix(0, 0)
	c.Store("add", "/tmp/add.go", "/tmp/add.so", "JIT_add", now)
	c.Store("sub", "/tmp/sub.go", "/tmp/sub.so", "JIT_sub", now)

	_, ok := c.Lookup("add")
	require.False(t, ok)
	_, ok = c.Lookup("sub")
	require.True(t, ok)
	require.Equal(t, 1, c.Len())
}

func TestOverwriteDoesNotLeaveAStaleEvictionTarget(t *testing.T) {
	c := New(2)
	now := time.Unix(0, 0)
	c.Store("add", "/tmp/add.go", "/tmp/add.so", "JIT_add", now)
	c.Store("sub", "/tmp/sub.go", "/tmp/sub.so", "JIT_sub", now)

	// Redefine "add" — its old insertion position must not linger in
	// the eviction order, or the next Store would evict the fresh
	// generation instead of "sub", which is genuinely the oldest now.
	redefined := c.Store("add", "/tmp/add2.go", "/tmp/add2.so", "JIT_add2", now)
	c.Store("mul", "/tmp/mul.go", "/tmp/mul.so", "JIT_mul", now)

	_, ok := c.Lookup("sub")
	require.False(t, ok, "sub should have been evicted as the genuinely oldest entry")

	found, ok := c.Lookup("add")
	require.True(t, ok, "add's fresh generation should survive eviction")
	require.Equal(t, redefined.ID, found.ID)

	_, ok = c.Lookup("mul")
	require.True(t, ok)
}

func TestRecordExecutionIncrementsCounter(t *testing.T) {
	c := New(0)
	now := time.Unix(0, 0)
	c.Store("add", "/tmp/add.go", "/tmp/add.so", "JIT_add", now)
	c.RecordExecution("add")
	c.RecordExecution("add")

	gen, _ := c.Lookup("add")
	require.Equal(t, int64(2), gen.ExecutionCount)
}
