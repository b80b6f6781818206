package jitcore

// BranchState is the small piece of state threaded through one
// traversal of a basic block: the simulated operand-stack depth and
// whether this branch has reached a terminal instruction. At a
// conditional fork the driver starts the fall-through arm with a fresh
// BranchState seeded only with the current StackSize; open call sites
// are not carried into that arm.
type BranchState struct {
	StackSize int
	FinishP   bool

	// callSites tracks the offset of each OP_INIT_FCALL seen but not yet
	// closed by its matching OP_DO_FCALL, so the two can agree on which
	// calling_<offset> descriptor they're talking about even though they
	// sit at different stream offsets.
	callSites []int
}

// Clone returns a copy of b. The copy's callSites slice shares its
// backing array with b's.
func (b BranchState) Clone() BranchState {
	return b
}

// Push simulates an instruction that grows the stack by one slot and
// returns the offset that new slot lives at — i.e. the slot index to
// emit a store into before the increment is applied.
func (b *BranchState) Push() int {
	pos := b.StackSize
	b.StackSize++
	return pos
}

// Pop simulates an instruction that shrinks the stack by one slot and
// returns the offset of the slot being popped.
func (b *BranchState) Pop() int {
	b.StackSize--
	return b.StackSize
}

// Top returns the offset of the current top-of-stack slot without
// changing StackSize — used by stable-top (unary mutate-in-place)
// opcodes.
func (b *BranchState) Top() int {
	return b.StackSize - 1
}

// Adjust applies an arbitrary net stack effect (push count minus pop
// count) and returns the resulting StackSize.
func (b *BranchState) Adjust(delta int) int {
	b.StackSize += delta
	return b.StackSize
}

// OpenCallSite records offset as the start of a new call sequence.
func (b *BranchState) OpenCallSite(offset int) {
	b.callSites = append(b.callSites, offset)
}

// CloseCallSite returns the offset of the innermost still-open call
// sequence and removes it, for the instruction that completes that
// sequence. ok is false if no call sequence is open.
func (b *BranchState) CloseCallSite() (offset int, ok bool) {
	if len(b.callSites) == 0 {
		return 0, false
	}
	n := len(b.callSites) - 1
	offset = b.callSites[n]
	b.callSites = b.callSites[:n]
	return offset, true
}
