package jitcore

// CompilationStatus is the state shared across every branch of one
// compile call: a cumulative success flag and a visited-bitmap over
// instruction offsets. It is the single source of truth for
// at-most-once translation.
type CompilationStatus struct {
	Success bool
	visited []bool
}

// NewCompilationStatus allocates a status for a method with the given
// encoded size. Success starts true; it only ever goes false.
func NewCompilationStatus(encodedSize int) *CompilationStatus {
	return &CompilationStatus{
		Success: true,
		visited: make([]bool, encodedSize),
	}
}

// Visited reports whether offset has already been emitted.
func (s *CompilationStatus) Visited(offset int) bool {
	return s.visited[offset]
}

// MarkVisited records that offset has now been emitted.
func (s *CompilationStatus) MarkVisited(offset int) {
	s.visited[offset] = true
}

// Fail flips Success to false. It never flips back: once a compile has
// failed, nothing resets it mid-call.
func (s *CompilationStatus) Fail() {
	s.Success = false
}
