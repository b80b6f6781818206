// Package jitconfig holds the tunables the JIT orchestration layer
// reads at startup: the hotspot threshold, cache sizing, and
// diagnostics verbosity.
package jitconfig

import "github.com/wudi/heyjit/jitcore"

// Config is the JIT orchestrator's configuration.
type Config struct {
	// CompilationThreshold is how many invocations a method must accrue
	// before invocationpolicy marks it eligible for compilation.
	CompilationThreshold int64

	// MaxCompiledFunctions bounds how many generations codecache keeps
	// before it starts evicting the oldest entries.
	MaxCompiledFunctions int

	// NativeBuildTimeoutSeconds bounds how long nativebuild waits for
	// `go build -buildmode=plugin` before giving up on a generation.
	NativeBuildTimeoutSeconds int

	// DiagnosticsLevel controls how chatty jitcore.Compile's side
	// channel is.
	DiagnosticsLevel jitcore.Level
}

// DefaultConfig returns the configuration the CLI starts with absent
// any flags.
func DefaultConfig() Config {
	return Config{
		CompilationThreshold:      10,
		MaxCompiledFunctions:      1000,
		NativeBuildTimeoutSeconds: 30,
		DiagnosticsLevel:          jitcore.LevelWarn,
	}
}
