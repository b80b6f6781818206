// Package nativebuild shells out to the Go toolchain to turn jitcore's
// emitted source text into a loadable plugin, and wraps plugin.Open /
// plugin.Lookup as the "loaded-code registration" step: since this
// repo emits Go source rather than machine code, registering a freshly
// compiled function with the running process means opening the plugin
// it was built into and looking up its exported symbol.
package nativebuild

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"plugin"
)

// Result is one successful build: the source and plugin file paths,
// kept around so codecache can record them.
type Result struct {
	SourcePath string
	PluginPath string
}

// Builder compiles emitted source text into `.so` plugins under a
// dedicated scratch directory.
type Builder struct {
	dir string
}

// NewBuilder creates a scratch directory under os.TempDir (or under
// baseDir if non-empty) that Build writes generations into.
func NewBuilder(baseDir string) (*Builder, error) {
	dir, err := os.MkdirTemp(baseDir, "heyjit-gen-")
	if err != nil {
		return nil, fmt.Errorf("nativebuild: creating scratch dir: %w", err)
	}
	return &Builder{dir: dir}, nil
}

// Close removes the scratch directory and everything under it.
func (b *Builder) Close() error {
	return os.RemoveAll(b.dir)
}

// Build writes source under funcName's generation file, compiles it as
// a Go plugin, and returns the resulting paths. The caller supplies
// ctx to bound how long the subprocess is allowed to run. source is
// jitcore.Compile's bare procedure body, not a complete file; Build
// wraps it into one before handing it to the toolchain.
func (b *Builder) Build(ctx context.Context, funcName, source string) (Result, error) {
	srcPath := filepath.Join(b.dir, funcName+".go")
	if err := os.WriteFile(srcPath, []byte(wrapSource(source)), 0o644); err != nil {
		return Result{}, fmt.Errorf("nativebuild: writing generated source: %w", err)
	}

	pluginPath := filepath.Join(b.dir, funcName+".so")
	cmd := exec.CommandContext(ctx, "go", "build", "-buildmode=plugin", "-o", pluginPath, srcPath)
	cmd.Dir = b.dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return Result{}, fmt.Errorf("nativebuild: go build failed: %w\n%s", err, out)
	}

	return Result{SourcePath: srcPath, PluginPath: pluginPath}, nil
}

// wrapSource turns a bare emitted procedure into a complete, buildable
// plugin source file: the package clause plugin mode requires, and the
// import block for the runtime/values packages the procedure's body
// calls by name. The blank-identifier references keep both imports
// live even when a particular method's body happens not to touch one
// of them directly — a zero-StackMax method's cancel landing pad, for
// instance, emits no runtime calls at all.
func wrapSource(body string) string {
	return fmt.Sprintf(`package main

import (
	"github.com/wudi/heyjit/runtime"
	"github.com/wudi/heyjit/values"
)

var (
	_ runtime.Calling
	_ = values.Undef
)

%s`, body)
}

// Load opens res's plugin and resolves symbol within it — the
// "loaded-code registration" step, handing the caller a value it can
// type-assert into the procedure signature jitcore.Compile emitted.
func Load(res Result, symbol string) (plugin.Symbol, error) {
	p, err := plugin.Open(res.PluginPath)
	if err != nil {
		return nil, fmt.Errorf("nativebuild: opening plugin %s: %w", res.PluginPath, err)
	}
	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("nativebuild: looking up symbol %s: %w", symbol, err)
	}
	return sym, nil
}
