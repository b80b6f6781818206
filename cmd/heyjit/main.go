// Command heyjit drives the JIT pipeline end to end from the command
// line: read a method body, track its invocation count, and once it
// crosses the hotspot threshold, translate, build, and register it.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wudi/heyjit/bytecode"
	"github.com/wudi/heyjit/codecache"
	"github.com/wudi/heyjit/invocationpolicy"
	"github.com/wudi/heyjit/jitconfig"
	"github.com/wudi/heyjit/jitcore"
	"github.com/wudi/heyjit/nativebuild"
)

func main() {
	app := &cli.Command{
		Name:  "heyjit",
		Usage: "Method-JIT translator driver",
		Commands: []*cli.Command{
			compileCommand,
			warmCommand,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "heyjit:", err)
		os.Exit(1)
	}
}

var compileCommand = &cli.Command{
	Name:  "compile",
	Usage: "Translate a method body to native source, unconditionally",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "in", Required: true, Usage: "path to a JSON-encoded method body"},
		&cli.StringFlag{Name: "out", Usage: "path to write the generated source to (default: stdout)"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		body, funcName, err := loadMethodBody(cmd.String("in"))
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		diag := jitcore.NewDiagnostics(os.Stderr, jitcore.LevelWarn)
		ok, err := jitcore.Compile(&buf, body, funcName, diag)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", funcName, err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "heyjit: %s compiled with warnings, output may be incomplete\n", funcName)
		}

		if out := cmd.String("out"); out != "" {
			return os.WriteFile(out, buf.Bytes(), 0o644)
		}
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	},
}

var warmCommand = &cli.Command{
	Name:  "warm",
	Usage: "Record one invocation of a method, compiling and loading it if that reaches the threshold (the count starts from zero on every run)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "in", Required: true, Usage: "path to a JSON-encoded method body"},
		&cli.IntFlag{Name: "threshold", Value: 10, Usage: "invocations before a method is considered hot"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		body, funcName, err := loadMethodBody(cmd.String("in"))
		if err != nil {
			return err
		}

		cfg := jitconfig.DefaultConfig()
		cfg.CompilationThreshold = int64(cmd.Int("threshold"))

		detector := invocationpolicy.NewDetector(cfg.CompilationThreshold)
		cache := codecache.New(cfg.MaxCompiledFunctions)

		key := invocationpolicy.Key{FuncName: funcName, InstructionSum: streamHash(body)}
		becameHot := detector.RecordCall(key)

		fmt.Printf("heyjit: %s invocation #%d\n", funcName, detector.CallCount(key))
		if !becameHot {
			return nil
		}

		fmt.Printf("heyjit: %s crossed the hotspot threshold, compiling\n", funcName)

		var buf bytes.Buffer
		diag := jitcore.NewDiagnostics(os.Stderr, cfg.DiagnosticsLevel)
		ok, err := jitcore.Compile(&buf, body, "JIT_"+funcName, diag)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", funcName, err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "heyjit: %s declined optimisation, skipping build\n", funcName)
			return nil
		}

		builder, err := nativebuild.NewBuilder("")
		if err != nil {
			return err
		}
		defer builder.Close()

		buildCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.NativeBuildTimeoutSeconds)*time.Second)
		defer cancel()

		res, err := builder.Build(buildCtx, funcName, buf.String())
		if err != nil {
			return err
		}

		gen := cache.Store(funcName, res.SourcePath, res.PluginPath, "JIT_"+funcName, time.Now())

		if _, err := nativebuild.Load(res, gen.Symbol); err != nil {
			return fmt.Errorf("registering %s: %w", funcName, err)
		}

		fmt.Printf("heyjit: %s registered as generation %s (%s)\n", funcName, gen.ID, gen.PluginPath)
		return nil
	},
}

func loadMethodBody(path string) (bytecode.MethodBody, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return bytecode.MethodBody{}, "", fmt.Errorf("reading %s: %w", path, err)
	}

	var mf struct {
		FuncName     string                  `json:"func_name"`
		StackMax     int                     `json:"stack_max"`
		Instructions []bytecode.Instruction `json:"instructions"`
	}
	if err := json.Unmarshal(raw, &mf); err != nil {
		return bytecode.MethodBody{}, "", fmt.Errorf("parsing %s: %w", path, err)
	}

	return bytecode.MethodBody{Instructions: mf.Instructions, StackMax: mf.StackMax}, mf.FuncName, nil
}

// streamHash folds a method's instruction stream into the hash
// invocationpolicy.Key keys its counters by, so a redefinition starts
// a fresh count instead of inheriting one primed against old bytecode.
func streamHash(body bytecode.MethodBody) uint64 {
	h := fnv.New64a()
	for _, inst := range body.Instructions {
		fmt.Fprintf(h, "%d:%d:%d:%d:%d", inst.Op, inst.LocalIndex, inst.EnvLevel, inst.ConstRef, inst.Immediate)
	}
	return h.Sum64()
}
