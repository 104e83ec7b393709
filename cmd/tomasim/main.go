// Command tomasim runs the Tomasulo pipeline simulator end to end:
// assemble, load, simulate, report.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/asm"
	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/report"
	"github.com/sarchlab/tomasim/timing"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var (
	start      = flag.Uint("start", 0, "starting program address (word)")
	memPath    = flag.String("mem", "", "path to the memory preload file")
	latencyCfg = flag.String("latency-config", "", "path to a JSON timing configuration file")
	verbose    = flag.Bool("v", false, "verbose loader/decoder diagnostics")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: tomasim [options] <program.asm>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		var deadlock *pipeline.DeadlockError
		var fault *emu.MemoryFaultError
		if errors.As(err, &deadlock) || errors.As(err, &fault) {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(asmPath string) error {
	source, err := os.ReadFile(asmPath)
	if err != nil {
		return fmt.Errorf("failed to read assembly source: %w", err)
	}

	prog, err := asm.Assemble(string(source))
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}
	if *verbose {
		fmt.Printf("assembled %d instructions from %s\n", len(prog.Instructions), asmPath)
	}

	mem := emu.NewMemory()
	if *memPath != "" {
		img, err := loader.Load(*memPath)
		if err != nil {
			return fmt.Errorf("loading memory image failed: %w", err)
		}
		if err := img.Apply(mem); err != nil {
			return fmt.Errorf("applying memory image failed: %w", err)
		}
		if *verbose {
			fmt.Printf("preloaded %d words from %s\n", len(img.Words), *memPath)
		}
	}

	cfg := timing.DefaultConfig()
	if *latencyCfg != "" {
		cfg, err = timing.LoadConfig(*latencyCfg)
		if err != nil {
			return fmt.Errorf("loading timing config failed: %w", err)
		}
	}

	regs := &emu.RegFile{}
	engine := pipeline.New(prog.Instructions, regs, mem,
		pipeline.WithConfig(cfg),
		pipeline.WithStartPC(uint32(*start)))

	if err := engine.Run(); err != nil {
		return err
	}

	report.Timeline(os.Stdout, engine.Rows())
	fmt.Println()
	report.Summary(os.Stdout, engine.Metrics())

	return nil
}
