// Package main provides the entry point for ibexprof.
// ibexprof derives instruction mix, CPI estimates, load-use hazard rates and
// stall attribution from the text traces written by the Ibex core tracer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/ibexprof/timing/cpi"
)

// defaultTrace is the file name the Ibex simple system writes its trace to.
const defaultTrace = "trace_core_00000000.log"

var (
	tracePath   = flag.String("trace", defaultTrace, "Path to the instruction retirement trace")
	stallPath   = flag.String("stall-trace", "", "Path to the cycle/PC trace (default: same as -trace)")
	configPath  = flag.String("config", "", "Path to CPI model configuration JSON file")
	replayCache = flag.Bool("replay-cache", false, "Replay traced memory accesses through a cache model")
	verbose     = flag.Bool("v", false, "Verbose output")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { _ = out.Flush() })

	if *cpuProfile != "" {
		startCPUProfile(*cpuProfile)
	}

	config := cpi.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = cpi.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading model config: %v\n", err)
			atexit.Exit(1)
		}
	}
	if *replayCache {
		config.Cache.Enabled = true
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid model config: %v\n", err)
		atexit.Exit(1)
	}

	opts := options{
		MixTrace:   *tracePath,
		StallTrace: *stallPath,
		Config:     config,
		RunID:      xid.New().String(),
		Verbose:    *verbose,
	}
	if opts.StallTrace == "" {
		opts.StallTrace = opts.MixTrace
	}

	rep, err := analyze(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing trace: %v\n", err)
		atexit.Exit(1)
	}

	rep.Write(out)
	atexit.Exit(0)
}

// startCPUProfile profiles until exit. The profile is stopped by an atexit
// handler since atexit.Exit skips deferred calls.
func startCPUProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
		atexit.Exit(1)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Register(func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	})
}
