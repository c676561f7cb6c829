// Package main provides the entry point for ibexprof.
// ibexprof is an offline bottleneck analyzer for Ibex core traces.
//
// For the full CLI, use: go run ./cmd/ibexprof
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ibexprof - Ibex Trace Bottleneck Analyzer")
	fmt.Println("")
	fmt.Println("Usage: ibexprof [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace         Path to the instruction retirement trace")
	fmt.Println("  -stall-trace   Path to the cycle/PC trace (default: same as -trace)")
	fmt.Println("  -config        Path to CPI model configuration JSON file")
	fmt.Println("  -replay-cache  Replay traced memory accesses through a cache model")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ibexprof' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ibexprof' instead.")
	}
}
