// Package main documents the entry point for the Tomasulo pipeline
// simulator.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomasim - cycle-accurate Tomasulo pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasim [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -start           starting program address (word)")
	fmt.Println("  -mem             path to the memory preload file")
	fmt.Println("  -latency-config  path to a JSON timing configuration file")
	fmt.Println("  -v               verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
