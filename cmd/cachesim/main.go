// Package main provides the cachesim command-line tool.
//
// cachesim replays memory traces through a set-associative cache hierarchy
// and reports hit/miss statistics and the average memory access time.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
