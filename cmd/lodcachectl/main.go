// Command lodcachectl runs and drives a lodcache engine: serve exposes it
// over HTTP, retrieve/warm exercise it one-shot from the command line
// (SPEC_FULL.md §E).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
