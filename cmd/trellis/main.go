// Command trellis runs the trellis demo and inspects its configuration.
package main

import (
	"fmt"
	"os"
)

// Version information, set via ldflags during build.
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
