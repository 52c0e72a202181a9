// cmd/main.go is the application entry point.
// It wires together all layers behind the steelfist command tree.
package main

import (
	"fmt"
	"os"
)

// version is injected via ldflags at build time.
var version = "dev"

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
