package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted message to stderr and exits with status 1. CLI
// mains use it for fatal startup errors so failure output stays uniform.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
