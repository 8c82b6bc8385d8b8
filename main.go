// ./main.go
package main

import (
	"github.com/wheelhouse-ai/wheelhouse/cmd"
)

// main is the entry point for the wheelhouse CLI.
func main() {
	// Execute handles command-line parsing, configuration, and execution.
	cmd.Execute()
}
