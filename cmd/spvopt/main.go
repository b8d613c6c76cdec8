// Command spvopt optimizes SPIR-V modules.
//
// Usage:
//
//	spvopt <command> [flags]
//
// Examples:
//
//	spvopt optimize -o out.spv shader.spv          # Default pipeline
//	spvopt optimize --out-dir opt/ a.spv b.spv     # Several files in parallel
//	spvopt optimize --pass interface-cleanup in.spv
//	spvopt optimize --config pipeline.yaml in.spv
//	spvopt as shader.spvasm -o shader.spv          # Assemble text
//	spvopt dis shader.spv                          # Disassemble to stdout
//	spvopt passes                                  # List registered passes
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
