// Command handlergen scans a Go module for types implementing the
// handler.Handler[Req, Res] contract and generates a deterministic
// registration file wiring every discovered handler into a scoped DI
// registry.
//
// Usage:
//
//	//go:generate go run handlergen/cmd/handlergen@latest generate
package main

import (
	"os"

	"github.com/spf13/cobra"

	"handlergen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "handlergen",
	Short: "Handler registration code generator",
	Long:  "handlergen discovers request/response handlers in a Go module and generates their DI registrations",
	// Bare invocation generates, matching go:generate usage.
	RunE: runGenerate,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
