package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"handlergen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build metadata",
	Run: func(cmd *cobra.Command, _ []string) {
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "handlergen %s\n", v)
		if version.GitCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", version.BuildDate)
		}
	},
}
