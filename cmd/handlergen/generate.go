package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"handlergen/internal/config"
	"handlergen/internal/diag"
	"handlergen/internal/gen"
	"handlergen/internal/pipeline"
	"handlergen/internal/scan"
	"handlergen/internal/version"
)

var (
	genDryRun  bool
	genVerbose bool
	genOutput  string
	genDir     string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&genDryRun, "dry-run", false, "print generated code without writing")
	pf.BoolVar(&genVerbose, "verbose", false, "enable verbose logging")
	pf.StringVar(&genOutput, "output", "", "output directory override (relative to the module root)")
	pf.StringVarP(&genDir, "chdir", "C", ".", "directory to resolve the module root from")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Discover handlers and write the registration file",
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	root, err := config.FindModuleRoot(genDir)
	if err != nil {
		return fmt.Errorf("handlergen: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("handlergen: %w", err)
	}
	if genOutput != "" {
		cfg.Output.Dir = genOutput
	}

	if genVerbose {
		fmt.Fprintf(os.Stderr, "handlergen: module=%s root=%s\n", cfg.Module, cfg.Root)
		fmt.Fprintf(os.Stderr, "handlergen: contract=%s\n", cfg.Contract.Qualified())
	}

	opts := pipeline.Options{
		Emit: gen.Options{
			Package:  cfg.Output.Package,
			PkgPath:  cfg.OutputPkgPath(),
			FileName: cfg.Output.File,
			Version:  version.Version,
		},
	}
	if genVerbose {
		opts.Log = os.Stderr
	}

	result, err := pipeline.Run(cmd.Context(), scan.New(cfg), opts)
	if err != nil {
		return fmt.Errorf("handlergen: %w", err)
	}

	printDiagnostics(result.Diagnostics)

	if result.Unit == nil {
		if genVerbose {
			fmt.Fprintln(os.Stderr, "handlergen: no handlers found, nothing generated")
		}
		return nil
	}

	if genDryRun {
		fmt.Fprintf(os.Stdout, "// === %s ===\n%s", result.Unit.Name, result.Unit.Content)
		return nil
	}

	outDir := filepath.Join(cfg.Root, cfg.Output.Dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("handlergen: create %s: %w", outDir, err)
	}
	outPath := filepath.Join(outDir, result.Unit.Name)
	if err := os.WriteFile(outPath, result.Unit.Content, 0o644); err != nil {
		return fmt.Errorf("handlergen: write %s: %w", outPath, err)
	}

	fmt.Fprintf(os.Stderr, "handlergen: wrote %s (%d registration(s))\n", outPath, result.Handlers)
	return nil
}

// printDiagnostics renders warnings to stderr. Warnings are non-fatal: the
// pipeline always completes with whatever valid subset exists.
func printDiagnostics(diags []diag.Diagnostic) {
	warn := color.New(color.FgYellow, color.Bold)
	info := color.New(color.FgCyan)
	for _, d := range diags {
		c := info
		if d.Severity >= diag.SevWarning {
			c = warn
		}
		c.Fprintf(os.Stderr, "%s [%s]", d.Severity, d.Code)
		if !d.Location.IsZero() {
			fmt.Fprintf(os.Stderr, " %s", d.Location)
		}
		fmt.Fprintf(os.Stderr, ": %s\n", d.Message)
	}
}
