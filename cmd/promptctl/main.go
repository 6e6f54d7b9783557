// Package main implements promptctl, a CLI for rendering structured prompt
// documents. Documents are YAML descriptions of a prompt (role, prologue,
// mandatory steps, addressed sections) rendered deterministically to text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool

	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "promptctl",
	Short: "promptctl - structured prompt builder",
	Long: `promptctl renders structured prompt documents to text.

A document is a YAML file describing a prompt: an optional role and
prologue, mandatory-step blocks, and a tree of addressed sections.
Canonical stage addresses (Objective, Scoping, Planning, ...) render in
fixed order; arbitrary stage names render after them in document order.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(stagesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
