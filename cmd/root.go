/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log extraction warnings to stderr")
}

var rootCmd = &cobra.Command{
	Use:          "dprof",
	SilenceUsage: true,
	Short:        "Analyze query-execution profiles",
	Long: `dprof is a CLI tool for analyzing query-execution profiles.

It extracts query and plan text, dataset lineage, per-operator timing,
heuristic bottleneck classification and planning-phase validation from
a profile JSON document, and reconstructs multi-attempt retry timelines
from a directory of attempt artifacts.`,
	Example: `  # Analyze a single profile
  dprof analyze profile.json

  # Inspect retried queries
  dprof retries ./attempts/

  # Set a default output format
  dprof config set format json`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// commandLogger builds the diagnostics logger for one invocation: a no-op
// unless --verbose is set.
func commandLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
