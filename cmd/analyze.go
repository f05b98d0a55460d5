/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jacobarthurs/dprof/internal/config"
	"github.com/jacobarthurs/dprof/internal/document"
	"github.com/jacobarthurs/dprof/internal/output"
	"github.com/jacobarthurs/dprof/internal/profile"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a single query profile",
	Long: `Analyze a single query-execution profile and report dataset lineage,
per-operator timing, bottlenecks and planning-phase validation.

Input is a profile JSON document. Use "-" to read from stdin. If no file
is provided, enters interactive mode.`,
	Example: `  # Analyze from file
  dprof analyze profile.json

  # Read from stdin
  cat profile.json | dprof analyze -

  # JSON report
  dprof analyze profile.json --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		format = cfg.ResolveFormat(format)
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		data, err := document.Load(file)
		if err != nil {
			return err
		}

		result, err := profile.Analyze(data, commandLogger(cmd))
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderProfileText(os.Stdout, result)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("format", "f", "", "Output format: text, json")
}
