/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacobarthurs/dprof/internal/config"
	"github.com/jacobarthurs/dprof/internal/output"
	"github.com/jacobarthurs/dprof/internal/retry"

	"github.com/spf13/cobra"
)

var retriesCmd = &cobra.Command{
	Use:   "retries <dir>",
	Short: "Reconstruct multi-attempt retry timelines",
	Long: `Walk a directory of query attempt artifacts (attempt logs, attempt
profiles and headers), group them by query, and report each retried
query's timeline and backoff pattern.

Files directly inside the directory share its name as query id; files in
subdirectories are grouped per subdirectory.`,
	Example: `  # Group attempts under ./attempts
  dprof retries ./attempts

  # JSON report
  dprof retries ./attempts --format json`,
	Args: cobra.ExactArgs(1),
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

		files, err := collectAttemptFiles(args[0])
		if err != nil {
			return err
		}

		result := retry.GroupAttempts(files)

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderRetriesText(os.Stdout, result)
		}

		return nil
	},
}

// collectAttemptFiles reads every regular file under root into memory. The
// query id is the subdirectory path, or the root directory's own name for
// files at the top level.
func collectAttemptFiles(root string) ([]retry.File, error) {
	rootID := filepath.Base(filepath.Clean(root))

	var files []retry.File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		queryID := rootID
		if dir := filepath.Dir(rel); dir != "." {
			queryID = strings.ReplaceAll(dir, string(filepath.Separator), "/")
		}

		files = append(files, retry.File{
			Name:    d.Name(),
			Content: string(content),
			QueryID: queryID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func init() {
	rootCmd.AddCommand(retriesCmd)
	retriesCmd.Flags().StringP("format", "f", "", "Output format: text, json")
}
