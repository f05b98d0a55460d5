/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"

	"github.com/jacobarthurs/dprof/internal/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with example template",
	Long: `Create ~/.config/dprof/config.yaml with an example template.

The config file stores report preferences (default output format, color).
If a config file already exists, it will not be overwritten.`,
	Example: `  # Create default config
  dprof init

  # Overwrite existing config
  dprof init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := config.Init(force)
		if err != nil {
			return err
		}

		fmt.Printf("Created config at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
}
