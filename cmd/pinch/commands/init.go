package commands

import (
	"fmt"
	"os"

	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new pinch project",
	Long: `Initialize a new pinch project in the current directory.

Creates:
  • pinch.yml - Configuration with the calibrated defaults and a fresh session name
  • recordings/example.jsonl - A short hand recording to replay

Use --force to reinitialize (WARNING: overwrites existing configuration).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing pinch.yml and example recording")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if !forceInit {
		if err := scaffold.CheckExisting(dir); err != nil {
			return printer.Error("project already initialized", err.Error(), nil)
		}
	}

	if err := scaffold.Initialize(dir, forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess(printer.Out)
	return nil
}
