package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every voxel in the saved world",
	Long: `Delete every voxel in the session's saved world.

Asks for confirmation unless --yes is given. An empty world is left alone.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	s, err := engine.NewSession(cfg.SessionOptions(clock.NewSystem()))
	if err != nil {
		return err
	}
	if err := s.Load(ctx, client); err != nil {
		return worldNotFound(err, client.Session())
	}

	cleared := s.RequestClear(func(count int) bool {
		if clearYes {
			return true
		}
		return confirmOnStdin(fmt.Sprintf("Clear all %d voxels from '%s'?", count, client.Session()))
	})
	if !cleared {
		if s.VoxelCount() == 0 {
			printer.Info("World '%s' is already empty\n", client.Session())
		} else {
			printer.Info("Nothing cleared\n")
		}
		return nil
	}

	if err := client.ClearWorld(ctx); err != nil {
		return printer.Error("clear failed", err.Error(), nil)
	}
	printer.Success("Cleared world '%s'\n", client.Session())
	return nil
}
