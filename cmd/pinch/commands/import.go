package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <world.json>",
	Short: "Import a world file into the session",
	Long: `Import a world file and save it as the session's world.

The file must be a version 1.0 world. Nothing is saved if the file is
malformed; the session's previous world stays as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := engine.NewSession(cfg.SessionOptions(clock.NewSystem()))
	if err != nil {
		return err
	}

	if err := s.ImportFromFile(ctx, args[0]); err != nil {
		explanation := err.Error()
		var suggestions []string
		switch {
		case errors.Is(err, voxel.ErrWorldNotFound):
			explanation = fmt.Sprintf("%s does not exist.", args[0])
		case errors.Is(err, voxel.ErrUnsupportedVersion):
			suggestions = []string{"Only version \"1.0\" world files can be imported"}
		}
		return printer.Error("import failed", explanation, suggestions)
	}

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := s.Save(ctx, client); err != nil {
		return printer.Error("save failed", err.Error(), nil)
	}

	printer.Success("Imported %d voxels into session '%s'\n", s.VoxelCount(), client.Session())
	return nil
}
