package commands

import (
	"context"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the saved world to a JSON file",
	Long: `Export the session's saved world to voxel-world-<timestamp>.json.

The file is written to --dir, or persistence.export_dir from pinch.yml.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Directory to write the file to")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportDir != "" {
		cfg.Persistence.ExportDir = exportDir
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

	path, err := s.ExportToFile(ctx, cfg.Persistence.ExportDir)
	if err != nil {
		return printer.Error("export failed", err.Error(), nil)
	}

	printer.Success("Exported %d voxels to %s\n", s.VoxelCount(), path)
	return nil
}
