package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/pinch/internal/inventory"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/internal/timespec"
	"github.com/dyluth/pinch/internal/watch"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/spf13/cobra"
)

var (
	showFile   string
	showOutput string
	showColor  string
	showLayer  int
	showSince  string
	showUntil  string
	showCell   string
	showColors bool
	showWait   time.Duration
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the voxels of a saved world",
	Long: `List the voxels of the session's saved world, or of a world file.

Output Formats:
  default - Table of X, Y, Z, COLOR and AGE
  jsonl   - One JSON voxel per line, for jq
  world   - The full world file format

Examples:
  # Table of the configured session's world
  pinch show

  # Red voxels placed in the last ten minutes
  pinch show --color '#EF4444' --since 10m

  # One cell
  pinch show --cell 8,0,8

  # A world file instead of Redis
  pinch show --file voxel-world-1700000000000.json --output jsonl`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFile, "file", "", "Read a world file instead of Redis")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "default", "Output format (default, jsonl or world)")
	showCmd.Flags().StringVar(&showColor, "color", "", "Only voxels of this #RRGGBB colour")
	showCmd.Flags().IntVar(&showLayer, "layer", -1, "Only voxels on this y layer")
	showCmd.Flags().StringVar(&showSince, "since", "", "Only voxels placed after this time (duration like '10m' or RFC3339)")
	showCmd.Flags().StringVar(&showUntil, "until", "", "Only voxels placed before this time")
	showCmd.Flags().StringVar(&showCell, "cell", "", "Show a single cell given as x,y,z")
	showCmd.Flags().BoolVar(&showColors, "colors", false, "Print voxel counts per colour")
	showCmd.Flags().DurationVar(&showWait, "wait", 0, "Wait up to this long for a world to be saved")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := inventory.ParseFormat(showOutput)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: default, jsonl, world"})
	}

	now := time.Now()
	filters := &inventory.FilterCriteria{}
	filters.SinceMs, filters.UntilMs, err = timespec.ParseRange(showSince, showUntil, now)
	if err != nil {
		return printer.Error("invalid time filter", err.Error(), nil)
	}
	if showColor != "" {
		c, err := voxel.ParseColor(showColor)
		if err != nil {
			return printer.Error("invalid colour", err.Error(), []string{"Colours are hex, e.g. --color '#4F46E5'"})
		}
		filters.Color = c
	}
	if showLayer >= 0 {
		layer := showLayer
		filters.Layer = &layer
	}

	persister, name, cleanup, err := openPersister(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if showWait > 0 {
		client, ok := persister.(*voxel.Client)
		if !ok {
			return printer.Error("--wait needs Redis", "--wait cannot be combined with --file.", nil)
		}
		printer.Step("Waiting up to %v for world '%s'...\n", showWait, name)
		if _, err := watch.PollForWorld(ctx, client, showWait); err != nil {
			return printer.Error("no world appeared", err.Error(), nil)
		}
	}

	if showCell != "" {
		err := inventory.GetVoxel(ctx, persister, showCell, printer.Out)
		if inventory.IsNotFound(err) {
			return printer.Error(err.Error(), fmt.Sprintf("Cell %s is empty in world '%s'.", showCell, name), nil)
		}
		return worldNotFound(err, name)
	}

	if showColors {
		w, err := persister.LoadWorld(ctx)
		if err != nil {
			return worldNotFound(err, name)
		}
		inventory.FormatColorCounts(printer.Out, inventory.Filter(w.Voxels, filters))
		return nil
	}

	if err := inventory.ListWorld(ctx, persister, name, format, filters, now.UnixMilli(), printer.Out); err != nil {
		return worldNotFound(err, name)
	}
	return nil
}

// openPersister returns the world file from --file, or the configured Redis
// session, plus a display name and a cleanup function.
func openPersister(ctx context.Context) (voxel.Persister, string, func(), error) {
	if showFile != "" {
		return voxel.NewFileStore(showFile), showFile, func() {}, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, "", nil, err
	}
	client, err := connect(ctx, cfg)
	if err != nil {
		return nil, "", nil, err
	}
	return client, client.Session(), func() { client.Close() }, nil
}
