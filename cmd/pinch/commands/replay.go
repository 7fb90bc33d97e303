package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dyluth/pinch/internal/clock"
	"github.com/dyluth/pinch/internal/engine"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/internal/replay"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/spf13/cobra"
)

var (
	replaySave    bool
	replayLoad    bool
	replayExport  bool
	replaySpeed   float64
	replayVerbose bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <recording.jsonl>",
	Short: "Drive a session with a recorded hand stream",
	Long: `Replay a JSONL hand recording through a fresh editing session.

By default frames are processed back to back using the recorded timestamps,
so the result is deterministic. With --speed the recording is played in real
time (scaled by the factor) through the live capture path, where frames the
engine cannot keep up with are dropped.

Examples:
  # Replay and print the resulting world
  pinch replay recordings/example.jsonl

  # Continue from the saved world and save the result
  pinch replay hands.jsonl --load --save

  # Play at real-time speed and export a world file
  pinch replay hands.jsonl --speed 1 --export`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replaySave, "save", false, "Save the resulting world to Redis")
	replayCmd.Flags().BoolVar(&replayLoad, "load", false, "Start from the world saved in Redis")
	replayCmd.Flags().BoolVar(&replayExport, "export", false, "Export the resulting world to persistence.export_dir")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Play in real time scaled by this factor (0 = as fast as possible)")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "Print every frame on which an action fired")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !replayVerbose {
		engine.SetLogger(nil)
	}

	cam, err := cfg.NewCamera()
	if err != nil {
		return printer.Error("invalid camera", err.Error(), []string{fmt.Sprintf("Check the camera section of %s", configPath)})
	}

	f, err := os.Open(args[0])
	if err != nil {
		return printer.Error(
			"recording not found",
			fmt.Sprintf("Could not open %s: %v", args[0], err),
			[]string{"Create an example recording:\n  pinch init"},
		)
	}
	defer f.Close()

	var client *voxel.Client
	if replaySave || replayLoad {
		client, err = connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
	}

	var (
		s   *engine.Session
		sum replay.Summary
	)
	reader := replay.NewReader(f)

	if replaySpeed > 0 {
		s, err = engine.NewSession(cfg.SessionOptions(clock.NewSystem()))
		if err != nil {
			return err
		}
		if err := loadInto(ctx, s, client); err != nil {
			return err
		}
		printer.Step("Playing %s at %.2gx...\n", args[0], replaySpeed)
		sum, err = replay.Stream(ctx, s, reader, cam, replaySpeed, printFiredFrame)
	} else {
		// Voxels are stamped with wall-clock time offset by the recorded time
		clk := clock.NewManual(time.Now().UnixMilli())
		s, err = engine.NewSession(cfg.SessionOptions(clk))
		if err != nil {
			return err
		}
		if err := loadInto(ctx, s, client); err != nil {
			return err
		}
		printer.Step("Replaying %s...\n", args[0])
		sum, err = replay.Run(s, clk, reader, cam, printFiredFrame)
	}
	if err != nil {
		return printer.Error("replay failed", err.Error(), nil)
	}

	printer.Success("Replayed %d frames: %d actions, %d dropped, %d voxels\n",
		sum.Frames, sum.Actions, sum.Dropped, s.VoxelCount())

	if replaySave {
		if err := s.Save(ctx, client); err != nil {
			return printer.Error("save failed", err.Error(), nil)
		}
		printer.Success("Saved world to session '%s'\n", client.Session())
	}

	if replayExport {
		path, err := s.ExportToFile(ctx, cfg.Persistence.ExportDir)
		if err != nil {
			return printer.Error("export failed", err.Error(), nil)
		}
		printer.Success("Exported world to %s\n", path)
	}

	return nil
}

// loadInto loads the saved world into s when --load was given.
func loadInto(ctx context.Context, s *engine.Session, client *voxel.Client) error {
	if !replayLoad {
		return nil
	}
	if err := s.Load(ctx, client); err != nil {
		return worldNotFound(err, client.Session())
	}
	printer.Info("Loaded %d voxels from session '%s'\n", s.VoxelCount(), client.Session())
	return nil
}

func printFiredFrame(f engine.Frame) {
	if !replayVerbose || !f.Fired || f.Cursor == nil {
		return
	}
	printer.Printf("%s %-9s at %s (%d voxels)\n", printer.Badge(string(f.Mode)), f.Gesture, f.Cursor.Key(), f.VoxelCount)
}
