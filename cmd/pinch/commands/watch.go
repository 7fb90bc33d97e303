package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/internal/watch"
	"github.com/spf13/cobra"
)

var watchOutputFormat string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream save and clear events for the session's world",
	Long: `Print an event each time the session's world is saved or cleared.

Output Formats:
  default - Human-readable lines
  json    - Line-delimited JSON for programmatic processing

Examples:
  pinch watch
  pinch watch --session studio --output=json > events.jsonl`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var format watch.OutputFormat
	switch watchOutputFormat {
	case "default":
		format = watch.OutputFormatDefault
	case "json":
		format = watch.OutputFormatJSON
	default:
		return printer.Error(
			"invalid output format",
			"Unknown format: "+watchOutputFormat,
			[]string{"Valid formats: default, json"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if format == watch.OutputFormatDefault {
		printer.Step("Watching world '%s' (Ctrl+C to stop)...\n", client.Session())
	}
	return watch.StreamEvents(ctx, client, format, printer.Out, nil)
}
