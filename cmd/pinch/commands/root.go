package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dyluth/pinch/internal/config"
	"github.com/dyluth/pinch/internal/printer"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath  string
	redisAddr   string
	sessionName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinch",
	Short: "pinch - gesture-driven voxel editor",
	Long: `pinch turns a stream of hand landmarks into voxel edits.

Pinch to place a voxel, make a fist (delete mode) to remove one, open your
palm (build mode) to clear the world. Worlds are saved to Redis per session
and can be exported to and imported from JSON files.

Hand streams are replayed from JSONL recordings with 'pinch replay'.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	// Errors are printed in colour by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", config.DefaultPath, "Path to pinch.yml")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Redis address (overrides persistence.redis_addr)")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "", "World session name (overrides persistence.session)")
}

// loadConfig reads the config file, falling back to defaults when the file is
// absent, and applies flag overrides.
func loadConfig() (*config.PinchConfig, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Could not load %s: %v", configPath, err),
			[]string{fmt.Sprintf("Fix the file, or regenerate it:\n  pinch init --force --config %s", configPath)},
		)
	}

	if redisAddr != "" {
		cfg.Persistence.RedisAddr = redisAddr
	}
	if sessionName != "" {
		cfg.Persistence.Session = sessionName
	}
	return cfg, nil
}

// connect opens a world client for the configured session and checks Redis
// is reachable.
func connect(ctx context.Context, cfg *config.PinchConfig) (*voxel.Client, error) {
	client, err := voxel.NewClient(&redis.Options{Addr: cfg.Persistence.RedisAddr}, cfg.Persistence.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create world client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis unreachable",
			fmt.Sprintf("Could not connect to Redis: %v", err),
			[][2]string{
				{"addr", cfg.Persistence.RedisAddr},
				{"session", cfg.Persistence.Session},
			},
			[]string{
				"Start Redis locally:\n  docker run -d -p 6379:6379 redis:7",
				"Point pinch at another server:\n  pinch --redis host:port ...",
			},
		)
	}
	return client, nil
}

// worldNotFound renders a friendly error when a session has no saved world.
func worldNotFound(err error, session string) error {
	if errors.Is(err, voxel.ErrWorldNotFound) {
		return printer.Error(
			fmt.Sprintf("no world saved for session '%s'", session),
			"Nothing has been saved under this session yet.",
			[]string{
				fmt.Sprintf("Build one from a recording:\n  pinch replay hands.jsonl --save --session %s", session),
				fmt.Sprintf("Import a world file:\n  pinch import world.json --session %s", session),
			},
		)
	}
	return err
}

// confirmOnStdin asks a yes/no question on stdout and reads the answer.
func confirmOnStdin(question string) bool {
	printer.Warning("%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
