package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/config"
	"github.com/spf13/cobra"
)

var (
	logPath     string
	versionInfo string
	cfg         *config.Config
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:   "espressolog",
	Short: "Espresso dial-in log with brew suggestions",
	Long: `espressolog - record espresso dial-in parameters, rate the shot, and get
a suggestion for the next brew.

Brews are kept in a CSV log (~/.config/espressolog/brew_log.csv by default).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
		cfg = loaded
		if logPath == "" {
			logPath = cfg.LogPath
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Brew log path (default from config, else ~/.config/espressolog/brew_log.csv)")
}

// openStore opens the brew log, creating it if needed
func openStore() (*brewlog.Store, error) {
	st, err := brewlog.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open brew log: %w", err)
	}
	return st, nil
}

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: must be a whole number", arg)
	}
	return i, nil
}
