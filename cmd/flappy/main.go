// flappy is a terminal flappy game with shared leaderboards.
//
// Usage:
//
//	flappy list               - List game modes
//	flappy play [mode]        - Play a mode (menu when omitted)
//	flappy serve              - Start the SSH and HTTP servers
//	flappy scores [mode]      - Show high scores
//	flappy config             - Print the effective game tuning
//
// Global flags:
//
//	--fps <rate>        - Frame rate (default: 60)
//	--seed <value>      - RNG seed for reproducible runs
//	--store <dsn>       - Score store: path, sqlite://, redis://, http(s)://, memory://
//	--config <path>     - Game tuning YAML
//	--log-file <path>   - Log file for interactive play
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

var (
	// Resolved in PersistentPreRunE.
	vp        = config.NewViper()
	settings  config.Settings
	flappyCfg config.FlappyConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - flap through the pipes in your terminal",
	Long: `Flappy is a terminal arcade game. Flap through the gaps, make the
leaderboard, or reach the target score to get past the wall.

Available commands:
  list     - Show the game modes
  play     - Play a mode directly or pick one from the menu
  serve    - Start the SSH server (and optionally the leaderboard API)
  scores   - View high scores
  config   - Print the effective game tuning

Examples:
  flappy play
  flappy play daily
  flappy play --store redis://localhost:6379/0
  flappy serve --ssh :2222 --http :8080
  flappy scores classic --daily`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("fps", 60, "Frame rate (frames per second)")
	flags.Int64("seed", 0, "RNG seed (0 = random based on time)")
	flags.String("store", "", "Score store DSN (default ~/.flappy/scores.db)")
	flags.String("config", "", "Path to custom game config YAML")
	flags.String("log-file", "", "Log file for interactive play (default ~/.flappy/flappy.log)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	for _, name := range []string{"fps", "seed", "store", "config", "log-file", "log-level"} {
		mustBind(vp, name)
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// mustBind binds a persistent flag to its viper key (log-file -> log_file).
// Only flags set on the command line override the environment and the
// settings file.
func mustBind(v *viper.Viper, flag string) {
	key := strings.ReplaceAll(flag, "-", "_")
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// loadSettings resolves process settings and the game tuning.
func loadSettings(_ *cobra.Command, _ []string) error {
	var err error
	settings, err = config.LoadSettings(vp)
	if err != nil {
		return err
	}
	flappyCfg, err = config.Load(settings.Config)
	if err != nil {
		return err
	}
	return nil
}
