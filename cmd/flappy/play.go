package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/platform/tui"
	"github.com/vovakirdan/flappy-wall/internal/storage"
)

var flagForce bool

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, or pick one from the menu.

Controls:
  Space/Click  - Flap
  R            - Restart
  Q/Ctrl+C     - Quit
  Enter        - Save your name after a high score
  Esc          - Skip the name prompt

Menu:
  Up/Down/j/k  - Navigate
  Enter/Space  - Play
  Tab          - Scores of the selected mode

The gate mode is played once: after reaching the target score the wall
stays open. Use --force to play it again.

Examples:
  flappy play
  flappy play classic
  flappy play daily --store http://scores.example.com:8080
  flappy play gate --force
  flappy play classic --config ./my-flappy.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagForce, "force", false, "Play the gate mode even if it was already unlocked")
}

// player runs games in the current terminal.
type player struct {
	backend storage.Backend
	sprites *flappy.Sprites
	logger  *log.Logger
}

func runPlay(_ *cobra.Command, args []string) error {
	var v flappy.Variant
	if len(args) == 1 {
		var err error
		if v, err = lookupVariant(args[0]); err != nil {
			return err
		}
	}

	logger, closeLog := fileLogger("flappy")
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := connect(ctx)
	if err != nil {
		// Play without a leaderboard.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger.Warn("playing without a leaderboard", "error", err)
	} else {
		defer backend.Close()
	}

	p := player{
		backend: backend,
		sprites: flappy.LoadSprites(ctx, flappyCfg.Assets, nil, logger),
		logger:  logger,
	}

	if len(args) == 1 {
		return p.play(v)
	}
	return p.menu()
}

// menu loops between the picker, games and scoreboards until the user
// quits.
func (p player) menu() error {
	width, height := termSize()

	for {
		res, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
		width, height = res.Width, res.Height

		v, err := lookupVariant(res.Variant)
		if err != nil {
			return err
		}

		if res.WantsScoreboard {
			if err := showScoreboard(v, boardOf(p.backend, v), width, height); err != nil {
				return err
			}
			continue
		}

		if err := p.play(v); err != nil {
			return err
		}
	}
}

// play runs one game of v.
func (p player) play(v flappy.Variant) error {
	marker := unlockMarker()
	if v.Gated && !flagForce {
		if at, ok := unlockedAt(marker); ok {
			fmt.Printf("The wall is already open (since %s). Use --force to play it again.\n", at.Format("2006-01-02 15:04"))
			return nil
		}
	}

	width, height := termSize()
	unlocked, err := tui.Run(tui.Options{
		Variant: v,
		Config:  flappyCfg,
		Backend: p.backend,
		Sprites: p.sprites,
		Logger:  p.logger,
		FPS:     settings.FPS,
		Seed:    seed(),
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return fmt.Errorf("error running game: %w", err)
	}

	if unlocked {
		if err := writeUnlockMarker(marker); err != nil {
			p.logger.Warn("cannot record unlock", "path", marker, "error", err)
		}
		fmt.Println("You made it through the wall.")
	}
	return nil
}

// unlockMarker is the file recording that the gate was passed.
func unlockMarker() string {
	return filepath.Join(config.StateDir(), "unlocked")
}

// unlockedAt reports when the gate was passed, if it was.
func unlockedAt(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func writeUnlockMarker(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)+"\n"), 0o644)
}
