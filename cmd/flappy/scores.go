package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
	"github.com/vovakirdan/flappy-wall/internal/platform/tui"
	"github.com/vovakirdan/flappy-wall/internal/storage"
)

var (
	flagDaily bool
	flagLimit int
	flagClear bool
	flagTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the high scores of a mode's leaderboard (classic when omitted).
The classic and daily modes share one board.

Examples:
  flappy scores
  flappy scores daily --daily
  flappy scores --limit 25
  flappy scores --tui
  flappy scores --clear --store ./scores.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagDaily, "daily", false, "Only show today's scores")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of entries (default: the board size)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every score of the board")
	scoresCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse the scores interactively")
}

func runScores(cmd *cobra.Command, args []string) error {
	id := "classic"
	if len(args) == 1 {
		id = args[0]
	}
	v, err := lookupVariant(id)
	if err != nil {
		return err
	}
	if v.Board == "" {
		return fmt.Errorf("mode %q keeps no leaderboard", v.ID)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	backend, err := connect(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if flagClear {
		return clearScores(ctx, backend, v)
	}

	store := backend.Leaderboard(v.Board)
	if flagTUI {
		width, height := termSize()
		return showScoreboard(v, store, width, height)
	}
	if err := printScores(ctx, v, store); err != nil {
		return err
	}
	if !flagDaily {
		printStats(ctx, backend, v.Board)
	}
	return nil
}

// showScoreboard opens the interactive scoreboard of v.
func showScoreboard(v flappy.Variant, store leaderboard.Store, width, height int) error {
	dailyN := 0
	if v.Daily || flagDaily {
		dailyN = flappyCfg.Leaderboard.DailyN
	}
	return tui.RunScoreboard(v.Title, store, flappyCfg.Leaderboard.TopN, dailyN, width, height)
}

func printScores(ctx context.Context, v flappy.Variant, store leaderboard.Store) error {
	limit := flagLimit
	title := v.Title
	var (
		entries []leaderboard.Entry
		err     error
	)
	if flagDaily {
		if limit <= 0 {
			limit = flappyCfg.Leaderboard.DailyN
		}
		from, to := leaderboard.DayWindow(time.Now())
		entries, err = store.TopScoresBetween(ctx, from, to, limit)
		title += " (today)"
	} else {
		if limit <= 0 {
			limit = flappyCfg.Leaderboard.TopN
		}
		entries, err = store.TopScores(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'flappy play %s' to set the first high score!\n", v.ID)
		return nil
	}

	nameLen := len("Name")
	for _, e := range entries {
		nameLen = max(nameLen, len(e.Name))
	}

	fmt.Printf("  %-4s  %-*s  %-8s  %s\n", "Rank", nameLen, "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-*s  %-8s  %s\n", "----", nameLen, "----", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-*s  %-8d  %s\n", i+1, nameLen, e.Name, e.Score, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func clearScores(ctx context.Context, backend storage.Backend, v flappy.Variant) error {
	err := storage.ClearScores(ctx, backend, v.Board)
	if errors.Is(err, storage.ErrUnsupported) {
		return fmt.Errorf("this store cannot be cleared from the command line")
	}
	if err != nil {
		return fmt.Errorf("error clearing scores: %w", err)
	}
	fmt.Printf("Cleared the %s board.\n", v.Board)
	return nil
}

// printStats shows totals for stores that keep them.
func printStats(ctx context.Context, backend storage.Backend, board string) {
	s, ok := backend.(interface {
		Stats(ctx context.Context, gameID string) (*storage.GameStats, error)
	})
	if !ok {
		return
	}
	stats, err := s.Stats(ctx, board)
	if err != nil || stats.GamesCount == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("Best: %d  Games: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
}
