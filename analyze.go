package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/tiletreasure/game/engine"
)

// Analysis holds rough balance figures for a rule set
type Analysis struct {
	Name           string
	PlayableTiles  int
	MeanValue      float64
	MeanWeight     float64
	MinWeight      int
	TilesPerPlayer float64 // tiles a player can carry at the mean weight
	BoardShare     float64 // playable tiles per player
	ExpectedScore  float64 // TilesPerPlayer tiles at the mean value
	StuckStarts    []int   // players with no open neighbour at the start
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print balance heuristics for rule sets",
		ArgsUsage: "[config...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			names := cmd.Args().Slice()
			if len(names) == 0 {
				list, err := configs.ListConfigs()
				if err != nil {
					return err
				}
				for _, info := range list {
					names = append(names, info.ConfigID)
				}
			}

			w := cmd.Root().Writer
			for _, name := range names {
				cfg, err := configs.LoadConfig(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "\n=== Analyzing %s ===\n", name)
				printAnalysis(w, cfg, analyzeConfig(cfg))
			}
			return nil
		},
	}
}

// analyzeConfig computes the heuristics for a valid rule set
func analyzeConfig(cfg *engine.GameConfig) Analysis {
	a := Analysis{
		Name:          cfg.Name,
		PlayableTiles: cfg.BoardSize*cfg.BoardSize - len(cfg.BlockedCells),
		MeanValue:     mean(cfg.ValuePool.Values),
		MeanWeight:    mean(cfg.WeightPool.Values),
	}

	for i, w := range cfg.WeightPool.Values {
		if i == 0 || w < a.MinWeight {
			a.MinWeight = w
		}
	}
	if a.MeanWeight > 0 {
		a.TilesPerPlayer = float64(cfg.MaxCapacity) / a.MeanWeight
	}
	if len(cfg.Players) > 0 {
		a.BoardShare = float64(a.PlayableTiles) / float64(len(cfg.Players))
	}
	a.ExpectedScore = min(a.TilesPerPlayer, a.BoardShare) * a.MeanValue

	blocked := make(map[engine.Position]bool, len(cfg.BlockedCells))
	for _, pos := range cfg.BlockedCells {
		blocked[pos] = true
	}
	for i, p := range cfg.Players {
		open := 0
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				pos := engine.Position{Row: p.Start.Row + dr, Col: p.Start.Col + dc}
				if (dr == 0 && dc == 0) || blocked[pos] {
					continue
				}
				if pos.Row >= 0 && pos.Row < cfg.BoardSize && pos.Col >= 0 && pos.Col < cfg.BoardSize {
					open++
				}
			}
		}
		if open == 0 {
			a.StuckStarts = append(a.StuckStarts, i+1)
		}
	}

	return a
}

func printAnalysis(w io.Writer, cfg *engine.GameConfig, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Board: %d x %d, %d playable tiles\n", cfg.BoardSize, cfg.BoardSize, a.PlayableTiles)
	fmt.Fprintf(w, "Capacity: %d | Players: %d\n", cfg.MaxCapacity, len(cfg.Players))
	fmt.Fprintf(w, "Mean tile value: %+.2f | Mean tile weight: %.2f\n", a.MeanValue, a.MeanWeight)
	fmt.Fprintf(w, "Tiles carried at mean weight: %.1f | Board share per player: %.1f\n", a.TilesPerPlayer, a.BoardShare)
	fmt.Fprintf(w, "Expected score at random: %+.1f\n", a.ExpectedScore)

	if a.MinWeight > cfg.MaxCapacity {
		fmt.Fprintf(w, "⚠️  CRITICAL: capacity %d is below the lightest tile (%d); nobody can move\n", cfg.MaxCapacity, a.MinWeight)
	}
	for _, id := range a.StuckStarts {
		fmt.Fprintf(w, "⚠️  CRITICAL: P%d starts with no open neighbour\n", id)
	}

	if a.TilesPerPlayer*float64(len(cfg.Players)) > float64(a.PlayableTiles) {
		fmt.Fprintf(w, "✅ The board runs out before capacity: positioning decides the game\n")
	} else {
		fmt.Fprintf(w, "✅ Capacity runs out before the board: weight decides the game\n")
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
