package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/tiletreasure/game/engine"
)

// GameResult is the outcome of one simulated game
type GameResult struct {
	Seed    int64 `json:"seed"`
	Moves   int   `json:"moves"`
	Winners []int `json:"winners"`
	Tie     bool  `json:"tie"`
	Scores  []int `json:"scores"`
	Weights []int `json:"weights"`
}

// SeatStats aggregates one seat across all simulated games
type SeatStats struct {
	PlayerID   int     `json:"player_id"`
	Name       string  `json:"name"`
	Wins       int     `json:"wins"`
	SharedWins int     `json:"shared_wins"`
	MeanScore  float64 `json:"mean_score"`
	MeanWeight float64 `json:"mean_weight"`
	BestScore  int     `json:"best_score"`
	WorstScore int     `json:"worst_score"`
}

// SimulationReport summarises a batch of simulated games
type SimulationReport struct {
	Config    string       `json:"config"`
	Games     int          `json:"games"`
	BaseSeed  int64        `json:"base_seed"`
	Ties      int          `json:"ties"`
	MeanMoves float64      `json:"mean_moves"`
	Seats     []SeatStats  `json:"seats"`
	Results   []GameResult `json:"results,omitempty"`
	Elapsed   string       `json:"elapsed"`
}

// SimulateOptions controls a simulation run
type SimulateOptions struct {
	Games    int
	Seed     int64
	Parallel int
	Keep     bool
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play many games with every seat driven by the computer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "classic",
				Usage: "rule set to play",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 100,
				Usage: "number of games to play",
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "base seed; game i uses seed+i (0 picks one from the clock)",
				Sources: cli.EnvVars("TILETREASURE_SEED"),
			},
			&cli.IntFlag{
				Name:  "parallel",
				Value: runtime.NumCPU(),
				Usage: "games played at once",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format (text or json)",
			},
			&cli.BoolFlag{
				Name:  "results",
				Usage: "include every game in the json output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			config, err := configs.LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}

			format := strings.ToLower(cmd.String("format"))
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q (use text or json)", format)
			}

			report, err := simulate(ctx, config, SimulateOptions{
				Games:    cmd.Int("games"),
				Seed:     cmd.Int64("seed"),
				Parallel: cmd.Int("parallel"),
				Keep:     cmd.Bool("results"),
			})
			if err != nil {
				return err
			}

			if format == "json" {
				return writeReportJSON(cmd.Root().Writer, report)
			}
			writeReportText(cmd.Root().Writer, report)
			return nil
		},
	}
}

// simulate plays opts.Games independent games of config. Game i is seeded
// with opts.Seed+i so any single game can be replayed.
func simulate(ctx context.Context, config *engine.GameConfig, opts SimulateOptions) (*SimulationReport, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	start := time.Now()
	results := make([]GameResult, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for i := 0; i < opts.Games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := playGame(ctx, config, opts.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := summarize(config, opts.Seed, results)
	if opts.Keep {
		report.Results = results
	}
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()

	log.WithFields(log.Fields{
		"config": config.Name,
		"games":  opts.Games,
		"seed":   opts.Seed,
	}).Debug("simulation finished")

	return report, nil
}

// playGame plays one game to the end with the selector driving every seat
func playGame(ctx context.Context, config *engine.GameConfig, seed int64) (GameResult, error) {
	eng, err := engine.NewEngineContext(ctx, config, rand.New(rand.NewSource(seed)))
	if err != nil {
		return GameResult{}, err
	}

	moves := eng.PlayOut()
	state := eng.GetState()

	result := GameResult{
		Seed:  seed,
		Moves: moves,
		Tie:   state.Tie,
	}
	for _, p := range state.Players {
		result.Scores = append(result.Scores, p.Score)
		result.Weights = append(result.Weights, p.CurrentWeight)
		if p.IsWinner {
			result.Winners = append(result.Winners, p.ID)
		}
	}
	return result, nil
}

func summarize(config *engine.GameConfig, seed int64, results []GameResult) *SimulationReport {
	report := &SimulationReport{
		Config:   config.Name,
		Games:    len(results),
		BaseSeed: seed,
	}

	seats := make([]SeatStats, len(config.Players))
	for i, pc := range config.Players {
		seats[i] = SeatStats{PlayerID: i + 1, Name: pc.Name}
	}

	totalMoves := 0
	for n, r := range results {
		totalMoves += r.Moves
		if r.Tie {
			report.Ties++
		}
		for _, id := range r.Winners {
			if r.Tie {
				seats[id-1].SharedWins++
			} else {
				seats[id-1].Wins++
			}
		}
		for i, score := range r.Scores {
			s := &seats[i]
			s.MeanScore += float64(score)
			s.MeanWeight += float64(r.Weights[i])
			if n == 0 {
				s.BestScore, s.WorstScore = score, score
				continue
			}
			s.BestScore = max(s.BestScore, score)
			s.WorstScore = min(s.WorstScore, score)
		}
	}

	n := float64(len(results))
	report.MeanMoves = float64(totalMoves) / n
	for i := range seats {
		seats[i].MeanScore /= n
		seats[i].MeanWeight /= n
	}
	report.Seats = seats
	return report
}

func writeReportJSON(w io.Writer, report *SimulationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportText(w io.Writer, report *SimulationReport) {
	fmt.Fprintf(w, "Simulated %d games of %s (seeds %d..%d) in %s\n",
		report.Games, report.Config, report.BaseSeed, report.BaseSeed+int64(report.Games)-1, report.Elapsed)
	fmt.Fprintf(w, "Mean moves per game: %.1f | Ties: %d (%.1f%%)\n\n",
		report.MeanMoves, report.Ties, percent(report.Ties, report.Games))

	seats := append([]SeatStats(nil), report.Seats...)
	sort.SliceStable(seats, func(i, j int) bool { return seats[i].Wins > seats[j].Wins })

	fmt.Fprintf(w, "%-4s %-12s %6s %7s %7s %10s %10s %6s %6s\n",
		"Seat", "Name", "Wins", "Win%", "Shared", "MeanScore", "MeanLoad", "Best", "Worst")
	for _, s := range seats {
		fmt.Fprintf(w, "P%-3d %-12s %6d %6.1f%% %7d %10.1f %10.1f %6d %6d\n",
			s.PlayerID, s.Name, s.Wins, percent(s.Wins, report.Games), s.SharedWins,
			s.MeanScore, s.MeanWeight, s.BestScore, s.WorstScore)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
