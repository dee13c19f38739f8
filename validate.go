package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/tiletreasure/game/config"
	"github.com/wricardo/tiletreasure/game/engine"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check every rule-set file in the config directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("config-dir")
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}
			return validateConfigs(cmd.Root().Writer, dir)
		},
	}
}

// validateConfigs prints one line per rule-set file in dir and fails when any
// file is invalid
func validateConfigs(w io.Writer, dir string) error {
	results, err := config.ValidateDir(dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(w, "No rule-set files found in %s\n", dir)
		return nil
	}

	files := make([]string, 0, len(results))
	for file := range results {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintf(w, "Validating rule sets in %s\n", dir)
	fmt.Fprintln(w, "========================================")

	invalid := 0
	for _, file := range files {
		if verr := results[file]; verr != nil {
			invalid++
			fmt.Fprintf(w, "\n❌ %s\n   %v\n", file, verr)
			continue
		}

		fmt.Fprintf(w, "\n✅ %s\n", file)
		cfg, err := config.LoadFile(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		for _, line := range describeConfig(cfg) {
			fmt.Fprintf(w, "   ✓ %s\n", line)
		}
	}

	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintf(w, "Summary: %d valid, %d invalid\n", len(files)-invalid, invalid)

	if invalid > 0 {
		return fmt.Errorf("%d of %d rule sets are invalid", invalid, len(files))
	}
	return nil
}

func describeConfig(cfg *engine.GameConfig) []string {
	humans := 0
	for _, p := range cfg.Players {
		if !p.Computer {
			humans++
		}
	}
	return []string{
		fmt.Sprintf("Name: %s", cfg.Name),
		fmt.Sprintf("Board: %dx%d with %d blocked cells", cfg.BoardSize, cfg.BoardSize, len(cfg.BlockedCells)),
		fmt.Sprintf("Capacity: %d", cfg.MaxCapacity),
		fmt.Sprintf("Players: %d (%d human)", len(cfg.Players), humans),
		fmt.Sprintf("Tiles: %d values x %d, %d weights x %d",
			len(cfg.ValuePool.Values), cfg.ValuePool.Copies, len(cfg.WeightPool.Values), cfg.WeightPool.Copies),
	}
}
