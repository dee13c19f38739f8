// Package config provides rule-set management for Tile Treasure.
//
// The config package handles:
//   - Loading rule sets from JSON and YAML files
//   - Validation through engine.ValidateGameConfig
//   - Default rule-set selection
//   - Rule-set discovery and listing
//
// Configuration Format:
//
// Rule sets live in the configs directory as .json, .yaml or .yml files. The
// file name without extension is the config ID used to create sessions. Each
// rule set defines the board size, carrying capacity, value and weight
// pools, blocked cells, the player roster and the player-facing messages.
//
// When no classic file exists the built-in engine.DefaultConfig serves as
// "classic".
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	duel, err := manager.LoadConfig("duel")
//	configs, err := manager.ListConfigs()
//
//	// Check every file without caching
//	results, err := config.ValidateDir("configs")
package config
