package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default rule-set constants for the classic game
const (
	DefaultBoardSize       = 8
	DefaultCapacity        = 24
	DefaultCPUThinkDelayMs = 500
)

// DefaultConfig returns the classic four-player rule set: one human and three
// computer players, each starting on one of the four blocked cells.
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Four players on an 8x8 board, capacity 24",
		BoardSize:   DefaultBoardSize,
		MaxCapacity: DefaultCapacity,
		ValuePool:   PoolSpec{Values: []int{-4, -2, 2, 4, 6, 8}, Copies: 10},
		WeightPool:  PoolSpec{Values: []int{1, 2, 3, 4}, Copies: 15},
		BlockedCells: []Position{
			{Row: 1, Col: 1},
			{Row: 1, Col: 6},
			{Row: 6, Col: 1},
			{Row: 6, Col: 6},
		},
		Players: []PlayerConfig{
			{Name: "Player 1", Color: "red", Start: Position{Row: 1, Col: 1}},
			{Name: "Player 2", Color: "green", Start: Position{Row: 1, Col: 6}, Computer: true},
			{Name: "Player 3", Color: "blue", Start: Position{Row: 6, Col: 1}, Computer: true},
			{Name: "Player 4", Color: "yellow", Start: Position{Row: 6, Col: 6}, Computer: true},
		},
		CPUThinkDelayMs: DefaultCPUThinkDelayMs,
	}
	config.ApplyDefaults()
	return config
}

// ApplyDefaults fills empty message templates
func (c *GameConfig) ApplyDefaults() {
	if c.Messages.Welcome == "" {
		c.Messages.Welcome = "Welcome to Tile Treasure! Collect value, mind your capacity."
	}
	if c.Messages.Winner == "" {
		c.Messages.Winner = "%s wins with %d points!"
	}
	if c.Messages.Tie == "" {
		c.Messages.Tie = "It's a tie at %d points!"
	}
	if c.Messages.NoMoves == "" {
		c.Messages.NoMoves = "%s has no moves left"
	}
	if c.Messages.Rejected == "" {
		c.Messages.Rejected = "Can't move there: %s"
	}
}

// ValidateGameConfig validates a rule set for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardSize)
	}
	if config.MaxCapacity < MinCapacity || config.MaxCapacity > MaxCapacity {
		return fmt.Errorf("config validation: max_capacity must be between %d and %d, got %d", MinCapacity, MaxCapacity, config.MaxCapacity)
	}
	if config.CPUThinkDelayMs < 0 {
		return fmt.Errorf("config validation: cpu_think_delay_ms must not be negative, got %d", config.CPUThinkDelayMs)
	}

	blocked := make(map[Position]bool, len(config.BlockedCells))
	for _, cell := range config.BlockedCells {
		if !inBounds(config.BoardSize, cell.Row, cell.Col) {
			return fmt.Errorf("config validation: blocked cell (%d,%d) is off the board", cell.Row, cell.Col)
		}
		if blocked[cell] {
			return fmt.Errorf("config validation: blocked cell (%d,%d) listed twice", cell.Row, cell.Col)
		}
		blocked[cell] = true
	}

	playable := config.BoardSize*config.BoardSize - len(blocked)
	if len(config.ValuePool.Values) == 0 || config.ValuePool.Copies < 1 {
		return fmt.Errorf("config validation: value_pool needs at least one value and one copy")
	}
	if len(config.WeightPool.Values) == 0 || config.WeightPool.Copies < 1 {
		return fmt.Errorf("config validation: weight_pool needs at least one value and one copy")
	}
	if config.ValuePool.Size() != playable {
		return fmt.Errorf("config validation: value_pool holds %d tiles but the board has %d playable cells", config.ValuePool.Size(), playable)
	}
	if config.WeightPool.Size() != playable {
		return fmt.Errorf("config validation: weight_pool holds %d tiles but the board has %d playable cells", config.WeightPool.Size(), playable)
	}
	for _, w := range config.WeightPool.Values {
		if w < 1 {
			return fmt.Errorf("config validation: weights must be at least 1, got %d", w)
		}
	}

	if len(config.Players) < MinPlayers || len(config.Players) > MaxPlayers {
		return fmt.Errorf("config validation: players must number between %d and %d, got %d", MinPlayers, MaxPlayers, len(config.Players))
	}
	starts := make(map[Position]bool, len(config.Players))
	for i, p := range config.Players {
		if !blocked[p.Start] {
			return fmt.Errorf("config validation: player %d must start on a blocked cell, (%d,%d) is not blocked", i+1, p.Start.Row, p.Start.Col)
		}
		if starts[p.Start] {
			return fmt.Errorf("config validation: player %d shares start (%d,%d) with another player", i+1, p.Start.Row, p.Start.Col)
		}
		starts[p.Start] = true
	}

	return nil
}

// LoadGameConfig loads a rule set from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}
	config.ApplyDefaults()

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewPlayers creates the roster described by the config. The first player
// holds the turn.
func NewPlayers(config *GameConfig) []Player {
	players := make([]Player, len(config.Players))
	for i, pc := range config.Players {
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = Player{
			ID:              i + 1,
			Name:            name,
			Color:           pc.Color,
			Row:             pc.Start.Row,
			Col:             pc.Start.Col,
			Capacity:        config.MaxCapacity,
			IsComputer:      pc.Computer,
			IsActive:        true,
			IsCurrentPlayer: i == 0,
		}
	}
	return players
}
