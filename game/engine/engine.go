package engine

import (
	"context"
	"fmt"
	"math/rand"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() *GameState
	Reset() *GameState
	IsGameOver() bool
	IsTie() bool
	Winners() []Player
	CurrentPlayer() *Player

	// Movement operations
	Move(playerID, row, col int) bool
	CheckMove(playerID, row, col int) MoveRejection
	GetLegalMoves(playerID int) []Position
	PlayCPUTurn() (Position, bool)

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialise access per game.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration. A nil
// rng is replaced by a time-seeded source.
func NewEngine(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	return NewEngineContext(context.Background(), config, rng)
}

// NewEngineContext is NewEngine with a context for tracing board generation
func NewEngineContext(ctx context.Context, config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if rng == nil {
		rng = NewRand()
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.state = InitGameState(ctx, config, rng)

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rule set
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultConfig(), nil)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return engine
}

// InitGameState generates a board and seats the players
func InitGameState(ctx context.Context, config *GameConfig, rng *rand.Rand) *GameState {
	state := &GameState{
		Board:        *GenerateBoard(ctx, config, rng),
		Players:      NewPlayers(config),
		Message:      config.Messages.Welcome,
		ConfigName:   config.Name,
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
	}

	first := &state.Players[0]
	if state.RemainingMoves(first, first.Row, first.Col) == 0 {
		state.FinishTurn(config)
	}

	return state
}

// GetState returns the live game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a deep copy of the game state for read-only consumers
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Snapshot()
}

// Reset starts a new game on a freshly generated board
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameState(context.Background(), e.config, e.rng)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal

	return e.state
}

// IsGameOver returns whether every player is out of moves
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsTie returns whether the game ended with more than one winner
func (e *GameEngine) IsTie() bool {
	return e.state.Tie
}

// Winners returns the winning players once the game is over
func (e *GameEngine) Winners() []Player {
	return e.state.Winners()
}

// CurrentPlayer returns the player holding the turn, or nil after game over
func (e *GameEngine) CurrentPlayer() *Player {
	return e.state.Current()
}

// Move attempts to move the player to row,col and, when accepted, finishes
// the turn. Rejected moves change nothing and the same player keeps the turn.
func (e *GameEngine) Move(playerID, row, col int) bool {
	if e.state.CheckMove(playerID, row, col) != MoveOK {
		return false
	}

	piece := e.state.Player(playerID)
	from := piece.Position()
	e.state.AttemptMove(playerID, row, col)
	e.state.AddMoveToHistory(piece, from)
	e.state.Message = fmt.Sprintf("%s claimed (%d,%d) for %+d", piece.Name, row, col, e.state.Board.Tiles[row][col].Value)
	e.state.FinishTurn(e.config)

	return true
}

// CheckMove reports whether the move would be accepted, and why not
func (e *GameEngine) CheckMove(playerID, row, col int) MoveRejection {
	return e.state.CheckMove(playerID, row, col)
}

// GetLegalMoves returns the destinations open to the player
func (e *GameEngine) GetLegalMoves(playerID int) []Position {
	return e.state.LegalMoves(playerID)
}

// PlayCPUTurn lets the greedy selector move the current player. When it has
// nowhere to go the player is retired and the turn passes; ok is false then.
func (e *GameEngine) PlayCPUTurn() (Position, bool) {
	current := e.state.Current()
	if current == nil {
		return Position{}, false
	}

	dest, ok := SelectMove(e.state, current.ID)
	if !ok {
		e.state.Pass(e.config)
		return Position{}, false
	}

	return dest, e.Move(current.ID, dest.Row, dest.Col)
}

// GetConfig returns the rule set
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// PlayOut drives CPU turns until the game ends. Every player is driven by the
// selector, human or not. It returns the number of accepted moves.
func (e *GameEngine) PlayOut() int {
	moves := 0
	for !e.state.GameOver {
		if _, ok := e.PlayCPUTurn(); ok {
			moves++
		}
	}
	return moves
}
