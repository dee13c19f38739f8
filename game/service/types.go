package service

import (
	"time"

	"github.com/wricardo/tiletreasure/game/engine"
)

// CreateOptions selects the rule set and board seed of a new session
type CreateOptions struct {
	ConfigName string `json:"config_name"`
	Seed       int64  `json:"seed,omitempty"` // 0 picks a time-based seed
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move request. A rejected move is a
// normal outcome: Success is false and Reason says why.
type MoveResult struct {
	Success   bool                 `json:"success"`
	Reason    engine.MoveRejection `json:"reason,omitempty"`
	Message   string               `json:"message"`
	PlayerID  int                  `json:"player_id"`
	To        engine.Position      `json:"to"`
	GameState *engine.GameState    `json:"game_state"`
	Events    []GameEvent          `json:"events,omitempty"`
}

// CPUTurn records one computer decision
type CPUTurn struct {
	PlayerID int             `json:"player_id"`
	From     engine.Position `json:"from"`
	To       engine.Position `json:"to"`
	Moved    bool            `json:"moved"` // false when the player had to pass
	Value    int             `json:"value,omitempty"`
	Weight   int             `json:"weight,omitempty"`
}

// CPUTurnsResult contains the computer turns played in one call
type CPUTurnsResult struct {
	Turns         []CPUTurn         `json:"turns"`
	StoppedReason string            `json:"stopped_reason"` // human_turn|game_over|max_turns
	NextPlayerID  int               `json:"next_player_id,omitempty"`
	GameState     *engine.GameState `json:"game_state"`
	Events        []GameEvent       `json:"events,omitempty"`
}

// Stop reasons for CPUTurnsResult
const (
	StopHumanTurn = "human_turn"
	StopGameOver  = "game_over"
	StopMaxTurns  = "max_turns"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "player_out", "game_over", "new_game"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	PlayerID  int             `json:"player_id,omitempty"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a rule set
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	MaxCapacity int    `json:"max_capacity"`
	Players     int    `json:"players"`
}
