package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/tiletreasure/game/engine"
)

// ErrComputerPlayer is returned when a move request names a player that the
// CPU selector controls.
var ErrComputerPlayer = errors.New("player is computer-controlled")

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, playerID, row, col int) (*MoveResult, error)
	PlayCPU(ctx context.Context, sessionID string, maxTurns int) (*CPUTurnsResult, error)
	NewGame(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetLegalMoves(ctx context.Context, sessionID string, playerID int) ([]engine.Position, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles rule-set loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
}

// Session represents an active game. The engine is not safe for concurrent
// use, so every access to it goes through the session lock.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	Seed           int64
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock acquires the session's game lock
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session's game lock
func (s *Session) Unlock() {
	s.mu.Unlock()
}
