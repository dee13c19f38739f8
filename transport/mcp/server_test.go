package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/tiletreasure/game/config"
	"github.com/wricardo/tiletreasure/game/engine"
	"github.com/wricardo/tiletreasure/game/service"
	"github.com/wricardo/tiletreasure/game/session"
)

// newTestServer wires a real service over a config directory holding a
// delay-free classic rule set
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	classic := engine.DefaultConfig()
	classic.CPUThinkDelayMs = 0
	data, err := json.Marshal(classic)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)

	svc := service.NewGameService(session.NewManager(), configs)
	return NewServer(svc, "test")
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "Expected text content in result")
	return text.Text, result.IsError
}

var sessionIDPattern = regexp.MustCompile(`Created session: (\S+)`)

func createSession(t *testing.T, s *Server, args map[string]interface{}) string {
	t.Helper()
	text, isErr := call(t, s.handleCreateSession, args)
	require.False(t, isErr, text)
	m := sessionIDPattern.FindStringSubmatch(text)
	require.Len(t, m, 2, text)
	return m[1]
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	require.NotNil(t, s.GetMCPServer())
}

func TestServer_CreateSession(t *testing.T) {
	s := newTestServer(t)

	t.Run("seed as JSON number", func(t *testing.T) {
		text, isErr := call(t, s.handleCreateSession, map[string]interface{}{"seed": float64(42)})
		require.False(t, isErr, text)
		assert.Contains(t, text, "Seed: 42")
		assert.Contains(t, text, "Config: classic")
		assert.Contains(t, text, "Turn: P1 Player 1")
	})

	t.Run("seed as string", func(t *testing.T) {
		text, isErr := call(t, s.handleCreateSession, map[string]interface{}{"seed": "7"})
		require.False(t, isErr, text)
		assert.Contains(t, text, "Seed: 7")
	})

	t.Run("bad seed", func(t *testing.T) {
		text, isErr := call(t, s.handleCreateSession, map[string]interface{}{"seed": "soon"})
		assert.True(t, isErr)
		assert.Contains(t, text, "seed must be an integer")
	})

	t.Run("unknown config", func(t *testing.T) {
		text, isErr := call(t, s.handleCreateSession, map[string]interface{}{"config_name": "nope"})
		assert.True(t, isErr)
		assert.Contains(t, text, "available configs")
	})

	text, _ := call(t, s.handleListSessions, map[string]interface{}{})
	assert.Contains(t, text, "Active sessions (2)")
}

func TestServer_MoveFlow(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, map[string]interface{}{"seed": 3})

	text, isErr := call(t, s.handleLegalMoves, map[string]interface{}{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Legal moves for player 1")
	assert.Contains(t, text, "- (0,0)")

	t.Run("missing coordinates", func(t *testing.T) {
		text, isErr := call(t, s.handleMove, map[string]interface{}{"session_id": id, "row": 0})
		assert.True(t, isErr)
		assert.Contains(t, text, "col is required")
	})

	t.Run("rejected move", func(t *testing.T) {
		text, isErr := call(t, s.handleMove, map[string]interface{}{"session_id": id, "row": 4, "col": 4})
		require.False(t, isErr, text)
		assert.Contains(t, text, "Move rejected (not_adjacent)")
	})

	t.Run("computer player", func(t *testing.T) {
		text, isErr := call(t, s.handleMove, map[string]interface{}{"session_id": id, "player_id": 2, "row": 0, "col": 7})
		assert.True(t, isErr)
		assert.Contains(t, text, "use cpu_turns")
	})

	t.Run("accepted move with string coordinates", func(t *testing.T) {
		text, isErr := call(t, s.handleMove, map[string]interface{}{
			"session_id": id, "row": "0", "col": float64(0), "intent": "grab the corner",
		})
		require.False(t, isErr, text)
		assert.Contains(t, text, "✓ P1 moved to (0,0)")
		assert.Contains(t, text, "Turn: P2")
	})

	text, isErr = call(t, s.handleCPUTurns, map[string]interface{}{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Computer turns played: 3 (stopped: human_turn)")
	assert.Contains(t, text, "Turn: P1")

	text, isErr = call(t, s.handleMoveHistory, map[string]interface{}{"session_id": id, "limit": 2, "order": "asc"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Page 1/2")
	assert.Contains(t, text, "1. P1 (human) (1,1)→(0,0)")

	text, isErr = call(t, s.handleDescribeTile, map[string]interface{}{"session_id": id, "row": 0, "col": 0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Occupant: P1 Player 1")
	assert.Contains(t, text, "Status: claimed by P1")

	text, isErr = call(t, s.handleDescribeTile, map[string]interface{}{"session_id": id, "row": 1, "col": 6})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Status: blocked")

	text, isErr = call(t, s.handleDescribeTile, map[string]interface{}{"session_id": id, "row": 8, "col": 0})
	assert.True(t, isErr)
	assert.Contains(t, text, "off the board")

	text, isErr = call(t, s.handleNewGame, map[string]interface{}{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "New game started")
	assert.Contains(t, text, "Moves this game: 0 | Total moves: 4")
}

func TestServer_PlayToGameOver(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, map[string]interface{}{"seed": 11})

	for i := 0; i < 100; i++ {
		state, err := s.service.GetGameState(context.Background(), id)
		require.NoError(t, err)
		if state.GameOver {
			break
		}

		current := state.Current()
		if current.IsComputer {
			call(t, s.handleCPUTurns, map[string]interface{}{"session_id": id})
			continue
		}
		moves, err := s.service.GetLegalMoves(context.Background(), id, current.ID)
		require.NoError(t, err)
		require.NotEmpty(t, moves)
		text, isErr := call(t, s.handleMove, map[string]interface{}{
			"session_id": id, "row": moves[0].Row, "col": moves[0].Col,
		})
		require.False(t, isErr, text)
	}

	text, isErr := call(t, s.handleGameState, map[string]interface{}{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "GAME OVER")
	assert.Contains(t, text, "WINNER")

	text, isErr = call(t, s.handleMove, map[string]interface{}{"session_id": id, "row": 0, "col": 0})
	assert.True(t, isErr)
	assert.Contains(t, text, "game is over")

	text, isErr = call(t, s.handleMove, map[string]interface{}{"session_id": id, "player_id": 1, "row": 0, "col": 0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Move rejected (game_over)")
}

func TestServer_SessionTools(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleGetSession, map[string]interface{}{})
	assert.True(t, isErr)
	assert.Contains(t, text, "session_id is required")

	text, isErr = call(t, s.handleGameState, map[string]interface{}{"session_id": "missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "session not found")

	text, _ = call(t, s.handleListSessions, map[string]interface{}{})
	assert.Equal(t, "No active sessions", text)

	id := createSession(t, s, map[string]interface{}{})
	text, isErr = call(t, s.handleGetSession, map[string]interface{}{"session_id": strings.ToUpper(id)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Session: "+id)
}

func TestServer_ListConfigsAndRules(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleListConfigs, map[string]interface{}{})
	require.False(t, isErr, text)
	assert.Contains(t, text, "- classic: classic (8x8, capacity 24, 4 players)")

	text, isErr = call(t, s.handleGameRules, map[string]interface{}{})
	require.False(t, isErr)
	assert.Contains(t, text, "Highest score wins")
}

func TestFormatGameState(t *testing.T) {
	assert.Equal(t, "No game state available", formatGameState(nil))

	eng, err := engine.NewEngine(engine.DefaultConfig(), nil)
	require.NoError(t, err)
	text := formatGameState(eng.Snapshot())

	assert.Contains(t, text, "@P1")
	assert.Contains(t, text, "@P4")
	assert.Contains(t, text, "P1 Player 1 (red, human) at (1,1) score 0 load 0/24 [TURN]")
	assert.Contains(t, text, "P2 Player 2 (green, computer)")
	assert.Contains(t, text, "Open tiles: 60")
}

func TestCellText(t *testing.T) {
	state := &engine.GameState{
		Players: []engine.Player{{ID: 1, Row: 0, Col: 0}},
	}
	tests := []struct {
		tile engine.Tile
		want string
	}{
		{engine.Tile{Row: 0, Col: 0, Visited: true, ClaimedBy: 1}, "@P1"},
		{engine.Tile{Row: 1, Col: 1, Blocked: true, Visited: true}, "##"},
		{engine.Tile{Row: 0, Col: 1, Visited: true, ClaimedBy: 2}, "·P2"},
		{engine.Tile{Row: 2, Col: 2, Value: 6, Weight: 3}, "+6/3"},
		{engine.Tile{Row: 2, Col: 3, Value: -4, Weight: 1}, "-4/1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellText(state, &tt.tile))
	}
}
