package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/wricardo/tiletreasure/game/engine"
	"github.com/wricardo/tiletreasure/game/service"
)

// Server exposes a GameService as MCP tools
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by the given game service
func NewServer(svc service.GameService, version string) *Server {
	s := &Server{service: svc}

	s.mcpServer = server.NewMCPServer(
		"Tile Treasure",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Treasure - MCP Interface

GAME OBJECTIVE:
Up to four players walk a square board one step at a time (including
diagonals), claiming every tile they land on. Tiles carry a value (points,
possibly negative) and a weight. A player may never carry more than the
capacity. When nobody can move, the highest score wins; equal scores are
broken by the lighter load.

TYPICAL LOOP:
1. create_session (optionally with config_name and seed)
2. legal_moves to see where the current human player may go
3. move with player_id, row and col
4. cpu_turns to let the computer players answer
5. repeat until the game is over

AVAILABLE TOOLS:
- list_configs, create_session, list_sessions, get_session
- game_state, legal_moves, describe_tile
- move, cpu_turns, new_game
- move_history, game_rules

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Configuration
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List the available rule sets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional rule set and board seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config ID from list_configs (optional, defaults to classic)",
				},
				"seed": intProperty("Board seed for a reproducible layout (optional)"),
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetSession)

	// Game state
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board, the players and whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List the squares a player may move to right now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player_id":  intProperty("Player ID (optional, defaults to the player holding the turn)"),
			},
			Required: []string{"session_id"},
		},
	}, s.handleLegalMoves)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Describe one tile: value, weight, who claimed it and who stands on it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row":        intProperty("Row of the tile (0-based)"),
				"col":        intProperty("Column of the tile (0-based)"),
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleDescribeTile)

	// Game operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a human player one square (any of the eight neighbours) and claim the tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player_id":  intProperty("Player ID (optional, defaults to the player holding the turn)"),
				"row":        intProperty("Destination row (0-based)"),
				"col":        intProperty("Destination column (0-based)"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "cpu_turns",
		Description: "Let the computer players move until a human holds the turn or the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"max_turns":  intProperty("Stop after this many computer turns (optional, 0 means no limit)"),
			},
			Required: []string{"session_id"},
		},
	}, s.handleCPUTurns)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game on a fresh board in the same session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleNewGame)

	// History and help
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get paginated move history across all games of the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page":       intProperty("Page number (default 1)"),
				"limit":      intProperty("Moves per page (default 20, max 100)"),
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleMoveHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete rules of Tile Treasure",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameRules)
}

// Tool handlers

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatConfigs(configs)), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	opts := service.CreateOptions{
		ConfigName: cast.ToString(args["config_name"]),
	}
	if raw, ok := args["seed"]; ok && raw != nil {
		seed, err := cast.ToInt64E(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("seed must be an integer: %v", err)), nil
		}
		opts.Seed = seed
	}

	info, err := s.service.CreateSession(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		info.ID, info.ConfigName, info.Seed, formatGameState(info.GameState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionList(sessions)), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}

	info, err := s.service.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	playerID, errResult := s.playerArg(request, state)
	if errResult != nil {
		return errResult, nil
	}

	moves, err := s.service.GetLegalMoves(ctx, sessionID, playerID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLegalMoves(state, playerID, moves)), nil
}

func (s *Server) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}
	row, errResult := requiredInt(request, "row")
	if errResult != nil {
		return errResult, nil
	}
	col, errResult := requiredInt(request, "col")
	if errResult != nil {
		return errResult, nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tile := state.Board.Tile(row, col)
	if tile == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are off the board. Board size is %dx%d (0-%d for both row and col)",
			row, col, state.Board.Size, state.Board.Size, state.Board.Size-1)), nil
	}

	return mcp.NewToolResultText(formatTile(state, tile)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}
	row, errResult := requiredInt(request, "row")
	if errResult != nil {
		return errResult, nil
	}
	col, errResult := requiredInt(request, "col")
	if errResult != nil {
		return errResult, nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	intent := cast.ToString(request.GetArguments()["intent"])

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	playerID, errResult := s.playerArg(request, state)
	if errResult != nil {
		return errResult, nil
	}

	log.WithFields(log.Fields{
		"session": sessionID,
		"player":  playerID,
		"row":     row,
		"col":     col,
		"intent":  intent,
	}).Debug("mcp move")

	result, err := s.service.Move(ctx, sessionID, playerID, row, col)
	if err != nil {
		if errors.Is(err, service.ErrComputerPlayer) {
			return mcp.NewToolResultError(fmt.Sprintf("Player %d is played by the computer; use cpu_turns", playerID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(result)), nil
}

func (s *Server) handleCPUTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}
	maxTurns, err := cast.ToIntE(request.GetArguments()["max_turns"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("max_turns must be an integer: %v", err)), nil
	}

	result, err := s.service.PlayCPU(ctx, sessionID, maxTurns)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCPUTurns(result)), nil
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}

	state, err := s.service.NewGame(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("New game started\n\n" + formatGameState(state)), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(request, "session_id")
	if errResult != nil {
		return errResult, nil
	}

	args := request.GetArguments()
	opts := service.HistoryOptions{
		Page:  cast.ToInt(args["page"]),
		Limit: cast.ToInt(args["limit"]),
		Order: cast.ToString(args["order"]),
	}

	history, err := s.service.GetMoveHistory(ctx, sessionID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

// Argument helpers

func requiredString(request mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value := cast.ToString(request.GetArguments()[name])
	if value == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is required", name))
	}
	return value, nil
}

func requiredInt(request mcp.CallToolRequest, name string) (int, *mcp.CallToolResult) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return 0, mcp.NewToolResultError(fmt.Sprintf("%s is required", name))
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return 0, mcp.NewToolResultError(fmt.Sprintf("%s must be an integer: %v", name, err))
	}
	return value, nil
}

// playerArg reads player_id, defaulting to the player holding the turn
func (s *Server) playerArg(request mcp.CallToolRequest, state *engine.GameState) (int, *mcp.CallToolResult) {
	if raw, ok := request.GetArguments()["player_id"]; ok && raw != nil {
		id, err := cast.ToIntE(raw)
		if err != nil {
			return 0, mcp.NewToolResultError(fmt.Sprintf("player_id must be an integer: %v", err))
		}
		return id, nil
	}

	current := state.Current()
	if current == nil {
		return 0, mcp.NewToolResultError("The game is over; start a new_game")
	}
	return current.ID, nil
}
