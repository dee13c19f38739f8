// Package mcp provides the Model Context Protocol server for Tile Treasure.
//
// The mcp package implements:
//   - MCP tool definitions backed directly by a service.GameService
//   - Text renderings of the board, players, moves and history
//   - Stdio transport for local MCP clients
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_configs: List available rule sets
//   - create_session: Create a session with optional rule set and seed
//   - list_sessions / get_session: Inspect sessions
//   - game_state: Board grid, players and whose turn it is
//   - legal_moves: Destinations open to a player
//   - describe_tile: Value, weight and ownership of one tile
//   - move: Move a human player to a neighbouring square
//   - cpu_turns: Let the computer players move
//   - new_game: Fresh board in the same session
//   - move_history: Paginated move history
//   - game_rules: The full rules
//
// Arguments arrive as loosely typed JSON; numbers may be sent as numbers or
// strings. Bad arguments and rejected requests come back as tool errors,
// never as protocol failures. A rejected move is a normal tool result.
//
// Usage:
//
//	svc := service.NewGameService(session.NewManager(), configs)
//	srv := mcp.NewServer(svc, version)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
