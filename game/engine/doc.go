// Package engine provides the core game logic for Tile Treasure.
//
// The engine package implements the game mechanics including:
//   - Board generation from shuffled value and weight pools
//   - King-move movement with a carrying-capacity limit
//   - Turn progression that skips players with no moves left
//   - Game-over detection and winner resolution
//   - A greedy move selector for computer players
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the single mutable aggregate of a
// game (board, players, turn, terminal flags), while GameConfig defines the
// rule set: board size, capacity, pools, blocked cells and the player roster.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Player 1 claims the tile at row 0, col 0
//	accepted := gameEngine.Move(1, 0, 0)
//
//	// Computer players move with the greedy selector
//	for !gameEngine.IsGameOver() && gameEngine.CurrentPlayer().IsComputer {
//		gameEngine.PlayCPUTurn()
//	}
//
// Game Rules:
//
// Players move one square in any of the eight directions onto an unclaimed
// tile, adding its value to their score and its weight to their load. A move
// that would exceed the player's capacity is refused. A player with no legal
// move is out; when every player is out, the highest score wins and ties on
// score go to the lighter load. Equal score and load is a declared tie.
//
// A GameEngine is not safe for concurrent use.
package engine
