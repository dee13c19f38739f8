package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/tiletreasure/game/engine"
	"github.com/wricardo/tiletreasure/game/service"
)

const gameRules = `Tile Treasure - Rules
━━━━━━━━━━━━━━━━━━━━━━━━

BOARD:
- A square board; row 0 is the top, col 0 the left edge.
- Every tile holds a value (points, may be negative) and a weight (at least 1).
- Blocked cells (##) are holes worth nothing; players start on them.

TURNS:
- Players move in seat order. On your turn you step to one of the eight
  neighbouring squares, diagonals included.
- You may only enter a tile nobody has claimed, and only if your load plus
  its weight stays within the capacity.
- Entering a tile claims it: its value joins your score and its weight joins
  your load. The tile is gone for everyone else.
- A rejected move changes nothing and you keep the turn.

RUNNING OUT:
- A player with no legal move is out for the rest of the game.
- The game ends when every player is out.

WINNING:
- Highest score wins.
- Equal top scores are decided by the lightest load.
- Players equal on both share the win (a tie).

BOARD LEGEND (game_state):
  +6/2   unclaimed tile worth +6 with weight 2
  ·P2    tile claimed by player 2
  @P1    player 1 stands here
  ##     blocked cell`

func formatConfigs(configs []*service.ConfigInfo) string {
	if len(configs) == 0 {
		return "No configurations available"
	}

	var b strings.Builder
	b.WriteString("Available configurations:\n")
	for _, cfg := range configs {
		b.WriteString(fmt.Sprintf("- %s: %s (%dx%d, capacity %d, %d players)",
			cfg.ConfigID, cfg.Name, cfg.BoardSize, cfg.BoardSize, cfg.MaxCapacity, cfg.Players))
		if cfg.Description != "" {
			b.WriteString(" - " + cfg.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatSessionList(sessions []*service.SessionInfo) string {
	if len(sessions) == 0 {
		return "No active sessions"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active sessions (%d):\n", len(sessions)))
	for _, sess := range sessions {
		status := "in progress"
		if sess.GameState != nil && sess.GameState.GameOver {
			status = "game over"
		}
		moves := 0
		if sess.GameState != nil {
			moves = sess.GameState.TotalMoves
		}
		b.WriteString(fmt.Sprintf("- %s: %s, %s, %d moves, last used %s\n",
			sess.ID, sess.ConfigName, status, moves, sess.LastAccessedAt.Format("15:04:05")))
	}
	return b.String()
}

// cellText renders one board square for the grid view
func cellText(state *engine.GameState, tile *engine.Tile) string {
	for _, p := range state.Players {
		if p.Row == tile.Row && p.Col == tile.Col {
			return fmt.Sprintf("@P%d", p.ID)
		}
	}
	switch {
	case tile.Blocked:
		return "##"
	case tile.Visited:
		return fmt.Sprintf("·P%d", tile.ClaimedBy)
	default:
		return fmt.Sprintf("%+d/%d", tile.Value, tile.Weight)
	}
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	size := state.Board.Size

	b.WriteString(fmt.Sprintf("Config: %s | Moves this game: %d | Total moves: %d | Open tiles: %d\n\n",
		state.ConfigName, state.CurrentMovesCount, state.TotalMoves, state.Board.UnvisitedCount()))

	// Column header
	b.WriteString("    ")
	for col := 0; col < size; col++ {
		b.WriteString(fmt.Sprintf("%6d", col))
	}
	b.WriteString("\n")

	for row := 0; row < size; row++ {
		b.WriteString(fmt.Sprintf("%3d ", row))
		for col := 0; col < size; col++ {
			b.WriteString(fmt.Sprintf("%6s", cellText(state, &state.Board.Tiles[row][col])))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		b.WriteString(formatPlayerLine(p))
	}

	if state.GameOver {
		if state.Tie {
			b.WriteString("\nGAME OVER - TIE")
		} else {
			b.WriteString("\nGAME OVER")
		}
	} else if current := state.Current(); current != nil {
		b.WriteString(fmt.Sprintf("\nTurn: P%d %s", current.ID, current.Name))
		if current.IsComputer {
			b.WriteString(" (computer - call cpu_turns)")
		}
	}

	if state.Message != "" {
		b.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return b.String()
}

func formatPlayerLine(p engine.Player) string {
	kind := "human"
	if p.IsComputer {
		kind = "computer"
	}

	var flags []string
	if p.IsCurrentPlayer {
		flags = append(flags, "TURN")
	}
	if !p.IsActive {
		flags = append(flags, "out")
	}
	if p.IsWinner {
		flags = append(flags, "WINNER")
	}

	line := fmt.Sprintf("  P%d %s (%s, %s) at (%d,%d) score %d load %d/%d",
		p.ID, p.Name, p.Color, kind, p.Row, p.Col, p.Score, p.CurrentWeight, p.Capacity)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	return line + "\n"
}

func formatLegalMoves(state *engine.GameState, playerID int, moves []engine.Position) string {
	if len(moves) == 0 {
		if current := state.Current(); current != nil && current.ID != playerID {
			return fmt.Sprintf("Player %d has no moves now: it is P%d's turn", playerID, current.ID)
		}
		return fmt.Sprintf("Player %d has no legal moves", playerID)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Legal moves for player %d:\n", playerID))
	for _, pos := range moves {
		tile := state.Board.Tile(pos.Row, pos.Col)
		b.WriteString(fmt.Sprintf("- (%d,%d) value %+d weight %d\n", pos.Row, pos.Col, tile.Value, tile.Weight))
	}
	return b.String()
}

func formatTile(state *engine.GameState, tile *engine.Tile) string {
	status := "unclaimed"
	switch {
	case tile.Blocked:
		status = "blocked"
	case tile.Visited:
		status = fmt.Sprintf("claimed by P%d", tile.ClaimedBy)
	}

	occupant := "nobody"
	for _, p := range state.Players {
		if p.Row == tile.Row && p.Col == tile.Col {
			occupant = fmt.Sprintf("P%d %s", p.ID, p.Name)
		}
	}

	return fmt.Sprintf(`Tile at (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Value: %+d
Weight: %d
Status: %s
Occupant: %s
Shown as: %s`,
		tile.Row, tile.Col,
		tile.Value,
		tile.Weight,
		status,
		occupant,
		cellText(state, tile))
}

func formatEvents(events []service.GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Events:\n")
	for _, event := range events {
		b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = fmt.Sprintf("✓ P%d moved to (%d,%d)\n", result.PlayerID, result.To.Row, result.To.Col)
	} else {
		response = fmt.Sprintf("✗ Move rejected (%s): %s\n", result.Reason, result.Message)
	}

	response += formatEvents(result.Events)
	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatCPUTurns(result *service.CPUTurnsResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Computer turns played: %d (stopped: %s)\n", len(result.Turns), result.StoppedReason))
	for i, turn := range result.Turns {
		if turn.Moved {
			b.WriteString(fmt.Sprintf("%d. P%d (%d,%d)→(%d,%d) value %+d weight %d\n",
				i+1, turn.PlayerID, turn.From.Row, turn.From.Col, turn.To.Row, turn.To.Col, turn.Value, turn.Weight))
		} else {
			b.WriteString(fmt.Sprintf("%d. P%d could not move\n", i+1, turn.PlayerID))
		}
	}
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) | Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		who := "human"
		if move.Computer {
			who = "cpu"
		}
		result += fmt.Sprintf("%d. P%d (%s) (%d,%d)→(%d,%d) value %+d weight %d [score %d, load %d]\n",
			move.MoveNumber, move.PlayerID, who,
			move.FromPosition.Row, move.FromPosition.Col,
			move.ToPosition.Row, move.ToPosition.Col,
			move.TileValue, move.TileWeight, move.Score, move.CurrentWeight)
	}

	return result
}
