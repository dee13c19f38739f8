package engine

import (
	"time"
)

// PlayerIndex returns the slice index of the player with the given ID, or -1
func (gs *GameState) PlayerIndex(playerID int) int {
	for i := range gs.Players {
		if gs.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// Player returns the player with the given ID, or nil
func (gs *GameState) Player(playerID int) *Player {
	idx := gs.PlayerIndex(playerID)
	if idx < 0 {
		return nil
	}
	return &gs.Players[idx]
}

// Current returns the player holding the turn, or nil once the game is over
func (gs *GameState) Current() *Player {
	if gs.GameOver || gs.CurrentPlayer < 0 || gs.CurrentPlayer >= len(gs.Players) {
		return nil
	}
	return &gs.Players[gs.CurrentPlayer]
}

// CheckMove reports why the player may not move to row,col, or MoveOK.
// Coordinates are bounds-checked before the grid is touched.
func (gs *GameState) CheckMove(playerID, row, col int) MoveRejection {
	piece := gs.Player(playerID)
	if piece == nil {
		return RejectUnknown
	}
	if gs.GameOver {
		return RejectGameOver
	}
	if !piece.IsActive {
		return RejectInactive
	}
	if !piece.IsCurrentPlayer {
		return RejectNotCurrent
	}
	dest := gs.Board.Tile(row, col)
	if dest == nil {
		return RejectOffBoard
	}
	if dest.Visited {
		return RejectVisited
	}
	if ChebyshevDistance(piece.Position(), Position{Row: row, Col: col}) != 1 {
		return RejectNotAdjacent
	}
	if piece.CurrentWeight+dest.Weight > piece.Capacity {
		return RejectOverCapacity
	}
	return MoveOK
}

// AttemptMove claims row,col for the player when every precondition holds.
// A rejected move leaves the state untouched and does not consume the turn.
func (gs *GameState) AttemptMove(playerID, row, col int) bool {
	if gs.CheckMove(playerID, row, col) != MoveOK {
		return false
	}

	piece := gs.Player(playerID)
	dest := &gs.Board.Tiles[row][col]

	dest.Visited = true
	dest.Color = piece.Color
	dest.ClaimedBy = piece.ID
	piece.CurrentWeight += dest.Weight
	piece.Score += dest.Value
	piece.Row = row
	piece.Col = col

	return true
}

// RemainingMoves counts the king-move neighbours of row,col that are
// unvisited and would keep the player within capacity.
func (gs *GameState) RemainingMoves(piece *Player, row, col int) int {
	return len(gs.legalFrom(piece, row, col))
}

// LegalMoves lists the destinations open to the player from its current
// square, in NW, N, NE, W, E, SW, S, SE order. Turn ownership is not checked.
func (gs *GameState) LegalMoves(playerID int) []Position {
	piece := gs.Player(playerID)
	if piece == nil || !piece.IsActive {
		return nil
	}
	return gs.legalFrom(piece, piece.Row, piece.Col)
}

func (gs *GameState) legalFrom(piece *Player, row, col int) []Position {
	var moves []Position
	for _, pos := range gs.Board.Neighbors(row, col) {
		tile := &gs.Board.Tiles[pos.Row][pos.Col]
		if tile.Visited {
			continue
		}
		if piece.CurrentWeight+tile.Weight > piece.Capacity {
			continue
		}
		moves = append(moves, pos)
	}
	return moves
}

// AddMoveToHistory records an accepted move
func (gs *GameState) AddMoveToHistory(piece *Player, from Position) {
	tile := gs.Board.Tiles[piece.Row][piece.Col]
	entry := MoveHistoryEntry{
		PlayerID:      piece.ID,
		FromPosition:  from,
		ToPosition:    piece.Position(),
		TileValue:     tile.Value,
		TileWeight:    tile.Weight,
		Score:         piece.Score,
		CurrentWeight: piece.CurrentWeight,
		Computer:      piece.IsComputer,
		Timestamp:     time.Now().Unix(),
		MoveNumber:    gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
