package engine

// ChebyshevDistance returns the king-move distance between two positions
func ChebyshevDistance(from, to Position) int {
	dr := abs(from.Row - to.Row)
	dc := abs(from.Col - to.Col)
	if dr > dc {
		return dr
	}
	return dc
}

// ClaimedWeight sums the weights of the tiles claimed by the player
func ClaimedWeight(board *Board, playerID int) int {
	total := 0
	for _, row := range board.Tiles {
		for _, tile := range row {
			if tile.ClaimedBy == playerID {
				total += tile.Weight
			}
		}
	}
	return total
}

// ClaimedValue sums the values of the tiles claimed by the player
func ClaimedValue(board *Board, playerID int) int {
	total := 0
	for _, row := range board.Tiles {
		for _, tile := range row {
			if tile.ClaimedBy == playerID {
				total += tile.Value
			}
		}
	}
	return total
}

// Snapshot returns a deep copy of the state
func (gs *GameState) Snapshot() *GameState {
	cp := *gs

	cp.Board.Tiles = make([][]Tile, len(gs.Board.Tiles))
	for i, row := range gs.Board.Tiles {
		cp.Board.Tiles[i] = append([]Tile(nil), row...)
	}
	cp.Players = append([]Player(nil), gs.Players...)
	cp.MoveHistory = append([]MoveHistoryEntry{}, gs.MoveHistory...)
	cp.CurrentMoves = append([]MoveHistoryEntry{}, gs.CurrentMoves...)

	return &cp
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
