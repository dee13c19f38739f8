package engine

// SelectMove picks a destination for the player with the greedy heuristic.
//
// The first pass tracks a (maxValue, minWeight) pair: a candidate at least as
// valuable and no heavier replaces both, and a strictly more valuable one
// replaces both regardless of weight. The second pass returns the first legal
// move matching the pair. ok is false when the player has no legal move.
func SelectMove(gs *GameState, playerID int) (Position, bool) {
	moves := gs.LegalMoves(playerID)
	if len(moves) == 0 {
		return Position{}, false
	}

	maxValue := cpuValueSentinel
	minWeight := cpuWeightSentinel
	for _, m := range moves {
		tile := gs.Board.Tiles[m.Row][m.Col]
		if tile.Value >= maxValue && tile.Weight <= minWeight {
			maxValue = tile.Value
			minWeight = tile.Weight
		} else if tile.Value > maxValue {
			maxValue = tile.Value
			minWeight = tile.Weight
		}
	}

	for _, m := range moves {
		tile := gs.Board.Tiles[m.Row][m.Col]
		if tile.Value == maxValue && tile.Weight == minWeight {
			return m, true
		}
	}

	// the sentinels only bracket pools within [-10,5]; custom pools may never match
	return moves[0], true
}
