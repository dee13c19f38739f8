package engine

import "fmt"

// FinishTurn completes the current player's turn after an accepted move or a
// forced pass. The mover becomes inactive when nothing is reachable from its
// square, then either the game ends or the turn passes to the next active
// player. A player receiving the turn with no legal move is retired on the
// spot and the turn moves on.
func (gs *GameState) FinishTurn(config *GameConfig) {
	if gs.GameOver {
		return
	}

	mover := &gs.Players[gs.CurrentPlayer]
	if mover.IsActive && gs.RemainingMoves(mover, mover.Row, mover.Col) == 0 {
		mover.IsActive = false
		gs.Message = fmt.Sprintf(config.Messages.NoMoves, mover.Name)
	}

	for {
		gs.Players[gs.CurrentPlayer].IsCurrentPlayer = false

		if IsGameOver(gs.Players) {
			gs.GameOver = true
			gs.ResolveWinners(config)
			return
		}

		gs.advance()
		next := &gs.Players[gs.CurrentPlayer]
		next.IsCurrentPlayer = true
		if gs.RemainingMoves(next, next.Row, next.Col) > 0 {
			return
		}
		next.IsActive = false
		gs.Message = fmt.Sprintf(config.Messages.NoMoves, next.Name)
	}
}

// Pass retires the current player without moving, used when it has no legal
// move, and finishes the turn.
func (gs *GameState) Pass(config *GameConfig) {
	if gs.GameOver {
		return
	}
	current := &gs.Players[gs.CurrentPlayer]
	current.IsActive = false
	gs.Message = fmt.Sprintf(config.Messages.NoMoves, current.Name)
	gs.FinishTurn(config)
}

// advance moves CurrentPlayer cyclically to the next active player. At least
// one player must be active.
func (gs *GameState) advance() {
	n := len(gs.Players)
	for i := 1; i <= n; i++ {
		idx := (gs.CurrentPlayer + i) % n
		if gs.Players[idx].IsActive {
			gs.CurrentPlayer = idx
			return
		}
	}
}

// IsGameOver reports whether no player is active
func IsGameOver(players []Player) bool {
	for _, p := range players {
		if p.IsActive {
			return false
		}
	}
	return true
}

// ResolveWinners flags every player with the top score and, among those, the
// lowest carried weight. More than one winner is a tie.
func (gs *GameState) ResolveWinners(config *GameConfig) {
	if len(gs.Players) == 0 {
		return
	}

	maxScore := gs.Players[0].Score
	for _, p := range gs.Players[1:] {
		if p.Score > maxScore {
			maxScore = p.Score
		}
	}

	minWeight := -1
	for _, p := range gs.Players {
		if p.Score == maxScore && (minWeight < 0 || p.CurrentWeight < minWeight) {
			minWeight = p.CurrentWeight
		}
	}

	winners := 0
	var winner *Player
	for i := range gs.Players {
		p := &gs.Players[i]
		p.IsWinner = p.Score == maxScore && p.CurrentWeight == minWeight
		if p.IsWinner {
			winners++
			winner = p
		}
	}

	gs.Tie = winners > 1
	if gs.Tie {
		gs.Message = fmt.Sprintf(config.Messages.Tie, maxScore)
	} else {
		gs.Message = fmt.Sprintf(config.Messages.Winner, winner.Name, maxScore)
	}
}

// Winners returns the players flagged as winners
func (gs *GameState) Winners() []Player {
	var out []Player
	for _, p := range gs.Players {
		if p.IsWinner {
			out = append(out, p)
		}
	}
	return out
}
