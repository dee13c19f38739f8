package engine

import (
	"reflect"
	"testing"
)

func TestCheckMove(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(gs *GameState)
		playerID int
		row, col int
		want     MoveRejection
	}{
		{"legal diagonal", nil, 1, 0, 0, MoveOK},
		{"legal orthogonal", nil, 1, 1, 2, MoveOK},
		{"unknown player", nil, 9, 0, 0, RejectUnknown},
		{"not current", nil, 2, 0, 6, RejectNotCurrent},
		{"inactive", func(gs *GameState) { gs.Players[0].IsActive = false }, 1, 0, 0, RejectInactive},
		{"game over", func(gs *GameState) { gs.GameOver = true }, 1, 0, 0, RejectGameOver},
		{"off board negative", nil, 1, -1, 0, RejectOffBoard},
		{"off board positive", nil, 1, 8, 8, RejectOffBoard},
		{"visited", func(gs *GameState) { gs.Board.Tiles[0][0].Visited = true }, 1, 0, 0, RejectVisited},
		{"too far", nil, 1, 3, 3, RejectNotAdjacent},
		{"knight jump", nil, 1, 3, 2, RejectNotAdjacent},
		{"blocked cell", nil, 1, 1, 6, RejectVisited},
		{"over capacity", func(gs *GameState) {
			gs.Players[0].CurrentWeight = 23
			setTile(gs, 0, 0, 4, 4)
		}, 1, 0, 0, RejectOverCapacity},
		{"exactly at capacity", func(gs *GameState) {
			gs.Players[0].CurrentWeight = 20
			setTile(gs, 0, 0, 4, 4)
		}, 1, 0, 0, MoveOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := createTestEngine(t, 2)
			state := engine.GetState()
			if tt.setup != nil {
				tt.setup(state)
			}
			if got := state.CheckMove(tt.playerID, tt.row, tt.col); got != tt.want {
				t.Errorf("CheckMove = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttemptMove_OverCapacityScenario(t *testing.T) {
	engine := createTestEngine(t, 4)
	state := engine.GetState()
	state.Players[0].CurrentWeight = 23
	setTile(state, 0, 0, 8, 4)

	before := state.Snapshot()
	if state.AttemptMove(1, 0, 0) {
		t.Fatal("Expected over-capacity move to be rejected")
	}
	if !reflect.DeepEqual(before, state.Snapshot()) {
		t.Error("Rejected move changed the state")
	}
}

func TestAttemptMove_Adjacency(t *testing.T) {
	// Every square of the board as origin, every square (and a ring off the
	// board) as destination: only Chebyshev distance 1 may be accepted.
	for r0 := 0; r0 < 8; r0++ {
		for c0 := 0; c0 < 8; c0++ {
			engine := createTestEngine(t, 6)
			state := engine.GetState()
			state.Players[0].Row, state.Players[0].Col = r0, c0

			for r := -2; r < 10; r++ {
				for c := -2; c < 10; c++ {
					dist := ChebyshevDistance(Position{r0, c0}, Position{r, c})
					if dist == 1 {
						continue
					}
					before := state.Snapshot()
					if state.AttemptMove(1, r, c) {
						t.Fatalf("Accepted move from (%d,%d) to (%d,%d), distance %d", r0, c0, r, c, dist)
					}
					if !reflect.DeepEqual(before, state.Snapshot()) {
						t.Fatalf("Rejected move from (%d,%d) to (%d,%d) changed state", r0, c0, r, c)
					}
				}
			}
		}
	}
}

func TestAttemptMove_RejectionIsIdempotent(t *testing.T) {
	engine := createTestEngine(t, 8)
	state := engine.GetState()
	state.Board.Tiles[0][0].Visited = true

	invalid := []struct{ player, row, col int }{
		{1, 0, 0},   // visited
		{1, 5, 5},   // not adjacent
		{2, 0, 6},   // not current
		{1, -3, 40}, // off board
		{42, 0, 1},  // unknown
	}

	before := state.Snapshot()
	for i := 0; i < 5; i++ {
		for _, m := range invalid {
			if engine.Move(m.player, m.row, m.col) {
				t.Fatalf("Expected move %+v to be rejected", m)
			}
		}
	}
	if !reflect.DeepEqual(before, state.Snapshot()) {
		t.Error("Repeated rejected moves changed the state")
	}
}

func TestAttemptMove_AppliesEffects(t *testing.T) {
	engine := createTestEngine(t, 10)
	state := engine.GetState()
	setTile(state, 2, 2, -4, 3)

	if !state.AttemptMove(1, 2, 2) {
		t.Fatal("Expected move to be accepted")
	}
	p1 := state.Player(1)
	if p1.Score != -4 || p1.CurrentWeight != 3 {
		t.Errorf("Expected score -4 weight 3, got %d/%d", p1.Score, p1.CurrentWeight)
	}
	// AttemptMove alone does not finish the turn
	if !p1.IsCurrentPlayer {
		t.Error("AttemptMove should not advance the turn")
	}
}

func TestRemainingMoves(t *testing.T) {
	engine := createTestEngine(t, 12)
	state := engine.GetState()
	p1 := state.Player(1)

	if got := state.RemainingMoves(p1, 1, 1); got != 8 {
		t.Errorf("Expected 8 moves around (1,1), got %d", got)
	}
	if got := state.RemainingMoves(p1, 0, 0); got != 2 {
		// (0,1) and (1,0); (1,1) is blocked
		t.Errorf("Expected 2 moves around (0,0), got %d", got)
	}

	state.Board.Tiles[0][1].Visited = true
	if got := state.RemainingMoves(p1, 0, 0); got != 1 {
		t.Errorf("Expected 1 move after claiming (0,1), got %d", got)
	}

	setTile(state, 1, 0, 2, 4)
	p1.CurrentWeight = 21
	if got := state.RemainingMoves(p1, 0, 0); got != 0 {
		t.Errorf("Expected capacity to rule out (1,0), got %d", got)
	}
}

func TestLegalMoves_Order(t *testing.T) {
	engine := createTestEngine(t, 13)
	state := engine.GetState()

	got := state.LegalMoves(1)
	want := []Position{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LegalMoves = %v, want %v", got, want)
	}

	if moves := state.LegalMoves(99); moves != nil {
		t.Errorf("Expected nil for unknown player, got %v", moves)
	}
}
