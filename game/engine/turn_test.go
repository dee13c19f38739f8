package engine

import (
	"math/rand"
	"testing"
)

var corners = []Position{{0, 0}, {0, 7}, {7, 0}, {7, 7}}

// lastRound leaves each player exactly one reachable corner tile with the
// given value/weight, and nothing beyond it.
func lastRound(gs *GameState, tiles [4][2]int) {
	claimAllExcept(gs, corners...)
	for i, p := range corners {
		setTile(gs, p.Row, p.Col, tiles[i][0], tiles[i][1])
	}
}

func TestFinishTurn_AllPlayersFinishSameCycle(t *testing.T) {
	engine := createTestEngine(t, 30)
	state := engine.GetState()
	lastRound(state, [4][2]int{{8, 2}, {6, 1}, {4, 1}, {2, 1}})

	for i, p := range corners {
		id := i + 1
		if engine.IsGameOver() {
			t.Fatalf("Game ended before player %d moved", id)
		}
		if engine.CurrentPlayer().ID != id {
			t.Fatalf("Expected player %d to be current, got %d", id, engine.CurrentPlayer().ID)
		}
		if !engine.Move(id, p.Row, p.Col) {
			t.Fatalf("Expected player %d move to %+v to be accepted", id, p)
		}
		if state.Player(id).IsActive {
			t.Errorf("Player %d should be inactive after its final move", id)
		}
	}

	if !engine.IsGameOver() {
		t.Fatal("Expected game over")
	}
	if engine.IsTie() {
		t.Error("Expected no tie")
	}
	winners := engine.Winners()
	if len(winners) != 1 || winners[0].ID != 1 {
		t.Fatalf("Expected player 1 as sole winner, got %+v", winners)
	}
	for _, p := range state.Players {
		if p.IsCurrentPlayer {
			t.Errorf("Player %d still flagged current after game over", p.ID)
		}
	}
	if state.Message != "Player 1 wins with 8 points!" {
		t.Errorf("Unexpected message %q", state.Message)
	}
}

func TestFinishTurn_TieOnScoreAndWeight(t *testing.T) {
	engine := createTestEngine(t, 31)
	state := engine.GetState()
	lastRound(state, [4][2]int{{8, 2}, {8, 2}, {4, 1}, {2, 1}})

	for i, p := range corners {
		engine.Move(i+1, p.Row, p.Col)
	}

	if !engine.IsGameOver() || !engine.IsTie() {
		t.Fatalf("Expected a tied game over, got over=%v tie=%v", engine.IsGameOver(), engine.IsTie())
	}
	winners := engine.Winners()
	if len(winners) != 2 || winners[0].ID != 1 || winners[1].ID != 2 {
		t.Errorf("Expected players 1 and 2 to win, got %+v", winners)
	}
	if state.Message != "It's a tie at 8 points!" {
		t.Errorf("Unexpected message %q", state.Message)
	}
}

func TestFinishTurn_LighterLoadBreaksScoreTie(t *testing.T) {
	engine := createTestEngine(t, 32)
	state := engine.GetState()
	lastRound(state, [4][2]int{{8, 3}, {8, 2}, {4, 1}, {2, 1}})

	for i, p := range corners {
		engine.Move(i+1, p.Row, p.Col)
	}

	winners := engine.Winners()
	if engine.IsTie() || len(winners) != 1 || winners[0].ID != 2 {
		t.Errorf("Expected player 2 to win on weight, got %+v", winners)
	}
}

func TestFinishTurn_SkipsInactivePlayers(t *testing.T) {
	engine := createTestEngine(t, 33)
	state := engine.GetState()
	state.Players[1].IsActive = false

	if !engine.Move(1, 0, 0) {
		t.Fatal("Expected move to be accepted")
	}
	if engine.CurrentPlayer().ID != 3 {
		t.Errorf("Expected turn to skip player 2, got %d", engine.CurrentPlayer().ID)
	}
}

func TestFinishTurn_RetiresStuckPlayers(t *testing.T) {
	engine := createTestEngine(t, 34)
	state := engine.GetState()
	// players 2 and 3 are walled in; player 4 still has (7,7)
	claimAllExcept(state, Position{0, 0}, Position{7, 7})

	if !engine.Move(1, 0, 0) {
		t.Fatal("Expected move to be accepted")
	}

	for _, id := range []int{1, 2, 3} {
		if state.Player(id).IsActive {
			t.Errorf("Expected player %d to be inactive", id)
		}
	}
	if engine.CurrentPlayer() == nil || engine.CurrentPlayer().ID != 4 {
		t.Fatalf("Expected player 4 to be current, got %+v", engine.CurrentPlayer())
	}
	if state.Player(2).IsCurrentPlayer || state.Player(3).IsCurrentPlayer {
		t.Error("Retired players still flagged current")
	}

	if !engine.Move(4, 7, 7) {
		t.Fatal("Expected player 4 move to be accepted")
	}
	if !engine.IsGameOver() {
		t.Error("Expected game over")
	}
}

func TestFinishTurn_SameMoverKeepsPlaying(t *testing.T) {
	engine := createTestEngine(t, 35)
	state := engine.GetState()
	for i := 1; i < len(state.Players); i++ {
		state.Players[i].IsActive = false
	}

	if !engine.Move(1, 0, 0) {
		t.Fatal("Expected move to be accepted")
	}
	if engine.CurrentPlayer() == nil || engine.CurrentPlayer().ID != 1 {
		t.Error("Expected the only active player to keep the turn")
	}
}

func TestIsGameOver(t *testing.T) {
	tests := []struct {
		name    string
		players []Player
		want    bool
	}{
		{"all active", []Player{{IsActive: true}, {IsActive: true}}, false},
		{"one active", []Player{{IsActive: false}, {IsActive: true}}, false},
		{"none active", []Player{{}, {}}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGameOver(tt.players); got != tt.want {
				t.Errorf("IsGameOver = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveWinners(t *testing.T) {
	config := DefaultConfig()
	tests := []struct {
		name    string
		players []Player
		winners []int
		tie     bool
	}{
		{
			name:    "unique top score",
			players: []Player{{ID: 1, Score: 10, CurrentWeight: 20}, {ID: 2, Score: 12, CurrentWeight: 24}},
			winners: []int{2},
		},
		{
			name:    "weight breaks score tie",
			players: []Player{{ID: 1, Score: 12, CurrentWeight: 20}, {ID: 2, Score: 12, CurrentWeight: 18}, {ID: 3, Score: 1, CurrentWeight: 1}},
			winners: []int{2},
		},
		{
			name:    "declared tie",
			players: []Player{{ID: 1, Score: 12, CurrentWeight: 18}, {ID: 2, Score: 12, CurrentWeight: 18}, {ID: 3, Score: 12, CurrentWeight: 19}},
			winners: []int{1, 2},
			tie:     true,
		},
		{
			name:    "all negative",
			players: []Player{{ID: 1, Score: -6, CurrentWeight: 4}, {ID: 2, Score: -2, CurrentWeight: 9}},
			winners: []int{2},
		},
		{
			name:    "nobody moved",
			players: []Player{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
			winners: []int{1, 2, 3, 4},
			tie:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := &GameState{Players: tt.players}
			gs.ResolveWinners(config)

			var got []int
			for _, p := range gs.Winners() {
				got = append(got, p.ID)
			}
			if len(got) != len(tt.winners) {
				t.Fatalf("winners = %v, want %v", got, tt.winners)
			}
			for i := range got {
				if got[i] != tt.winners[i] {
					t.Errorf("winners = %v, want %v", got, tt.winners)
				}
			}
			if gs.Tie != tt.tie {
				t.Errorf("tie = %v, want %v", gs.Tie, tt.tie)
			}
		})
	}
}

func TestPlayout_Invariants(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		engine := createTestEngine(t, seed)
		state := engine.GetState()
		rng := rand.New(rand.NewSource(seed))
		claimed := map[Position]bool{}
		seen := 0

		// Mix the greedy selector with random legal moves
		for turns := 0; !engine.IsGameOver(); turns++ {
			if turns > 1000 {
				t.Fatalf("seed %d: game did not terminate", seed)
			}
			current := engine.CurrentPlayer()
			moves := engine.GetLegalMoves(current.ID)
			if len(moves) == 0 || rng.Intn(2) == 0 {
				engine.PlayCPUTurn()
			} else {
				m := moves[rng.Intn(len(moves))]
				if !engine.Move(current.ID, m.Row, m.Col) {
					t.Fatalf("seed %d: legal move %+v rejected", seed, m)
				}
			}

			for p := range claimed {
				if !state.Board.Tiles[p.Row][p.Col].Visited {
					t.Fatalf("seed %d: tile %+v lost its visited flag", seed, p)
				}
			}
			if state.TotalMoves > seen {
				last := engine.GetLastMove()
				if claimed[last.ToPosition] {
					t.Fatalf("seed %d: tile %+v claimed twice", seed, last.ToPosition)
				}
				claimed[last.ToPosition] = true
				seen = state.TotalMoves
			}
		}

		if len(claimed) != state.TotalMoves {
			t.Errorf("seed %d: %d distinct tiles for %d moves", seed, len(claimed), state.TotalMoves)
		}
		for _, p := range state.Players {
			if p.CurrentWeight > p.Capacity {
				t.Errorf("seed %d: player %d over capacity: %d", seed, p.ID, p.CurrentWeight)
			}
			if w := ClaimedWeight(&state.Board, p.ID); w != p.CurrentWeight {
				t.Errorf("seed %d: player %d weight %d, claimed tiles weigh %d", seed, p.ID, p.CurrentWeight, w)
			}
			if v := ClaimedValue(&state.Board, p.ID); v != p.Score {
				t.Errorf("seed %d: player %d score %d, claimed tiles are worth %d", seed, p.ID, p.Score, v)
			}
			if p.IsActive || p.IsCurrentPlayer {
				t.Errorf("seed %d: player %d still active/current after game over", seed, p.ID)
			}
		}
		if engine.IsTie() != (len(engine.Winners()) > 1) {
			t.Errorf("seed %d: tie flag disagrees with winner count", seed)
		}
	}
}
