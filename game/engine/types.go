package engine

// MoveRejection names the reason a move was refused. The empty value means
// the move is legal.
type MoveRejection string

const (
	MoveOK             MoveRejection = ""
	RejectUnknown      MoveRejection = "unknown_player"
	RejectGameOver     MoveRejection = "game_over"
	RejectInactive     MoveRejection = "inactive"
	RejectNotCurrent   MoveRejection = "not_current"
	RejectOffBoard     MoveRejection = "off_board"
	RejectVisited      MoveRejection = "visited"
	RejectNotAdjacent  MoveRejection = "not_adjacent"
	RejectOverCapacity MoveRejection = "over_capacity"
)

const (
	// Validation constants
	MinBoardSize   = 3
	MaxBoardSize   = 26
	MinCapacity    = 1
	MaxCapacity    = 1000
	MinPlayers     = 1
	MaxPlayers     = 4
	MaxHistoryPage = 100

	// CPU selector sentinels, below/above any real tile value/weight.
	cpuValueSentinel  = -10
	cpuWeightSentinel = 5
)

// Position represents row,col grid coordinates
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Tile is a single board square
type Tile struct {
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	Value   int  `json:"value"`
	Weight  int  `json:"weight"`
	Visited bool `json:"visited"`
	Blocked bool `json:"blocked,omitempty"`

	// Color and ClaimedBy describe the occupant for display; the rules never read them.
	Color     string `json:"color,omitempty"`
	ClaimedBy int    `json:"claimed_by,omitempty"`
}

// Board is the square grid of tiles, indexed [row][col]
type Board struct {
	Size  int      `json:"size"`
	Tiles [][]Tile `json:"tiles"`
}

// Player is a piece on the board together with its running totals
type Player struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Color           string `json:"color"`
	Row             int    `json:"row"`
	Col             int    `json:"col"`
	Capacity        int    `json:"capacity"`
	CurrentWeight   int    `json:"current_weight"`
	Score           int    `json:"score"`
	IsComputer      bool   `json:"is_computer"`
	IsActive        bool   `json:"is_active"`
	IsCurrentPlayer bool   `json:"is_current_player"`
	IsWinner        bool   `json:"is_winner"`
}

// Position returns the square the player occupies
func (p *Player) Position() Position {
	return Position{Row: p.Row, Col: p.Col}
}

// PoolSpec describes a multiset: each value replicated Copies times
type PoolSpec struct {
	Values []int `json:"values" yaml:"values"`
	Copies int   `json:"copies" yaml:"copies"`
}

// Size returns the number of elements in the expanded pool
func (p PoolSpec) Size() int {
	return len(p.Values) * p.Copies
}

// PlayerConfig describes one seat at the table
type PlayerConfig struct {
	Name     string   `json:"name" yaml:"name"`
	Color    string   `json:"color" yaml:"color"`
	Start    Position `json:"start" yaml:"start"`
	Computer bool     `json:"computer" yaml:"computer"`
}

// Messages holds the player-facing texts. Empty fields fall back to defaults.
type Messages struct {
	Welcome  string `json:"welcome" yaml:"welcome"`
	Winner   string `json:"winner" yaml:"winner"`
	Tie      string `json:"tie" yaml:"tie"`
	NoMoves  string `json:"no_moves" yaml:"no_moves"`
	Rejected string `json:"rejected" yaml:"rejected"`
}

// GameConfig represents the rule set of a game
type GameConfig struct {
	Name            string         `json:"name" yaml:"name"`
	Description     string         `json:"description" yaml:"description"`
	BoardSize       int            `json:"board_size" yaml:"board_size"`
	MaxCapacity     int            `json:"max_capacity" yaml:"max_capacity"`
	ValuePool       PoolSpec       `json:"value_pool" yaml:"value_pool"`
	WeightPool      PoolSpec       `json:"weight_pool" yaml:"weight_pool"`
	BlockedCells    []Position     `json:"blocked_cells" yaml:"blocked_cells"`
	Players         []PlayerConfig `json:"players" yaml:"players"`
	CPUThinkDelayMs int            `json:"cpu_think_delay_ms" yaml:"cpu_think_delay_ms"`
	Messages        Messages       `json:"messages" yaml:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Board         Board              `json:"board"`
	Players       []Player           `json:"players"`
	CurrentPlayer int                `json:"current_player"` // index into Players
	GameOver      bool               `json:"game_over"`
	Tie           bool               `json:"tie"`
	Message       string             `json:"message"`
	ConfigName    string             `json:"config_name"`
	MoveHistory   []MoveHistoryEntry `json:"move_history"`
	TotalMoves    int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last new game. MoveHistory
	// stays cumulative across resets.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single accepted move
type MoveHistoryEntry struct {
	PlayerID      int      `json:"player_id"`
	FromPosition  Position `json:"from_position"`
	ToPosition    Position `json:"to_position"`
	TileValue     int      `json:"tile_value"`
	TileWeight    int      `json:"tile_weight"`
	Score         int      `json:"score"`
	CurrentWeight int      `json:"current_weight"`
	Computer      bool     `json:"computer"`
	Timestamp     int64    `json:"timestamp"`
	MoveNumber    int      `json:"move_number"`
}
