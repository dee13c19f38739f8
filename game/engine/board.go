package engine

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wricardo/tiletreasure/internal/telemetry"
)

// king-move offsets in enumeration order: NW, N, NE, W, E, SW, S, SE
var (
	directionRows = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	directionCols = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
)

// NewRand returns a time-seeded source, used when no source is injected
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ExpandPool replicates every value of the pool Copies times, in order
func ExpandPool(pool PoolSpec) []int {
	out := make([]int, 0, pool.Size())
	for _, v := range pool.Values {
		for i := 0; i < pool.Copies; i++ {
			out = append(out, v)
		}
	}
	return out
}

// GenerateBoard builds a fresh board. Both pools are shuffled independently and
// handed out in row-major order, skipping blocked cells, which start visited.
// The config must already be valid.
func GenerateBoard(ctx context.Context, config *GameConfig, rng *rand.Rand) *Board {
	tracer := telemetry.Tracer("engine")
	_, span := tracer.Start(ctx, "board.generate")
	defer span.End()

	if rng == nil {
		rng = NewRand()
	}

	values := ExpandPool(config.ValuePool)
	weights := ExpandPool(config.WeightPool)
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	rng.Shuffle(len(weights), func(i, j int) { weights[i], weights[j] = weights[j], weights[i] })

	blocked := make(map[Position]bool, len(config.BlockedCells))
	for _, cell := range config.BlockedCells {
		blocked[cell] = true
	}

	size := config.BoardSize
	tiles := make([][]Tile, size)
	next := 0
	for row := 0; row < size; row++ {
		tiles[row] = make([]Tile, size)
		for col := 0; col < size; col++ {
			tile := Tile{Row: row, Col: col}
			if blocked[Position{Row: row, Col: col}] {
				tile.Blocked = true
				tile.Visited = true
			} else {
				tile.Value = values[next]
				tile.Weight = weights[next]
				next++
			}
			tiles[row][col] = tile
		}
	}

	span.SetAttributes(
		attribute.Int("board.size", size),
		attribute.Int("board.playable", next),
		attribute.Int("board.blocked", len(blocked)),
	)

	return &Board{Size: size, Tiles: tiles}
}

// InBounds reports whether row,col lies on the board
func (b *Board) InBounds(row, col int) bool {
	return inBounds(b.Size, row, col)
}

// Tile returns the tile at row,col, or nil when off the board
func (b *Board) Tile(row, col int) *Tile {
	if !b.InBounds(row, col) {
		return nil
	}
	return &b.Tiles[row][col]
}

// Neighbors returns the on-board king-move neighbours of row,col in
// enumeration order.
func (b *Board) Neighbors(row, col int) []Position {
	out := make([]Position, 0, 8)
	for i := 0; i < 8; i++ {
		r, c := row+directionRows[i], col+directionCols[i]
		if b.InBounds(r, c) {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}

// UnvisitedCount returns how many tiles can still be claimed
func (b *Board) UnvisitedCount() int {
	count := 0
	for _, row := range b.Tiles {
		for _, tile := range row {
			if !tile.Visited {
				count++
			}
		}
	}
	return count
}

func inBounds(size, row, col int) bool {
	return row >= 0 && row < size && col >= 0 && col < size
}
