// Package spatial provides the broad phase for robot collision and
// bullet hit detection on the battlefield.
//
// The grid stores robot indices (not pointers) in preallocated cells so a
// turn can rebuild it without allocating.
package spatial

import (
	"math"
)

// Grid buckets robots into fixed-size cells. A cell size of at least twice
// the robot size keeps every overlap query within the 3x3 neighborhood.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	cols, rows  int
	cells       [][]uint32
	scratch     []uint32 // reusable buffer for query results
}

// NewGrid creates a grid covering a width x height battlefield.
// capacity is used to preallocate cell storage.
func NewGrid(width, height, cellSize float64, capacity int) *Grid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	cells := make([][]uint32, cols*rows)
	perCell := max(capacity/len(cells), 4)
	for i := range cells {
		cells[i] = make([]uint32, 0, perCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 16),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds robot id at (x, y). Positions outside the field are clamped
// to the border cells.
func (g *Grid) Insert(id uint32, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], id)
}

func (g *Grid) clampCol(col int) int { return min(max(col, 0), g.cols-1) }
func (g *Grid) clampRow(row int) int { return min(max(row, 0), g.rows-1) }

func (g *Grid) cellIndex(x, y float64) int {
	col := g.clampCol(int(x * g.invCellSize))
	row := g.clampRow(int(y * g.invCellSize))
	return row*g.cols + col
}

// QueryRect returns the robots in every cell touching the rectangle
// [minX, maxX] x [minY, maxY].
//
// IMPORTANT: The returned slice is reused on subsequent calls.
//
// Candidates may lie outside the rectangle; the caller does the precise
// check (narrow phase).
func (g *Grid) QueryRect(minX, minY, maxX, maxY float64) []uint32 {
	g.scratch = g.scratch[:0]

	minCol := g.clampCol(int(minX * g.invCellSize))
	maxCol := g.clampCol(int(maxX * g.invCellSize))
	minRow := g.clampRow(int(minY * g.invCellSize))
	maxRow := g.clampRow(int(maxY * g.invCellSize))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}

// QueryRadius returns the robots potentially within radius of (cx, cy).
// The same reuse rule as QueryRect applies.
func (g *Grid) QueryRadius(cx, cy, radius float64) []uint32 {
	return g.QueryRect(cx-radius, cy-radius, cx+radius, cy+radius)
}

// Stats returns grid statistics for debugging.
func (g *Grid) Stats() GridStats {
	var total, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		n := len(cell)
		total += n
		maxInCell = max(maxInCell, n)
		if n > 0 {
			nonEmpty++
		}
	}
	return GridStats{
		TotalCells:    len(g.cells),
		NonEmptyCells: nonEmpty,
		TotalEntities: total,
		MaxInCell:     maxInCell,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells    int
	NonEmptyCells int
	TotalEntities int
	MaxInCell     int
}

// Dimensions returns the grid dimensions.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
