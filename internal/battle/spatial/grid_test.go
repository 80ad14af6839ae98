package spatial

import (
	"slices"
	"testing"
)

func TestGridDimensions(t *testing.T) {
	tests := []struct {
		name       string
		w, h, cell float64
		cols, rows int
	}{
		{"default field", 800, 600, 100, 8, 6},
		{"uneven", 1000, 1000, 72, 14, 14},
		{"tiny", 10, 10, 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, _ := NewGrid(tt.w, tt.h, tt.cell, 10).Dimensions()
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("got %dx%d, want %dx%d", cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestGridQueryRect(t *testing.T) {
	g := NewGrid(800, 600, 100, 10)
	g.Insert(0, 50, 50)
	g.Insert(1, 150, 50)
	g.Insert(2, 750, 550)
	g.Insert(3, -20, 900) // clamped into the bottom-left corner cell

	got := slices.Clone(g.QueryRect(20, 20, 120, 80))
	slices.Sort(got)
	if !slices.Equal(got, []uint32{0, 1}) {
		t.Errorf("QueryRect = %v, want [0 1]", got)
	}

	got = slices.Clone(g.QueryRadius(780, 580, 10))
	if !slices.Equal(got, []uint32{2}) {
		t.Errorf("QueryRadius = %v, want [2]", got)
	}

	if s := g.Stats(); s.TotalEntities != 4 {
		t.Errorf("TotalEntities = %d, want 4", s.TotalEntities)
	}

	g.Clear()
	if s := g.Stats(); s.TotalEntities != 0 || s.NonEmptyCells != 0 {
		t.Errorf("after Clear: %+v", s)
	}
}
