package main

import (
	"math"

	"github.com/lixenwraith/harmonylink/projection"
	"github.com/lixenwraith/harmonylink/vmath"
)

// viewport maps terminal cells to projection units
// A cell is twice as tall as it is wide, so each row spans two vertical units
type viewport struct {
	cols, rows int
}

// size returns the projection width and height
func (v viewport) size() (int, int) {
	return v.cols, v.rows * 2
}

// ndc returns the normalized device coordinate of a cell center, +Y up
func (v viewport) ndc(x, y int) vmath.Vec2 {
	if v.cols <= 0 || v.rows <= 0 {
		return vmath.Vec2{}
	}
	return vmath.Vec2{
		X: (float64(x)+0.5)/float64(v.cols)*2 - 1,
		Y: -((float64(y)+0.5)/float64(v.rows)*2 - 1),
	}
}

// cell returns the terminal cell of a projected offset from the viewport center
func (v viewport) cell(p projection.ScreenPoint) (int, int) {
	x := float64(v.cols)/2 + p.X
	y := float64(v.rows)/2 + p.Y/2
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v viewport) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.cols && y < v.rows
}
