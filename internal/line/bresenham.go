package line

import (
	"image"
)

// Plotter receives each cell visited along a line
type Plotter interface {
	Plot(x, y int)
}

// PlotterFunc adapts a function to a Plotter
type PlotterFunc func(x, y int)

// Plot calls f(x, y)
func (f PlotterFunc) Plot(x, y int) {
	f(x, y)
}

// bresenham visits every cell on the line x1,y1 -> x2,y2 (both ends
// included) stepping one cell at a time along the major axis.
func bresenham(p Plotter, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	e := dx + dy
	for {
		p.Plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// Walk calls fn for each point on the line a -> b
func Walk(a, b image.Point, fn func(x, y int)) {
	bresenham(PlotterFunc(fn), a.X, a.Y, b.X, b.Y)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
