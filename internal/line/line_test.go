package line

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// walked lists the points Walk visits, in order
func walked(a, b image.Point) []image.Point {
	out := []image.Point{}
	Walk(a, b, func(x, y int) { out = append(out, image.Pt(x, y)) })
	return out
}

func TestWalkPoints(t *testing.T) {
	tests := []struct {
		a, b image.Point
		want []image.Point
	}{
		{image.Pt(1, 1), image.Pt(1, 1), []image.Point{{1, 1}}},
		{image.Pt(0, 0), image.Pt(3, 0), []image.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{image.Pt(0, 2), image.Pt(0, 0), []image.Point{{0, 2}, {0, 1}, {0, 0}}},
		{image.Pt(0, 0), image.Pt(2, 2), []image.Point{{0, 0}, {1, 1}, {2, 2}}},
		{image.Pt(3, 0), image.Pt(0, 3), []image.Point{{3, 0}, {2, 1}, {1, 2}, {0, 3}}},
		{image.Pt(0, 0), image.Pt(4, 2), []image.Point{{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 2}}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, walked(tt.a, tt.b), "%v -> %v", tt.a, tt.b)
	}
}

func TestWalkIsConnected(t *testing.T) {
	pts := walked(image.Pt(-7, 3), image.Pt(12, -20))
	assert.Equal(t, image.Pt(-7, 3), pts[0])
	assert.Equal(t, image.Pt(12, -20), pts[len(pts)-1])
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		assert.LessOrEqual(t, abs(d.X), 1)
		assert.LessOrEqual(t, abs(d.Y), 1)
	}
}

func TestWalk(t *testing.T) {
	count := 0
	Walk(image.Pt(0, 0), image.Pt(5, 1), func(x, y int) { count++ })
	assert.Equal(t, 6, count)
}
