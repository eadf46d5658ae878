package model

import (
	"fmt"
	"math"
)

// DefaultGridPoints is the resolution of the decline grid when none is configured.
const DefaultGridPoints = 200

// Grid is an ordered sequence of market value decline fractions in [0, 1].
type Grid struct {
	points []float64
}

// NewGrid validates that points lie in [0, 1] and are strictly increasing.
func NewGrid(points []float64) (Grid, error) {
	if len(points) == 0 {
		return Grid{}, fmt.Errorf("%w: no points", ErrInvalidGrid)
	}
	for i, d := range points {
		if math.IsNaN(d) || d < 0 || d > 1 {
			return Grid{}, fmt.Errorf("%w: point %d (%v) outside [0, 1]", ErrInvalidGrid, i, d)
		}
		if i > 0 && d <= points[i-1] {
			return Grid{}, fmt.Errorf("%w: point %d (%v) not increasing", ErrInvalidGrid, i, d)
		}
	}
	cp := make([]float64, len(points))
	copy(cp, points)
	return Grid{points: cp}, nil
}

// LinearGrid returns n evenly spaced declines from 0 to 1 inclusive.
func LinearGrid(n int) (Grid, error) {
	if n < 2 {
		return Grid{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGrid, n)
	}
	points := make([]float64, n)
	step := 1.0 / float64(n-1)
	for i := range points {
		points[i] = float64(i) * step
	}
	points[n-1] = 1
	return Grid{points: points}, nil
}

func (g Grid) Len() int { return len(g.points) }

// Points returns a copy of the declines.
func (g Grid) Points() []float64 {
	cp := make([]float64, len(g.points))
	copy(cp, g.points)
	return cp
}

// At returns the i-th decline.
func (g Grid) At(i int) float64 { return g.points[i] }

// Point is one aggregate loss ratio at a decline.
type Point struct {
	Decline float64
	Loss    float64
}

// Row is one line of the long-format exposure table.
type Row struct {
	Decline   float64
	Series    string
	LossRatio float64
}
