// Package plot samples y = a·x² + b·x + c around the interesting part of
// the curve for the browser's chart.
package plot

import (
	"encoding/json"

	"github.com/ashureev/quadlab/internal/render"
	"github.com/ashureev/quadlab/internal/solver"
)

const (
	// HalfWidth is the distance sampled on each side of the center.
	HalfWidth = 10.0
	// Step is the x spacing between samples.
	Step = 0.5
)

// Point is one sample of the curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Plot is a sampled curve. Points is empty when a = b = 0; Placeholder is
// additionally set when every coefficient is zero.
type Plot struct {
	Title string `json:"title"`
	// Center overflows when b is huge and a is tiny.
	Center      solver.Float `json:"center"`
	Points      []Point      `json:"points"`
	Placeholder bool         `json:"placeholder"`
}

type pointJSON struct {
	X solver.Float `json:"x"`
	Y solver.Float `json:"y"`
}

// MarshalJSON writes overflowed samples in the solver.Float string form.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{X: solver.Float(p.X), Y: solver.Float(p.Y)})
}

// UnmarshalJSON reads a point written by MarshalJSON.
func (p *Point) UnmarshalJSON(data []byte) error {
	var in pointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Point{X: float64(in.X), Y: float64(in.Y)}
	return nil
}

// Center returns the x the viewing window is centered on: the vertex for a
// quadratic, the root for a line, 0 otherwise.
func Center(c solver.Coefficients) float64 {
	switch {
	case c.A != 0:
		return -c.B / (2 * c.A)
	case c.B != 0:
		return -c.C / c.B
	default:
		return 0
	}
}

// Sample evaluates the curve on [center-HalfWidth, center+HalfWidth].
func Sample(c solver.Coefficients) Plot {
	p := Plot{
		Title:       render.Polynomial(c),
		Points:      []Point{},
		Placeholder: c.AllZero(),
	}
	if c.A == 0 && c.B == 0 {
		return p
	}

	center := Center(c)
	p.Center = solver.Float(center)
	n := int(2*HalfWidth/Step) + 1
	p.Points = make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x := center - HalfWidth + float64(i)*Step
		p.Points = append(p.Points, Point{X: x, Y: c.Eval(x)})
	}
	return p
}
