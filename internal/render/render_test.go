package render

import (
	"math"
	"testing"

	"github.com/ashureev/quadlab/internal/solver"
)

func TestEquationLaTeX(t *testing.T) {
	tests := []struct {
		in   solver.Coefficients
		want string
	}{
		{solver.Coefficients{A: 1, B: -5, C: 4}, "x^2 - 5x + 4 = 0"},
		{solver.Coefficients{A: -1, B: 1, C: -1}, "-x^2 + x - 1 = 0"},
		{solver.Coefficients{A: 2, B: 0, C: 0}, "2x^2 = 0"},
		{solver.Coefficients{A: 0, B: -1, C: 3}, "-x + 3 = 0"},
		{solver.Coefficients{A: 0, B: 2.5, C: 0}, "2.5x = 0"},
		{solver.Coefficients{A: 0, B: 0, C: -7}, "-7 = 0"},
		{solver.Coefficients{A: 0, B: 0, C: 0}, "0 = 0"},
		{solver.Coefficients{A: 0.1234567, B: -1, C: 0}, "0.12346x^2 - x = 0"},
		{solver.Coefficients{A: 0.000001, B: 0, C: 0}, "0 = 0"},
		{solver.Coefficients{A: 3, B: 1, C: 1}, "3x^2 + x + 1 = 0"},
	}
	for _, tt := range tests {
		if got := EquationLaTeX(tt.in); got != tt.want {
			t.Errorf("EquationLaTeX(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	c := solver.Coefficients{A: 1, B: -5, C: 4}
	got := Render(c, c.Solve())
	if got.Delta != `\Delta = b^2 - 4ac = 9` {
		t.Errorf("delta = %q", got.Delta)
	}
	if got.X1 != "x_1 = 4" || got.X2 != "x_2 = 1" {
		t.Errorf("roots = %q, %q", got.X1, got.X2)
	}

	rep := solver.Coefficients{A: 1, B: -2, C: 1}
	got = Render(rep, rep.Solve())
	if got.X1 != "x_1 = 1" || got.X2 != "" {
		t.Errorf("repeated roots = %q, %q", got.X1, got.X2)
	}

	none := solver.Coefficients{A: 1, B: 0, C: 1}
	got = Render(none, none.Solve())
	if got.X1 != "" || got.X2 != "" {
		t.Errorf("expected no roots, got %q, %q", got.X1, got.X2)
	}
	if got.Delta != `\Delta = b^2 - 4ac = -4` {
		t.Errorf("delta = %q", got.Delta)
	}

	third := solver.Coefficients{A: 3, B: 0, C: -1}
	got = Render(third, third.Solve())
	if got.X1 != "x_1 = 0.5774" || got.X2 != "x_2 = -0.5774" {
		t.Errorf("irrational roots = %q, %q", got.X1, got.X2)
	}
}

func TestRoundAndNumber(t *testing.T) {
	if got := Round(1.23456789, 4); got != 1.2346 {
		t.Errorf("Round = %v", got)
	}
	if got := Round(-0.00001, 4); got != 0 || math.Signbit(got) {
		t.Errorf("Round(-0.00001) = %v, want +0", got)
	}
	if got := Number(math.Copysign(0, -1)); got != "0" {
		t.Errorf("Number(-0) = %q", got)
	}
	if got := Number(2.50); got != "2.5" {
		t.Errorf("Number(2.5) = %q", got)
	}
	if got := Fixed(1.5, 2); got != "1.50" {
		t.Errorf("Fixed = %q", got)
	}
	if got := Polynomial(solver.Coefficients{A: 1, B: -5, C: 4}); got != "y = 1x² + -5x + 4" {
		t.Errorf("Polynomial = %q", got)
	}
}
