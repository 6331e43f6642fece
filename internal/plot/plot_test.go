package plot

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ashureev/quadlab/internal/solver"
)

func TestSampleQuadraticCentersOnVertex(t *testing.T) {
	c := solver.Coefficients{A: 1, B: -4, C: 3}
	p := Sample(c)

	if p.Center != 2 {
		t.Fatalf("center = %v, want 2", p.Center)
	}
	if len(p.Points) != 41 {
		t.Fatalf("len(points) = %d, want 41", len(p.Points))
	}
	if first, last := p.Points[0].X, p.Points[len(p.Points)-1].X; first != -8 || last != 12 {
		t.Errorf("window = [%v, %v], want [-8, 12]", first, last)
	}
	for _, pt := range p.Points {
		if pt.Y != c.Eval(pt.X) {
			t.Fatalf("y(%v) = %v, want %v", pt.X, pt.Y, c.Eval(pt.X))
		}
	}
	if p.Points[20].Y != -1 {
		t.Errorf("vertex y = %v, want -1", p.Points[20].Y)
	}
	if p.Placeholder {
		t.Error("placeholder should not be set")
	}
}

func TestSampleLinearCentersOnRoot(t *testing.T) {
	p := Sample(solver.Coefficients{A: 0, B: 2, C: -4})
	if p.Center != 2 {
		t.Errorf("center = %v, want 2", p.Center)
	}
	if len(p.Points) != 41 {
		t.Errorf("len(points) = %d", len(p.Points))
	}
}

func TestSampleConstant(t *testing.T) {
	p := Sample(solver.Coefficients{C: 5})
	if len(p.Points) != 0 || p.Placeholder {
		t.Errorf("constant curve: points=%d placeholder=%v", len(p.Points), p.Placeholder)
	}

	p = Sample(solver.Coefficients{})
	if len(p.Points) != 0 || !p.Placeholder {
		t.Errorf("zero curve: points=%d placeholder=%v", len(p.Points), p.Placeholder)
	}
	if p.Points == nil {
		t.Error("points should encode as an empty array")
	}
}

func TestSampleTitle(t *testing.T) {
	if got := Sample(solver.Coefficients{A: 1, B: -5, C: 4}).Title; got != "y = 1x² + -5x + 4" {
		t.Errorf("title = %q", got)
	}
}

func TestSampleOverflowEncodes(t *testing.T) {
	p := Sample(solver.Coefficients{A: 1e-300, B: 1e300, C: 1})
	if !math.IsInf(float64(p.Center), -1) {
		t.Fatalf("center = %v, want -Inf", p.Center)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"center":"-Infinity"`) {
		t.Errorf("json = %s", data)
	}

	var back Plot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Points) != len(p.Points) || !math.IsInf(float64(back.Center), -1) {
		t.Errorf("round trip: center %v, %d points", back.Center, len(back.Points))
	}
}

func TestSampleLargeCurveEncodes(t *testing.T) {
	p := Sample(solver.Coefficients{A: 1e308, B: 0, C: 0})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"y":"Infinity"`) {
		t.Errorf("json = %s", data)
	}
}
