// Package solver classifies the equation a·x² + b·x + c = 0 and computes its
// real roots.
//
// Solve is total over finite inputs and has no side effects. Branches are
// selected with exact float comparisons: a discriminant that lands a rounding
// error away from zero is classified by its computed sign.
package solver

import (
	"encoding/json"
	"fmt"
	"math"
)

// Category identifies which of the six solution shapes an equation has.
type Category int

const (
	// Infinite: a = b = c = 0, every x satisfies the equation.
	Infinite Category = iota + 1
	// None: a = b = 0, c != 0, no x satisfies the equation.
	None
	// LinearOneRoot: a = 0, b != 0, single root -c/b.
	LinearOneRoot
	// TwoDistinct: a != 0, Δ > 0.
	TwoDistinct
	// Repeated: a != 0, Δ = 0.
	Repeated
	// NoRealRoots: a != 0, Δ < 0.
	NoRealRoots
)

var categoryNames = map[Category]string{
	Infinite:      "INFINITE",
	None:          "NONE",
	LinearOneRoot: "LINEAR_ONE_ROOT",
	TwoDistinct:   "TWO_DISTINCT",
	Repeated:      "REPEATED",
	NoRealRoots:   "NO_REAL_ROOTS",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Infinite, None, LinearOneRoot, TwoDistinct, Repeated, NoRealRoots}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// HasRealRoots reports whether equations of this category carry a discrete
// real root. Infinite is deliberately excluded.
func (c Category) HasRealRoots() bool {
	switch c {
	case LinearOneRoot, TwoDistinct, Repeated:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for cat, name := range categoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", string(text))
}

// Solution is the classification of one coefficient triple. Root values are
// only reachable through Roots, which reports whether the category has any.
type Solution struct {
	Category Category
	// Delta is b² - 4ac when a != 0 and 0 otherwise.
	Delta float64

	x1, x2 float64
}

// Roots returns the roots of a root-bearing solution. For single-root
// categories x1 == x2. ok is false when the equation has no discrete root.
func (s Solution) Roots() (x1, x2 float64, ok bool) {
	if !s.Category.HasRealRoots() {
		return 0, 0, false
	}
	return s.x1, s.x2, true
}

// HasRealRoots reports whether the equation has at least one discrete real root.
func (s Solution) HasRealRoots() bool {
	return s.Category.HasRealRoots()
}

// Distinct reports whether the solution has two different roots.
func (s Solution) Distinct() bool {
	return s.Category == TwoDistinct
}

// Solve classifies a·x² + b·x + c = 0.
func Solve(a, b, c float64) Solution {
	if a == 0 {
		if b == 0 {
			if c == 0 {
				return Solution{Category: Infinite}
			}
			return Solution{Category: None}
		}
		x := -c / b
		return Solution{Category: LinearOneRoot, x1: x, x2: x}
	}

	delta := b*b - 4*a*c
	switch {
	case delta > 0:
		sq := math.Sqrt(delta)
		return Solution{
			Category: TwoDistinct,
			Delta:    delta,
			x1:       (-b + sq) / (2 * a),
			x2:       (-b - sq) / (2 * a),
		}
	case delta == 0:
		x := -b / (2 * a)
		return Solution{Category: Repeated, Delta: delta, x1: x, x2: x}
	default:
		return Solution{Category: NoRealRoots, Delta: delta}
	}
}

type solutionJSON struct {
	Delta        Float    `json:"delta"`
	X1           *Float   `json:"x1"`
	X2           *Float   `json:"x2"`
	HasRealRoots bool     `json:"hasRealRoots"`
	Message      Category `json:"message"`
}

// MarshalJSON encodes the solution with nullable root fields. Overflowed
// values use the Float string forms.
func (s Solution) MarshalJSON() ([]byte, error) {
	out := solutionJSON{
		Delta:        Float(s.Delta),
		HasRealRoots: s.HasRealRoots(),
		Message:      s.Category,
	}
	if x1, x2, ok := s.Roots(); ok {
		r1, r2 := Float(x1), Float(x2)
		out.X1, out.X2 = &r1, &r2
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a solution produced by MarshalJSON.
func (s *Solution) UnmarshalJSON(data []byte) error {
	var in solutionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Message.Valid() {
		return fmt.Errorf("solution: missing category")
	}
	out := Solution{Category: in.Message, Delta: float64(in.Delta)}
	if in.Message.HasRealRoots() {
		if in.X1 == nil || in.X2 == nil {
			return fmt.Errorf("solution: category %s requires both roots", in.Message)
		}
		out.x1, out.x2 = float64(*in.X1), float64(*in.X2)
	}
	*s = out
	return nil
}
