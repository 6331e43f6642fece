// Package render produces the LaTeX source and rounded numbers shown next
// to a solved equation. Typesetting itself happens in the browser.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/ashureev/quadlab/internal/solver"
)

const (
	equationPlaces = 5
	resultPlaces   = 4
)

// LaTeX holds the LaTeX fragments for one equation and its solution.
// X1 and X2 are empty when the solution has no such root; X2 is also empty
// when it equals X1.
type LaTeX struct {
	Equation string `json:"equation"`
	Delta    string `json:"delta"`
	X1       string `json:"x1,omitempty"`
	X2       string `json:"x2,omitempty"`
}

// Render builds every LaTeX fragment for c and its solution s.
func Render(c solver.Coefficients, s solver.Solution) LaTeX {
	out := LaTeX{
		Equation: EquationLaTeX(c),
		Delta:    `\Delta = b^2 - 4ac = ` + texNumber(Round(s.Delta, resultPlaces)),
	}
	if x1, x2, ok := s.Roots(); ok {
		out.X1 = "x_1 = " + texNumber(Round(x1, resultPlaces))
		if x2 != x1 {
			out.X2 = "x_2 = " + texNumber(Round(x2, resultPlaces))
		}
	}
	return out
}

// texNumber is Number with overflowed values spelled in LaTeX.
func texNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return `\infty`
	case math.IsInf(v, -1):
		return `-\infty`
	case math.IsNaN(v):
		return `\text{undefined}`
	}
	return Number(v)
}

// EquationLaTeX renders a·x² + b·x + c = 0 with unit coefficients elided,
// zero terms dropped and signs folded into the operators.
func EquationLaTeX(c solver.Coefficients) string {
	a := Round(c.A, equationPlaces)
	b := Round(c.B, equationPlaces)
	k := Round(c.C, equationPlaces)

	if a == 0 && b == 0 && k == 0 {
		return "0 = 0"
	}

	var sb strings.Builder
	if a != 0 {
		sb.WriteString(leadingTerm(a, "x^2"))
	}
	if b != 0 {
		if sb.Len() > 0 {
			sb.WriteString(operator(b))
			if abs := math.Abs(b); abs != 1 {
				sb.WriteString(Number(abs))
			}
			sb.WriteString("x")
		} else {
			sb.WriteString(leadingTerm(b, "x"))
		}
	}
	if k != 0 {
		if sb.Len() > 0 {
			sb.WriteString(operator(k))
			sb.WriteString(Number(math.Abs(k)))
		} else {
			sb.WriteString(Number(k))
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("0")
	}
	sb.WriteString(" = 0")
	return sb.String()
}

func leadingTerm(v float64, variable string) string {
	switch v {
	case 1:
		return variable
	case -1:
		return "-" + variable
	default:
		return Number(v) + variable
	}
}

func operator(v float64) string {
	if v > 0 {
		return " + "
	}
	return " - "
}

// Round rounds v to the given number of decimal places and drops the
// trailing zeros that fixed-point formatting would add.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		return 0
	}
	return r
}

// Number formats v in its shortest decimal form. Negative zero prints as 0.
func Number(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fixed formats v with exactly places decimals.
func Fixed(v float64, places int) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

// Polynomial renders the plain-text curve label "y = ax² + bx + c" with the
// coefficients printed as given.
func Polynomial(c solver.Coefficients) string {
	return "y = " + Number(c.A) + "x² + " + Number(c.B) + "x + " + Number(c.C)
}
