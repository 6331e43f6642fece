package solver

import (
	"math"
	"strconv"
	"strings"
)

// Coefficients are the a, b, c of a·x² + b·x + c = 0.
type Coefficients struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// DefaultCoefficients is the equation shown before the user types anything.
var DefaultCoefficients = Coefficients{A: 1, B: -5, C: 4}

// Solve classifies the equation described by c.
func (c Coefficients) Solve() Solution {
	return Solve(c.A, c.B, c.C)
}

// AllZero reports whether every coefficient is zero.
func (c Coefficients) AllZero() bool {
	return c.A == 0 && c.B == 0 && c.C == 0
}

// Eval returns a·x² + b·x + c.
func (c Coefficients) Eval(x float64) float64 {
	return c.A*x*x + c.B*x + c.C
}

// Sanitize replaces non-finite coefficients with zero.
func (c Coefficients) Sanitize() Coefficients {
	return Coefficients{A: finiteOrZero(c.A), B: finiteOrZero(c.B), C: finiteOrZero(c.C)}
}

// ParseCoefficients coerces three user-entered strings.
func ParseCoefficients(a, b, c string) Coefficients {
	return Coefficients{A: ParseCoefficient(a), B: ParseCoefficient(b), C: ParseCoefficient(c)}
}

// ParseCoefficient reads the leading decimal number of s, ignoring trailing
// garbage ("3abc" is 3). Input with no numeric prefix, or whose value is not
// finite, yields 0.
func ParseCoefficient(s string) float64 {
	prefix := numericPrefix(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// Out-of-range exponents report ±Inf with ErrRange.
		return 0
	}
	return finiteOrZero(v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s shaped like
// [+-] digits [. digits] [e [+-] digits], requiring at least one digit in
// the mantissa.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - (i + 1); frac > 0 || digits > 0 {
			digits += frac
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
