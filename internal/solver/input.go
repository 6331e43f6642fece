package solver

import (
	"encoding/json"
	"strings"
)

// Input is a coefficient triple as submitted by a client. Each field may be
// a JSON number, a string typed into a form, null, or absent; every form is
// coerced with ParseCoefficient.
type Input struct {
	A Loose `json:"a"`
	B Loose `json:"b"`
	C Loose `json:"c"`
}

// Coefficients returns the coerced triple.
func (in Input) Coefficients() Coefficients {
	return Coefficients{A: float64(in.A), B: float64(in.B), C: float64(in.C)}
}

// Loose is a float64 that accepts any JSON scalar.
type Loose float64

// UnmarshalJSON implements json.Unmarshaler.
func (l *Loose) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	*l = Loose(ParseCoefficient(s))
	return nil
}
