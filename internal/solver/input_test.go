package solver

import (
	"encoding/json"
	"testing"
)

func TestInputCoercesJSONScalars(t *testing.T) {
	tests := []struct {
		body string
		want Coefficients
	}{
		{`{"a":1,"b":-5,"c":4}`, Coefficients{A: 1, B: -5, C: 4}},
		{`{"a":"2","b":"-.5","c":"3abc"}`, Coefficients{A: 2, B: -0.5, C: 3}},
		{`{"a":null,"b":"","c":true}`, Coefficients{}},
		{`{"b":7}`, Coefficients{B: 7}},
		{`{"a":1e999,"b":"Infinity","c":"1e3"}`, Coefficients{C: 1000}},
	}
	for _, tt := range tests {
		var in Input
		if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.body, err)
		}
		if got := in.Coefficients(); got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.body, got, tt.want)
		}
	}
}

func TestInputRejectsMalformedJSON(t *testing.T) {
	var in Input
	if err := json.Unmarshal([]byte(`{"a":"unterminated}`), &in); err == nil {
		t.Error("expected error for malformed body")
	}
}
