package utils

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float64", float64(3.5), 3.5, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 42, 42, true},
		{"int64", int64(-7), -7, true},
		{"uint32", uint32(9), 9, true},
		{"json number", json.Number("6.25"), 6.25, true},
		{"numeric string", "12.5", 12.5, true},
		{"nil", nil, 0, false},
		{"non-numeric string", "kwh", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustToFloat64(t *testing.T) {
	if got := MustToFloat64("not a number"); got != 0 {
		t.Errorf("MustToFloat64 on non-numeric = %v, want 0", got)
	}
	if got := MustToFloat64(int8(5)); got != 5 {
		t.Errorf("MustToFloat64(int8(5)) = %v, want 5", got)
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(1.0) {
		t.Error("expected 1.0 to be numeric")
	}
	if !IsNumeric("42") {
		t.Error("expected \"42\" to be numeric")
	}
	if IsNumeric(nil) {
		t.Error("expected nil to be non-numeric")
	}
}
