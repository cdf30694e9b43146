package engine

import (
	"math"
	"testing"
)

func TestEvalFormula(t *testing.T) {
	vars := map[string]float64{
		"load":      1800,
		"area":      120,
		"occupancy": 40,
	}

	tests := []struct {
		name    string
		formula string
		want    float64
	}{
		{"literal", "42", 42},
		{"decimal literal", "0.5", 0.5},
		{"addition", "1 + 2 + 3", 6},
		{"subtraction chains left", "10 - 4 - 3", 3},
		{"multiplication binds tighter", "2 + 3 * 4", 14},
		{"division", "9 / 3", 3},
		{"parentheses", "(2 + 3) * 4", 20},
		{"unary minus", "-5 + 3", -2},
		{"double unary", "--5", 5},
		{"power caret", "2 ^ 10", 1024},
		{"power double star", "2 ** 3", 8},
		{"power right associative", "2 ^ 3 ^ 2", 512},
		{"unary minus binds tighter than power", "-2 ^ 2", 4},
		{"variable", "load / 1000", 1.8},
		{"variables combined", "occupancy * 0.3 + area", 132},
		{"unknown variable is zero", "load + missing_quantity", 1800},
		{"abs", "abs(-3.5)", 3.5},
		{"round", "round(2.6)", 3},
		{"min variadic", "min(4, 2, 9)", 2},
		{"max variadic", "max(4, 2, 9)", 9},
		{"sum", "sum(1, 2, 3)", 6},
		{"nested calls", "max(min(1, 2), abs(-5))", 5},
		{"function of variable", "round(load / 700)", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalFormula(tt.formula, vars)
			if err != nil {
				t.Fatalf("evalFormula(%q) error: %v", tt.formula, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("evalFormula(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvalFormulaErrors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"empty", ""},
		{"division by zero", "1 / 0"},
		{"division by zero variable", "1 / missing"},
		{"trailing garbage", "1 + 2 %"},
		{"unbalanced paren", "(1 + 2"},
		{"unknown function", "sqrt(4)"},
		{"abs arity", "abs(1, 2)"},
		{"min without args", "min()"},
		{"bad number", "1.2.3"},
		{"operator without operand", "2 +"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := evalFormula(tt.formula, nil); err == nil {
				t.Errorf("evalFormula(%q) expected error, got nil", tt.formula)
			}
		})
	}
}
