package engine

import (
	"testing"

	"arxhq/codecheck/pkg/mcp/ast"
)

func TestEvaluateOperator(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.Operator
		actual   any
		expected any
		want     bool
	}{
		{"equal strings", ast.OperatorEqual, "office", "office", true},
		{"equal strings mismatch", ast.OperatorEqual, "office", "lobby", false},
		{"equal int and float", ast.OperatorEqual, 3, 3.0, true},
		{"equal both nil", ast.OperatorEqual, nil, nil, true},
		{"equal one nil", ast.OperatorEqual, nil, "x", false},
		{"not equal", ast.OperatorNotEqual, "a", "b", true},
		{"greater than", ast.OperatorGreaterThan, 10.5, 10, true},
		{"greater than equal values", ast.OperatorGreaterThan, 10, 10, false},
		{"greater equal boundary", ast.OperatorGreaterEqual, 10, 10, true},
		{"less than", ast.OperatorLessThan, 3, 5, true},
		{"less equal boundary", ast.OperatorLessEqual, 5, 5.0, true},
		{"in list", ast.OperatorIn, "sink", []any{"sink", "toilet"}, true},
		{"in list miss", ast.OperatorIn, "shower", []any{"sink", "toilet"}, false},
		{"in numeric list cross type", ast.OperatorIn, 2, []any{1.0, 2.0}, true},
		{"not in list", ast.OperatorNotIn, "shower", []any{"sink", "toilet"}, true},
		{"contains substring", ast.OperatorContains, "fire exit door", "exit", true},
		{"contains substring miss", ast.OperatorContains, "fire door", "exit", false},
		{"contains list element", ast.OperatorContains, []any{"a", "b"}, "b", true},
		{"starts with", ast.OperatorStartsWith, "room-101", "room-", true},
		{"ends with", ast.OperatorEndsWith, "room-101", "101", true},
		{"regex match at start", ast.OperatorRegex, "wall-12", `wall-\d+`, true},
		{"regex no match mid string", ast.OperatorRegex, "exterior-wall-12", `wall-\d+`, false},
		{"regex alternation is grouped", ast.OperatorRegex, "beam-1", `wall|beam`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(tt.op, tt.actual, tt.expected)
			if err != nil {
				t.Fatalf("evaluateOperator() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("evaluateOperator(%q, %v, %v) = %v, want %v",
					tt.op, tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestEvaluateOperatorErrors(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.Operator
		actual   any
		expected any
	}{
		{"unknown operator", ast.Operator("~="), 1, 2},
		{"greater than non-numeric", ast.OperatorGreaterThan, "tall", 3},
		{"in without list", ast.OperatorIn, "a", "abc"},
		{"contains on number", ast.OperatorContains, 42, "4"},
		{"regex with empty pattern", ast.OperatorRegex, "x", ""},
		{"regex with invalid pattern", ast.OperatorRegex, "x", "("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := evaluateOperator(tt.op, tt.actual, tt.expected); err == nil {
				t.Errorf("evaluateOperator(%q, %v, %v) expected error, got nil",
					tt.op, tt.actual, tt.expected)
			}
		})
	}
}

func TestConvertToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", 2.5, 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(-3), -3, true},
		{"uint32", uint32(9), 9, true},
		{"string", "7", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertToFloat64(tt.value)
			if tt.ok && err != nil {
				t.Fatalf("convertToFloat64(%v) error: %v", tt.value, err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("convertToFloat64(%v) expected error", tt.value)
			}
			if tt.ok && got != tt.want {
				t.Errorf("convertToFloat64(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
