package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"arxhq/codecheck/pkg/mcp/ast"
)

// evaluateOperator evaluates an operator comparison between actual and expected values.
func evaluateOperator(op ast.Operator, actual, expected any) (bool, error) {
	switch op {
	case ast.OperatorEqual:
		return evaluateEqual(actual, expected)

	case ast.OperatorNotEqual:
		equal, err := evaluateEqual(actual, expected)
		return !equal, err

	case ast.OperatorGreaterThan:
		return evaluateGreaterThan(actual, expected)

	case ast.OperatorGreaterEqual:
		return evaluateGreaterEqual(actual, expected)

	case ast.OperatorLessThan:
		return evaluateLessThan(actual, expected)

	case ast.OperatorLessEqual:
		return evaluateLessEqual(actual, expected)

	case ast.OperatorIn:
		return evaluateIn(actual, expected)

	case ast.OperatorNotIn:
		in, err := evaluateIn(actual, expected)
		return !in, err

	case ast.OperatorContains:
		return evaluateContains(actual, expected)

	case ast.OperatorStartsWith:
		return evaluateStartsWith(actual, expected)

	case ast.OperatorEndsWith:
		return evaluateEndsWith(actual, expected)

	case ast.OperatorRegex:
		return evaluateRegex(actual, expected)

	default:
		return false, fmt.Errorf("unknown operator: %q", op)
	}
}

// evaluateEqual checks if two values are equal.
func evaluateEqual(actual, expected any) (bool, error) {
	if actual == nil && expected == nil {
		return true, nil
	}
	if actual == nil || expected == nil {
		return false, nil
	}

	// Numeric comparison first so int 3 equals float64 3.0.
	actualNum, actualErr := convertToFloat64(actual)
	expectedNum, expectedErr := convertToFloat64(expected)
	if actualErr == nil && expectedErr == nil {
		return actualNum == expectedNum, nil
	}

	return reflect.DeepEqual(actual, expected), nil
}

// evaluateGreaterThan checks if actual > expected (numeric comparison).
func evaluateGreaterThan(actual, expected any) (bool, error) {
	actualNum, expectedNum, err := toNumeric(actual, expected)
	if err != nil {
		return false, err
	}
	return actualNum > expectedNum, nil
}

// evaluateGreaterEqual checks if actual >= expected (numeric comparison).
func evaluateGreaterEqual(actual, expected any) (bool, error) {
	actualNum, expectedNum, err := toNumeric(actual, expected)
	if err != nil {
		return false, err
	}
	return actualNum >= expectedNum, nil
}

// evaluateLessThan checks if actual < expected (numeric comparison).
func evaluateLessThan(actual, expected any) (bool, error) {
	actualNum, expectedNum, err := toNumeric(actual, expected)
	if err != nil {
		return false, err
	}
	return actualNum < expectedNum, nil
}

// evaluateLessEqual checks if actual <= expected (numeric comparison).
func evaluateLessEqual(actual, expected any) (bool, error) {
	actualNum, expectedNum, err := toNumeric(actual, expected)
	if err != nil {
		return false, err
	}
	return actualNum <= expectedNum, nil
}

// evaluateIn checks if actual is an element of the expected list.
func evaluateIn(actual, expected any) (bool, error) {
	expectedVal := reflect.ValueOf(expected)
	if expected == nil || (expectedVal.Kind() != reflect.Slice && expectedVal.Kind() != reflect.Array) {
		return false, fmt.Errorf("in operator requires a list for expected, got %T", expected)
	}

	for i := 0; i < expectedVal.Len(); i++ {
		elem := expectedVal.Index(i).Interface()
		equal, err := evaluateEqual(actual, elem)
		if err != nil {
			return false, err
		}
		if equal {
			return true, nil
		}
	}
	return false, nil
}

// evaluateContains checks if actual contains expected (substring or element).
func evaluateContains(actual, expected any) (bool, error) {
	if actualStr, ok := actual.(string); ok {
		expectedStr, ok := toString(expected)
		if !ok {
			return false, fmt.Errorf("contains operator requires a string expected value")
		}
		return strings.Contains(actualStr, expectedStr), nil
	}

	actualVal := reflect.ValueOf(actual)
	if actual == nil || (actualVal.Kind() != reflect.Slice && actualVal.Kind() != reflect.Array) {
		return false, fmt.Errorf("contains operator requires a string or list for actual, got %T", actual)
	}

	for i := 0; i < actualVal.Len(); i++ {
		equal, err := evaluateEqual(actualVal.Index(i).Interface(), expected)
		if err != nil {
			return false, err
		}
		if equal {
			return true, nil
		}
	}
	return false, nil
}

// evaluateStartsWith checks if actual starts with expected.
func evaluateStartsWith(actual, expected any) (bool, error) {
	actualStr, ok := toString(actual)
	if !ok {
		return false, fmt.Errorf("starts_with operator requires a string-convertible actual value")
	}
	expectedStr, ok := toString(expected)
	if !ok {
		return false, fmt.Errorf("starts_with operator requires a string-convertible expected value")
	}
	return strings.HasPrefix(actualStr, expectedStr), nil
}

// evaluateEndsWith checks if actual ends with expected.
func evaluateEndsWith(actual, expected any) (bool, error) {
	actualStr, ok := toString(actual)
	if !ok {
		return false, fmt.Errorf("ends_with operator requires a string-convertible actual value")
	}
	expectedStr, ok := toString(expected)
	if !ok {
		return false, fmt.Errorf("ends_with operator requires a string-convertible expected value")
	}
	return strings.HasSuffix(actualStr, expectedStr), nil
}

// evaluateRegex checks if actual matches the expected pattern. The pattern
// is anchored at the start of the value.
func evaluateRegex(actual, expected any) (bool, error) {
	actualStr, ok := toString(actual)
	if !ok {
		return false, fmt.Errorf("regex operator requires a string-convertible actual value")
	}

	pattern, ok := expected.(string)
	if !ok || pattern == "" {
		return false, fmt.Errorf("regex operator requires a non-empty string pattern")
	}

	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return false, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return re.MatchString(actualStr), nil
}

// toNumeric converts both values to float64 for numeric comparison.
func toNumeric(actual, expected any) (float64, float64, error) {
	actualNum, err := convertToFloat64(actual)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert actual value to number: %w", err)
	}

	expectedNum, err := convertToFloat64(expected)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert expected value to number: %w", err)
	}

	return actualNum, expectedNum, nil
}

// convertToFloat64 converts a value to float64.
func convertToFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

// toString converts a value to string.
func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}
