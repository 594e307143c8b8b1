package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError reports NaN or Inf values produced during synthesis.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Row       int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("synthgen: numerical instability detected in %s at row %d. Values: [%s]",
		e.Operation, e.Row, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, row int) error {
	return WithStack(&NumericalInstabilityError{Operation: operation, Values: values, Row: row})
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, -1)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for numerical instability and reports
// the first offending row.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		var unstableValues []float64
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstableValues = append(unstableValues, v)
				if len(unstableValues) >= 10 {
					break
				}
			}
		}
		if len(unstableValues) > 0 {
			return NewNumericalInstabilityError(operation, unstableValues, i)
		}
	}
	return nil
}

// IsClose reports whether a and b are equal within the tolerance
// |a-b| <= atol + rtol*|b|, using atol=1e-8 and rtol=1e-5.
func IsClose(a, b float64) bool {
	const (
		atol = 1e-8
		rtol = 1e-5
	)
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}
