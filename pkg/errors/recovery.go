package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error recovered from a panic inside a synthesis worker.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace is captured at the recovery site
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String includes the captured stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for the given operation.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error assigned to *err. It must be deferred
// directly by the function whose named error result is passed in.
//
//	func work() (err error) {
//	    defer errors.Recover(&err, "work")
//	    ...
//	}
//
// An error already held in *err is kept reachable through errors.Is.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute runs fn and converts any panic into a PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
