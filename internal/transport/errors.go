package transport

import (
	"errors"
	"fmt"
	"strings"
)

// Construction errors. None of them leaves a usable engine behind.
var (
	// ErrDimensionMismatch indicates source and destination grids differ in size.
	ErrDimensionMismatch = errors.New("transport: source and destination dimensions differ")

	// ErrEmptyGrid indicates a grid with no pixels.
	ErrEmptyGrid = errors.New("transport: grid has no pixels")

	// ErrAssignmentExhausted indicates the destination pool ran dry before
	// every source was assigned. It always points at an internal defect.
	ErrAssignmentExhausted = errors.New("transport: destination pool exhausted before all sources were assigned")

	// ErrValidationFailed indicates the finished record set broke an invariant.
	ErrValidationFailed = errors.New("transport: validation failed")

	// ErrCanceled indicates construction was interrupted through its context.
	ErrCanceled = errors.New("transport: construction canceled")

	// ErrInvalidWeights indicates negative or all-zero cost weights.
	ErrInvalidWeights = errors.New("transport: cost weights must be non-negative and not both zero")

	// ErrUnknownEasing indicates an easing name with no registered function.
	ErrUnknownEasing = errors.New("transport: unknown easing")

	// ErrUnknownColorSpace indicates an unsupported color distance space.
	ErrUnknownColorSpace = errors.New("transport: unknown color space")
)

// Validation checks, in the order they run.
const (
	CheckCount          = "count"
	CheckSourceCoverage = "source-coverage"
	CheckDestCoverage   = "dest-coverage"
	CheckColor          = "color"
)

type Violation struct {
	Check  string
	Detail string
}

func (v Violation) String() string {
	return v.Check + ": " + v.Detail
}

// ValidationError lists every invariant the record set violates.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Has reports whether the given check failed.
func (e *ValidationError) Has(check string) bool {
	for _, v := range e.Violations {
		if v.Check == check {
			return true
		}
	}
	return false
}

// ConstructionError records the stage at which engine construction aborted.
type ConstructionError struct {
	Stage   string
	Wrapped error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct engine (%s): %v", e.Stage, e.Wrapped)
}

func (e *ConstructionError) Unwrap() error {
	return e.Wrapped
}
