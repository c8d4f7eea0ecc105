package engine

import "fmt"

// The error taxonomy the runner records per variant. Conversion, execution
// and validity failures are never fatal to the rest of the matrix; only
// infrastructure errors (plain wrapped errors elsewhere in the harness)
// propagate to the process exit status.

// ConversionError wraps a failure to translate between the engine's
// shape-set format and the reference geometry representation.
type ConversionError struct {
	Cause error
}

func (e *ConversionError) Error() string { return "conversion error: " + e.Cause.Error() }
func (e *ConversionError) Unwrap() error { return e.Cause }

// ExecError wraps a failure (including a recovered panic) raised by the
// engine under test while performing an operation.
type ExecError struct {
	Op    string
	Cause error
}

func (e *ExecError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Cause) }
func (e *ExecError) Unwrap() error { return e.Cause }

// InvalidityError records an oracle verdict: the engine returned without
// raising but the result is not an OGC-valid geometry. Kept distinct from
// ExecError so operators can separate crashes from silently wrong output.
type InvalidityError struct {
	Cause error
}

func (e *InvalidityError) Error() string { return "invalid geometry: " + e.Cause.Error() }
func (e *InvalidityError) Unwrap() error { return e.Cause }

// Recovered converts a recovered panic value into an error suitable for
// wrapping in ExecError.
func Recovered(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
