package merge

import "fmt"

// ErrorKind classifies a remux tool failure
type ErrorKind string

const (
	// KindToolMissing means the tool binary could not be found or started
	KindToolMissing ErrorKind = "tool_missing"

	// KindNonZeroExit means the tool ran and exited with a failure code
	KindNonZeroExit ErrorKind = "non_zero_exit"

	// KindOutputMissing means the tool succeeded but left no usable output
	KindOutputMissing ErrorKind = "output_missing"

	// KindPrepare means the output location could not be set up; the tool never ran
	KindPrepare ErrorKind = "prepare"
)

// Error is a failed merge or conversion. Inputs are always preserved.
type Error struct {
	Kind       ErrorKind
	Code       int    // exit code, set for KindNonZeroExit
	Diagnostic string // last stderr line, set for KindNonZeroExit
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNonZeroExit:
		if e.Diagnostic != "" {
			return fmt.Sprintf("remux failed with exit code %d: %s", e.Code, e.Diagnostic)
		}
		return fmt.Sprintf("remux failed with exit code %d", e.Code)
	case KindOutputMissing:
		return fmt.Sprintf("remux produced no output: %v", e.Err)
	case KindPrepare:
		return fmt.Sprintf("remux output not prepared: %v", e.Err)
	default:
		return fmt.Sprintf("remux tool unavailable: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
