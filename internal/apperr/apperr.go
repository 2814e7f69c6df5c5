// Package apperr defines the error kinds the planner can return, per the
// propagation rules of the specification: validation happens once at entry,
// and after validation the optimizer does not fail except for an internal
// invariant violation.
package apperr

import "fmt"

// Kind classifies an error raised by the planner.
type Kind string

const (
	// InvalidInput covers malformed forecasts or device parameters:
	// vector length mismatches, negative capacities, out-of-range
	// efficiencies, or a chromosome referencing an empty device set.
	InvalidInput Kind = "invalid_input"

	// InvalidParameters covers GA knobs out of range, e.g. a crossover
	// probability outside [0,1] or a population smaller than 2.
	InvalidParameters Kind = "invalid_parameters"

	// Cancelled means the caller's cancellation token or deadline tripped
	// at a generation barrier; the best individual found so far is still
	// returned alongside this kind.
	Cancelled Kind = "cancelled"

	// Internal means an invariant was violated mid-run (negative energy
	// after clipping, state-of-charge outside [0,100], a NaN at a
	// generation barrier). Treated as a bug, never a normal occurrence.
	Internal Kind = "internal"
)

// Error is a typed error carrying one of the Kind values above.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, apperr.InvalidInput) work by comparing Kind to a
// sentinel *Error created with that Kind and no message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, apperr.ErrCancelled).
var (
	ErrInvalidInput      = &Error{Kind: InvalidInput}
	ErrInvalidParameters = &Error{Kind: InvalidParameters}
	ErrCancelled         = &Error{Kind: Cancelled}
	ErrInternal          = &Error{Kind: Internal}
)
