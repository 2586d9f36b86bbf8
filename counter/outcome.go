package counter

import (
	"errors"
	"fmt"
)

// Kind classifies the result of a store operation
type Kind uint8

// Outcome kinds. Store operations never return Invalid, it is the zero value
// so that an unset Outcome is not a success.
const (
	Invalid Kind = iota
	Ok
	Created
	NotFound
	Conflict
	PreconditionFailed
	InvalidArgument
)

var kindNames = [...]string{
	Invalid:            "invalid",
	Ok:                 "ok",
	Created:            "created",
	NotFound:           "not_found",
	Conflict:           "conflict",
	PreconditionFailed: "precondition_failed",
	InvalidArgument:    "invalid_argument",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Errors matched by Outcome.Err, use errors.Is
var (
	ErrNotFound           = errors.New("counter not found")
	ErrConflict           = errors.New("counter already exists")
	ErrPreconditionFailed = errors.New("counter value differs from condition")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// PreconditionFailedError carries the value the counter actually held
type PreconditionFailedError struct {
	Current int64
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("%s, current:%d", ErrPreconditionFailed, e.Current)
}

// Is implements errors.Is
func (e *PreconditionFailedError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// Outcome is the result of a store operation.
//
// Value is the counter value for Ok, and the current value for PreconditionFailed.
// Reason explains InvalidArgument and Conflict.
type Outcome struct {
	Kind   Kind
	Value  int64
	Reason string
}

// Success reports whether the operation took effect or read a value
func (o Outcome) Success() bool {
	return o.Kind == Ok || o.Kind == Created
}

// Err converts a failed outcome to an error, nil on success
func (o Outcome) Err() error {
	switch o.Kind {
	case Ok, Created:
		return nil
	case NotFound:
		return ErrNotFound
	case Conflict:
		if o.Reason != "" {
			return fmt.Errorf("%w: %s", ErrConflict, o.Reason)
		}
		return ErrConflict
	case PreconditionFailed:
		return &PreconditionFailedError{Current: o.Value}
	case InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, o.Reason)
	}
	return fmt.Errorf("unknown outcome %s", o.Kind)
}

func (o Outcome) String() string {
	switch o.Kind {
	case Ok, PreconditionFailed:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Value)
	case InvalidArgument, Conflict:
		if o.Reason != "" {
			return fmt.Sprintf("%s(%s)", o.Kind, o.Reason)
		}
	}
	return o.Kind.String()
}

func okOutcome(value int64) Outcome {
	return Outcome{Kind: Ok, Value: value}
}

func preconditionFailed(current int64) Outcome {
	return Outcome{Kind: PreconditionFailed, Value: current}
}

func invalidArgument(reason string) Outcome {
	return Outcome{Kind: InvalidArgument, Reason: reason}
}

var (
	createdOutcome  = Outcome{Kind: Created}
	notFoundOutcome = Outcome{Kind: NotFound}
	conflictOutcome = Outcome{Kind: Conflict}
)
