package webcore

import (
	"errors"
	"fmt"
)

// ErrReleased is returned when a dropped handle, or a handle whose reference
// slot no longer exists, is used in an invocation.
var ErrReleased = errors.New("webcore: reference released")

// ConversionKind classifies a ConversionError.
type ConversionKind int

const (
	// TypeMismatch: the value's variant does not correspond to the target.
	TypeMismatch ConversionKind = iota + 1
	// RangeOverflow: the number is outside the target's range, or outside the
	// range in which doubles represent integers exactly.
	RangeOverflow
	// LossyConversion: converting would lose information (a fractional
	// number into an integer, an ill-formed string into a Go string).
	LossyConversion
	// AbsentValue: null or undefined where a value is required.
	AbsentValue
)

func (k ConversionKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case RangeOverflow:
		return "range overflow"
	case LossyConversion:
		return "lossy conversion rejected"
	case AbsentValue:
		return "absent required value"
	default:
		return fmt.Sprintf("conversion kind %d", int(k))
	}
}

// Sentinels matching ConversionError kinds through errors.Is.
var (
	ErrTypeMismatch    = errors.New("webcore: type mismatch")
	ErrRangeOverflow   = errors.New("webcore: range overflow")
	ErrLossyConversion = errors.New("webcore: lossy conversion rejected")
	ErrAbsentValue     = errors.New("webcore: absent required value")
)

// ConversionError reports a Value that cannot be converted to the requested
// Go type or typed wrapper.
type ConversionError struct {
	Kind ConversionKind
	// Want names the requested type; Got describes what was found.
	Want   string
	Got    string
	Detail string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("webcore: %s: cannot convert %s to %s", e.Kind, e.Got, e.Want)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches the sentinel of the error's kind. An absent value also matches
// ErrTypeMismatch: null and undefined are variants like any other.
func (e *ConversionError) Is(target error) bool {
	switch target {
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch || e.Kind == AbsentValue
	case ErrRangeOverflow:
		return e.Kind == RangeOverflow
	case ErrLossyConversion:
		return e.Kind == LossyConversion
	case ErrAbsentValue:
		return e.Kind == AbsentValue
	}
	return false
}

func mismatch(want string, v Value) *ConversionError {
	if v.IsNullish() {
		return &ConversionError{Kind: AbsentValue, Want: want, Got: v.kind.String()}
	}
	return &ConversionError{Kind: TypeMismatch, Want: want, Got: v.kind.String()}
}

// ForeignError is a JavaScript exception raised during an invocation. Payload
// is the thrown value and can be inspected with the conversion functions.
type ForeignError struct {
	// Op is the member that raised, e.g. "set selectionStart".
	Op      string
	Payload Value
	// Name and Message are read from the payload when it is an object.
	Name    string
	Message string
}

func (e *ForeignError) Error() string {
	switch {
	case e.Name != "" && e.Message != "":
		return fmt.Sprintf("webcore: %s: %s: %s", e.Op, e.Name, e.Message)
	case e.Name != "":
		return fmt.Sprintf("webcore: %s: %s", e.Op, e.Name)
	case e.Message != "":
		return fmt.Sprintf("webcore: %s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("webcore: %s: exception %s", e.Op, e.Payload)
	}
}

// DOMException is a ForeignError whose payload is a DOMException.
type DOMException struct {
	*ForeignError
	Code int
}

func (e *DOMException) Unwrap() error { return e.ForeignError }

// InvalidStateError is raised when an operation's precondition on the
// object's state is not met.
type InvalidStateError struct{ *DOMException }

func (e *InvalidStateError) Unwrap() error { return e.DOMException }

// IndexSizeError is raised for an index or size out of the allowed range.
type IndexSizeError struct{ *DOMException }

func (e *IndexSizeError) Unwrap() error { return e.DOMException }

// InvalidCharacterError is raised for a string containing invalid characters,
// such as a malformed element or attribute name.
type InvalidCharacterError struct{ *DOMException }

func (e *InvalidCharacterError) Unwrap() error { return e.DOMException }

// HierarchyRequestError is raised when a node would be inserted where it
// cannot be.
type HierarchyRequestError struct{ *DOMException }

func (e *HierarchyRequestError) Unwrap() error { return e.DOMException }

// NotFoundError is raised when a node to operate on is not found.
type NotFoundError struct{ *DOMException }

func (e *NotFoundError) Unwrap() error { return e.DOMException }

// SyntaxError is raised for a string that does not match the expected
// grammar, such as a malformed selector.
type SyntaxError struct{ *DOMException }

func (e *SyntaxError) Unwrap() error { return e.DOMException }

// widenDOMException returns the named error type for a DOMException.
func widenDOMException(d *DOMException) error {
	switch d.Name {
	case "InvalidStateError":
		return &InvalidStateError{d}
	case "IndexSizeError":
		return &IndexSizeError{d}
	case "InvalidCharacterError":
		return &InvalidCharacterError{d}
	case "HierarchyRequestError":
		return &HierarchyRequestError{d}
	case "NotFoundError":
		return &NotFoundError{d}
	case "SyntaxError":
		return &SyntaxError{d}
	}
	return d
}

// InvariantError is the panic value raised by Must when an operation that
// cannot fail by contract fails anyway. It signals a bridge or binding bug.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string {
	return "webcore: invariant violated: " + e.Err.Error()
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Must returns v, panicking with *InvariantError if err is non-nil. It is
// for members whose JavaScript counterpart cannot throw.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(&InvariantError{Err: err})
	}
	return v
}

// Check panics with *InvariantError if err is non-nil.
func Check(err error) {
	if err != nil {
		panic(&InvariantError{Err: err})
	}
}
