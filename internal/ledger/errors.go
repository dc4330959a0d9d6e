package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies operational failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidAmount
	KindInvalidTime
	KindNotFound
	KindIo
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid amount"
	case KindInvalidTime:
		return "invalid time"
	case KindNotFound:
		return "not found"
	case KindIo:
		return "io"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified failure of a ledger operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
