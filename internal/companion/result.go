package companion

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is returned when no record store is configured.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Status classifies how an operation ended.
type Status int

const (
	// StatusOK means the store answered with data.
	StatusOK Status = iota
	// StatusEmpty means the store answered with nothing, or the call was skipped.
	StatusEmpty
	// StatusUnavailable means no store was configured.
	StatusUnavailable
	// StatusQueryError means the store was reachable but the query failed.
	StatusQueryError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusUnavailable:
		return "unavailable"
	case StatusQueryError:
		return "query_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries the outcome of an operation.
//
// Value always holds what a lenient caller should render: an empty slice,
// a nil record or the policy decision. Err keeps the underlying failure so
// strict callers can act on it.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// OK reports whether the store answered with data.
func (r Result[T]) OK() bool { return r.Status == StatusOK }

// Strict returns the value, or an error when the store was unavailable or the query failed.
func (r Result[T]) Strict() (T, error) {
	switch r.Status {
	case StatusUnavailable:
		return r.Value, ErrStoreUnavailable
	case StatusQueryError:
		if r.Err == nil {
			return r.Value, errors.New("query failed")
		}
		return r.Value, r.Err
	default:
		return r.Value, nil
	}
}

func ok[T any](v T) Result[T] { return Result[T]{Value: v, Status: StatusOK} }

func empty[T any](v T) Result[T] { return Result[T]{Value: v, Status: StatusEmpty} }

func unavailable[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusUnavailable, Err: ErrStoreUnavailable}
}

func queryError[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Status: StatusQueryError, Err: err}
}

// rows maps a list answer to OK or Empty, never returning a nil slice.
func rows(list []Companion) Result[[]Companion] {
	if len(list) == 0 {
		return empty([]Companion{})
	}
	return ok(list)
}
