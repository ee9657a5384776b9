package apperror

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind int

const (
	Unknown Kind = iota
	NotFound
	InvalidInput
	Conflict
	UpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a Kind and a human readable cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, format, args...)
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return New(InvalidInput, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return New(Conflict, format, args...)
}

// KindOf returns Unknown for errors that did not come from this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromGorm maps store errors: a missing row becomes NotFound, anything else is treated
// as the store being unavailable. Errors that already carry a Kind pass through.
func FromGorm(err error, what string) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != Unknown {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(NotFound, err, "%s not found", what)
	}
	return Wrap(UpstreamUnavailable, err, "%s: store unavailable", what)
}
