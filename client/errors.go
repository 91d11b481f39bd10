package client

import (
	"errors"
	"fmt"
)

// Kind classifies why a toolkit request failed
type Kind string

const (
	// KindTransport covers dial errors, timeouts and cancelled contexts
	KindTransport Kind = "TRANSPORT"
	// KindStatus indicates a non-2xx response from the backend
	KindStatus Kind = "STATUS"
	// KindSchema indicates a payload that does not match the endpoint schema
	KindSchema Kind = "SCHEMA"
	// KindRejected indicates the backend answered false to a purge or send
	KindRejected Kind = "REJECTED"
)

// Error is returned by every Client method
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a client error of the given kind
func IsKind(err error, kind Kind) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}
	return false
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
