package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors so the transport layer can map them to a
// status code without string matching.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidOperation
	KindExternalUnavailable
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidOperation(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func ExternalUnavailable(message string, err error) error {
	return &Error{Kind: KindExternalUnavailable, Message: message, Err: err}
}

func isKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

func IsInvalidOperation(err error) bool {
	return isKind(err, KindInvalidOperation)
}

func IsExternalUnavailable(err error) bool {
	return isKind(err, KindExternalUnavailable)
}
