package models

import (
	"errors"
	"fmt"
)

// Kind classifies an error independently of how a caller reports it.
// Transports map kinds to their own status codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPermissionDenied
	KindNotFound
	KindChainIntegrity
	KindConnection
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindChainIntegrity:
		return "chain_integrity"
	case KindConnection:
		return "connection"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by the domain layer.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "card.move"
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch {
	case e.Message != "" && e.Err != nil:
		msg = e.Message + ": " + e.Err.Error()
	case e.Message != "":
		msg = e.Message
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels (no op and no message) by kind and everything
// else by identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" && t.Message == "" && t.Err == nil {
		return e.Kind == t.Kind
	}
	return e == t
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrChainIntegrity   = &Error{Kind: KindChainIntegrity}
	ErrConnection       = &Error{Kind: KindConnection}
	ErrTransaction      = &Error{Kind: KindTransaction}
)

// NewError creates a domain error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error.
func Validation(message string) *Error { return NewError(KindValidation, message) }

// NotFound creates a not-found error.
func NotFound(message string) *Error { return NewError(KindNotFound, message) }

// Integrity creates a chain integrity error.
func Integrity(format string, args ...any) *Error {
	return NewError(KindChainIntegrity, fmt.Sprintf(format, args...))
}

// Denied creates a permission error carrying the operation that was refused.
func Denied(op, message string) *Error {
	return &Error{Kind: KindPermissionDenied, Op: op, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns a copy of a domain error annotated with op. The copy still
// wraps the original so identity checks against package sentinels hold.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if !errors.As(err, &de) {
		return err
	}
	if de.Op != "" {
		return err
	}
	return &Error{Kind: de.Kind, Op: op, Err: err}
}

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
