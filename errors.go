package weaverfilter

import (
	"errors"
	"fmt"

	"github.com/weaver-proxy/weaverfilter/internal/handlerreg"
)

// ErrorCode is a high-level error category, mirroring the teacher's
// UblkErrorCode string-enum approach.
type ErrorCode string

const (
	ErrCodeUnknownURN        ErrorCode = "unknown urn"
	ErrCodeNoSuchHandler     ErrorCode = "no such handler"
	ErrCodeNoSuchTransaction ErrorCode = "no such transaction"
	ErrCodeNoSuchChunk       ErrorCode = "no such chunk"
	ErrCodeInternal          ErrorCode = "internal error"
)

// Error is a structured weaverfilter error with context and an
// error-code category, grounded on the teacher's *Error type
// (errors.go): Op, Code, Inner, with errors.Is/As support.
type Error struct {
	Op    string
	Code  ErrorCode
	Msg   string
	Inner error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("weaverfilter: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("weaverfilter: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is supports comparison against both *Error (by Code) and the legacy
// sentinel errors below, matching the teacher's backward-compatible
// UblkError comparison.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	if se, ok := target.(sentinelError); ok {
		return e.Code == ErrorCode(se)
	}
	return false
}

// sentinelError is a legacy plain-string error kept for errors.Is
// compatibility, exactly as the teacher kept UblkError alongside the
// structured *Error type.
type sentinelError string

func (e sentinelError) Error() string { return string(e) }

// Legacy sentinel errors for errors.Is comparisons.
const (
	ErrUnknownURN        sentinelError = sentinelError(ErrCodeUnknownURN)
	ErrNoSuchTransaction sentinelError = sentinelError(ErrCodeNoSuchTransaction)
	ErrNoSuchChunk       sentinelError = sentinelError(ErrCodeNoSuchChunk)
)

// NewError creates a new structured error.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// WrapError wraps inner with weaverfilter context. If inner is already a
// structured *Error, only its Op is updated.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if we, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: we.Code, Msg: we.Msg, Inner: we.Inner}
	}
	code := ErrCodeInternal
	if errors.Is(inner, handlerreg.ErrUnknownURN) {
		code = ErrCodeUnknownURN
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a structured *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Code == code
	}
	return false
}
