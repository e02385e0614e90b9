package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure the caller can act on.
type Code string

const (
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeDimensionMismatch    Code = "DIMENSION_MISMATCH"
	CodeOperationInProgress  Code = "OPERATION_IN_PROGRESS"
	CodeConfirmationRequired Code = "CONFIRMATION_REQUIRED"
	CodeEntryImmutable       Code = "ENTRY_IMMUTABLE"
	CodeEmbeddingUnavailable Code = "EMBEDDING_UNAVAILABLE"
	CodeAuthError            Code = "AUTH_ERROR"
	CodeQuotaExceeded        Code = "QUOTA_EXCEEDED"
	CodeNetworkError         Code = "NETWORK_ERROR"
	CodeInvalidRequest       Code = "INVALID_REQUEST"
	CodeStoreInconsistency   Code = "STORE_INCONSISTENCY"
	CodeNotFound             Code = "NOT_FOUND"
)

// Error carries a code alongside a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from err, walking the wrap chain.
// Returns empty Code when err carries no *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// Retriable reports whether the failure is transient and worth another attempt.
// Credential and quota failures must never be retried automatically.
func Retriable(err error) bool {
	return CodeOf(err) == CodeNetworkError
}
