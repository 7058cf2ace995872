package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error chain.
// If err is nil, Wrap returns nil.
// If err is already a SyncError, it wraps it with the new message.
// Otherwise, it creates a new Internal error wrapping the original.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	// If it's already a SyncError, preserve its properties
	var syncErr *Error
	if errors.As(err, &syncErr) {
		wrapped := &Error{
			code:      syncErr.code,
			category:  syncErr.category,
			message:   message,
			cause:     err,
			metadata:  syncErr.Metadata(),
			retryable: syncErr.retryable,
			sessionID: syncErr.sessionID,
			key:       syncErr.key,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	// Check for context errors
	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeAckTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	// Default to internal error for unknown errors
	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// AsSyncError attempts to extract a SyncError from an error chain.
// Returns nil if no SyncError is found.
func AsSyncError(err error) SyncError {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr
	}
	return nil
}

// Is checks if any error in the chain has the given error code.
func Is(err error, code ErrorCode) bool {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.code == code
	}
	return false
}

// IsCategory checks if any error in the chain has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.category == category
	}
	return false
}

// IsRetryable checks if the error is retryable.
func IsRetryable(err error) bool {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.Retryable()
	}
	// Default to not retryable for non-SyncErrors
	return false
}

// IsTransient checks if the error is transient.
func IsTransient(err error) bool {
	return IsCategory(err, CategoryTransient)
}

// IsPermanent checks if the error is permanent.
func IsPermanent(err error) bool {
	return IsCategory(err, CategoryPermanent)
}

// IsProtocol checks if the error is a wire-protocol error.
func IsProtocol(err error) bool {
	return IsCategory(err, CategoryProtocol)
}

// Code extracts the error code from an error, if available.
// Returns empty string if err is not a SyncError.
func Code(err error) ErrorCode {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.code
	}
	return ""
}

// Category extracts the error category from an error, if available.
// Returns empty string if err is not a SyncError.
func Category(err error) ErrorCategory {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.category
	}
	return ""
}

// Cause returns the root cause of the error chain.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := unwrapper.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

// Join combines multiple errors into a single error.
// Uses errors.Join from the standard library.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
