package errors

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

// Error categories define how errors should be handled.
const (
	// CategoryTransient indicates temporary failures where retry may succeed.
	// Examples: send buffer full, transport reconnecting.
	CategoryTransient ErrorCategory = "transient"

	// CategoryPermanent indicates failures where retry will not help.
	// Examples: unknown setting key, invalid command payload.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryProtocol indicates wire-level failures against the remote renderer.
	// Examples: malformed inbound message, unexpected message type.
	CategoryProtocol ErrorCategory = "protocol"

	// CategoryInternal indicates unexpected errors, bugs, or system failures.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	return c == CategoryTransient
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

// Error codes for common failure scenarios.
const (
	// Transient errors
	ErrCodeSendBuffer   ErrorCode = "SEND_BUFFER_FULL" // Outbound queue full
	ErrCodeReconnecting ErrorCode = "RECONNECTING"     // Transport re-establishing session
	ErrCodeNetworkErr   ErrorCode = "NETWORK_ERR"      // Network connectivity issue

	// Permanent errors
	ErrCodeUnknownKey      ErrorCode = "UNKNOWN_KEY"      // Setting key not registered
	ErrCodeWriteInFlight   ErrorCode = "WRITE_IN_FLIGHT"  // Write rejected while awaiting ack
	ErrCodeInvalidCommand  ErrorCode = "INVALID_COMMAND"  // Command failed validation
	ErrCodeEncodeFailed    ErrorCode = "ENCODE_FAILED"    // Command serialization failed
	ErrCodeTransportClosed ErrorCode = "TRANSPORT_CLOSED" // Session already torn down
	ErrCodeCanceled        ErrorCode = "CANCELED"         // Operation was canceled

	// Protocol errors
	ErrCodeMalformedMessage ErrorCode = "MALFORMED_MESSAGE" // Inbound payload failed decode
	ErrCodeUnexpectedType   ErrorCode = "UNEXPECTED_TYPE"   // Inbound type not recognized
	ErrCodeAckTimeout       ErrorCode = "ACK_TIMEOUT"       // Server never confirmed a change

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL" // Unexpected internal error
	ErrCodePanic    ErrorCode = "PANIC"    // Recovered from panic
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeSendBuffer, ErrCodeReconnecting, ErrCodeNetworkErr:
		return CategoryTransient

	case ErrCodeUnknownKey, ErrCodeWriteInFlight, ErrCodeInvalidCommand,
		ErrCodeEncodeFailed, ErrCodeTransportClosed, ErrCodeCanceled:
		return CategoryPermanent

	case ErrCodeMalformedMessage, ErrCodeUnexpectedType, ErrCodeAckTimeout:
		return CategoryProtocol

	default:
		return CategoryInternal
	}
}

// Description returns a human-readable default description for the code.
func (c ErrorCode) Description() string {
	switch c {
	case ErrCodeSendBuffer:
		return "outbound send buffer is full"
	case ErrCodeReconnecting:
		return "transport is re-establishing the session"
	case ErrCodeNetworkErr:
		return "network connectivity issue"
	case ErrCodeUnknownKey:
		return "setting key is not registered"
	case ErrCodeWriteInFlight:
		return "write rejected while awaiting server completion"
	case ErrCodeInvalidCommand:
		return "command failed validation"
	case ErrCodeEncodeFailed:
		return "command serialization failed"
	case ErrCodeTransportClosed:
		return "session transport is closed"
	case ErrCodeCanceled:
		return "operation was canceled"
	case ErrCodeMalformedMessage:
		return "inbound message failed to decode"
	case ErrCodeUnexpectedType:
		return "inbound message type not recognized"
	case ErrCodeAckTimeout:
		return "server never confirmed the state change"
	case ErrCodePanic:
		return "recovered from panic"
	default:
		return "unexpected internal error"
	}
}
