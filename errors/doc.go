// Package errors provides a structured error taxonomy for configsync. It
// defines the error codes and categories used across the protocol, transport,
// and reconciliation layers so failures are handled consistently.
//
// # Error Categories
//
// Errors are classified into four categories:
//
//   - Transient: Temporary failures where retry may succeed (full buffers, etc.)
//   - Permanent: Failures where retry will not help (unknown key, invalid input)
//   - Protocol: Wire-level failures against the remote renderer
//   - Internal: Unexpected errors indicating bugs or system failures
//
// # Usage
//
// Create a new error:
//
//	err := errors.UnknownKey("purseColor")
//
// Wrap an existing error with context:
//
//	wrapped := errors.Wrap(err, "applying variant selection")
//
// Check a specific failure mode:
//
//	if errors.Is(err, errors.ErrCodeWriteInFlight) {
//	    // surface a "please wait" state to the UI
//	}
//
// # JSON Serialization
//
// All errors support JSON serialization for session logs:
//
//	data, err := json.Marshal(syncErr)
package errors
