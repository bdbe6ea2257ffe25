package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Login flow errors
const (
	// ErrCodeConfiguration indicates a required setting is missing or invalid.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeProtocol indicates the authorization callback violated the
	// expected OAuth protocol (provider error, missing or replayed state).
	ErrCodeProtocol ErrorCode = "PROTOCOL_ERROR"
	// ErrCodeUpstream indicates the identity provider's token endpoint
	// returned a non-success status or an unparsable body.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the request is forbidden.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Resource and internal errors
const (
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in the login flow retries automatically; retry is the browser's
// responsibility by re-initiating /login.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
