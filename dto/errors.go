package dto

import jsoniter "github.com/json-iterator/go"

// json is the shared marshaling configuration for all DTO types.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes of the cross-service envelopes. Business error codes are
// domain-specific and defined by each service.
const (
	// CodeUnknown is returned with HTTP 500 for any unhandled error.
	CodeUnknown = "unknown"

	// CodeInvalidRequest is returned with HTTP 400 when request
	// validation fails.
	CodeInvalidRequest = "invalid_request"
)

// UnknownError is the HTTP 500 envelope. It deliberately carries no detail
// beyond the code; internals belong in logs and traces, not in responses.
type UnknownError struct {
	Code string `json:"code"`
}

// NewUnknownError returns the fixed 500 envelope.
func NewUnknownError() UnknownError {
	return UnknownError{Code: CodeUnknown}
}

// ValidationDetail describes one failed validation rule.
type ValidationDetail struct {
	// Loc is the path to the offending field, outermost segment first,
	// e.g. ["body", "user", "email"].
	Loc []string `json:"loc"`

	// Msg is a human-readable description of the failure.
	Msg string `json:"msg"`

	// Type is a machine-readable failure class, e.g. "value_error.missing".
	Type string `json:"type"`
}

// InvalidRequestError is the HTTP 400 envelope carrying per-field
// validation failures.
type InvalidRequestError struct {
	Code    string             `json:"code"`
	Details []ValidationDetail `json:"details"`
}

// NewInvalidRequestError returns the 400 envelope for the given failures.
func NewInvalidRequestError(details []ValidationDetail) InvalidRequestError {
	return InvalidRequestError{Code: CodeInvalidRequest, Details: details}
}

// BusinessError is the HTTP 422 envelope. Code identifies the violated
// business rule and is defined by the owning service.
type BusinessError struct {
	Code string `json:"code"`
}

// NewBusinessError returns a 422 envelope with the given domain code.
func NewBusinessError(code string) BusinessError {
	return BusinessError{Code: code}
}

// Marshal serializes v with the kit's shared JSON configuration.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
