package dto

import (
	"net/http"

	"github.com/nestapp/backend/internal/domain/shared"
)

// Error codes returned in the response envelope. Domain codes pass through
// unchanged; the remainder are produced by the HTTP layer itself.
const (
	ErrCodeValidation  = shared.CodeValidation
	ErrCodeStateConfl  = shared.CodeStateConfl
	ErrCodeConcurrency = shared.CodeConcurrency
	ErrCodeNotFound    = shared.CodeNotFound
	ErrCodeStorage     = shared.CodeStorage
	ErrCodeIntegrity   = shared.CodeIntegrity
	ErrCodeForbidden   = shared.CodeForbidden

	// ErrCodeUnauthorized is used when the bearer token is missing or invalid
	ErrCodeUnauthorized = shared.CodeUnauthorize
	// ErrCodeBadRequest is used for malformed requests that never reached the engine
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRateLimited is used when the webhook rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	// ErrCodeInternal is used for unexpected failures
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeStateConfl:  http.StatusConflict,
	ErrCodeConcurrency: http.StatusConflict,
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeStorage:     http.StatusInternalServerError,
	ErrCodeIntegrity:   http.StatusInternalServerError,
	ErrCodeForbidden:   http.StatusForbidden,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps alternative spellings still emitted by older
// bot builds and adapters onto the canonical codes
var LegacyErrorCodeMapping = map[string]string{
	"INVALID_INPUT":            ErrCodeValidation,
	"ERR_VALIDATION":           ErrCodeValidation,
	"INVALID_STATE":            ErrCodeStateConfl,
	"ERR_INVALID_STATE":        ErrCodeStateConfl,
	"ERR_CONCURRENCY_CONFLICT": ErrCodeConcurrency,
	"ERR_NOT_FOUND":            ErrCodeNotFound,
	"ERR_FORBIDDEN":            ErrCodeForbidden,
	"ERR_UNAUTHORIZED":         ErrCodeUnauthorized,
	"ERR_INTERNAL":             ErrCodeInternal,
	"RATE_LIMIT_EXCEEDED":      ErrCodeRateLimited,
}

// NormalizeErrorCode converts a legacy error code to the canonical format
// If the code is already canonical or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
