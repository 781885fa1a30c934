package dto

import (
	"net/http"
	"strings"
)

// Error codes mirror the domain error taxonomy so clients can branch on
// a stable identifier rather than the message text.

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when credentials are missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Workspace precondition codes, raised before any backend call is made
const (
	// ErrCodeNoTeamSelected is returned when a mutation requires an active team
	ErrCodeNoTeamSelected = "NO_TEAM_SELECTED"
	// ErrCodeNoScope is returned when a project has neither a team nor a private flag
	ErrCodeNoScope = "NO_SCOPE"
	// ErrCodeMissingID is returned when an update names no document
	ErrCodeMissingID = "MISSING_ID"
	// ErrCodeProjectNotFound is returned when an assignment target is absent
	ErrCodeProjectNotFound = "PROJECT_NOT_FOUND"
	// ErrCodeInvalidState is returned for disallowed lifecycle transitions
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeForbidden is returned when the viewer may not see a resource
	ErrCodeForbidden = "FORBIDDEN"
)

// Backend transport codes
const (
	// ErrCodeRemoteFetch is returned when a read from the backend fails
	ErrCodeRemoteFetch = "REMOTE_FETCH_FAILED"
	// ErrCodeRemoteWrite is returned when a write to the backend fails
	ErrCodeRemoteWrite = "REMOTE_WRITE_FAILED"
	// ErrCodeRemoteNotFound is returned when the backend has no such document
	ErrCodeRemoteNotFound = "REMOTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	// Preconditions the client can repair -> 422 Unprocessable Entity
	ErrCodeNoTeamSelected: http.StatusUnprocessableEntity,
	ErrCodeNoScope:        http.StatusUnprocessableEntity,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,

	ErrCodeMissingID:       http.StatusBadRequest,
	ErrCodeProjectNotFound: http.StatusNotFound,
	ErrCodeForbidden:       http.StatusForbidden,

	// Backend failures surface as bad gateway, not our fault codes
	ErrCodeRemoteFetch:    http.StatusBadGateway,
	ErrCodeRemoteWrite:    http.StatusBadGateway,
	ErrCodeRemoteNotFound: http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Field validation codes (INVALID_TITLE, INVALID_DATES, ...) all map to
// 400; anything unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
