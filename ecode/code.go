package ecode

import "net/http"

// Business codes. 0 is success; negative codes group by concern:
// -1xx auth, -4xx request/resource, -5xx server.
const (
	OK = 0

	NoLogin      = -101
	UserDisabled = -102
	UserInactive = -106

	RequestErr       = -400
	Unauthorized     = -401
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409
	LimitExceed      = -429
	Canceled         = -498

	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var messages = map[int]string{
	OK:                 "success",
	NoLogin:            "account not logged in",
	UserDisabled:       "account suspended",
	UserInactive:       "account not activated",
	RequestErr:         "invalid request",
	Unauthorized:       "unauthorized",
	AccessDenied:       "access denied",
	NothingFound:       "resource not found",
	MethodNotAllowed:   "method not allowed",
	Conflict:           "resource conflict",
	LimitExceed:        "too many requests",
	Canceled:           "request canceled",
	ServerErr:          "internal server error",
	ServiceUnavailable: "service unavailable",
	Deadline:           "deadline exceeded",
}

var httpStatus = map[int]int{
	OK:                 http.StatusOK,
	NoLogin:            http.StatusUnauthorized,
	UserDisabled:       http.StatusForbidden,
	UserInactive:       http.StatusForbidden,
	RequestErr:         http.StatusBadRequest,
	Unauthorized:       http.StatusUnauthorized,
	AccessDenied:       http.StatusForbidden,
	NothingFound:       http.StatusNotFound,
	MethodNotAllowed:   http.StatusMethodNotAllowed,
	Conflict:           http.StatusConflict,
	LimitExceed:        http.StatusTooManyRequests,
	Canceled:           499,
	ServerErr:          http.StatusInternalServerError,
	ServiceUnavailable: http.StatusServiceUnavailable,
	Deadline:           http.StatusGatewayTimeout,
}

// Register registers a custom error code with its message.
// Application-specific codes should live in the -1000+ range.
func Register(code int, message string) {
	messages[code] = message
}

// Text returns the human-readable message for a code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status code.
func ToHTTPStatus(code int) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
