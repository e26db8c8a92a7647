package resp

import (
	"net/http"

	"github.com/learnhub/learnhub/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newException(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newException(http.StatusUnauthorized, ecode.Unauthorized, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newException(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newException(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newException(http.StatusConflict, ecode.Conflict, message, data...)
}

// TooManyRequests indicates the rate limit was exceeded.
func TooManyRequests(message string, data ...any) *Exception {
	return newException(http.StatusTooManyRequests, ecode.LimitExceed, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// ServiceUnavailable indicates a downstream dependency failure.
func ServiceUnavailable(message string, data ...any) *Exception {
	return newException(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, data...)
}
