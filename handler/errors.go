package handler

import (
	"context"
	"errors"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/service"
)

// failure maps a service error onto the response envelope. Unrecognized
// errors are logged and returned as opaque internal errors.
func failure(ctx context.Context, log *logger.Logger, err error) *resp.Exception {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return resp.NotFound(err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		return resp.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return resp.UnAuthorized(err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		return resp.Forbidden(err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return resp.UnAuthorized(err.Error())
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInvalidTaskField),
		errors.Is(err, paging.ErrInvalidCursor):
		return resp.BadRequest(err.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		return resp.ServiceUnavailable(err.Error())
	default:
		log.Error(ctx, "request failed", "error", err)
		return resp.InternalServer("something went wrong")
	}
}
