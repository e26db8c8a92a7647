// Package middleware provides the gin middleware stack: request
// tracing, JWT authentication and redis-backed rate limiting.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/ctxutil"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/net/resp"
	securityjwt "github.com/learnhub/learnhub/security/jwt"
)

// Auth validates the bearer token and puts the user identity on the
// request context. Refresh tokens are rejected here; they are only
// accepted by the refresh endpoint body.
func Auth(tm *securityjwt.TokenManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			resp.Fail(c.Writer, resp.UnAuthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := tm.DecodeToken(parts[1])
		if err != nil || !securityjwt.IsAccessToken(claims) {
			log.Warn(c.Request.Context(), "rejected token", "error", err)
			resp.Fail(c.Writer, resp.UnAuthorized("invalid token"))
			c.Abort()
			return
		}

		userID := securityjwt.GetPayloadString(claims, "user_id")
		if userID == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("invalid token"))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("is_admin", securityjwt.GetPayload(claims)["is_admin"] == true)
		c.Request = c.Request.WithContext(ctxutil.SetUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// CurrentUserID retrieves the authenticated user ID from the request.
func CurrentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// IsAdmin reports whether the authenticated user is an administrator.
func IsAdmin(c *gin.Context) bool {
	isAdmin, exists := c.Get("is_admin")
	return exists && isAdmin == true
}

// RequireAdmin rejects non-administrator requests. It must run after
// Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			resp.Fail(c.Writer, resp.Forbidden("administrator access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
