package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/middleware"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/service"
	"github.com/learnhub/learnhub/structs"
)

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	svc *service.AuthService
	log *logger.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func clientInfo(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

type authResponse struct {
	User   *structs.User      `json:"user"`
	Tokens *structs.TokenPair `json:"tokens"`
}

// Signup registers an account and signs it in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	user, tokens, err := h.svc.Signup(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, &authResponse{User: user, Tokens: tokens})
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, &authResponse{User: user, Tokens: tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken, clientInfo(c))
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, tokens)
}

// Logout ends the session behind the refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, "logged out")
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, user)
}

// UpdateMe applies partial profile changes.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, user)
}

// ChangePassword replaces the password for the authenticated account.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, "password changed")
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword starts the password reset flow. The response does not
// reveal whether the address exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, "if the address exists, a reset link has been sent")
}

// ResetPassword completes the password reset flow.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), &req); err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}

	resp.Success(c.Writer, "password reset")
}
