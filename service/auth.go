package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/crypto"
	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/email"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/nanoid"
	"github.com/learnhub/learnhub/security/jwt"
	"github.com/learnhub/learnhub/structs"
	"github.com/learnhub/learnhub/validation/validator"
)

// SignupRequest is the account registration payload.
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries profile field changes.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ResetPasswordRequest carries a password reset completion.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ClientInfo identifies the caller for session records.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService implements accounts, sessions and credential flows.
type AuthService struct {
	cfg         *config.Auth
	users       repository.UserRepository
	sessions    repository.SessionRepository
	resetTokens repository.ResetTokenRepository
	tm          *jwt.TokenManager
	sender      email.Sender
	newID       func() string
	log         *logger.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	cfg *config.Auth,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	resetTokens repository.ResetTokenRepository,
	tm *jwt.TokenManager,
	sender email.Sender,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		users:       users,
		sessions:    sessions,
		resetTokens: resetTokens,
		tm:          tm,
		sender:      sender,
		newID:       nanoid.PrimaryKey(),
		log:         log,
	}
}

// Signup registers a new account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest, client ClientInfo) (*structs.User, *structs.TokenPair, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validator.IsEmail(req.Email) {
		return nil, nil, ErrInvalidEmail
	}
	if !validator.IsStrongPassword(req.Password) {
		return nil, nil, ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}
	if req.Username != "" {
		if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
			return nil, nil, ErrUsernameTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &structs.User{
		ID:           s.newID(),
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user, client)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, client ClientInfo) (*structs.User, *structs.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !crypto.ComparePassword(user.PasswordHash, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(ctx, user, client)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented session is replaced by
// a new one and a fresh token pair is issued. A refresh token can
// therefore be used exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*structs.TokenPair, error) {
	claims, err := s.tm.DecodeToken(refreshToken)
	if err != nil || !jwt.IsRefreshToken(claims) {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		_ = s.sessions.DeleteByRefreshToken(ctx, refreshToken)
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.sessions.DeleteByRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user, client)
}

// Logout ends the session behind the refresh token. Unknown tokens are
// not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.sessions.DeleteByRefreshToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// Profile returns the account for the given user ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (*structs.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies partial profile changes.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*structs.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if *req.Username != "" {
			if existing, err := s.users.FindByUsername(ctx, *req.Username); err == nil && existing.ID != userID {
				return nil, ErrUsernameTaken
			} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
		}
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
// All sessions are revoked; existing refresh tokens stop working.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.ComparePassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	if !validator.IsStrongPassword(req.NewPassword) {
		return ErrWeakPassword
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
		s.log.Warn(ctx, "failed to revoke sessions after password change", "user_id", userID, "error", err)
	}

	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// ForgotPassword starts the reset flow. It deliberately succeeds for
// unknown addresses so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	token := &structs.PasswordResetToken{
		ID:        s.newID(),
		UserID:    user.ID,
		Token:     nanoid.String(32),
		ExpiresAt: now.Add(s.cfg.ResetTokenExpiry),
		CreatedAt: now,
	}
	if err := s.resetTokens.Create(ctx, token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.cfg.ResetBaseURL, token.Token)
	if err := s.sender.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		s.log.Error(ctx, "failed to send reset email", "user_id", user.ID, "error", err)
		return err
	}

	s.log.Info(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword completes the reset flow with a single-use token.
func (s *AuthService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	token, err := s.resetTokens.FindByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return err
	}
	if token.Used || time.Now().UTC().After(token.ExpiresAt) {
		return ErrInvalidResetToken
	}
	if !validator.IsStrongPassword(req.NewPassword) {
		return ErrWeakPassword
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	if err := s.resetTokens.MarkUsed(ctx, token.ID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUserID(ctx, token.UserID); err != nil {
		s.log.Warn(ctx, "failed to revoke sessions after password reset", "user_id", token.UserID, "error", err)
	}

	s.log.Info(ctx, "password reset completed", "user_id", token.UserID)
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *structs.User, client ClientInfo) (*structs.TokenPair, error) {
	payload := map[string]any{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	}

	accessToken, err := s.tm.GenerateAccessToken(s.newID(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tm.GenerateRefreshToken(s.newID(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	session := &structs.Session{
		ID:           s.newID(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		ExpiresAt:    now.Add(s.tm.RefreshExpiry()),
		CreatedAt:    now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &structs.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tm.AccessExpiry().Seconds()),
	}, nil
}
