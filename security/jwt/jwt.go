// Package jwt issues and validates the HS256 tokens used for API access.
// Access tokens are short-lived bearer credentials; refresh tokens are
// long-lived and tied to a server-side session row.
package jwt

import (
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

// TokenError represents JWT token related errors.
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpiry  = 30 * time.Minute
	DefaultRefreshTokenExpiry = 30 * 24 * time.Hour

	ErrNeedTokenSecret = TokenError("cannot sign token without a secret")
	ErrInvalidToken    = TokenError("invalid token")
	ErrTokenParsing    = TokenError("token parsing error")
)

// TokenConfig overrides token expiries.
type TokenConfig struct {
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// TokenManager handles JWT token operations.
type TokenManager struct {
	key           string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenManager creates a TokenManager with optional expiry overrides.
func NewTokenManager(key string, cfg ...*TokenConfig) *TokenManager {
	tm := &TokenManager{
		key:           key,
		accessExpiry:  DefaultAccessTokenExpiry,
		refreshExpiry: DefaultRefreshTokenExpiry,
	}
	if len(cfg) > 0 && cfg[0] != nil {
		if cfg[0].AccessTokenExpiry > 0 {
			tm.accessExpiry = cfg[0].AccessTokenExpiry
		}
		if cfg[0].RefreshTokenExpiry > 0 {
			tm.refreshExpiry = cfg[0].RefreshTokenExpiry
		}
	}
	return tm
}

func (tm *TokenManager) generateToken(jti, subject string, payload map[string]any, expiry time.Duration) (string, error) {
	if tm.key == "" {
		return "", ErrNeedTokenSecret
	}

	now := time.Now()
	claims := jwtstd.MapClaims{
		"jti":     jti,
		"sub":     subject,
		"payload": payload,
		"iat":     now.Unix(),
		"exp":     now.Add(expiry).Unix(),
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(tm.key))
}

// GenerateAccessToken generates an access token.
func (tm *TokenManager) GenerateAccessToken(jti string, payload map[string]any) (string, error) {
	return tm.generateToken(jti, "access", payload, tm.accessExpiry)
}

// GenerateRefreshToken generates a refresh token.
func (tm *TokenManager) GenerateRefreshToken(jti string, payload map[string]any) (string, error) {
	return tm.generateToken(jti, "refresh", payload, tm.refreshExpiry)
}

// DecodeToken verifies the signature and expiry and returns the claims.
func (tm *TokenManager) DecodeToken(tokenString string) (map[string]any, error) {
	if tm.key == "" {
		return nil, ErrNeedTokenSecret
	}

	token, err := jwtstd.Parse(tokenString, func(t *jwtstd.Token) (any, error) {
		if _, ok := t.Method.(*jwtstd.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(tm.key), nil
	})
	if err != nil {
		return nil, ErrTokenParsing
	}

	claims, ok := token.Claims.(jwtstd.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessExpiry returns the configured access token lifetime.
func (tm *TokenManager) AccessExpiry() time.Duration {
	return tm.accessExpiry
}

// RefreshExpiry returns the configured refresh token lifetime.
func (tm *TokenManager) RefreshExpiry() time.Duration {
	return tm.refreshExpiry
}
