package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth holds authentication configuration.
type Auth struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ResetTokenExpiry   time.Duration
	ResetBaseURL       string // password reset link base, e.g. https://learnhub.dev/reset
}

func getAuthConfig(v *viper.Viper) *Auth {
	resetExpiry := v.GetDuration("auth.reset_token_expiry")
	if resetExpiry == 0 {
		resetExpiry = time.Hour
	}
	return &Auth{
		JWTSecret:          v.GetString("auth.jwt_secret"),
		AccessTokenExpiry:  v.GetDuration("auth.access_token_expiry"),
		RefreshTokenExpiry: v.GetDuration("auth.refresh_token_expiry"),
		ResetTokenExpiry:   resetExpiry,
		ResetBaseURL:       v.GetString("auth.reset_base_url"),
	}
}
