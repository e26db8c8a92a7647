package jwt

// GetPayload extracts the custom payload map from decoded claims.
func GetPayload(claims map[string]any) map[string]any {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload
	}
	return map[string]any{}
}

// GetPayloadString returns a string field from the token payload.
func GetPayloadString(claims map[string]any, key string) string {
	if v, ok := GetPayload(claims)[key].(string); ok {
		return v
	}
	return ""
}

// GetSubject returns the token subject ("access" or "refresh").
func GetSubject(claims map[string]any) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// GetTokenID returns the token's jti claim.
func GetTokenID(claims map[string]any) string {
	if jti, ok := claims["jti"].(string); ok {
		return jti
	}
	return ""
}

// IsAccessToken reports whether the claims belong to an access token.
func IsAccessToken(claims map[string]any) bool {
	return GetSubject(claims) == "access"
}

// IsRefreshToken reports whether the claims belong to a refresh token.
func IsRefreshToken(claims map[string]any) bool {
	return GetSubject(claims) == "refresh"
}
