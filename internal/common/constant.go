// Package common contains shared constants and sentinel errors used across
// back-office components.
package common

// Cookie names carrying the sealed session tokens.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// RefreshTokenPath is the only path the refresh cookie is sent to.
const RefreshTokenPath = "/api/auth/refresh"

// TokenAudience is the audience claim carried by every session token.
const TokenAudience = "user"

// Supported runtime environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
