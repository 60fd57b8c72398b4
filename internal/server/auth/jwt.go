// Package auth signs and verifies the session tokens. Tokens are stateless
// HS256 JWTs; nothing is stored server-side.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is carried by access tokens.
type AccessTokenPayload struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

// RefreshTokenPayload is carried by refresh tokens.
type RefreshTokenPayload struct {
	ID string `json:"id"`
}

// SignOptions control how a token is signed.
//
// ExpiresIn is measured from the moment of signing; zero yields a token that
// is already expired. Audience is optional.
type SignOptions struct {
	Secret    []byte
	ExpiresIn time.Duration
	Audience  string
}

// VerifyOptions control how a token is verified. When Audience is set the
// token must carry it.
type VerifyOptions struct {
	Secret   []byte
	Audience string
}

// Verify returns the options needed to check tokens signed with o.
func (o SignOptions) Verify() VerifyOptions {
	return VerifyOptions{Secret: o.Secret, Audience: o.Audience}
}

// Claims wraps a payload with the registered JWT claims.
type Claims[P any] struct {
	jwt.RegisteredClaims
	Payload P `json:"payload"`
}

// ParseExpiresIn converts "15m", "1h", "2d" or "0ms" style strings.
func ParseExpiresIn(s string) (time.Duration, error) {
	return timex.ParseDuration(s)
}

// SignToken signs payload with HS256. Every token gets a random id, so two
// tokens issued in the same second for the same payload still differ.
func SignToken[P any](payload P, opts SignOptions) (string, error) {
	now := time.Now()

	claims := Claims[P]{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.ExpiresIn)),
		},
		Payload: payload,
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks signature, expiry and audience and returns the payload.
//
// It never panics. Expired tokens produce an error matching
// common.ErrTokenExpired; every other failure matches common.ErrInvalidToken.
func VerifyToken[P any](tokenString string, opts VerifyOptions) (P, error) {
	var zero P

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	claims := &Claims[P]{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return opts.Secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
		}
		return zero, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return zero, common.ErrInvalidToken
	}

	return claims.Payload, nil
}

// SignAccessToken signs an access token for the given user.
func SignAccessToken(p AccessTokenPayload, opts SignOptions) (string, error) {
	return SignToken(p, opts)
}

// SignRefreshToken signs a refresh token for the given user.
func SignRefreshToken(p RefreshTokenPayload, opts SignOptions) (string, error) {
	return SignToken(p, opts)
}

// VerifyAccessToken verifies an access token and checks its subject.
func VerifyAccessToken(tokenString string, opts VerifyOptions) (AccessTokenPayload, error) {
	p, err := VerifyToken[AccessTokenPayload](tokenString, opts)
	if err != nil {
		return p, err
	}
	if p.ID == "" || !p.Role.Valid() {
		return AccessTokenPayload{}, fmt.Errorf("%w: malformed access payload", common.ErrInvalidToken)
	}
	return p, nil
}

// VerifyRefreshToken verifies a refresh token and checks its subject.
func VerifyRefreshToken(tokenString string, opts VerifyOptions) (RefreshTokenPayload, error) {
	p, err := VerifyToken[RefreshTokenPayload](tokenString, opts)
	if err != nil {
		return p, err
	}
	if p.ID == "" {
		return RefreshTokenPayload{}, fmt.Errorf("%w: malformed refresh payload", common.ErrInvalidToken)
	}
	return p, nil
}
