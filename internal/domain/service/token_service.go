// Package service defines interfaces for infrastructure-backed domain
// services so use cases stay independent of concrete providers.
package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a user.
	GenerateTokens(userID uuid.UUID) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its parsed form.
	ValidateAccessToken(tokenString string) (*jwt.Token, error)

	// ValidateRefreshToken checks a refresh token and returns its parsed form.
	ValidateRefreshToken(tokenString string) (*jwt.Token, error)
}
