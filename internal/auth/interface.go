package auth

import "arbor/internal/domain/models"

// JWTVerifier validates access tokens and extracts the caller's claims.
type JWTVerifier interface {
	// VerifyToken validates a JWT and returns its claims, or an error if the
	// token is invalid, expired, or malformed
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases resources held by the verifier
	Close() error
}
