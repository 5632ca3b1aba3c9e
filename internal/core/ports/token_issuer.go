package ports

import "github.com/serverless-auth/customer-auth/internal/core/domain"

// TokenIssuer signs and verifies customer access tokens.
type TokenIssuer interface {
	Issue(subjectID string, document domain.DocumentNumber) (string, error)
	TokenVerifier
}

// TokenVerifier is the read side of TokenIssuer, used by the auth middleware.
//
// Verify reports domain.ErrTokenExpired for expired tokens and
// domain.ErrTokenInvalid for every other failure.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}
