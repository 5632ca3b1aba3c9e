package ports

import (
	"context"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

// AuthService authenticates a customer from a raw document string.
//
// Business rejections come back as a Rejected outcome with a nil error; the
// error is reserved for unexpected collaborator failures.
type AuthService interface {
	Authenticate(ctx context.Context, rawDocument string) (domain.AuthenticationOutcome, error)
}
