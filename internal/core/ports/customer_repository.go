package ports

import (
	"context"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

// CustomerRepository looks customers up by their document number.
type CustomerRepository interface {
	// FindByDocument receives the canonical digits-only document. Stored
	// documents may be formatted or raw; implementations must match either.
	// A miss returns domain.ErrCustomerNotFound.
	FindByDocument(ctx context.Context, digits string) (*domain.Customer, error)
}
