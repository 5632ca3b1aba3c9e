package domain

import (
	"fmt"
	"time"
)

// Customer is a read-only snapshot of a registered client. Storage has no
// status column, so every stored customer is considered active.
type Customer struct {
	id        string
	document  string
	name      string
	email     string
	phone     string
	createdAt time.Time
	updatedAt time.Time
}

// CustomerParams carries the raw attributes handed to NewCustomer.
type CustomerParams struct {
	ID        string
	Document  string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer builds a Customer, failing when the document or the name is empty.
func NewCustomer(p CustomerParams) (*Customer, error) {
	if p.Document == "" {
		return nil, fmt.Errorf("%w: document cannot be empty", ErrInvalidCustomer)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomer)
	}
	return &Customer{
		id:        p.ID,
		document:  p.Document,
		name:      p.Name,
		email:     p.Email,
		phone:     p.Phone,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (c *Customer) ID() string           { return c.id }
func (c *Customer) Document() string     { return c.document }
func (c *Customer) Name() string         { return c.name }
func (c *Customer) Email() string        { return c.email }
func (c *Customer) Phone() string        { return c.phone }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// IsActive always reports true.
func (c *Customer) IsActive() bool { return true }

// CanAuthenticate reports whether the customer may receive a token.
func (c *Customer) CanAuthenticate() bool { return c.IsActive() }

// Params returns the attributes of c, for adapters that need to serialize it.
func (c *Customer) Params() CustomerParams {
	return CustomerParams{
		ID:        c.id,
		Document:  c.document,
		Name:      c.name,
		Email:     c.email,
		Phone:     c.phone,
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}
