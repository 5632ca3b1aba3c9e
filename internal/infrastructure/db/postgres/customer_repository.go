package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

// CustomerRepository implements ports.CustomerRepository on PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         VARCHAR(36)  PRIMARY KEY,
	cpf        VARCHAR(14)  UNIQUE,
	name       VARCHAR(100) NOT NULL,
	phone      VARCHAR(20),
	email      VARCHAR(100),
	created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_customers_cpf_digits
	ON customers ((regexp_replace(cpf, '[^0-9]', '', 'g')));`

// Migrate creates the customers table and the digits-only lookup index.
func (r *CustomerRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate customers: %w", err)
	}
	return nil
}

// FindByDocument compares the digits-only form of the stored cpf, so rows
// saved formatted or raw both match.
func (r *CustomerRepository) FindByDocument(ctx context.Context, digits string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT id, cpf, name, COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM customers
		WHERE regexp_replace(cpf, '[^0-9]', '', 'g') = $1
		LIMIT 1`

	var p domain.CustomerParams
	var cpf string
	err := r.pool.QueryRow(ctx, query, digits).Scan(
		&p.ID, &cpf, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	p.Document = domain.CleanDocument(cpf)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	c, err := domain.NewCustomer(p)
	if err != nil {
		return nil, fmt.Errorf("decode customer %s: %w", p.ID, err)
	}
	return c, nil
}

// Upsert inserts c or refreshes the existing row with the same id.
func (r *CustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := c.Params()
	query := `
		INSERT INTO customers (id, cpf, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			cpf = EXCLUDED.cpf,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Document, p.Name, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}
