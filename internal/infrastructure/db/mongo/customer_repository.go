package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

const collectionCustomers = "customers"

// CustomerRepository implements ports.CustomerRepository on MongoDB.
type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(collectionCustomers)}
}

type customerDocument struct {
	ID        string    `bson:"_id"`
	CPF       string    `bson:"cpf"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email,omitempty"`
	Phone     string    `bson:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// FindByDocument matches documents stored either raw or as ddd.ddd.ddd-dd.
func (r *CustomerRepository) FindByDocument(ctx context.Context, digits string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"cpf": bson.M{"$in": bson.A{digits, domain.FormatDigits(digits)}}}

	var doc customerDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if domain.CleanDocument(doc.CPF) != digits {
		return nil, domain.ErrCustomerNotFound
	}

	return toDomain(doc)
}

// Upsert stores c keyed by its id, keeping the document in the form given.
func (r *CustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := c.Params()
	doc := customerDocument{
		ID:        p.ID,
		CPF:       p.Document,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique index on cpf.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cpf", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_cpf"),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDomain(doc customerDocument) (*domain.Customer, error) {
	c, err := domain.NewCustomer(domain.CustomerParams{
		ID:        doc.ID,
		Document:  domain.CleanDocument(doc.CPF),
		Name:      doc.Name,
		Email:     doc.Email,
		Phone:     doc.Phone,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("decode customer %s: %w", doc.ID, err)
	}
	return c, nil
}
