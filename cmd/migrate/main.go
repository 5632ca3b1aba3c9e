// Command migrate prepares the customer store: it creates the document index
// (MongoDB) or the customers table (PostgreSQL), and optionally seeds a few
// sample customers for local use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/config"
	mongodb "github.com/serverless-auth/customer-auth/internal/infrastructure/db/mongo"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/db/postgres"
	"github.com/serverless-auth/customer-auth/pkg/logger"
)

type store interface {
	Upsert(ctx context.Context, c *domain.Customer) error
}

var sampleCustomers = []domain.CustomerParams{
	{Document: "111.444.777-35", Name: "João da Silva", Email: "joao.silva@example.com", Phone: "+55 11 98765-4321"},
	{Document: "529.982.247-25", Name: "Maria Santos", Email: "maria.santos@example.com", Phone: "+55 21 97654-3210"},
	{Document: "390.533.447-05", Name: "Pedro Oliveira", Email: "pedro.oliveira@example.com", Phone: "+55 31 96543-2109"},
}

func main() {
	withSampleData := flag.Bool("with-sample-data", false, "insert sample customers after migrating")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "customer-auth-migrate",
	})

	if err := run(ctx, cfg, log, *withSampleData); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("store", cfg.StoreDriver).Msg("migration complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, seed bool) error {
	var s store

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := postgres.NewCustomerRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		s = repo
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongodb.NewCustomerRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		s = repo
	}

	if !seed {
		return nil
	}
	return seedCustomers(ctx, s, log)
}

func seedCustomers(ctx context.Context, s store, log zerolog.Logger) error {
	now := time.Now().UTC()
	for _, p := range sampleCustomers {
		p.ID = sampleID(p.Document)
		p.CreatedAt, p.UpdatedAt = now, now

		c, err := domain.NewCustomer(p)
		if err != nil {
			return err
		}
		if err := s.Upsert(ctx, c); err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
		log.Info().Str("name", p.Name).Msg("sample customer upserted")
	}
	return nil
}

// sampleID derives a stable id from the document so reruns hit the same
// record instead of tripping the unique document index.
func sampleID(document string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(domain.CleanDocument(document))).String()
}
