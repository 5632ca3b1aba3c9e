package redis

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
	"github.com/serverless-auth/customer-auth/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

// CacheRecorder receives hit/miss/error notifications. Optional.
type CacheRecorder interface {
	Record(result string)
}

// CachedCustomerRepository is a read-through cache in front of another
// CustomerRepository. Keys carry a BLAKE2b digest of the document, never the
// document itself. Misses of the underlying store are not cached.
// Key format: customer:doc:<hex digest>
type CachedCustomerRepository struct {
	client   redis.Cmdable
	next     ports.CustomerRepository
	ttl      time.Duration
	log      zerolog.Logger
	recorder CacheRecorder
}

// NewCachedCustomerRepository wraps next. A non-positive ttl falls back to
// five minutes; recorder may be nil.
func NewCachedCustomerRepository(
	client redis.Cmdable,
	next ports.CustomerRepository,
	ttl time.Duration,
	log zerolog.Logger,
	recorder CacheRecorder,
) *CachedCustomerRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedCustomerRepository{client: client, next: next, ttl: ttl, log: log, recorder: recorder}
}

type cachedCustomer struct {
	ID        string    `json:"id"`
	Document  string    `json:"cpf"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindByDocument serves from Redis when possible. Redis failures are logged
// and the call falls through to the wrapped repository.
func (r *CachedCustomerRepository) FindByDocument(ctx context.Context, digits string) (*domain.Customer, error) {
	key := CustomerKey(digits)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		c, decodeErr := decodeCustomer(raw)
		if decodeErr == nil {
			r.record("hit")
			return c, nil
		}
		r.log.Warn().Err(decodeErr).Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		r.record("miss")
	default:
		r.record("error")
		r.log.Warn().Err(err).Str("key", key).Msg("customer cache read failed, querying store")
	}

	c, err := r.next.FindByDocument(ctx, digits)
	if err != nil {
		return nil, err
	}

	payload, err := encodeCustomer(c)
	if err != nil {
		r.log.Warn().Err(err).Str("customer_id", c.ID()).Msg("failed to encode customer for cache")
		return c, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("customer cache write failed")
	}
	return c, nil
}

// CustomerKey builds the cache key for a digits-only document.
func CustomerKey(digits string) string {
	sum := blake2b.Sum256([]byte(digits))
	return fmt.Sprintf("customer:doc:%s", hex.EncodeToString(sum[:]))
}

func (r *CachedCustomerRepository) record(result string) {
	if r.recorder != nil {
		r.recorder.Record(result)
	}
}

func encodeCustomer(c *domain.Customer) ([]byte, error) {
	p := c.Params()
	return json.Marshal(cachedCustomer{
		ID:        p.ID,
		Document:  p.Document,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}

func decodeCustomer(raw []byte) (*domain.Customer, error) {
	var cc cachedCustomer
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, err
	}
	return domain.NewCustomer(domain.CustomerParams{
		ID:        cc.ID,
		Document:  cc.Document,
		Name:      cc.Name,
		Email:     cc.Email,
		Phone:     cc.Phone,
		CreatedAt: cc.CreatedAt,
		UpdatedAt: cc.UpdatedAt,
	})
}
