package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

const defaultTTL = 60 * time.Minute

// Config holds the signing parameters of a JWTIssuer.
type Config struct {
	Secret    string
	Algorithm string // HS256, HS384 or HS512; HS256 when empty
	Issuer    string
	TTL       time.Duration
}

// claims is the wire form of a customer access token.
type claims struct {
	jwt.RegisteredClaims
	Document string `json:"cpf"`
	Role     string `json:"role"`
	TraceID  string `json:"trace_id"`
}

// JWTIssuer signs and verifies HMAC access tokens for authenticated customers.
type JWTIssuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer validates cfg and returns a ready issuer.
func NewJWTIssuer(cfg Config) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: empty secret", domain.ErrTokenIssuance)
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTIssuer{
		secret: []byte(cfg.Secret),
		method: method,
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subjectID carrying the document, the fixed client
// role, the api-client audience and a fresh trace id.
func (i *JWTIssuer) Issue(subjectID string, document domain.DocumentNumber) (string, error) {
	now := i.now().UTC()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{domain.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Document: document.Digits(),
		Role:     domain.RoleClient,
		TraceID:  uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(i.method, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenIssuance, err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry together.
func (i *JWTIssuer) Verify(token string) (*domain.TokenClaims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(domain.TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}

	return &domain.TokenClaims{
		Subject:   c.Subject,
		Document:  c.Document,
		Role:      c.Role,
		Audience:  c.Audience,
		TraceID:   c.TraceID,
		Issuer:    c.Issuer,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

func signingMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", domain.ErrTokenIssuance, alg)
	}
}
