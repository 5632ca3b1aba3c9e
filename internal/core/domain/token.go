package domain

import "time"

const (
	// RoleClient is the only role granted to authenticated customers.
	RoleClient = "client"
	// TokenAudience is the audience every issued token is bound to.
	TokenAudience = "api-client"
)

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Document  string    `json:"cpf"`
	Role      string    `json:"role"`
	Audience  []string  `json:"aud"`
	TraceID   string    `json:"trace_id"`
	Issuer    string    `json:"iss"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
