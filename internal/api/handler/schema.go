package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// authRequest keeps cpf as a pointer so a missing key is told apart from an
// empty string: the former is a malformed request, the latter an invalid document.
type authRequest struct {
	CPF *string `json:"cpf" validate:"required,max=32"`
}

type customerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type authResponse struct {
	Token    string          `json:"token"`
	Message  string          `json:"message"`
	Customer customerSummary `json:"customer"`
}

type claimsResponse struct {
	Subject   string    `json:"sub"`
	Document  string    `json:"cpf"`
	Role      string    `json:"role"`
	Audience  []string  `json:"aud"`
	TraceID   string    `json:"trace_id"`
	Issuer    string    `json:"iss"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type protectedResponse struct {
	Message string         `json:"message"`
	Claims  claimsResponse `json:"claims"`
}
