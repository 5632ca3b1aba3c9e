package domain

import "errors"

var (
	// ErrInvalidDocument covers malformed length, repeated-digit input and
	// checksum mismatch alike.
	ErrInvalidDocument  = errors.New("invalid document")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidCustomer  = errors.New("invalid customer")

	ErrTokenIssuance = errors.New("token issuance failed")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)
