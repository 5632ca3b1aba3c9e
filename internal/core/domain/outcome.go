package domain

// RejectReason explains why an authentication attempt was refused.
type RejectReason string

const (
	ReasonInvalidDocument  RejectReason = "invalid_document"
	ReasonCustomerNotFound RejectReason = "customer_not_found"
)

// Message is the human-readable text returned to callers.
func (r RejectReason) Message() string {
	switch r {
	case ReasonInvalidDocument:
		return "invalid document"
	case ReasonCustomerNotFound:
		return "customer not found"
	default:
		return "authentication failed"
	}
}

// AuthenticationOutcome is the single result of one authentication attempt:
// either Authenticated (token and customer summary set) or Rejected (Reason set).
type AuthenticationOutcome struct {
	authenticated bool

	Token        string
	CustomerID   string
	CustomerName string
	Reason       RejectReason
}

// Authenticated builds a successful outcome.
func Authenticated(token, customerID, customerName string) AuthenticationOutcome {
	return AuthenticationOutcome{
		authenticated: true,
		Token:         token,
		CustomerID:    customerID,
		CustomerName:  customerName,
	}
}

// Rejected builds a refused outcome.
func Rejected(reason RejectReason) AuthenticationOutcome {
	return AuthenticationOutcome{Reason: reason}
}

func (o AuthenticationOutcome) IsAuthenticated() bool { return o.authenticated }
