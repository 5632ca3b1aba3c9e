package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
	"github.com/serverless-auth/customer-auth/internal/core/ports"
)

const tracerName = "github.com/serverless-auth/customer-auth/internal/core/service"

// AuthService runs the authentication pipeline:
// validate document → look customer up → authorize → issue token.
type AuthService struct {
	customers ports.CustomerRepository
	tokens    ports.TokenIssuer
	log       zerolog.Logger
	tracer    trace.Tracer
}

func NewAuthService(customers ports.CustomerRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		customers: customers,
		tokens:    tokens,
		log:       log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Authenticate short-circuits on the first failing stage. Rejections are
// returned as outcomes; only collaborator failures produce an error.
func (s *AuthService) Authenticate(ctx context.Context, rawDocument string) (domain.AuthenticationOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	doc, err := domain.ParseDocument(rawDocument)
	if err != nil {
		return s.reject(span, domain.ReasonInvalidDocument, ""), nil
	}
	span.SetAttributes(attribute.String("auth.document", doc.Masked()))

	customer, err := s.customers.FindByDocument(ctx, doc.Digits())
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return s.reject(span, domain.ReasonCustomerNotFound, doc.Masked()), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "customer lookup failed")
		return domain.AuthenticationOutcome{}, fmt.Errorf("authenticate: find customer: %w", err)
	}

	if !customer.CanAuthenticate() {
		return s.reject(span, domain.ReasonCustomerNotFound, doc.Masked()), nil
	}

	token, err := s.tokens.Issue(customer.ID(), doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		if !errors.Is(err, domain.ErrTokenIssuance) {
			err = fmt.Errorf("%w: %w", domain.ErrTokenIssuance, err)
		}
		return domain.AuthenticationOutcome{}, fmt.Errorf("authenticate: %w", err)
	}

	span.SetAttributes(attribute.String("auth.customer_id", customer.ID()))
	s.log.Info().
		Str("document", doc.Masked()).
		Str("customer_id", customer.ID()).
		Msg("customer authenticated")

	return domain.Authenticated(token, customer.ID(), customer.Name()), nil
}

func (s *AuthService) reject(span trace.Span, reason domain.RejectReason, maskedDoc string) domain.AuthenticationOutcome {
	span.SetAttributes(attribute.String("auth.reject_reason", string(reason)))
	s.log.Info().
		Str("document", maskedDoc).
		Str("reason", string(reason)).
		Msg("authentication rejected")
	return domain.Rejected(reason)
}
