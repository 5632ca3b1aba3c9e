package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCustomerRepo struct {
	mu       sync.Mutex
	byDigits map[string]*domain.Customer
	findErr  error
	lookedUp []string
}

func newStubCustomerRepo(customers ...*domain.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{byDigits: make(map[string]*domain.Customer)}
	for _, c := range customers {
		r.byDigits[c.Document()] = c
	}
	return r
}

func (r *stubCustomerRepo) FindByDocument(_ context.Context, digits string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookedUp = append(r.lookedUp, digits)
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.byDigits[digits]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

type stubTokenIssuer struct {
	mu       sync.Mutex
	token    string
	issueErr error
	issued   []string // subject:document pairs
}

func (i *stubTokenIssuer) Issue(subjectID string, doc domain.DocumentNumber) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.issueErr != nil {
		return "", i.issueErr
	}
	i.issued = append(i.issued, subjectID+":"+doc.Digits())
	if i.token != "" {
		return i.token, nil
	}
	return "tok-" + subjectID, nil
}

func (i *stubTokenIssuer) Verify(string) (*domain.TokenClaims, error) {
	return nil, domain.ErrTokenInvalid
}

func mustCustomer(t *testing.T, id, digits, name string) *domain.Customer {
	t.Helper()
	now := time.Now().UTC()
	c, err := domain.NewCustomer(domain.CustomerParams{
		ID: id, Document: digits, Name: name, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("build customer: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubCustomerRepo(mustCustomer(t, "c-1", "11144477735", "João da Silva"))
	issuer := &stubTokenIssuer{token: "tok-1"}
	svc := NewAuthService(repo, issuer, zerolog.Nop())

	out, err := svc.Authenticate(context.Background(), "111.444.777-35")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.IsAuthenticated() {
		t.Fatalf("expected authenticated outcome, got rejected %q", out.Reason)
	}
	if out.Token != "tok-1" || out.CustomerID != "c-1" || out.CustomerName != "João da Silva" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(repo.lookedUp) != 1 || repo.lookedUp[0] != "11144477735" {
		t.Fatalf("lookup should receive digits only, got %v", repo.lookedUp)
	}
	if len(issuer.issued) != 1 || issuer.issued[0] != "c-1:11144477735" {
		t.Fatalf("unexpected issue calls: %v", issuer.issued)
	}
}

func TestAuthService_Authenticate_InvalidDocument(t *testing.T) {
	repo := newStubCustomerRepo()
	issuer := &stubTokenIssuer{}
	svc := NewAuthService(repo, issuer, zerolog.Nop())

	for _, raw := range []string{"00000000000", "11144477736", "", "abc"} {
		out, err := svc.Authenticate(context.Background(), raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if out.IsAuthenticated() || out.Reason != domain.ReasonInvalidDocument {
			t.Fatalf("%q: expected InvalidDocument, got %+v", raw, out)
		}
	}
	if len(repo.lookedUp) != 0 {
		t.Fatalf("lookup must not run for invalid documents, got %v", repo.lookedUp)
	}
	if len(issuer.issued) != 0 {
		t.Fatalf("issuer must not run for invalid documents")
	}
}

func TestAuthService_Authenticate_CustomerNotFound(t *testing.T) {
	repo := newStubCustomerRepo(mustCustomer(t, "c-1", "11144477735", "João"))
	issuer := &stubTokenIssuer{}
	svc := NewAuthService(repo, issuer, zerolog.Nop())

	out, err := svc.Authenticate(context.Background(), "76974694059")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.IsAuthenticated() || out.Reason != domain.ReasonCustomerNotFound {
		t.Fatalf("expected CustomerNotFound, got %+v", out)
	}
	if len(issuer.issued) != 0 {
		t.Fatalf("issuer must not run when the customer is missing")
	}
}

func TestAuthService_Authenticate_LookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	repo := newStubCustomerRepo()
	repo.findErr = boom
	svc := NewAuthService(repo, &stubTokenIssuer{}, zerolog.Nop())

	out, err := svc.Authenticate(context.Background(), "11144477735")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
	if out.IsAuthenticated() {
		t.Fatalf("outcome must be empty on error")
	}
}

func TestAuthService_Authenticate_IssuanceFailure(t *testing.T) {
	repo := newStubCustomerRepo(mustCustomer(t, "c-1", "11144477735", "João"))
	issuer := &stubTokenIssuer{issueErr: errors.New("bad key")}
	svc := NewAuthService(repo, issuer, zerolog.Nop())

	_, err := svc.Authenticate(context.Background(), "11144477735")
	if !errors.Is(err, domain.ErrTokenIssuance) {
		t.Fatalf("expected ErrTokenIssuance, got %v", err)
	}
}

func TestAuthService_Authenticate_Concurrent(t *testing.T) {
	docs := []string{"11144477735", "52998224725", "39053344705"}
	var customers []*domain.Customer
	for i, d := range docs {
		customers = append(customers, mustCustomer(t, fmt.Sprintf("c-%d", i), d, fmt.Sprintf("name-%d", i)))
	}
	svc := NewAuthService(newStubCustomerRepo(customers...), &stubTokenIssuer{}, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for n := 0; n < 20; n++ {
		for i, d := range docs {
			wg.Add(1)
			go func(i int, d string) {
				defer wg.Done()
				out, err := svc.Authenticate(context.Background(), domain.FormatDigits(d))
				if err != nil {
					errs <- err
					return
				}
				want := fmt.Sprintf("c-%d", i)
				if out.CustomerID != want || out.Token != "tok-"+want {
					errs <- fmt.Errorf("doc %s: got %+v", d, out)
				}
			}(i, d)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
