package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/serverless-auth/customer-auth/internal/api/handler"
	"github.com/serverless-auth/customer-auth/internal/core/domain"
	"github.com/serverless-auth/customer-auth/internal/core/service"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/security"
)

type memoryCustomers struct {
	byDigits map[string]*domain.Customer
	err      error
}

func (m *memoryCustomers) FindByDocument(_ context.Context, digits string) (*domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.byDigits[digits]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

type failingPinger struct{}

func (failingPinger) Name() string                 { return "store" }
func (failingPinger) Ping(_ context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, customers *memoryCustomers) *echo.Echo {
	t.Helper()

	issuer, err := security.NewJWTIssuer(security.Config{
		Secret: "router-test-secret",
		Issuer: "serverless-auth",
		TTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	e := NewRouter(Deps{
		AuthService:   service.NewAuthService(customers, issuer, zerolog.Nop()),
		TokenVerifier: issuer,
		Log:           zerolog.Nop(),
		Registry:      prometheus.NewRegistry(),
	})
	return e
}

func seededCustomers(t *testing.T) *memoryCustomers {
	t.Helper()
	c, err := domain.NewCustomer(domain.CustomerParams{
		ID:       "c-1",
		Document: "111.444.777-35",
		Name:     "João da Silva",
	})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	return &memoryCustomers{byDigits: map[string]*domain.Customer{"11144477735": c}}
}

func do(e *echo.Echo, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_AuthThenProtected(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	rec := do(e, http.MethodPost, "/auth", `{"cpf":"11144477735"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}

	rec = do(e, http.MethodGet, "/protected", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["message"] != "access authorized" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	claims, _ := body["claims"].(map[string]any)
	if claims["sub"] != "c-1" || claims["cpf"] != "11144477735" || claims["role"] != domain.RoleClient {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRouter_AuthRejections(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"invalid checksum", `{"cpf":"111.444.777-36"}`, http.StatusUnauthorized, "invalid document"},
		{"empty document", `{"cpf":""}`, http.StatusUnauthorized, "invalid document"},
		{"unknown customer", `{"cpf":"529.982.247-25"}`, http.StatusUnauthorized, "customer not found"},
		{"missing field", `{}`, http.StatusBadRequest, "field 'cpf' is required"},
		{"oversized document", `{"cpf":"111.444.777-35 111.444.777-35 111"}`, http.StatusBadRequest, "field 'cpf' must be at most 32 characters"},
		{"malformed json", `{"cpf":`, http.StatusBadRequest, "invalid payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/auth", tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if got := decode(t, rec)["error"]; got != tt.wantErr {
				t.Fatalf("expected error %q, got %v", tt.wantErr, got)
			}
		})
	}
}

func TestRouter_StoreFailureIsGeneric(t *testing.T) {
	e := newTestRouter(t, &memoryCustomers{err: errors.New("dial tcp 10.0.0.5:27017: i/o timeout")})

	rec := do(e, http.MethodPost, "/auth", `{"cpf":"111.444.777-35"}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if got := decode(t, rec)["error"]; got != "internal server error" {
		t.Fatalf("unexpected error message: %v", got)
	}
}

func TestRouter_ProtectedRequiresToken(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	tests := []struct {
		name    string
		header  string
		wantErr string
	}{
		{"no header", "", "missing authorization header"},
		{"wrong scheme", "Basic abc", "invalid authorization header"},
		{"garbage token", "Bearer not-a-jwt", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h[echo.HeaderAuthorization] = tt.header
			}
			rec := do(e, http.MethodGet, "/protected", "", h)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := decode(t, rec)["error"]; got != tt.wantErr {
				t.Fatalf("expected %q, got %v", tt.wantErr, got)
			}
		})
	}
}

func TestRouter_ProtectedRejectsForeignIssuer(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	other, err := security.NewJWTIssuer(security.Config{Secret: "another-secret", Issuer: "serverless-auth"})
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	doc, err := domain.ParseDocument("11144477735")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	token, err := other.Issue("c-1", doc)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := do(e, http.MethodGet, "/protected", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	if rec := do(e, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("readiness without deps: expected 200, got %d", rec.Code)
	}

	rec := do(e, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("expected http request metrics, got:\n%s", rec.Body.String())
	}
}

func TestRouter_ReadinessDegraded(t *testing.T) {
	e := NewRouter(Deps{
		Pingers:  []handler.Pinger{failingPinger{}},
		Log:      zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})

	rec := do(e, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "degraded" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	deps, _ := body["dependencies"].(map[string]any)
	store, _ := deps["store"].(map[string]any)
	if store["status"] != "unhealthy" {
		t.Fatalf("unexpected dependency report: %+v", deps)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestRouter(t, seededCustomers(t))

	rec := do(e, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "Not Found" {
		t.Fatalf("unexpected error: %v", got)
	}
}
