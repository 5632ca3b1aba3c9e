package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/serverless-auth/customer-auth/internal/api/handler"
	"github.com/serverless-auth/customer-auth/internal/api/metrics"
	"github.com/serverless-auth/customer-auth/internal/core/domain"
	"github.com/serverless-auth/customer-auth/internal/core/ports"
)

// Auth validates the bearer token and injects its claims into the context:
// the full *domain.TokenClaims under handler.ClaimsKey plus "role" and
// "customer_id" for RBAC.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			c.Set(handler.ClaimsKey, claims)
			c.Set("role", claims.Role)
			c.Set("customer_id", claims.Subject)

			return next(c)
		}
	}
}
