package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serverless-auth/customer-auth/internal/core/domain"
)

// ClaimsKey is the echo.Context key under which the Auth middleware stores
// the verified *domain.TokenClaims.
const ClaimsKey = "claims"

// ctxClaims extracts the claims injected by the Auth middleware. Missing
// claims mean the middleware did not run, which is reported as 401.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, _ := c.Get(ClaimsKey).(*domain.TokenClaims)
	if claims == nil || claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
