package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/serverless-auth/customer-auth/internal/api/metrics"
	"github.com/serverless-auth/customer-auth/internal/core/ports"
)

const outcomeError = "error"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Authenticate exchanges a CPF for an access token.
//
// @Summary      Authenticate a customer by CPF
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authRequest  true  "Customer document, formatted or digits only"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	outcome, err := h.authService.Authenticate(c.Request().Context(), *req.CPF)
	if err != nil {
		observe(outcomeError, start)
		return err
	}

	if !outcome.IsAuthenticated() {
		observe(string(outcome.Reason), start)
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: outcome.Reason.Message()})
	}

	observe("authenticated", start)
	return c.JSON(http.StatusOK, authResponse{
		Token:   outcome.Token,
		Message: "authentication successful",
		Customer: customerSummary{
			ID:   outcome.CustomerID,
			Name: outcome.CustomerName,
		},
	})
}

func observe(outcome string, start time.Time) {
	metrics.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
	metrics.AuthDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
