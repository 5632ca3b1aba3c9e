package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProtectedHandler struct{}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

// Show echoes the verified token claims back to the caller.
//
// @Summary      Protected resource
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /protected [get]
func (h *ProtectedHandler) Show(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, protectedResponse{
		Message: "access authorized",
		Claims: claimsResponse{
			Subject:   claims.Subject,
			Document:  claims.Document,
			Role:      claims.Role,
			Audience:  claims.Audience,
			TraceID:   claims.TraceID,
			Issuer:    claims.Issuer,
			IssuedAt:  claims.IssuedAt,
			ExpiresAt: claims.ExpiresAt,
		},
	})
}
