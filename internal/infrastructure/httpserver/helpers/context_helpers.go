package helpers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/core/domain/identity"
)

// GetPrincipalFromContext returns the principal set by the identity middleware.
func GetPrincipalFromContext(c echo.Context) (identity.Principal, error) {
	p, ok := GetPrincipalRaw(c)
	if !ok {
		return identity.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid principal context")
	}
	return p, nil
}

// GetBearerToken extracts the bearer token. A missing header is not an error:
// it reports ok=false so the caller can fall back to an anonymous principal.
func GetBearerToken(c echo.Context) (token string, ok bool, err error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false, nil
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false, echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, true, nil
}

// NewAuditRequest builds an audit entry attributed to the request's principal.
func NewAuditRequest(c echo.Context, action audit.AuditAction, resource audit.AuditResource, resourceID string, details any) *audit.CreateAuditLogRequest {
	p, _ := GetPrincipalRaw(c)
	return &audit.CreateAuditLogRequest{
		ActorID:    p.ID,
		ActorRole:  p.Role.String(),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}
}
