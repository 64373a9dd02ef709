package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/identity"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

type IdentityMiddleware struct {
	identity ports.IdentityProvider
	logger   *logrus.Logger
}

func NewIdentityMiddleware(identity ports.IdentityProvider, logger *logrus.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{identity: identity, logger: logger}
}

// Identify resolves the caller into a principal. Requests without a bearer token
// become anonymous guests keyed by client IP; a malformed or invalid token is rejected.
func (m *IdentityMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok, err := helpers.GetBearerToken(c)
			if err != nil {
				return err
			}
			if !ok {
				helpers.SetPrincipal(c, identity.AnonymousPrincipal(c.RealIP()))
				return next(c)
			}

			p, err := m.identity.Authenticate(c.Request().Context(), token)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("bearer token rejected")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			helpers.SetPrincipal(c, p)
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"principal_id": p.ID, "role": p.Role.String()}).Debug("principal resolved")
			}
			return next(c)
		}
	}
}

// RequireAuthenticated rejects anonymous principals.
func (m *IdentityMiddleware) RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := helpers.GetPrincipalFromContext(c)
			if err != nil {
				return err
			}
			if p.Anonymous {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
