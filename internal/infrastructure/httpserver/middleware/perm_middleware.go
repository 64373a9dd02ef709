package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

type PermMiddleware struct {
	permissionService ports.PermissionService
}

func NewPermMiddleware(permissionService ports.PermissionService) *PermMiddleware {
	return &PermMiddleware{permissionService: permissionService}
}

func (m *PermMiddleware) guard(allowed func(roleName string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := helpers.GetPrincipalFromContext(c)
			if err != nil {
				return err
			}
			if !allowed(p.Role.String()) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func (m *PermMiddleware) RequireCapability(c permission.Capability) echo.MiddlewareFunc {
	return m.guard(func(roleName string) bool { return m.permissionService.HasCapability(roleName, c) })
}

func (m *PermMiddleware) RequireAnyCapability(caps ...permission.Capability) echo.MiddlewareFunc {
	return m.guard(func(roleName string) bool { return m.permissionService.HasAnyCapability(roleName, caps...) })
}

// RequireMinimumRole admits principals whose power level is at least that of minimum.
func (m *PermMiddleware) RequireMinimumRole(minimum role.Role) echo.MiddlewareFunc {
	return m.guard(func(roleName string) bool { return m.permissionService.MeetsMinimum(roleName, minimum) })
}
