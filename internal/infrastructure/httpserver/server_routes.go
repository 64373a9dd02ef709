package httpserver

import (
	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	// Every API request is identified, then counted against the principal's quota.
	api := s.echo.Group("/api/v1", s.middleware.Identity.Identify(), s.middleware.RateLimit.Handler())
	api.GET("/roles", s.listRoles)
	api.GET("/roles/:role", s.getRole)
	api.GET("/me", s.getOwnAccess)
	api.GET("/rate-limits/me", s.getOwnRateLimit)

	protected := api.Group("", s.middleware.Identity.RequireAuthenticated())
	protected.GET("/roles/assignable", s.getAssignableRoles)
	protected.POST("/roles/transitions", s.checkTransition)
	protected.POST("/roles/transitions/bulk", s.checkBulkTransitions, s.middleware.Perm.RequireCapability(permission.ManageUsers))

	protected.DELETE("/rate-limits/:principal_id", s.resetRateLimit, s.middleware.Perm.RequireCapability(permission.ManageUsers))

	sequences := protected.Group("/sequences")
	sequences.GET("/codes/:code", s.parseCode)
	sequences.POST("/codes", s.allocateCurrentYearCode, s.middleware.Perm.RequireCapability(permission.Approve))
	sequences.POST("/:year/codes", s.allocateCode, s.middleware.Perm.RequireCapability(permission.Approve))
	sequences.GET("/:partition/next", s.peekNext, s.middleware.Perm.RequireAnyCapability(permission.Approve, permission.SeeTotals))
	sequences.PUT("/:partition", s.resetSequence, s.middleware.Perm.RequireMinimumRole(role.Highest()))

	audit := protected.Group("/audit")
	audit.GET("/logs", s.getAuditLogs, s.middleware.Perm.RequireMinimumRole(role.Admin))
}
