package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

// getOwnRateLimit reports the decision made for this very request.
func (s *Server) getOwnRateLimit(c echo.Context) error {
	res, ok := helpers.GetRateLimitResultRaw(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "rate limit state unavailable")
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) resetRateLimit(c echo.Context) error {
	principalID := c.Param("principal_id")
	if principalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "principal_id is required")
	}
	if err := s.rateLimiter.Reset(c.Request().Context(), principalID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset rate limit")
	}
	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), helpers.NewAuditRequest(c, audit.ActionRateLimitReset, audit.ResourceRateLimit, principalID, nil))
	}
	return c.NoContent(http.StatusNoContent)
}
