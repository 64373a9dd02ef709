package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
)

func (s *Server) getAuditLogs(c echo.Context) error {
	var filter audit.AuditLogFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	logs, total, err := s.auditSvc.GetAuditLogs(c.Request().Context(), &filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list audit logs")
	}
	if logs == nil {
		logs = []*audit.AuditLog{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": logs, "total": total, "limit": filter.Limit, "offset": filter.Offset})
}
