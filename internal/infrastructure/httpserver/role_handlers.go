package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

type bulkTransitionRequest struct {
	Transitions []ports.TransitionRequest `json:"transitions" validate:"required,min=1,max=100,dive"`
}

type transitionResponse struct {
	role.TransitionResult
	Code int `json:"code,omitempty"`
}

type accessResponse struct {
	PrincipalID string          `json:"principal_id"`
	Anonymous   bool            `json:"anonymous"`
	Role        role.Definition `json:"role"`
}

func (s *Server) listRoles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"roles": s.permissionSvc.Catalog()})
}

func (s *Server) getRole(c echo.Context) error {
	r, ok := role.Parse(c.Param("role"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown role")
	}
	return c.JSON(http.StatusOK, r.Definition())
}

func (s *Server) getOwnAccess(c echo.Context) error {
	p, err := helpers.GetPrincipalFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessResponse{PrincipalID: p.ID, Anonymous: p.Anonymous, Role: p.Role.Definition()})
}

func (s *Server) getAssignableRoles(c echo.Context) error {
	p, err := helpers.GetPrincipalFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"roles": s.accessControl.AssignableRoles(p.Role.String())})
}

// checkTransition answers 200 when the acting principal may perform the change and 403 with the reason otherwise.
func (s *Server) checkTransition(c echo.Context) error {
	var req ports.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := helpers.GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	authErr := s.accessControl.AuthorizeTransition(req.CurrentRole, req.NewRole, p.Role.String())
	result := transitionResponse{TransitionResult: role.TransitionResult{Allowed: authErr == nil}}
	var acErr ports.AccessControlError
	if errors.As(authErr, &acErr) {
		result.Reason = acErr.Message()
		result.Code = acErr.Code()
	}
	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), helpers.NewAuditRequest(c, audit.ActionRoleTransition, audit.ResourceRole, req.PrincipalID, map[string]interface{}{
			"current_role": req.CurrentRole,
			"new_role":     req.NewRole,
			"allowed":      result.Allowed,
			"reason":       result.Reason,
			"code":         result.Code,
		}))
	}
	if !result.Allowed {
		return c.JSON(http.StatusForbidden, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) checkBulkTransitions(c echo.Context) error {
	var req bulkTransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := helpers.GetPrincipalFromContext(c)
	if err != nil {
		return err
	}

	outcomes := s.accessControl.ValidateBulk(p.Role.String(), req.Transitions)
	allowed := 0
	for _, o := range outcomes {
		if o.Allowed {
			allowed++
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": outcomes,
		"allowed": allowed,
		"denied":  len(outcomes) - allowed,
	})
}
