package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/core/domain/sequence"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

type resetSequenceRequest struct {
	Value *int64 `json:"value" validate:"required,min=0"`
}

type codeResponse struct {
	Code      string `json:"code"`
	Partition string `json:"partition"`
	Sequence  int64  `json:"sequence"`
}

func sequenceHTTPError(err error) error {
	switch {
	case errors.Is(err, sequence.ErrInvalidPartition), errors.Is(err, sequence.ErrInvalidValue), errors.Is(err, sequence.ErrInvalidCode):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, sequence.ErrExhausted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "sequence store unavailable")
	}
}

func (s *Server) allocateCode(c echo.Context) error {
	return s.allocateCodeFor(c, c.Param("year"))
}

// allocateCurrentYearCode allocates in the partition of the current calendar year.
func (s *Server) allocateCurrentYearCode(c echo.Context) error {
	return s.allocateCodeFor(c, sequence.YearPartition(s.now()))
}

func (s *Server) allocateCodeFor(c echo.Context, year string) error {
	code, seq, err := s.sequenceSvc.AllocateCode(c.Request().Context(), year)
	if err != nil {
		return sequenceHTTPError(err)
	}
	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), helpers.NewAuditRequest(c, audit.ActionCodeAllocated, audit.ResourceSequence, year, map[string]interface{}{"code": code}))
	}
	return c.JSON(http.StatusCreated, codeResponse{Code: code, Partition: year, Sequence: seq})
}

func (s *Server) peekNext(c echo.Context) error {
	partition := c.Param("partition")
	next, err := s.sequenceSvc.PeekNext(c.Request().Context(), partition)
	if err != nil {
		return sequenceHTTPError(err)
	}
	return c.JSON(http.StatusOK, codeResponse{Code: s.sequenceSvc.FormatCode(partition, next), Partition: partition, Sequence: next})
}

// resetSequence overwrites the last issued value; the service writes the audit entry.
func (s *Server) resetSequence(c echo.Context) error {
	var req resetSequenceRequest
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
	partition := c.Param("partition")
	if err := s.sequenceSvc.ResetSequence(c.Request().Context(), partition, *req.Value, p.ID); err != nil {
		return sequenceHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"partition": partition, "value": *req.Value, "next": *req.Value + 1})
}

func (s *Server) parseCode(c echo.Context) error {
	code := c.Param("code")
	partition, seq, err := s.sequenceSvc.ParseCode(code)
	if err != nil {
		return sequenceHTTPError(err)
	}
	return c.JSON(http.StatusOK, codeResponse{Code: code, Partition: partition, Sequence: seq})
}
