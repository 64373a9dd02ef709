package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitExceededResponse is the body of a 429 response.
type RateLimitExceededResponse struct {
	Error      string           `json:"error"`
	Limit      permission.Limit `json:"limit"`
	Remaining  permission.Limit `json:"remaining"`
	ResetAt    time.Time        `json:"reset_at"`
	RetryAfter int              `json:"retry_after"`
}

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	now         func() time.Time
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, now: time.Now, logger: logger}
}

// Handler consumes one request unit for the principal set by the identity middleware.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := helpers.GetPrincipalFromContext(c)
			if err != nil {
				return err
			}

			res, rlErr := r.rateLimiter.CheckLimit(c.Request().Context(), p.ID, p.Role.String())
			helpers.SetRateLimitResult(c, res)
			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, res.Limit.String())
			h.Set(HeaderRateLimitRemaining, res.Remaining.String())
			h.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("principal_id", p.ID).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !res.Allowed {
				retry := res.RetryAfterSeconds(r.now())
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(retry))
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"principal_id": p.ID, "role": p.Role.String(), "retry_after": retry}).Debug("rate limit exceeded")
				}
				return c.JSON(http.StatusTooManyRequests, RateLimitExceededResponse{
					Error:      "rate limit exceeded",
					Limit:      res.Limit,
					Remaining:  0,
					ResetAt:    res.ResetAt,
					RetryAfter: retry,
				})
			}
			return next(c)
		}
	}
}
