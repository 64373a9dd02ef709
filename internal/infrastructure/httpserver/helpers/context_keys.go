package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/sfsc/platform-governance/internal/core/domain/identity"
	"github.com/sfsc/platform-governance/internal/core/domain/ratelimit"
)

type ctxKey string

const (
	keyPrincipal       ctxKey = "principal"
	keyRateLimitResult ctxKey = "rate_limit_result"
)

func SetPrincipal(c echo.Context, p identity.Principal) { c.Set(string(keyPrincipal), p) }
func GetPrincipalRaw(c echo.Context) (identity.Principal, bool) {
	p, ok := c.Get(string(keyPrincipal)).(identity.Principal)
	return p, ok
}

func SetRateLimitResult(c echo.Context, r ratelimit.Result) { c.Set(string(keyRateLimitResult), r) }
func GetRateLimitResultRaw(c echo.Context) (ratelimit.Result, bool) {
	r, ok := c.Get(string(keyRateLimitResult)).(ratelimit.Result)
	return r, ok
}
