package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/unrolled/secure"
)

// NewSecureHeaders wraps unrolled/secure as echo middleware.
func NewSecureHeaders(development bool) echo.MiddlewareFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         development,
	})
	return echo.WrapMiddleware(s.Handler)
}
