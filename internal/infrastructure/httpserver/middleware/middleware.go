package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/metrics"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	Identity  *IdentityMiddleware
	Logging   *LoggingMiddleware
	Perm      *PermMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
	Secure    echo.MiddlewareFunc
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	identityProvider ports.IdentityProvider,
	permissionService ports.PermissionService,
	rateLimiterService ports.RateLimiterService,
	prom *metrics.Prometheus,
	development bool,
	logger *logrus.Logger,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		Identity:  NewIdentityMiddleware(identityProvider, logger),
		Logging:   NewLoggingMiddleware(logger),
		Perm:      NewPermMiddleware(permissionService),
		RateLimit: NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:   NewMetricsMiddleware(prom.RequestsTotal, prom.RequestDuration),
		Secure:    NewSecureHeaders(development),
	}
}
