package httpserver

import (
	"net"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/ports"
	customMiddleware "github.com/sfsc/platform-governance/internal/infrastructure/httpserver/middleware"
	"github.com/sfsc/platform-governance/internal/infrastructure/metrics"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	Development  bool
	// TrustedProxies are CIDRs whose X-Forwarded-For is honoured. Invalid entries are skipped.
	TrustedProxies []string
}

type ServerDeps struct {
	IdentityProvider     ports.IdentityProvider
	PermissionService    ports.PermissionService
	AccessControlService ports.AccessControlService
	RateLimiterService   ports.RateLimiterService
	SequenceService      ports.SequenceService
	AuditService         ports.AuditService
	HealthCheckers       []ports.HealthChecker
	Metrics              *metrics.Prometheus
	// Gatherer backs /metrics; defaults to the global registry.
	Gatherer prometheus.Gatherer
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	permissionSvc  ports.PermissionService
	accessControl  ports.AccessControlService
	rateLimiter    ports.RateLimiterService
	sequenceSvc    ports.SequenceService
	auditSvc       ports.AuditService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
	gatherer       prometheus.Gatherer
	now            func() time.Time
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.IPExtractor = newIPExtractor(serverConfig.TrustedProxies)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		permissionSvc:  deps.PermissionService,
		accessControl:  deps.AccessControlService,
		rateLimiter:    deps.RateLimiterService,
		sequenceSvc:    deps.SequenceService,
		auditSvc:       deps.AuditService,
		healthCheckers: deps.HealthCheckers,
		gatherer:       gatherer,
		now:            time.Now,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.IdentityProvider,
			deps.PermissionService,
			deps.RateLimiterService,
			deps.Metrics,
			serverConfig.Development,
			logger,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// newIPExtractor keys anonymous callers by the peer address unless the peer is a trusted proxy.
func newIPExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{echo.TrustLoopback(false), echo.TrustLinkLocal(false), echo.TrustPrivateNet(false)}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
