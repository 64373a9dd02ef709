package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	config "github.com/sfsc/platform-governance/configs"
	"github.com/sfsc/platform-governance/internal/application/services"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/db"
	"github.com/sfsc/platform-governance/internal/infrastructure/health"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver"
	"github.com/sfsc/platform-governance/internal/infrastructure/memory"
	"github.com/sfsc/platform-governance/internal/infrastructure/metrics"
	"github.com/sfsc/platform-governance/internal/infrastructure/redis"
	"github.com/sfsc/platform-governance/internal/infrastructure/repositories"
	"github.com/sfsc/platform-governance/internal/infrastructure/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info("Starting platform governance service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		database       *db.Database
		redisClient    *goredis.Client
		healthCheckers []ports.HealthChecker
	)

	if cfg.Database.DSN != "" {
		database, err = db.Open(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database: ", err)
		}
		defer database.Close()
		logger.Info("Connected to database successfully")

		if err := database.Migrate(cfg.Database.MigrationsPath, logger); err != nil {
			logger.Fatal("Failed to run migrations: ", err)
		}
		healthCheckers = append(healthCheckers, health.NewDBHealthChecker(database))
	}

	if cfg.UsesRedis() {
		redisClient, err = redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis: ", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
	}

	var auditRepo ports.AuditRepository = memory.NewAuditRepository()
	if database != nil {
		auditRepo = repositories.NewAuditRepository(database, logger)
	}

	var rateLimitStore ports.RateLimitStore = memory.NewRateLimitStore()
	if cfg.RateLimit.Backend == config.BackendRedis {
		rateLimitStore = repositories.NewRateLimitRedisRepository(redisClient, cfg.RateLimit.KeyPrefix)
	}

	var sequenceStore ports.SequenceStore
	switch cfg.Sequence.Backend {
	case config.BackendPostgres:
		sequenceStore = repositories.NewSequenceRepository(database, logger)
	case config.BackendRedis:
		sequenceStore = repositories.NewSequenceRedisRepository(redisClient, cfg.Sequence.KeyPrefix)
	default:
		logger.Warn("Sequence backend is in-memory; codes will restart from the floor after a restart")
		sequenceStore = memory.NewSequenceStore()
	}
	healthCheckers = append(healthCheckers, health.NewSequenceStoreChecker(sequenceStore))
	logger.WithFields(logrus.Fields{"rate_limit_backend": cfg.RateLimit.Backend, "sequence_backend": cfg.Sequence.Backend}).Info("storage backends selected")

	prom := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	permissionService := services.NewPermissionService(logger)
	accessControlService := services.NewAccessControlService(permissionService, logger)
	auditService := services.NewAuditService(auditRepo, logger)
	identityService := services.NewIdentityService(services.IdentityConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitStore, permissionService, prom, nil, logger)
	sequenceService := services.NewSequenceService(sequenceStore, auditService, prom, &services.SequenceConfig{
		Prefix:    cfg.Sequence.Prefix,
		SubPrefix: cfg.Sequence.SubPrefix,
		Width:     cfg.Sequence.Width,
		Floor:     &cfg.Sequence.Floor,
	}, logger)

	server := httpserver.NewServer(&httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		Development:    cfg.Server.Development,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, logger, httpserver.ServerDeps{
		IdentityProvider:     identityService,
		PermissionService:    permissionService,
		AccessControlService: accessControlService,
		RateLimiterService:   rateLimiterService,
		SequenceService:      sequenceService,
		AuditService:         auditService,
		HealthCheckers:       healthCheckers,
		Metrics:              prom,
	})
	sweepInterval := cfg.RateLimit.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = rateLimiterService.Window()
	}
	sweeper := scheduler.NewSweeper(rateLimiterService, sweepInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	logger.Info("Server exited")
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
