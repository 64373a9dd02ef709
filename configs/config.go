package configs

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Sequence  SequenceConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	TLSCertFile     string        `envconfig:"TLS_CERT_FILE"`
	TLSKeyFile      string        `envconfig:"TLS_KEY_FILE"`
	Development     bool          `envconfig:"SERVER_DEVELOPMENT" default:"false"`
	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For. Empty means the peer address is used.
	TrustedProxies []string `envconfig:"SERVER_TRUSTED_PROXIES"`
}

type DatabaseConfig struct {
	// DSN is optional; without it audit logs stay in memory and the postgres sequence backend is unavailable.
	DSN            string `envconfig:"DB_DSN"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
	// Connection pool settings
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"5m"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	Issuer string `envconfig:"JWT_ISSUER"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	// Pool and timeout settings
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
	PoolTimeout  time.Duration `envconfig:"REDIS_POOL_TIMEOUT" default:"4s"`
	IdleTimeout  time.Duration `envconfig:"REDIS_IDLE_TIMEOUT" default:"5m"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // json or text
}

type RateLimitConfig struct {
	Backend string `envconfig:"RATE_LIMIT_BACKEND" default:"memory"`
	// SweepInterval defaults to the window length when unset.
	SweepInterval time.Duration `envconfig:"RATE_LIMIT_SWEEP_INTERVAL"`
	KeyPrefix     string        `envconfig:"RATE_LIMIT_KEY_PREFIX" default:"ratelimit"`
}

type SequenceConfig struct {
	Backend   string `envconfig:"SEQUENCE_BACKEND" default:"memory"`
	Prefix    string `envconfig:"SEQUENCE_PREFIX" default:"SF"`
	SubPrefix string `envconfig:"SEQUENCE_SUB_PREFIX" default:"SC"`
	Floor     int64  `envconfig:"SEQUENCE_FLOOR" default:"2001"`
	Width     int    `envconfig:"SEQUENCE_WIDTH" default:"4"`
	KeyPrefix string `envconfig:"SEQUENCE_KEY_PREFIX" default:"sequence"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.RateLimit.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend))
	}
	switch c.Sequence.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("SEQUENCE_BACKEND=postgres requires DB_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("SEQUENCE_BACKEND must be memory, redis or postgres, got %q", c.Sequence.Backend))
	}
	if c.RateLimit.SweepInterval < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_SWEEP_INTERVAL must not be negative"))
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Errorf("SERVER_TRUSTED_PROXIES: %w", err))
		}
	}
	if c.Sequence.Floor < 0 {
		errs = append(errs, errors.New("SEQUENCE_FLOOR must not be negative"))
	}
	if c.Sequence.Width < 1 {
		errs = append(errs, errors.New("SEQUENCE_WIDTH must be at least 1"))
	}
	return errors.Join(errs...)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.RateLimit.Backend == BackendRedis || c.Sequence.Backend == BackendRedis
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
